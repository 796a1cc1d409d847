package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mrops-br/crm-api/internal/app/dto"
	"github.com/mrops-br/crm-api/internal/app/service"
	"github.com/mrops-br/crm-api/internal/infrastructure/http/response"
)

// CustomerHandler handles HTTP requests for customers
type CustomerHandler struct {
	service *service.CustomerService
	logger  *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(service *service.CustomerService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		logger:  logger,
	}
}

// CreateCustomer handles POST /customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	result, err := h.service.CreateCustomer(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, result)
}

// BulkCreateCustomers handles POST /customers/bulk.
// Rejected records come back in the errors list with a 200, not as a failed request.
func (h *CustomerHandler) BulkCreateCustomers(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkCreateCustomersRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	result, err := h.service.BulkCreateCustomers(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// ListCustomers handles GET /customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, customers)
}

// decode reads a JSON body into v and answers 400 when it cannot
func decode(w http.ResponseWriter, r *http.Request, logger *slog.Logger, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return false
	}
	return true
}
