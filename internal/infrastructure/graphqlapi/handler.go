package graphqlapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/mrops-br/crm-api/internal/infrastructure/http/response"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Request is the standard GraphQL-over-HTTP request body
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	OperationName string                 `json:"operationName,omitempty"`
}

// Handler executes GraphQL requests against the CRM schema
type Handler struct {
	schema graphql.Schema
	logger *slog.Logger
}

// NewHandler creates a new GraphQL handler
func NewHandler(schema graphql.Schema, logger *slog.Logger) *Handler {
	return &Handler{
		schema: schema,
		logger: logger,
	}
}

// ServeHTTP handles POST /graphql with a JSON body, and GET /graphql?query=...
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	switch r.Method {
	case http.MethodGet:
		req.Query = r.URL.Query().Get("query")
		req.OperationName = r.URL.Query().Get("operationName")
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to decode GraphQL request",
				slog.String("error", err.Error()),
			)
			response.Error(w, http.StatusBadRequest, err)
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result := h.Execute(r.Context(), &req)
	response.JSON(w, http.StatusOK, result)
}

// Execute runs a single GraphQL operation in the request's context
func (h *Handler) Execute(ctx context.Context, req *Request) *graphql.Result {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("graphql.operation.name", req.OperationName))

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	if result.HasErrors() {
		for _, e := range result.Errors {
			h.logger.WarnContext(ctx, "GraphQL operation returned error",
				slog.String("operation", req.OperationName),
				slog.String("error", e.Message),
			)
		}
	}

	return result
}
