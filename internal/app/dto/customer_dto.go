package dto

import (
	"time"

	"github.com/mrops-br/crm-api/internal/domain"
)

// CreateCustomerRequest represents the request to create a customer
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// BulkCreateCustomersRequest carries the records of a bulk creation
type BulkCreateCustomersRequest struct {
	Input []CreateCustomerRequest `json:"input"`
}

// CustomerResponse represents the customer response
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCustomerResponse is the result of a successful creation
type CreateCustomerResponse struct {
	Customer *CustomerResponse `json:"customer"`
	Message  string            `json:"message"`
}

// BulkCreateCustomersResponse lists the created customers and the
// per-record validation errors, both in input order
type BulkCreateCustomersResponse struct {
	Customers []*CustomerResponse `json:"customers"`
	Errors    []string            `json:"errors"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *domain.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

// ToCustomerResponseList converts a list of domain Customers
func ToCustomerResponseList(customers []*domain.Customer) []*CustomerResponse {
	responses := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = ToCustomerResponse(c)
	}
	return responses
}
