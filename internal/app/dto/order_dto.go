package dto

import (
	"time"

	"github.com/mrops-br/crm-api/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest represents the request to place an order.
// A nil OrderDate means the creation instant.
type CreateOrderRequest struct {
	CustomerID string     `json:"customer_id"`
	ProductIDs []string   `json:"product_ids"`
	OrderDate  *time.Time `json:"order_date,omitempty"`
}

// OrderResponse represents the order response
type OrderResponse struct {
	ID          string             `json:"id"`
	Customer    *CustomerResponse  `json:"customer"`
	Products    []*ProductResponse `json:"products"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	OrderDate   time.Time          `json:"order_date"`
	CreatedAt   time.Time          `json:"created_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *domain.Order) *OrderResponse {
	return &OrderResponse{
		ID:          o.ID,
		Customer:    ToCustomerResponse(o.Customer),
		Products:    ToProductResponseList(o.Products),
		TotalAmount: o.TotalAmount,
		OrderDate:   o.OrderDate,
		CreatedAt:   o.CreatedAt,
	}
}

// ToOrderResponseList converts a list of domain Orders
func ToOrderResponseList(orders []*domain.Order) []*OrderResponse {
	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderResponse(o)
	}
	return responses
}
