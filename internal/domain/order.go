package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a purchase by one customer of one or more products.
// It is never modified after creation.
type Order struct {
	ID          string
	CustomerID  string
	Customer    *Customer
	Products    []*Product
	TotalAmount decimal.Decimal
	OrderDate   time.Time
	CreatedAt   time.Time
}

// NewOrder builds an order for resolved entities. The total is the sum of
// product prices and a zero orderDate means now.
func NewOrder(customer *Customer, products []*Product, orderDate time.Time) *Order {
	now := time.Now()
	if orderDate.IsZero() {
		orderDate = now
	}

	return &Order{
		ID:          uuid.New().String(),
		CustomerID:  customer.ID,
		Customer:    customer,
		Products:    products,
		TotalAmount: SumPrices(products),
		OrderDate:   orderDate,
		CreatedAt:   now,
	}
}

// SumPrices adds up the prices of products
func SumPrices(products []*Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return total
}

// ProductIDs returns the ids of the order's products
func (o *Order) ProductIDs() []string {
	ids := make([]string, len(o.Products))
	for i, p := range o.Products {
		ids[i] = p.ID
	}
	return ids
}
