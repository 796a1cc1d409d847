package domain

import (
	"context"
)

// CustomerRepository defines the contract for customer storage
type CustomerRepository interface {
	// Create fails with ErrConflict when the email is already stored
	Create(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	FindAll(ctx context.Context) ([]*Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ProductRepository defines the contract for product storage
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	// FindByIDs returns the products matching ids. Missing ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
}

// OrderRepository defines the contract for order storage
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	// SetProducts replaces the product relation of a stored order
	SetProducts(ctx context.Context, order *Order, products []*Product) error
	FindAll(ctx context.Context) ([]*Order, error)
}

// Store is the record store shared by all services
type Store interface {
	Customers() CustomerRepository
	Products() ProductRepository
	Orders() OrderRepository

	// RunAtomic runs fn against a transactional view of the store.
	// All writes made through that view commit together or not at all.
	RunAtomic(ctx context.Context, fn func(tx Store) error) error

	Close() error
}
