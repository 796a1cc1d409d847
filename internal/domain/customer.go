package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a CRM contact
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// NewCustomer creates a new customer with format validation.
// Email uniqueness depends on store state and is checked by the caller.
func NewCustomer(name, email, phone string) (*Customer, error) {
	customer := &Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now(),
	}

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	return customer, nil
}

// Validate performs format validation on the customer
func (c *Customer) Validate() error {
	if err := ValidateName("name", c.Name); err != nil {
		return err
	}
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}
	return ValidatePhone(c.Phone)
}
