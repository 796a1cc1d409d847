package memory

import (
	"context"
	"log/slog"

	"github.com/mrops-br/crm-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type customerRepository struct {
	store *Store
}

// Create stores a new customer, enforcing email uniqueness
func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	ctx, span := r.store.tracer.Start(ctx, "CustomerRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("customer.id", customer.ID),
		attribute.String("customer.email", customer.Email),
	)

	unlock := r.store.writeLock()
	defer unlock()

	d := r.store.data
	if _, taken := d.emails[customer.Email]; taken {
		err := domain.ConflictError("email", customer.Email, "email already exists")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Duplicate email")
		return err
	}

	d.customers[customer.ID] = customer
	d.emails[customer.Email] = customer.ID

	r.store.logger.DebugContext(ctx, "Customer created in repository",
		slog.String("customer_id", customer.ID),
	)

	span.SetStatus(codes.Ok, "Customer created successfully")
	return nil
}

// FindByID retrieves a customer by ID
func (r *customerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	_, span := r.store.tracer.Start(ctx, "CustomerRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("customer.id", id))

	unlock := r.store.readLock()
	defer unlock()

	customer, exists := r.store.data.customers[id]
	if !exists {
		span.SetStatus(codes.Error, "Customer not found")
		return nil, domain.NotFoundError("customer_id", id, "customer not found")
	}

	span.SetStatus(codes.Ok, "Customer found")
	return customer, nil
}

// FindAll retrieves all customers
func (r *customerRepository) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	_, span := r.store.tracer.Start(ctx, "CustomerRepository.FindAll")
	defer span.End()

	unlock := r.store.readLock()
	defer unlock()

	customers := make([]*domain.Customer, 0, len(r.store.data.customers))
	for _, customer := range r.store.data.customers {
		customers = append(customers, customer)
	}

	span.SetAttributes(attribute.Int("customer.count", len(customers)))
	span.SetStatus(codes.Ok, "Customers retrieved successfully")
	return customers, nil
}

// ExistsByEmail reports whether a customer with the email is stored
func (r *customerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, span := r.store.tracer.Start(ctx, "CustomerRepository.ExistsByEmail")
	defer span.End()

	unlock := r.store.readLock()
	defer unlock()

	_, exists := r.store.data.emails[email]
	span.SetAttributes(attribute.Bool("customer.exists", exists))
	return exists, nil
}
