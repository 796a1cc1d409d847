package sqlstore

import (
	"context"
	"fmt"

	"github.com/mrops-br/crm-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type customerRepository struct {
	store *Store
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	ctx, span := r.store.tracer.Start(ctx, "CustomerRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("customer.id", customer.ID))

	if err := r.store.conn(ctx).Create(toCustomerModel(customer)).Error; err != nil {
		return fail(span, translate(err, "email", customer.Email), "Failed to insert customer")
	}

	span.SetStatus(codes.Ok, "Customer created successfully")
	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	ctx, span := r.store.tracer.Start(ctx, "CustomerRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("customer.id", id))

	var m customerModel
	if err := r.store.conn(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, fail(span, translate(err, "customer_id", id), "Customer not found")
	}

	span.SetStatus(codes.Ok, "Customer found")
	return m.toDomain(), nil
}

func (r *customerRepository) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	ctx, span := r.store.tracer.Start(ctx, "CustomerRepository.FindAll")
	defer span.End()

	var models []customerModel
	if err := r.store.conn(ctx).Find(&models).Error; err != nil {
		return nil, fail(span, fmt.Errorf("sqlstore: list customers: %w", err), "Failed to list customers")
	}

	customers := make([]*domain.Customer, len(models))
	for i := range models {
		customers[i] = models[i].toDomain()
	}

	span.SetAttributes(attribute.Int("customer.count", len(customers)))
	span.SetStatus(codes.Ok, "Customers retrieved successfully")
	return customers, nil
}

func (r *customerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, span := r.store.tracer.Start(ctx, "CustomerRepository.ExistsByEmail")
	defer span.End()

	var count int64
	err := r.store.conn(ctx).Model(&customerModel{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fail(span, fmt.Errorf("sqlstore: check email: %w", err), "Failed to check email")
	}

	span.SetAttributes(attribute.Bool("customer.exists", count > 0))
	return count > 0, nil
}
