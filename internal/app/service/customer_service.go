package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrops-br/crm-api/internal/app/dto"
	"github.com/mrops-br/crm-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CustomerCreatedMessage is returned alongside a newly created customer
const CustomerCreatedMessage = "Customer created successfully"

// CustomerService handles customer use cases
type CustomerService struct {
	store                  domain.Store
	tracer                 trace.Tracer
	logger                 *slog.Logger
	customerCreatedCounter metric.Int64Counter
	ops                    operations
	events                 notifier
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	store domain.Store,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
	opts ...Option,
) *CustomerService {
	customerCreatedCounter, _ := meter.Int64Counter(
		"crm.customers.created",
		metric.WithDescription("Total number of customers created"),
	)

	o := buildOptions(opts)

	return &CustomerService{
		store:                  store,
		tracer:                 tracer,
		logger:                 logger,
		customerCreatedCounter: customerCreatedCounter,
		ops:                    newOperations(meter, "customer"),
		events:                 notifier{events: o.events, logger: logger},
	}
}

// CreateCustomer validates and stores a single customer
func (s *CustomerService) CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CreateCustomerResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.CreateCustomer")
	defer span.End()

	span.SetAttributes(attribute.String("customer.email", req.Email))

	s.logger.InfoContext(ctx, "Creating customer",
		slog.String("email", req.Email),
	)

	customer, err := s.prepare(ctx, s.store, req)
	if err == nil {
		err = s.store.Customers().Create(ctx, customer)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Customer creation failed")
		s.logger.WarnContext(ctx, "Failed to create customer",
			slog.String("error", err.Error()),
		)
		s.ops.record(ctx, "create", "failure")
		return nil, err
	}

	s.customerCreatedCounter.Add(ctx, 1)
	s.ops.record(ctx, "create", "success")
	s.events.publish(ctx, EventCustomerCreated, dto.ToCustomerResponse(customer))

	s.logger.InfoContext(ctx, "Customer created successfully",
		slog.String("customer_id", customer.ID),
	)

	span.SetStatus(codes.Ok, CustomerCreatedMessage)
	return &dto.CreateCustomerResponse{
		Customer: dto.ToCustomerResponse(customer),
		Message:  CustomerCreatedMessage,
	}, nil
}

// BulkCreateCustomers validates every record independently against the
// store as it was before the call, then inserts all valid records in one
// atomic unit. Invalid records are reported in Errors and do not block the
// others. A failure of the atomic insert fails the whole call.
func (s *CustomerService) BulkCreateCustomers(ctx context.Context, req *dto.BulkCreateCustomersRequest) (*dto.BulkCreateCustomersResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.BulkCreateCustomers")
	defer span.End()

	span.SetAttributes(attribute.Int("batch.size", len(req.Input)))

	s.logger.InfoContext(ctx, "Bulk creating customers",
		slog.Int("count", len(req.Input)),
	)

	valid := make([]*domain.Customer, 0, len(req.Input))
	errs := make([]string, 0)
	for i := range req.Input {
		customer, err := s.prepare(ctx, s.store, &req.Input[i])
		if err != nil {
			if !domain.IsValidation(err) {
				span.RecordError(err)
				span.SetStatus(codes.Error, "Bulk validation failed")
				s.ops.record(ctx, "bulk_create", "failure")
				return nil, err
			}
			errs = append(errs, fmt.Sprintf("input[%d]: %s", i, err.Error()))
			continue
		}
		valid = append(valid, customer)
	}

	err := s.store.RunAtomic(ctx, func(tx domain.Store) error {
		for _, customer := range valid {
			if err := tx.Customers().Create(ctx, customer); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bulk insert rolled back")
		s.logger.ErrorContext(ctx, "Bulk customer insert rolled back",
			slog.String("error", err.Error()),
		)
		s.ops.record(ctx, "bulk_create", "failure")
		return nil, err
	}

	s.customerCreatedCounter.Add(ctx, int64(len(valid)))
	s.ops.record(ctx, "bulk_create", "success")
	for _, customer := range valid {
		s.events.publish(ctx, EventCustomerCreated, dto.ToCustomerResponse(customer))
	}

	span.SetAttributes(
		attribute.Int("batch.created", len(valid)),
		attribute.Int("batch.rejected", len(errs)),
	)

	s.logger.InfoContext(ctx, "Bulk customer creation finished",
		slog.Int("created", len(valid)),
		slog.Int("rejected", len(errs)),
	)

	span.SetStatus(codes.Ok, "Bulk creation finished")
	return &dto.BulkCreateCustomersResponse{
		Customers: dto.ToCustomerResponseList(valid),
		Errors:    errs,
	}, nil
}

// ListCustomers retrieves all customers
func (s *CustomerService) ListCustomers(ctx context.Context) ([]*dto.CustomerResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerService.ListCustomers")
	defer span.End()

	customers, err := s.store.Customers().FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve customers")
		s.logger.ErrorContext(ctx, "Failed to list customers",
			slog.String("error", err.Error()),
		)
		s.ops.record(ctx, "list", "failure")
		return nil, err
	}

	span.SetAttributes(attribute.Int("customer.count", len(customers)))
	s.ops.record(ctx, "list", "success")

	span.SetStatus(codes.Ok, "Customers listed successfully")
	return dto.ToCustomerResponseList(customers), nil
}

// prepare runs the format checks (name, email) then uniqueness then phone,
// and builds the customer without storing it
func (s *CustomerService) prepare(ctx context.Context, store domain.Store, req *dto.CreateCustomerRequest) (*domain.Customer, error) {
	if err := domain.ValidateName("name", req.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(req.Email); err != nil {
		return nil, err
	}

	exists, err := store.Customers().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}
	if exists {
		return nil, domain.ConflictError("email", req.Email, "email already exists")
	}

	return domain.NewCustomer(req.Name, req.Email, req.Phone)
}
