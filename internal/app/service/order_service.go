package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mrops-br/crm-api/internal/app/dto"
	"github.com/mrops-br/crm-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// OrderService handles order use cases
type OrderService struct {
	store               domain.Store
	tracer              trace.Tracer
	logger              *slog.Logger
	orderCreatedCounter metric.Int64Counter
	ops                 operations
	events              notifier
}

// NewOrderService creates a new order service
func NewOrderService(
	store domain.Store,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
	opts ...Option,
) *OrderService {
	orderCreatedCounter, _ := meter.Int64Counter(
		"crm.orders.created",
		metric.WithDescription("Total number of orders created"),
	)

	o := buildOptions(opts)

	return &OrderService{
		store:               store,
		tracer:              tracer,
		logger:              logger,
		orderCreatedCounter: orderCreatedCounter,
		ops:                 newOperations(meter, "order"),
		events:              notifier{events: o.events, logger: logger},
	}
}

// CreateOrder resolves the customer and products, computes the total and
// stores the order with its product relation in one atomic unit
func (s *OrderService) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	span.SetAttributes(
		attribute.String("customer.id", req.CustomerID),
		attribute.Int("product.requested", len(req.ProductIDs)),
	)

	s.logger.InfoContext(ctx, "Creating order",
		slog.String("customer_id", req.CustomerID),
		slog.Int("products", len(req.ProductIDs)),
	)

	order, err := s.placeOrder(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Order creation failed")
		s.logger.WarnContext(ctx, "Failed to create order",
			slog.String("error", err.Error()),
		)
		s.ops.record(ctx, "create", "failure")
		return nil, err
	}

	s.orderCreatedCounter.Add(ctx, 1)
	s.ops.record(ctx, "create", "success")
	s.events.publish(ctx, EventOrderCreated, dto.ToOrderResponse(order))

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.total_amount", order.TotalAmount.String()),
	)

	s.logger.InfoContext(ctx, "Order created successfully",
		slog.String("order_id", order.ID),
		slog.String("total_amount", order.TotalAmount.String()),
	)

	span.SetStatus(codes.Ok, "Order created successfully")
	return dto.ToOrderResponse(order), nil
}

func (s *OrderService) placeOrder(ctx context.Context, req *dto.CreateOrderRequest) (*domain.Order, error) {
	customer, err := s.store.Customers().FindByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundError("customer_id", req.CustomerID, "invalid customer ID")
		}
		return nil, err
	}

	ids := req.ProductIDs
	if len(ids) == 0 {
		return nil, domain.NotFoundError("product_ids", "", "at least one product is required")
	}

	products, err := s.store.Products().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.NotFoundError("product_ids", strings.Join(ids, ","), "invalid product IDs")
	}
	// A repeated id resolves once, so it counts as unresolved too
	if len(products) != len(ids) {
		return nil, domain.PartialNotFoundError("product_ids", strings.Join(unresolvedIDs(ids, products), ","),
			"one or more product IDs are invalid")
	}

	var orderDate time.Time
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}
	order := domain.NewOrder(customer, products, orderDate)

	err = s.store.RunAtomic(ctx, func(tx domain.Store) error {
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		return tx.Orders().SetProducts(ctx, order, products)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrders retrieves all orders
func (s *OrderService) ListOrders(ctx context.Context) ([]*dto.OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	orders, err := s.store.Orders().FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve orders")
		s.logger.ErrorContext(ctx, "Failed to list orders",
			slog.String("error", err.Error()),
		)
		s.ops.record(ctx, "list", "failure")
		return nil, err
	}

	span.SetAttributes(attribute.Int("order.count", len(orders)))
	s.ops.record(ctx, "list", "success")

	span.SetStatus(codes.Ok, "Orders listed successfully")
	return dto.ToOrderResponseList(orders), nil
}

// unresolvedIDs returns the ids with no matching product and every repeat
// of an id already seen
func unresolvedIDs(ids []string, found []*domain.Product) []string {
	present := make(map[string]struct{}, len(found))
	for _, p := range found {
		present[p.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(ids))
	var unresolved []string
	for _, id := range ids {
		_, ok := present[id]
		_, dup := seen[id]
		if !ok || dup {
			unresolved = append(unresolved, id)
		}
		seen[id] = struct{}{}
	}
	return unresolved
}
