package memory

import (
	"context"
	"log/slog"

	"github.com/mrops-br/crm-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type orderRepository struct {
	store *Store
}

// Create stores the order row. Products are attached with SetProducts.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	ctx, span := r.store.tracer.Start(ctx, "OrderRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("customer.id", order.CustomerID),
	)

	unlock := r.store.writeLock()
	defer unlock()

	d := r.store.data
	if _, ok := d.customers[order.CustomerID]; !ok {
		err := domain.NotFoundError("customer_id", order.CustomerID, "customer not found")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unknown customer")
		return err
	}

	stored := *order
	stored.Customer = nil
	stored.Products = nil
	d.orders[order.ID] = &stored

	r.store.logger.DebugContext(ctx, "Order created in repository",
		slog.String("order_id", order.ID),
	)

	span.SetStatus(codes.Ok, "Order created successfully")
	return nil
}

// SetProducts replaces the products associated with an order
func (r *orderRepository) SetProducts(ctx context.Context, order *domain.Order, products []*domain.Product) error {
	_, span := r.store.tracer.Start(ctx, "OrderRepository.SetProducts")
	defer span.End()

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Int("product.count", len(products)),
	)

	unlock := r.store.writeLock()
	defer unlock()

	d := r.store.data
	if _, ok := d.orders[order.ID]; !ok {
		return domain.NotFoundError("order_id", order.ID, "order not found")
	}

	ids := make([]string, 0, len(products))
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, ok := d.products[p.ID]; !ok {
			return domain.NotFoundError("product_ids", p.ID, "product not found")
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		ids = append(ids, p.ID)
	}
	d.orderProducts[order.ID] = ids

	span.SetStatus(codes.Ok, "Order products set")
	return nil
}

// FindAll retrieves all orders with their customer and products resolved
func (r *orderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	_, span := r.store.tracer.Start(ctx, "OrderRepository.FindAll")
	defer span.End()

	unlock := r.store.readLock()
	defer unlock()

	d := r.store.data
	orders := make([]*domain.Order, 0, len(d.orders))
	for id, stored := range d.orders {
		order := *stored
		order.Customer = d.customers[order.CustomerID]

		productIDs := d.orderProducts[id]
		order.Products = make([]*domain.Product, 0, len(productIDs))
		for _, pid := range productIDs {
			if p, ok := d.products[pid]; ok {
				order.Products = append(order.Products, p)
			}
		}

		orders = append(orders, &order)
	}

	span.SetAttributes(attribute.Int("order.count", len(orders)))
	span.SetStatus(codes.Ok, "Orders retrieved successfully")
	return orders, nil
}
