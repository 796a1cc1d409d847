package sqlstore

import (
	"context"
	"fmt"

	"github.com/mrops-br/crm-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm/clause"
)

type orderRepository struct {
	store *Store
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	ctx, span := r.store.tracer.Start(ctx, "OrderRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("customer.id", order.CustomerID),
	)

	err := r.store.conn(ctx).Omit(clause.Associations).Create(toOrderModel(order)).Error
	if err != nil {
		return fail(span, translate(err, "customer_id", order.CustomerID), "Failed to insert order")
	}

	span.SetStatus(codes.Ok, "Order created successfully")
	return nil
}

func (r *orderRepository) SetProducts(ctx context.Context, order *domain.Order, products []*domain.Product) error {
	ctx, span := r.store.tracer.Start(ctx, "OrderRepository.SetProducts")
	defer span.End()

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Int("product.count", len(products)),
	)

	models := make([]productModel, len(products))
	for i, p := range products {
		models[i] = *toProductModel(p)
	}

	err := r.store.conn(ctx).Model(&orderModel{ID: order.ID}).Association("Products").Replace(models)
	if err != nil {
		return fail(span, translate(err, "product_ids", order.ID), "Failed to set order products")
	}

	span.SetStatus(codes.Ok, "Order products set")
	return nil
}

func (r *orderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := r.store.tracer.Start(ctx, "OrderRepository.FindAll")
	defer span.End()

	var models []orderModel
	err := r.store.conn(ctx).Preload("Customer").Preload("Products").Find(&models).Error
	if err != nil {
		return nil, fail(span, fmt.Errorf("sqlstore: list orders: %w", err), "Failed to list orders")
	}

	orders := make([]*domain.Order, len(models))
	for i := range models {
		orders[i] = models[i].toDomain()
	}

	span.SetAttributes(attribute.Int("order.count", len(orders)))
	span.SetStatus(codes.Ok, "Orders retrieved successfully")
	return orders, nil
}
