package sqlstore

import (
	"context"
	"fmt"

	"github.com/mrops-br/crm-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type productRepository struct {
	store *Store
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.store.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)

	if err := r.store.conn(ctx).Create(toProductModel(product)).Error; err != nil {
		return fail(span, fmt.Errorf("sqlstore: insert product: %w", err), "Failed to insert product")
	}

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.store.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	var m productModel
	if err := r.store.conn(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, fail(span, translate(err, "product_id", id), "Product not found")
	}

	span.SetStatus(codes.Ok, "Product found")
	return m.toDomain(), nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	ctx, span := r.store.tracer.Start(ctx, "ProductRepository.FindByIDs")
	defer span.End()

	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}

	var models []productModel
	if err := r.store.conn(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fail(span, fmt.Errorf("sqlstore: find products: %w", err), "Failed to find products")
	}

	products := make([]*domain.Product, len(models))
	for i := range models {
		products[i] = models[i].toDomain()
	}

	span.SetAttributes(
		attribute.Int("product.requested", len(ids)),
		attribute.Int("product.count", len(products)),
	)
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := r.store.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	var models []productModel
	if err := r.store.conn(ctx).Find(&models).Error; err != nil {
		return nil, fail(span, fmt.Errorf("sqlstore: list products: %w", err), "Failed to list products")
	}

	products := make([]*domain.Product, len(models))
	for i := range models {
		products[i] = models[i].toDomain()
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}
