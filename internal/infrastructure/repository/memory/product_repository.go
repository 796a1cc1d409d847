package memory

import (
	"context"
	"log/slog"

	"github.com/mrops-br/crm-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type productRepository struct {
	store *Store
}

// Create stores a new product
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.store.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)

	unlock := r.store.writeLock()
	defer unlock()

	r.store.data.products[product.ID] = product

	r.store.logger.DebugContext(ctx, "Product created in repository",
		slog.String("product_id", product.ID),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	_, span := r.store.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	unlock := r.store.readLock()
	defer unlock()

	product, exists := r.store.data.products[id]
	if !exists {
		span.SetStatus(codes.Error, "Product not found")
		return nil, domain.NotFoundError("product_id", id, "product not found")
	}

	span.SetStatus(codes.Ok, "Product found")
	return product, nil
}

// FindByIDs retrieves the products whose IDs are in ids
func (r *productRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	_, span := r.store.tracer.Start(ctx, "ProductRepository.FindByIDs")
	defer span.End()

	unlock := r.store.readLock()
	defer unlock()

	seen := make(map[string]struct{}, len(ids))
	products := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if product, ok := r.store.data.products[id]; ok {
			products = append(products, product)
		}
	}

	span.SetAttributes(
		attribute.Int("product.requested", len(ids)),
		attribute.Int("product.count", len(products)),
	)
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// FindAll retrieves all products
func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	_, span := r.store.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	unlock := r.store.readLock()
	defer unlock()

	products := make([]*domain.Product, 0, len(r.store.data.products))
	for _, product := range r.store.data.products {
		products = append(products, product)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}
