package memory

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mrops-br/crm-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestStore() *Store {
	return NewStore(noop.NewTracerProvider().Tracer("test"), slog.New(slog.DiscardHandler))
}

func mustCustomer(t *testing.T, email string) *domain.Customer {
	t.Helper()
	c, err := domain.NewCustomer("Test", email, "")
	require.NoError(t, err)
	return c
}

func mustProduct(t *testing.T, price int64) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct("Item", decimal.NewFromInt(price), 1)
	require.NoError(t, err)
	return p
}

func TestCustomerRepositoryEnforcesUniqueEmail(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.Customers().Create(ctx, mustCustomer(t, "a@example.com")))

	err := store.Customers().Create(ctx, mustCustomer(t, "a@example.com"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	exists, err := store.Customers().ExistsByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	all, err := store.Customers().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRunAtomicCommitsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	err := store.RunAtomic(ctx, func(tx domain.Store) error {
		if err := tx.Customers().Create(ctx, mustCustomer(t, "one@example.com")); err != nil {
			return err
		}
		return tx.Customers().Create(ctx, mustCustomer(t, "two@example.com"))
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.RunAtomic(ctx, func(tx domain.Store) error {
		if err := tx.Customers().Create(ctx, mustCustomer(t, "three@example.com")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := store.Customers().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	exists, err := store.Customers().ExistsByEmail(ctx, "three@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunAtomicRollsBackOnDuplicateInsideBatch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	err := store.RunAtomic(ctx, func(tx domain.Store) error {
		if err := tx.Customers().Create(ctx, mustCustomer(t, "dup@example.com")); err != nil {
			return err
		}
		return tx.Customers().Create(ctx, mustCustomer(t, "dup@example.com"))
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	all, err := store.Customers().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProductFindByIDsSkipsMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	p1 := mustProduct(t, 10)
	p2 := mustProduct(t, 15)
	require.NoError(t, store.Products().Create(ctx, p1))
	require.NoError(t, store.Products().Create(ctx, p2))

	found, err := store.Products().FindByIDs(ctx, []string{p1.ID, "missing", p2.ID, p1.ID})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = store.Products().FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderRepositoryResolvesRelations(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	customer := mustCustomer(t, "buyer@example.com")
	require.NoError(t, store.Customers().Create(ctx, customer))
	p1 := mustProduct(t, 10)
	p2 := mustProduct(t, 15)
	require.NoError(t, store.Products().Create(ctx, p1))
	require.NoError(t, store.Products().Create(ctx, p2))

	order := domain.NewOrder(customer, []*domain.Product{p1, p2}, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, store.Orders().Create(ctx, order))
	require.NoError(t, store.Orders().SetProducts(ctx, order, order.Products))

	orders, err := store.Orders().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	got := orders[0]
	assert.Equal(t, customer.Email, got.Customer.Email)
	assert.ElementsMatch(t, []string{p1.ID, p2.ID}, got.ProductIDs())
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(25)))
}

func TestOrderRepositoryRejectsUnknownCustomer(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	ghost := mustCustomer(t, "ghost@example.com")
	order := domain.NewOrder(ghost, []*domain.Product{mustProduct(t, 5)}, time.Time{})

	err := store.Orders().Create(ctx, order)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
