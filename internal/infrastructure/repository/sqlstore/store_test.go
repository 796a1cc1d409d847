package sqlstore

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/mrops-br/crm-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "crm.db") + "?_foreign_keys=on"
	store, err := Open(DriverSQLite, dsn, noop.NewTracerProvider().Tracer("test"), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "", noop.NewTracerProvider().Tracer("test"), slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, openSQLite(t))
}

// exerciseStore runs the repository contract against a live store
func exerciseStore(t *testing.T, store *Store) {
	ctx := context.Background()

	ada, err := domain.NewCustomer("Ada", "ada@example.com", "+1-555-1234")
	require.NoError(t, err)
	require.NoError(t, store.Customers().Create(ctx, ada))

	t.Run("duplicate email conflicts", func(t *testing.T) {
		dup, err := domain.NewCustomer("Ada Again", "ada@example.com", "")
		require.NoError(t, err)

		err = store.Customers().Create(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrConflict)

		exists, err := store.Customers().ExistsByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("find customer", func(t *testing.T) {
		got, err := store.Customers().FindByID(ctx, ada.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Name)
		assert.Equal(t, "+1-555-1234", got.Phone)

		_, err = store.Customers().FindByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("atomic batch rolls back", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.RunAtomic(ctx, func(tx domain.Store) error {
			c, err := domain.NewCustomer("Rolled", "rolled@example.com", "")
			if err != nil {
				return err
			}
			if err := tx.Customers().Create(ctx, c); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		exists, err := store.Customers().ExistsByEmail(ctx, "rolled@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("orders with products", func(t *testing.T) {
		p1, err := domain.NewProduct("Pen", decimal.NewFromInt(10), 3)
		require.NoError(t, err)
		p2, err := domain.NewProduct("Book", decimal.NewFromInt(15), 0)
		require.NoError(t, err)
		require.NoError(t, store.Products().Create(ctx, p1))
		require.NoError(t, store.Products().Create(ctx, p2))

		found, err := store.Products().FindByIDs(ctx, []string{p1.ID, p2.ID, "missing"})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		orderDate := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		order := domain.NewOrder(ada, found, orderDate)

		err = store.RunAtomic(ctx, func(tx domain.Store) error {
			if err := tx.Orders().Create(ctx, order); err != nil {
				return err
			}
			return tx.Orders().SetProducts(ctx, order, found)
		})
		require.NoError(t, err)

		orders, err := store.Orders().FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 1)

		got := orders[0]
		assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(25)), got.TotalAmount.String())
		assert.ElementsMatch(t, []string{p1.ID, p2.ID}, got.ProductIDs())
		require.NotNil(t, got.Customer)
		assert.Equal(t, ada.Email, got.Customer.Email)
		assert.True(t, got.OrderDate.Equal(orderDate))
	})
}
