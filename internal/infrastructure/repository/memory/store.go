package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/crm-api/internal/domain"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// data holds the stored records. Entities are immutable once stored,
// so a shallow copy of the maps is a full snapshot.
type data struct {
	customers     map[string]*domain.Customer
	emails        map[string]string
	products      map[string]*domain.Product
	orders        map[string]*domain.Order
	orderProducts map[string][]string
}

func newData() *data {
	return &data{
		customers:     make(map[string]*domain.Customer),
		emails:        make(map[string]string),
		products:      make(map[string]*domain.Product),
		orders:        make(map[string]*domain.Order),
		orderProducts: make(map[string][]string),
	}
}

func (d *data) clone() *data {
	c := &data{
		customers:     make(map[string]*domain.Customer, len(d.customers)),
		emails:        make(map[string]string, len(d.emails)),
		products:      make(map[string]*domain.Product, len(d.products)),
		orders:        make(map[string]*domain.Order, len(d.orders)),
		orderProducts: make(map[string][]string, len(d.orderProducts)),
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.emails {
		c.emails[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	for k, v := range d.orderProducts {
		c.orderProducts[k] = v
	}
	return c
}

// Store is an in-memory implementation of domain.Store.
// Transactions work on a snapshot that replaces the live data on commit.
type Store struct {
	mu     *sync.RWMutex
	data   *data
	inTx   bool
	tracer trace.Tracer
	logger *slog.Logger
}

// NewStore creates a new in-memory record store
func NewStore(tracer trace.Tracer, logger *slog.Logger) *Store {
	return &Store{
		mu:     &sync.RWMutex{},
		data:   newData(),
		tracer: tracer,
		logger: logger,
	}
}

// Customers returns the customer repository
func (s *Store) Customers() domain.CustomerRepository {
	return &customerRepository{store: s}
}

// Products returns the product repository
func (s *Store) Products() domain.ProductRepository {
	return &productRepository{store: s}
}

// Orders returns the order repository
func (s *Store) Orders() domain.OrderRepository {
	return &orderRepository{store: s}
}

// RunAtomic runs fn on a snapshot and publishes it only if fn succeeds.
// Transactions are serialized by the store's write lock.
func (s *Store) RunAtomic(ctx context.Context, fn func(tx domain.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	ctx, span := s.tracer.Start(ctx, "MemoryStore.RunAtomic")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{
		mu:     s.mu,
		data:   s.data.clone(),
		inTx:   true,
		tracer: s.tracer,
		logger: s.logger,
	}

	if err := fn(tx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Transaction rolled back")
		s.logger.DebugContext(ctx, "Transaction rolled back",
			slog.String("error", err.Error()),
		)
		return err
	}

	s.data = tx.data

	span.SetStatus(codes.Ok, "Transaction committed")
	return nil
}

// Close is a no-op for the in-memory store
func (s *Store) Close() error {
	return nil
}

func (s *Store) readLock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) writeLock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}
