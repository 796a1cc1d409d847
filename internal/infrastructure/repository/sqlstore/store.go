// Package sqlstore implements domain.Store on a relational database through GORM.
// SQLite and PostgreSQL are supported.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrops-br/crm-api/internal/domain"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is the GORM implementation of domain.Store
type Store struct {
	db     *gorm.DB
	inTx   bool
	tracer trace.Tracer
	logger *slog.Logger
}

// Open connects to the database and migrates the schema
//
//	store, err := sqlstore.Open(sqlstore.DriverSQLite, "crm.db?_foreign_keys=on", tracer, logger)
func Open(driver, dsn string, tracer trace.Tracer, log *slog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlstore: access pool: %w", err)
		}
		// SQLite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&customerModel{}, &productModel{}, &orderModel{}); err != nil {
		return nil, fmt.Errorf("sqlstore: migrate schema: %w", err)
	}

	log.Info("Record store opened",
		slog.String("driver", driver),
	)

	return &Store{db: db, tracer: tracer, logger: log}, nil
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

// RunAtomic runs fn inside a database transaction
func (s *Store) RunAtomic(ctx context.Context, fn func(tx domain.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	ctx, span := s.tracer.Start(ctx, "SQLStore.RunAtomic")
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, inTx: true, tracer: s.tracer, logger: s.logger})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Transaction rolled back")
		return err
	}

	span.SetStatus(codes.Ok, "Transaction committed")
	return nil
}

// Close releases the connection pool
func (s *Store) Close() error {
	if s.inTx {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate maps driver level failures onto domain error kinds
func translate(err error, field, value string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ConflictError(field, value, "already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.NotFoundError(field, value, "referenced record not found")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFoundError(field, value, "not found")
	default:
		return err
	}
}

func fail(span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}
