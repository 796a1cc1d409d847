package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/mrops-br/crm-api/internal/app/service"
	"github.com/mrops-br/crm-api/internal/domain"
	"github.com/mrops-br/crm-api/internal/heartbeat"
	"github.com/mrops-br/crm-api/internal/infrastructure/config"
	"github.com/mrops-br/crm-api/internal/infrastructure/events"
	"github.com/mrops-br/crm-api/internal/infrastructure/graphqlclient"
	"github.com/mrops-br/crm-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/crm-api/internal/infrastructure/repository/sqlstore"
	"github.com/mrops-br/crm-api/internal/report"
	"github.com/mrops-br/crm-api/internal/scheduler"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "crm-api"

// openStore selects the record store named by cfg.Driver
func openStore(cfg *config.StoreConfig, tracer trace.Tracer, logger *slog.Logger) (domain.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		logger.Info("Using in-memory record store")
		return memory.NewStore(tracer, logger), nil
	case sqlstore.DriverSQLite, sqlstore.DriverPostgres:
		return sqlstore.Open(cfg.Driver, cfg.DSN, tracer, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// serviceOptions connects the event publisher when one is configured. The
// returned close func is never nil.
func serviceOptions(cfg *config.EventsConfig, tracer trace.Tracer, logger *slog.Logger) ([]service.Option, func(), error) {
	if cfg.AMQPURL == "" {
		return nil, func() {}, nil
	}

	pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.Exchange, tracer, logger)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := pub.Close(); err != nil {
			logger.Error("Error closing event publisher", slog.String("error", err.Error()))
		}
	}
	return []service.Option{service.WithEvents(pub)}, closeFn, nil
}

func newHeartbeatJob(cfg *config.HeartbeatConfig, api *config.GraphQLConfig, tracer trace.Tracer, logger *slog.Logger) *heartbeat.Job {
	return heartbeat.NewJob(graphqlclient.New(api.Endpoint), cfg.LogFile, cfg.Timeout, tracer, logger)
}

func newReportJob(cfg *config.ReportConfig, api *config.GraphQLConfig, tracer trace.Tracer, logger *slog.Logger) (*report.Job, *time.Location, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("report timezone %q: %w", cfg.Timezone, err)
	}
	job := report.NewJob(graphqlclient.New(api.Endpoint), cfg.LogFile, cfg.Currency, loc, cfg.Timeout, tracer, logger)
	return job, loc, nil
}

// newLocker shares job slots through redis when configured, so only one
// replica runs each slot
func newLocker(ctx context.Context, cfg *config.SchedulerConfig, logger *slog.Logger) (scheduler.Locker, func(), error) {
	if cfg.RedisAddr == "" {
		return scheduler.NewLocalLocker(), func() {}, nil
	}

	owner, _ := os.Hostname()
	locker, err := scheduler.NewRedisLocker(ctx, cfg.RedisAddr, owner)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Scheduler coordinating through redis",
		slog.String("addr", cfg.RedisAddr),
	)
	closeFn := func() {
		if err := locker.Close(); err != nil {
			logger.Error("Error closing redis locker", slog.String("error", err.Error()))
		}
	}
	return locker, closeFn, nil
}
