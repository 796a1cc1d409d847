// Package report writes the weekly CRM summary of customers, orders and revenue.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrops-br/crm-api/internal/logfile"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Name identifies the report in schedules, metrics and logs
const Name = "crm_report"

const (
	timestampLayout = "2006-01-02 15:04:05"
	snapshotQuery   = `query { customers { id } orders { totalAmount } }`
)

// Querier runs a GraphQL operation and decodes its data into out
type Querier interface {
	Execute(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error
}

// Summary is one report
type Summary struct {
	At        time.Time
	Customers int
	Orders    int
	Revenue   decimal.Decimal
}

// Line renders the summary as a report log line, without the newline
func (s Summary) Line(currency string) string {
	return fmt.Sprintf("%s - Report: %d customers, %d orders, %s%s revenue",
		s.At.Format(timestampLayout), s.Customers, s.Orders, currency, s.Revenue.StringFixed(2))
}

type snapshot struct {
	Customers []struct {
		ID string `json:"id"`
	} `json:"customers"`
	Orders []struct {
		TotalAmount float64 `json:"totalAmount"`
	} `json:"orders"`
}

// Job queries the API and appends the summary to the report log
type Job struct {
	querier  Querier
	logFile  string
	currency string
	location *time.Location
	timeout  time.Duration
	now      func() time.Time
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewJob creates a report job. Timestamps are rendered in location.
func NewJob(
	querier Querier,
	logFile, currency string,
	location *time.Location,
	timeout time.Duration,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Job {
	return &Job{
		querier:  querier,
		logFile:  logFile,
		currency: currency,
		location: location,
		timeout:  timeout,
		now:      time.Now,
		tracer:   tracer,
		logger:   logger,
	}
}

// Name implements scheduler.Job
func (j *Job) Name() string {
	return Name
}

// Generate queries the API and builds the summary
func (j *Job) Generate(ctx context.Context) (Summary, error) {
	ctx, span := j.tracer.Start(ctx, "Report.Generate")
	defer span.End()

	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	var snap snapshot
	if err := j.querier.Execute(ctx, snapshotQuery, nil, &snap); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Snapshot query failed")
		return Summary{}, fmt.Errorf("query snapshot: %w", err)
	}

	revenue := decimal.Zero
	for _, o := range snap.Orders {
		revenue = revenue.Add(decimal.NewFromFloat(o.TotalAmount))
	}

	summary := Summary{
		At:        j.now().In(j.location),
		Customers: len(snap.Customers),
		Orders:    len(snap.Orders),
		Revenue:   revenue,
	}

	span.SetAttributes(
		attribute.Int("report.customers", summary.Customers),
		attribute.Int("report.orders", summary.Orders),
		attribute.String("report.revenue", summary.Revenue.String()),
	)
	span.SetStatus(codes.Ok, "Report generated")
	return summary, nil
}

// Run generates the summary and appends it to the report log. Failures are
// logged and returned to the caller; nothing is written for a failed query.
func (j *Job) Run(ctx context.Context) error {
	summary, err := j.Generate(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "CRM report generation failed",
			slog.String("error", err.Error()),
		)
		return err
	}

	line := summary.Line(j.currency)
	if err := logfile.Append(j.logFile, line); err != nil {
		j.logger.ErrorContext(ctx, "Failed to write CRM report",
			slog.String("log_file", j.logFile),
			slog.String("error", err.Error()),
		)
		return err
	}

	j.logger.InfoContext(ctx, "Weekly CRM report generated",
		slog.Int("customers", summary.Customers),
		slog.Int("orders", summary.Orders),
		slog.String("revenue", summary.Revenue.StringFixed(2)),
	)
	return nil
}
