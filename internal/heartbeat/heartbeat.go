// Package heartbeat periodically confirms the CRM API answers its hello query
// and records the outcome in a log file.
package heartbeat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrops-br/crm-api/internal/logfile"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Name identifies the heartbeat in schedules, metrics and logs
const Name = "heartbeat"

const timestampLayout = "02/01/2006-15:04:05"

// HelloClient is the one capability the heartbeat needs from the API
type HelloClient interface {
	Hello(ctx context.Context) (string, error)
}

// Result is the outcome of one check
type Result struct {
	At       time.Time
	Greeting string
	Err      error
}

// OK reports whether the API answered
func (r Result) OK() bool {
	return r.Err == nil
}

// Line renders the result as a heartbeat log line, without the newline
func (r Result) Line() string {
	ts := r.At.Format(timestampLayout)
	if r.Err != nil {
		return fmt.Sprintf("%s CRM is alive - GraphQL check failed: %s", ts, r.Err)
	}
	return fmt.Sprintf("%s CRM is alive - GraphQL says: %s", ts, r.Greeting)
}

// Job checks the API and appends one line per run to the heartbeat log
type Job struct {
	client  HelloClient
	logFile string
	timeout time.Duration
	now     func() time.Time
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewJob creates a heartbeat job. A zero timeout leaves the deadline to ctx.
func NewJob(client HelloClient, logFile string, timeout time.Duration, tracer trace.Tracer, logger *slog.Logger) *Job {
	return &Job{
		client:  client,
		logFile: logFile,
		timeout: timeout,
		now:     time.Now,
		tracer:  tracer,
		logger:  logger,
	}
}

// Name implements scheduler.Job
func (j *Job) Name() string {
	return Name
}

// Check calls hello once. It never fails; a failed call is captured in the Result.
func (j *Job) Check(ctx context.Context) Result {
	ctx, span := j.tracer.Start(ctx, "Heartbeat.Check")
	defer span.End()

	res := Result{At: j.now()}

	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	res.Greeting, res.Err = j.client.Hello(ctx)
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "GraphQL check failed")
		return res
	}

	span.SetAttributes(attribute.String("heartbeat.greeting", res.Greeting))
	span.SetStatus(codes.Ok, "GraphQL check succeeded")
	return res
}

// Run performs a check and appends its line to the heartbeat log. The
// returned error only reports the outcome to the caller; the line is
// written either way and a failed write is logged.
func (j *Job) Run(ctx context.Context) error {
	res := j.Check(ctx)
	line := res.Line()

	if err := logfile.Append(j.logFile, line); err != nil {
		j.logger.ErrorContext(ctx, "Failed to write heartbeat",
			slog.String("log_file", j.logFile),
			slog.String("error", err.Error()),
		)
		return err
	}

	if !res.OK() {
		j.logger.WarnContext(ctx, "Heartbeat check failed",
			slog.String("error", res.Err.Error()),
		)
		return res.Err
	}

	j.logger.DebugContext(ctx, "Heartbeat recorded",
		slog.String("line", line),
	)
	return nil
}
