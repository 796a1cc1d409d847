// Package scheduler runs background jobs on their own schedules, decoupled
// from request handling.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mrops-br/crm-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Job is a unit of scheduled work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type entry struct {
	job      Job
	schedule Schedule
	timeout  time.Duration
}

// Scheduler runs each added job in its own goroutine. A run that overruns
// delays only the next run of the same job.
type Scheduler struct {
	locker  Locker
	lockTTL time.Duration
	tracer  trace.Tracer
	logger  *slog.Logger
	now     func() time.Time

	runs     metric.Int64Counter
	duration metric.Float64Histogram

	mu      sync.Mutex
	entries []entry
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a scheduler. A nil locker defaults to an in-process one.
func New(locker Locker, lockTTL time.Duration, tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) *Scheduler {
	if locker == nil {
		locker = NewLocalLocker()
	}

	runs, _ := meter.Int64Counter(
		"crm.jobs.runs",
		metric.WithDescription("Total number of scheduled job runs"),
	)
	duration, _ := meter.Float64Histogram(
		"crm.jobs.duration",
		metric.WithDescription("Scheduled job run duration"),
		metric.WithUnit("s"),
	)

	return &Scheduler{
		locker:   locker,
		lockTTL:  lockTTL,
		tracer:   tracer,
		logger:   logger,
		now:      time.Now,
		runs:     runs,
		duration: duration,
	}
}

// Add registers job to run on schedule, each run bounded by timeout (zero
// means unbounded). Jobs must be added before Start.
func (s *Scheduler) Add(job Job, schedule Schedule, timeout time.Duration) error {
	now := s.now()
	if next := schedule.Next(now); !next.After(now) {
		return fmt.Errorf("scheduler: job %s: schedule does not advance", job.Name())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{job: job, schedule: schedule, timeout: timeout})
	return nil
}

// Start launches one goroutine per job. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, s.cancel = context.WithCancel(ctx)
	for _, e := range s.entries {
		s.wg.Add(1)
		go s.loop(ctx, e)
	}

	s.logger.InfoContext(ctx, "Scheduler started",
		slog.Int("jobs", len(s.entries)),
	)
}

// Stop cancels pending runs and waits for running jobs to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, e entry) {
	defer s.wg.Done()

	for {
		next := e.schedule.Next(s.now())
		timer := time.NewTimer(next.Sub(s.now()))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.run(ctx, e, next)
	}
}

// run executes one slot of e, provided this process wins the slot's lock
func (s *Scheduler) run(ctx context.Context, e entry, slot time.Time) {
	name := e.job.Name()
	ctx = telemetry.WithJobName(ctx, name)

	key := fmt.Sprintf("crm:jobs:%s:%d", name, slot.Unix())
	acquired, err := s.locker.TryLock(ctx, key, s.lockTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to acquire job lock",
			slog.String("error", err.Error()),
		)
		s.record(ctx, name, "failure", 0)
		return
	}
	if !acquired {
		s.logger.DebugContext(ctx, "Job slot taken by another runner")
		s.record(ctx, name, "skipped", 0)
		return
	}

	s.RunNow(ctx, e.job, e.timeout)
}

// RunNow runs job once, traced, timed and counted. Panics are recovered and
// reported as failures.
func (s *Scheduler) RunNow(ctx context.Context, job Job, timeout time.Duration) (err error) {
	name := job.Name()
	ctx = telemetry.WithJobName(ctx, name)

	ctx, span := s.tracer.Start(ctx, "job "+name,
		trace.WithAttributes(attribute.String("job.name", name)),
	)
	defer span.End()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", name, r)
		}

		result := "success"
		if err != nil {
			result = "failure"
			span.RecordError(err)
			span.SetStatus(codes.Error, "Job failed")
			s.logger.WarnContext(ctx, "Scheduled job failed",
				slog.String("error", err.Error()),
				slog.Bool("timed_out", errors.Is(err, context.DeadlineExceeded)),
			)
		} else {
			span.SetStatus(codes.Ok, "Job finished")
			s.logger.InfoContext(ctx, "Scheduled job finished",
				slog.Duration("duration", time.Since(start)),
			)
		}
		s.record(ctx, name, result, time.Since(start))
	}()

	return job.Run(ctx)
}

func (s *Scheduler) record(ctx context.Context, name, result string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("job", name),
		attribute.String("result", result),
	)
	s.runs.Add(ctx, 1, attrs)
	if result != "skipped" {
		s.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}
