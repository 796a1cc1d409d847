package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace/noop"
)

type countingJob struct {
	name string
	runs atomic.Int32
	run  func(ctx context.Context) error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.run != nil {
		return j.run(ctx)
	}
	return nil
}

func newTestScheduler(locker Locker) (*Scheduler, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	s := New(locker, time.Minute, noop.NewTracerProvider().Tracer("test"), mp.Meter("test"), slog.New(slog.DiscardHandler))
	return s, reader
}

func runCounts(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "crm.jobs.runs" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				result, _ := dp.Attributes.Value("result")
				counts[result.AsString()] += dp.Value
			}
		}
	}
	return counts
}

func TestSchedulerRunsJobsRepeatedly(t *testing.T) {
	s, _ := newTestScheduler(nil)
	job := &countingJob{name: "tick"}
	require.NoError(t, s.Add(job, Every(10*time.Millisecond), time.Second))

	s.Start(context.Background())
	require.Eventually(t, func() bool { return job.runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := job.runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, job.runs.Load())
}

func TestSlowJobDoesNotBlockOthers(t *testing.T) {
	s, _ := newTestScheduler(nil)
	slow := &countingJob{name: "slow", run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	fast := &countingJob{name: "fast"}

	require.NoError(t, s.Add(slow, Every(10*time.Millisecond), time.Hour))
	require.NoError(t, s.Add(fast, Every(10*time.Millisecond), time.Second))

	s.Start(context.Background())
	require.Eventually(t, func() bool { return fast.runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), slow.runs.Load())
}

func TestSharedLockerRunsSlotOnce(t *testing.T) {
	locker := NewLocalLocker()
	a, reader := newTestScheduler(locker)
	b, _ := newTestScheduler(locker)
	job := &countingJob{name: "crm_report"}
	e := entry{job: job, schedule: Every(time.Hour)}
	slot := time.Date(2024, 3, 4, 6, 0, 0, 0, time.UTC)

	a.run(context.Background(), e, slot)
	b.run(context.Background(), e, slot)
	a.run(context.Background(), e, slot.Add(time.Hour))

	assert.Equal(t, int32(2), job.runs.Load())
	assert.Equal(t, int64(2), runCounts(t, reader)["success"])
}

func TestRunNowTimeoutAndPanic(t *testing.T) {
	s, reader := newTestScheduler(nil)

	blocking := &countingJob{name: "blocking", run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	err := s.RunNow(context.Background(), blocking, 20*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	panicking := &countingJob{name: "panicking", run: func(context.Context) error {
		panic("boom")
	}}
	err = s.RunNow(context.Background(), panicking, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	failing := &countingJob{name: "failing", run: func(context.Context) error {
		return errors.New("nope")
	}}
	assert.Error(t, s.RunNow(context.Background(), failing, 0))

	assert.Equal(t, int64(3), runCounts(t, reader)["failure"])
}

func TestAddRejectsStalledSchedule(t *testing.T) {
	s, _ := newTestScheduler(nil)
	assert.Error(t, s.Add(&countingJob{name: "never"}, Every(0), 0))
}
