package report

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type fakeQuerier struct {
	data string
	err  error
}

func (q fakeQuerier) Execute(_ context.Context, query string, _ map[string]interface{}, out interface{}) error {
	if q.err != nil {
		return q.err
	}
	return json.Unmarshal([]byte(q.data), out)
}

func newTestJob(t *testing.T, q Querier) (*Job, string) {
	t.Helper()
	lagos, err := time.LoadLocation("Africa/Lagos")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "crm_report_log.txt")
	job := NewJob(q, path, "₦", lagos, time.Second, noop.NewTracerProvider().Tracer("test"), slog.New(slog.DiscardHandler))
	job.now = func() time.Time { return time.Date(2024, 3, 4, 5, 0, 0, 0, time.UTC) }
	return job, path
}

func TestRunWritesSummary(t *testing.T) {
	job, path := newTestJob(t, fakeQuerier{data: `{
		"customers": [{"id": "1"}, {"id": "2"}, {"id": "3"}],
		"orders": [{"totalAmount": 25}, {"totalAmount": 10.1}, {"totalAmount": 0.2}]
	}`})

	require.NoError(t, job.Run(context.Background()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04 06:00:00 - Report: 3 customers, 3 orders, ₦35.30 revenue\n", string(raw))
}

func TestRunEmptyCRM(t *testing.T) {
	job, path := newTestJob(t, fakeQuerier{data: `{"customers": [], "orders": []}`})

	require.NoError(t, job.Run(context.Background()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Report: 0 customers, 0 orders, ₦0.00 revenue")
}

func TestRunQueryFailureWritesNothing(t *testing.T) {
	job, path := newTestJob(t, fakeQuerier{err: errors.New("connection refused")})

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
