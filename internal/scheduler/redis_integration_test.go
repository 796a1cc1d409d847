//go:build integration
// +build integration

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	addr, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)

	a, err := NewRedisLocker(ctx, addr, "replica-a")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	b, err := NewRedisLocker(ctx, addr, "replica-b")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	ok, err := a.TryLock(ctx, "crm:jobs:crm_report:1", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.TryLock(ctx, "crm:jobs:crm_report:1", time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	require.Eventually(t, func() bool {
		ok, err := b.TryLock(ctx, "crm:jobs:crm_report:1", time.Second)
		return err == nil && ok
	}, 5*time.Second, 100*time.Millisecond)
}
