package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker grants at most one holder per key until the ttl expires. The
// scheduler takes one lock per job slot so replicas sharing a Locker run
// each slot once.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// LocalLocker is an in-process Locker for single-replica deployments
type LocalLocker struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

// NewLocalLocker creates an in-process locker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, exp := range l.expires {
		if !exp.After(now) {
			delete(l.expires, k)
		}
	}

	if _, held := l.expires[key]; held {
		return false, nil
	}
	l.expires[key] = now.Add(ttl)
	return true, nil
}

// RedisLocker coordinates replicas through SET NX with expiry
type RedisLocker struct {
	client *redis.Client
	owner  string
}

// NewRedisLocker connects to addr and verifies the connection. owner is
// stored as the lock value for troubleshooting.
func NewRedisLocker(ctx context.Context, addr, owner string) (*RedisLocker, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return &RedisLocker{client: client, owner: owner}, nil
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, l.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	return ok, nil
}

// Close releases the redis connection pool
func (l *RedisLocker) Close() error {
	return l.client.Close()
}
