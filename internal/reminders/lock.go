package reminders

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const scanLockKey = "chefly:reminders:scan-lock"

// ScanLock serializes scans across service instances so a fleet does not
// hammer the same reminder window from every replica.
type ScanLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type redisScanLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisScanLock builds a lease on a single Redis key. The TTL bounds
// how long a crashed holder can block other instances.
func NewRedisScanLock(client *redis.Client, ttl time.Duration) ScanLock {
	return &redisScanLock{client: client, ttl: ttl}
}

func (l *redisScanLock) Acquire(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, scanLockKey, "1", l.ttl).Result()
}

func (l *redisScanLock) Release(ctx context.Context) error {
	return l.client.Del(ctx, scanLockKey).Err()
}

// NopScanLock always grants the lease. Used in single-instance setups
// and tests.
type NopScanLock struct{}

func (NopScanLock) Acquire(context.Context) (bool, error) { return true, nil }
func (NopScanLock) Release(context.Context) error         { return nil }
