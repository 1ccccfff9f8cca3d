// Package lock serialises snapshot imports. Local guards a single process;
// Redis guards every instance sharing one Redis server.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/redis/go-redis/v9"
)

// ImportKey is the Redis key held while an import runs.
const ImportKey = common.AppName + ":backup:import"

// Locker grants exclusive access. Acquire never blocks waiting for a holder:
// if the lock is taken it fails with common.ErrImportInProgress.
type Locker interface {
	Acquire(ctx context.Context) (func(context.Context), error)
}

type Local struct {
	mu sync.Mutex
}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Acquire(ctx context.Context) (func(context.Context), error) {
	if !l.mu.TryLock() {
		return nil, common.ErrImportInProgress
	}
	var once sync.Once
	return func(context.Context) { once.Do(l.mu.Unlock) }, nil
}

type obtainer interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

type Redis struct {
	client obtainer
	key    string
	ttl    time.Duration
}

// NewRedis returns a Locker backed by the Redis server behind rdb. The lock
// expires after ttl even if its holder dies.
func NewRedis(rdb redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: redislock.New(rdb), key: ImportKey, ttl: ttl}
}

func (r *Redis) Acquire(ctx context.Context) (func(context.Context), error) {
	l, err := r.client.Obtain(ctx, r.key, r.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, common.ErrImportInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("obtain %s: %w", r.key, err)
	}
	return func(ctx context.Context) { _ = l.Release(ctx) }, nil
}
