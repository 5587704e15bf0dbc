package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a previously acquired distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates run ownership across replicas. Each run ID
// must be driven by exactly one process at a time because the run's oracle
// session is exclusive; the locker enforces that beyond a single process.
type DistributedLocker interface {
	// Lock acquires the lock for the given run ID, blocking until acquired
	// or the context is cancelled. The returned UnlockFunc MUST be called to
	// release the lock; the TTL bounds how long a crashed holder keeps it.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
