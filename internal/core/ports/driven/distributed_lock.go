package driven

import (
	"context"
	"time"
)

// DistributedLock provides named locks across service instances. Used as the
// caller-side in-flight guard for live note sessions: one consolidation per
// note at a time. The consolidator itself does no locking.
type DistributedLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if acquired, false if already held.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release releases a named lock if held by this instance
	Release(ctx context.Context, name string) error
}
