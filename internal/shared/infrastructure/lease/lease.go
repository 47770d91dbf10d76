// Package lease provides short-lived exclusive leases used to serialize
// guard-then-act sequences across concurrent triggers.
package lease

import (
	"context"
	"time"
)

// Store grants short-lived exclusive ownership of a key. Acquire returns
// false when another holder owns the key; leases expire after their TTL
// so a crashed holder cannot wedge a key forever.
type Store interface {
	// Acquire attempts to take the lease. Returns true when the caller
	// now holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives the lease back before its TTL elapses.
	Release(ctx context.Context, key string) error
}
