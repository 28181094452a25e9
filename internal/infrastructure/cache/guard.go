package cache

import "context"

// SyncGuard enforces at most one concurrent sync per key. Acquire returns
// false when another holder already owns the key; the TTL bounds how long a
// crashed holder can block others.
type SyncGuard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
