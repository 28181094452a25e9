package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryGuard is an in-process sync guard with expiring holds. Suitable for
// single-replica deployments; multi-replica setups should use the Redis
// guard instead.
type MemoryGuard struct {
	mu    sync.Mutex
	ttl   time.Duration
	holds map[string]time.Time
}

// NewMemoryGuard creates an in-memory guard whose holds expire after ttl
func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	guard := &MemoryGuard{
		ttl:   ttl,
		holds: make(map[string]time.Time),
	}

	// Start cleanup goroutine to remove expired holds
	go guard.cleanupExpired()

	return guard
}

// Acquire takes the hold for key if it is free or expired.
func (g *MemoryGuard) Acquire(ctx context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if expiry, held := g.holds[key]; held && time.Now().Before(expiry) {
		return false, nil
	}
	g.holds[key] = time.Now().Add(g.ttl)
	return true, nil
}

// Release frees the hold for key.
func (g *MemoryGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.holds, key)
	return nil
}

// cleanupExpired periodically removes expired holds
func (g *MemoryGuard) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		g.mu.Lock()
		now := time.Now()
		for key, expiry := range g.holds {
			if now.After(expiry) {
				delete(g.holds, key)
			}
		}
		g.mu.Unlock()
	}
}
