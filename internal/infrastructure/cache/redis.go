package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisGuard is a sync guard backed by Redis SET NX, for deployments with
// more than one replica sharing the same store.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard creates a Redis-backed guard whose holds expire after ttl
func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

// Acquire takes the hold for key if no other replica owns it.
func (g *RedisGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, guardKey(key), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire sync guard %s: %w", key, err)
	}
	return ok, nil
}

// Release frees the hold for key.
func (g *RedisGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, guardKey(key)).Err(); err != nil {
		return fmt.Errorf("release sync guard %s: %w", key, err)
	}
	return nil
}

func guardKey(key string) string {
	return "voicedesk:sync:" + key
}
