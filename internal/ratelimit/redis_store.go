package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the window counters in redis so every process in a
// deployment draws from the same budget. Same window semantics as
// MemoryStore: a fixed window that starts at the first attempt and
// expires with the key.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Hit(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("incrementing counter %q: %w", key, err)
	}

	// First attempt in the window owns the expiry. INCR on a fresh key
	// never carries a TTL, so this cannot extend an existing window.
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return Decision{}, fmt.Errorf("setting window on %q: %w", key, err)
		}
	}

	if count > int64(limit) {
		ttl, err := r.client.PTTL(ctx, key).Result()
		if err != nil {
			return Decision{}, fmt.Errorf("reading window ttl on %q: %w", key, err)
		}
		if ttl < 0 {
			ttl = window
		}
		return Decision{Allowed: false, RetryAfter: ttl}, nil
	}

	return Decision{Allowed: true, Remaining: limit - int(count)}, nil
}
