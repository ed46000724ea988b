package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResendThrottle counts code sends per key in redis, allowing at most limit
// sends within a rolling window.
type ResendThrottle struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
}

func NewResendThrottle(client redis.UniversalClient, limit int, window time.Duration) *ResendThrottle {
	return &ResendThrottle{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (t *ResendThrottle) Allow(ctx context.Context, key string) (bool, error) {
	fullKey := "throttle:" + key

	count, err := t.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, fmt.Errorf("throttle incr failed: %w", err)
	}

	if count == 1 {
		if err := t.client.Expire(ctx, fullKey, t.window).Err(); err != nil {
			return false, fmt.Errorf("throttle expire failed: %w", err)
		}
	}

	return count <= int64(t.limit), nil
}
