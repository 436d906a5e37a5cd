package queue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per key in fixed windows shared through redis,
// so every API instance enforces the same budget.
type RateLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window, now: time.Now}
}

// Limit is the number of requests allowed per window; 0 disables limiting.
func (l *RateLimiter) Limit() int { return l.limit }

func (l *RateLimiter) Window() time.Duration { return l.window }

// Allow records one request for key and reports whether it fits in the
// current window, together with the requests left.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	if l.limit <= 0 || l.window <= 0 {
		return true, l.limit, nil
	}

	windowStart := l.now().Truncate(l.window).Unix()
	redisKey := l.prefix + ":" + key + ":" + strconv.FormatInt(windowStart, 10)

	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.limit, remaining, nil
}
