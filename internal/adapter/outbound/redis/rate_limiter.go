package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/furatpay/gateway/internal/port/outbound"
)

const rateLimitKeyPrefix = "furatpay:ratelimit:"

// rateLimiter implements outbound.RateLimiterPort with a sliding window log
// kept in a sorted set per key.
type rateLimiter struct {
	client *redis.Client
}

// NewRateLimiter creates a new rate limiter adapter.
func NewRateLimiter(client *redis.Client) outbound.RateLimiterPort {
	return &rateLimiter{client: client}
}

func (r *rateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := rateLimitKeyPrefix + key
	now := time.Now().UnixNano()

	count, err := r.count(ctx, fullKey, now, window)
	if err != nil {
		return false, err
	}
	if count >= int64(limit) {
		return false, nil
	}

	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, fullKey, redis.Z{Score: float64(now), Member: uuid.NewString()})
	pipe.Expire(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *rateLimiter) GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	count, err := r.count(ctx, rateLimitKeyPrefix+key, time.Now().UnixNano(), window)
	if err != nil {
		return 0, err
	}
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// count drops entries older than window and returns what is left.
func (r *rateLimiter) count(ctx context.Context, fullKey string, now int64, window time.Duration) (int64, error) {
	windowStart := now - window.Nanoseconds()

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, fullKey, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return countCmd.Val(), nil
}

// Compile-time check
var _ outbound.RateLimiterPort = (*rateLimiter)(nil)
