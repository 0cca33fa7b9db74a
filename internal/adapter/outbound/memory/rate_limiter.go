package memory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/furatpay/gateway/internal/port/outbound"
)

const visitorIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a token bucket limiter per key, used when Redis is not configured.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

// NewRateLimiter creates a rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		lastSweep: time.Now(),
	}
}

func (r *RateLimiter) get(key string, limit int, window time.Duration) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.Sub(r.lastSweep) > time.Minute {
		for k, v := range r.visitors {
			if now.Sub(v.lastSeen) > visitorIdle {
				delete(r.visitors, k)
			}
		}
		r.lastSweep = now
	}

	v, ok := r.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		r.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Allow checks if a request is allowed within rate limits.
func (r *RateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	return r.get(key, limit, window).Allow(), nil
}

// GetRemaining returns the number of whole tokens left for key.
func (r *RateLimiter) GetRemaining(_ context.Context, key string, limit int, window time.Duration) (int, error) {
	if limit <= 0 {
		return 0, nil
	}
	remaining := int(r.get(key, limit, window).Tokens())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Compile-time check
var _ outbound.RateLimiterPort = (*RateLimiter)(nil)
