package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
)

const (
	// RateLimitRemaining is the header for remaining requests.
	RateLimitRemaining = "X-RateLimit-Remaining"
	// RateLimitLimit is the header for the limit.
	RateLimitLimit = "X-RateLimit-Limit"
	// RetryAfter is the header for retry time.
	RetryAfter = "Retry-After"
)

// RateLimitConfig holds rate limit configuration.
type RateLimitConfig struct {
	// Name prefixes every limiter key so endpoints do not share buckets.
	Name string
	// Limit is the maximum number of requests.
	Limit int
	// Window is the time window.
	Window time.Duration
	// KeyFunc generates the rate limit key from request.
	// Default uses client IP.
	KeyFunc func(*gin.Context) string
	// Logger receives limiter backend errors. Optional.
	Logger *zap.Logger
}

// RateLimit returns a middleware that limits requests using the given limiter.
// Limiter errors fail open.
func RateLimit(limiter outbound.RateLimiterPort, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string {
			return c.ClientIP()
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if limiter == nil || cfg.Limit <= 0 {
			c.Next()
			return
		}

		key := cfg.Name + ":" + cfg.KeyFunc(c)
		ctx := c.Request.Context()

		allowed, err := limiter.Allow(ctx, key, cfg.Limit, cfg.Window)
		if err != nil {
			cfg.Logger.Warn("rate limiter unavailable",
				zap.String("limiter", cfg.Name),
				zap.Error(err),
			)
			c.Next()
			return
		}

		remaining, err := limiter.GetRemaining(ctx, key, cfg.Limit, cfg.Window)
		if err == nil {
			c.Header(RateLimitRemaining, strconv.Itoa(remaining))
		}
		c.Header(RateLimitLimit, strconv.Itoa(cfg.Limit))

		if !allowed {
			c.Header(RetryAfter, strconv.Itoa(int(cfg.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Code:    "rate_limited",
				Message: "too many requests, please try again later",
			})
			return
		}

		c.Next()
	}
}

// RateLimitByIP returns a rate limiter that limits by client IP.
func RateLimitByIP(limiter outbound.RateLimiterPort, name string, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return RateLimit(limiter, RateLimitConfig{
		Name:   name,
		Limit:  limit,
		Window: window,
		Logger: logger,
	})
}

// RateLimitByParam returns a rate limiter keyed by a route parameter and client IP.
func RateLimitByParam(limiter outbound.RateLimiterPort, name, param string, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return RateLimit(limiter, RateLimitConfig{
		Name:   name,
		Limit:  limit,
		Window: window,
		Logger: logger,
		KeyFunc: func(c *gin.Context) string {
			return c.Param(param) + ":" + c.ClientIP()
		},
	})
}
