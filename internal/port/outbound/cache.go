package outbound

import (
	"context"
	"time"

	"github.com/furatpay/gateway/internal/model"
)

// ServiceCachePort caches the provider service catalog.
type ServiceCachePort interface {
	// Get returns the cached catalog, or nil on a miss.
	Get(ctx context.Context) ([]*model.PaymentService, error)

	// Set stores the catalog with TTL.
	Set(ctx context.Context, services []*model.PaymentService, ttl time.Duration) error

	// Invalidate drops the cached catalog.
	Invalidate(ctx context.Context) error
}

// CheckoutDataStorePort holds extension data between the blocks front-end
// submitting it and the checkout that consumes it.
type CheckoutDataStorePort interface {
	// Put stores data for the order with TTL.
	Put(ctx context.Context, orderID string, data *model.ExtensionData, ttl time.Duration) error

	// Get returns the data for the order, or nil if absent or expired.
	Get(ctx context.Context, orderID string) (*model.ExtensionData, error)

	// Delete removes the data for the order.
	Delete(ctx context.Context, orderID string) error
}

// RateLimiterPort defines rate limiting operations.
type RateLimiterPort interface {
	// Allow checks if a request is allowed within rate limits.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// GetRemaining returns remaining requests in window.
	GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}
