package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
)

const serviceCacheKey = "furatpay:services"

// serviceCacheAdapter implements outbound.ServiceCachePort.
type serviceCacheAdapter struct {
	client *redis.Client
}

// NewServiceCacheAdapter creates a new service catalog cache adapter.
func NewServiceCacheAdapter(client *redis.Client) outbound.ServiceCachePort {
	return &serviceCacheAdapter{client: client}
}

func (a *serviceCacheAdapter) Get(ctx context.Context) ([]*model.PaymentService, error) {
	data, err := a.client.Get(ctx, serviceCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var services []*model.PaymentService
	if err := json.Unmarshal(data, &services); err != nil {
		// A corrupt entry is a miss; the next Set overwrites it.
		return nil, nil
	}
	return services, nil
}

func (a *serviceCacheAdapter) Set(ctx context.Context, services []*model.PaymentService, ttl time.Duration) error {
	data, err := json.Marshal(services)
	if err != nil {
		return fmt.Errorf("marshal services: %w", err)
	}
	return a.client.Set(ctx, serviceCacheKey, data, ttl).Err()
}

func (a *serviceCacheAdapter) Invalidate(ctx context.Context) error {
	return a.client.Del(ctx, serviceCacheKey).Err()
}

// Compile-time check
var _ outbound.ServiceCachePort = (*serviceCacheAdapter)(nil)
