package memory

import (
	"context"
	"sync"
	"time"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
)

// ServiceCache caches the service catalog in process.
type ServiceCache struct {
	mu        sync.RWMutex
	services  []*model.PaymentService
	expiresAt time.Time
}

// NewServiceCache creates an empty cache.
func NewServiceCache() *ServiceCache {
	return &ServiceCache{}
}

func (c *ServiceCache) Get(_ context.Context) ([]*model.PaymentService, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.services == nil || time.Now().After(c.expiresAt) {
		return nil, nil
	}
	return c.services, nil
}

func (c *ServiceCache) Set(_ context.Context, services []*model.PaymentService, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.services = append([]*model.PaymentService{}, services...)
	c.expiresAt = time.Now().Add(ttl)
	return nil
}

func (c *ServiceCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.services = nil
	return nil
}

// Compile-time check
var _ outbound.ServiceCachePort = (*ServiceCache)(nil)
