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

const checkoutDataKeyPrefix = "furatpay:checkout:"

// checkoutDataAdapter implements outbound.CheckoutDataStorePort.
type checkoutDataAdapter struct {
	client *redis.Client
}

// NewCheckoutDataAdapter creates a new extension data store adapter.
func NewCheckoutDataAdapter(client *redis.Client) outbound.CheckoutDataStorePort {
	return &checkoutDataAdapter{client: client}
}

func (a *checkoutDataAdapter) Put(ctx context.Context, orderID string, data *model.ExtensionData, ttl time.Duration) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal extension data: %w", err)
	}
	return a.client.Set(ctx, checkoutDataKeyPrefix+orderID, b, ttl).Err()
}

func (a *checkoutDataAdapter) Get(ctx context.Context, orderID string) (*model.ExtensionData, error) {
	b, err := a.client.Get(ctx, checkoutDataKeyPrefix+orderID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var data model.ExtensionData
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("unmarshal extension data: %w", err)
	}
	return &data, nil
}

func (a *checkoutDataAdapter) Delete(ctx context.Context, orderID string) error {
	return a.client.Del(ctx, checkoutDataKeyPrefix+orderID).Err()
}

// Compile-time check
var _ outbound.CheckoutDataStorePort = (*checkoutDataAdapter)(nil)
