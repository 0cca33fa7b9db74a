package payment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
)

func (d *paymentDomain) ListServices(ctx context.Context) ([]*model.PaymentService, error) {
	if !d.provider.Configured() {
		return nil, ErrGatewayUnavailable
	}

	if d.serviceCache != nil {
		cached, err := d.serviceCache.Get(ctx)
		if err != nil {
			d.logger.Warn("service cache read failed", zap.Error(err))
		} else if cached != nil {
			return activeServices(cached), nil
		}
	}

	// Concurrent misses share one upstream call, so it must not die with
	// the request that happened to start it.
	v, err, _ := d.refresh.Do("services", func() (any, error) {
		fetchCtx, cancel := d.detached(ctx)
		defer cancel()
		return d.fetchServices(fetchCtx)
	})
	if err != nil {
		return nil, err
	}
	return activeServices(v.([]*model.PaymentService)), nil
}

// fetchServices reads the catalog from the provider and refreshes the cache.
func (d *paymentDomain) fetchServices(ctx context.Context) ([]*model.PaymentService, error) {
	services, err := d.provider.ListServices(ctx)
	if err != nil {
		return nil, providerError("list services", err)
	}

	if d.serviceCache != nil {
		if err := d.serviceCache.Set(ctx, services, d.cfg.ServicesCacheTTL); err != nil {
			d.logger.Warn("service cache write failed", zap.Error(err))
		}
	}
	return services, nil
}

// detached returns a context that keeps ctx values but not its cancellation,
// bounded by the catalog fetch timeout.
func (d *paymentDomain) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if d.cfg.ServicesFetchTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.cfg.ServicesFetchTimeout)
}

func activeServices(services []*model.PaymentService) []*model.PaymentService {
	out := make([]*model.PaymentService, 0, len(services))
	for _, s := range services {
		if s != nil && s.IsActive() {
			out = append(out, s)
		}
	}
	return out
}

// providerError maps a provider port error onto the domain taxonomy.
func providerError(op string, err error) error {
	switch {
	case errors.Is(err, outbound.ErrProviderNotConfigured):
		return fmt.Errorf("%s: %w", op, ErrGatewayUnavailable)
	case errors.Is(err, outbound.ErrProviderAuth):
		return fmt.Errorf("%s: %w: %w", op, ErrProviderCredentials, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrProviderFailure, err)
	}
}
