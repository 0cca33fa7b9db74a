package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/furatpay/gateway/internal/domain/payment"
	"github.com/furatpay/gateway/internal/infra/events"
	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
	"github.com/furatpay/gateway/internal/utils/metrics"
)

const serviceCacheName = "services"

// instrumentedServiceCache counts hits and misses of the service catalog cache.
type instrumentedServiceCache struct {
	next    outbound.ServiceCachePort
	metrics *metrics.Metrics
}

func newInstrumentedServiceCache(next outbound.ServiceCachePort, m *metrics.Metrics) outbound.ServiceCachePort {
	if m == nil {
		return next
	}
	return &instrumentedServiceCache{next: next, metrics: m}
}

func (c *instrumentedServiceCache) Get(ctx context.Context) ([]*model.PaymentService, error) {
	services, err := c.next.Get(ctx)
	if err != nil {
		return nil, err
	}
	if services == nil {
		c.metrics.RecordCacheMiss(serviceCacheName)
	} else {
		c.metrics.RecordCacheHit(serviceCacheName)
	}
	return services, nil
}

func (c *instrumentedServiceCache) Set(ctx context.Context, services []*model.PaymentService, ttl time.Duration) error {
	return c.next.Set(ctx, services, ttl)
}

func (c *instrumentedServiceCache) Invalidate(ctx context.Context) error {
	return c.next.Invalidate(ctx)
}

// newMetricsEventHandler records payment domain events as Prometheus metrics.
func newMetricsEventHandler(m *metrics.Metrics) events.Handler {
	return events.NewHandlerFunc([]string{
		payment.EventSessionCreated,
		payment.EventSessionResolved,
		payment.EventResolutionConflict,
		payment.EventNotificationReceived,
		payment.EventStatusChecked,
	}, func(event events.Event) error {
		switch e := event.(type) {
		case *payment.SessionCreatedEvent:
			m.RecordSessionCreated(string(e.Source))
		case *payment.SessionResolvedEvent:
			m.RecordResolution(string(e.Channel), string(e.Status), e.Result)
		case *payment.ResolutionConflictEvent:
			m.RecordConflict(string(e.Channel))
		case *payment.NotificationReceivedEvent:
			m.RecordNotification(e.Result)
		case *payment.StatusCheckedEvent:
			m.RecordStatusCheck(string(e.Status))
		default:
			return fmt.Errorf("unexpected event %T", event)
		}
		return nil
	})
}

// newAuditEventHandler writes one log line per order payment outcome.
func newAuditEventHandler(logger *zap.Logger) events.Handler {
	return events.NewHandlerFunc([]string{
		payment.EventPaymentCompleted,
		payment.EventPaymentFailed,
		payment.EventResolutionConflict,
	}, func(event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.EventID().String()),
			zap.String("order_id", event.AggregateID()),
			zap.Time("occurred_at", event.OccurredAt()),
		}
		switch e := event.(type) {
		case *payment.PaymentCompletedEvent:
			logger.Info("order paid", append(fields,
				zap.String("session_id", e.SessionID),
				zap.String("channel", string(e.Channel)),
			)...)
		case *payment.PaymentFailedEvent:
			logger.Info("order payment failed", append(fields,
				zap.String("session_id", e.SessionID),
				zap.String("channel", string(e.Channel)),
			)...)
		case *payment.ResolutionConflictEvent:
			logger.Warn("conflicting payment outcome", append(fields,
				zap.String("session_id", e.SessionID),
				zap.String("kept", string(e.Kept)),
				zap.String("rejected", string(e.Rejected)),
			)...)
		default:
			return fmt.Errorf("unexpected event %T", event)
		}
		return nil
	})
}
