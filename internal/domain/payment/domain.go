package payment

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
)

// PaymentDomain reconciles FuratPay payment sessions with order state.
type PaymentDomain interface {
	// Available reports whether the gateway is configured to take payments.
	Available() bool

	// ListServices returns the active payment services, served from cache when possible.
	ListServices(ctx context.Context) ([]*model.PaymentService, error)

	// SaveExtensionData stores blocks checkout data for an order until checkout consumes it.
	SaveExtensionData(ctx context.Context, orderID string, data *model.ExtensionData) error

	// CreateSession creates an invoice and payment session for the order and
	// attaches the session to it. Nothing is persisted if any upstream call fails.
	CreateSession(ctx context.Context, in model.CheckoutInput) (*model.CheckoutResult, error)

	// Resolve feeds an outcome into the session state machine. Only the first
	// terminal outcome for a session mutates the order; later ones are no-ops.
	Resolve(ctx context.Context, sessionID string, outcome model.Outcome, channel model.Channel) (*model.Resolution, error)

	// QueryStatus returns the session status, asking the provider only while
	// the session is not terminal.
	QueryStatus(ctx context.Context, sessionID string) (model.SessionStatus, error)

	// GetStatus answers a payer status poll for the order's current session.
	GetStatus(ctx context.Context, orderID, statusToken string) (*model.StatusView, error)

	// PayPage authorizes the order key and returns what the polling client needs.
	PayPage(ctx context.Context, orderID, orderKey string) (*model.PayPage, error)

	// HandleNotification verifies and applies a provider notification.
	HandleNotification(ctx context.Context, body []byte, signature string) (*model.NotificationResult, error)
}

// paymentDomain implements PaymentDomain.
type paymentDomain struct {
	provider      outbound.PaymentAPIPort
	orders        outbound.OrderStatePort
	access        outbound.OrderAccessPort
	serviceCache  outbound.ServiceCachePort
	checkoutData  outbound.CheckoutDataStorePort
	notifications outbound.NotificationLogPort
	verifier      outbound.SignatureVerifierPort
	tokens        outbound.StatusTokenPort
	publisher     outbound.EventPublisherPort
	cfg           *Config
	logger        *zap.Logger

	refresh singleflight.Group
}

// NewPaymentDomain creates a new payment domain service.
func NewPaymentDomain(
	provider outbound.PaymentAPIPort,
	orders outbound.OrderStatePort,
	access outbound.OrderAccessPort,
	serviceCache outbound.ServiceCachePort,
	checkoutData outbound.CheckoutDataStorePort,
	notifications outbound.NotificationLogPort,
	verifier outbound.SignatureVerifierPort,
	tokens outbound.StatusTokenPort,
	publisher outbound.EventPublisherPort,
	cfg *Config,
	logger *zap.Logger,
) PaymentDomain {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &paymentDomain{
		provider:      provider,
		orders:        orders,
		access:        access,
		serviceCache:  serviceCache,
		checkoutData:  checkoutData,
		notifications: notifications,
		verifier:      verifier,
		tokens:        tokens,
		publisher:     publisher,
		cfg:           cfg,
		logger:        logger.Named("payment"),
	}
}

func (d *paymentDomain) Available() bool {
	return d.provider.Configured()
}

func (d *paymentDomain) publish(ctx context.Context, event any) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Error("failed to publish event", zap.Error(err))
	}
}
