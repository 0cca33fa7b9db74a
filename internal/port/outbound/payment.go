package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/furatpay/gateway/internal/model"
)

// Provider errors returned by PaymentAPIPort implementations.
var (
	// ErrProviderAuth is returned when the provider rejects the configured credentials.
	ErrProviderAuth = errors.New("provider rejected credentials")

	// ErrProviderUnavailable is returned on network failures, 5xx responses
	// or while the circuit breaker is open.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderRejected is returned when the provider refuses the request data.
	ErrProviderRejected = errors.New("provider rejected request")

	// ErrProviderNotConfigured is returned when api_url or api_key is missing.
	ErrProviderNotConfigured = errors.New("provider not configured")
)

// PaymentAPIPort defines the operations of the remote payment provider.
type PaymentAPIPort interface {
	// Configured reports whether api_url and api_key are set.
	Configured() bool

	// ListServices returns the payment services in provider order.
	ListServices(ctx context.Context) ([]*model.PaymentService, error)

	// CreateInvoice creates an invoice for the order snapshot and returns its ID.
	CreateInvoice(ctx context.Context, order model.OrderSnapshot) (string, error)

	// CreatePaymentSession creates a payer-facing session for an invoice and service.
	CreatePaymentSession(ctx context.Context, invoiceID, serviceID string) (*model.ProviderSession, error)

	// QueryStatus reads the current outcome of a session. It has no side effects.
	QueryStatus(ctx context.Context, sessionID string) (model.Outcome, error)
}

// SignatureVerifierPort authenticates inbound notifications.
type SignatureVerifierPort interface {
	// Verify returns true only if signature is a valid signature of payload.
	Verify(payload []byte, signature string) bool
}

// ErrInvalidStatusToken is returned when a status token is missing, expired,
// or bound to a different order.
var ErrInvalidStatusToken = errors.New("invalid status token")

// StatusTokenPort issues and checks the anti-forgery token required by status polls.
type StatusTokenPort interface {
	// Issue returns a token bound to orderID and its expiry.
	Issue(orderID string) (string, time.Time, error)

	// Verify checks that token is valid for orderID.
	Verify(token, orderID string) error
}

// NotificationLogPort records verified provider notifications.
type NotificationLogPort interface {
	// Record stores the notification. It returns false if the same provider
	// event was recorded and resolved before. An event recorded earlier whose
	// resolution never completed returns true so it can be processed again.
	Record(ctx context.Context, n *model.PaymentNotification) (bool, error)

	// MarkResolved stores the result of resolving a recorded notification.
	MarkResolved(ctx context.Context, n *model.PaymentNotification) error
}
