package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/furatpay/gateway/internal/model"
)

var (
	// ErrSessionNotFound is returned when no order carries the given session.
	ErrSessionNotFound = errors.New("payment session not found")

	// ErrOrderNotFound is returned when a write targets a missing order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderExists is returned when an order ID is already registered.
	ErrOrderExists = errors.New("order already exists")
)

// OrderStatePort is the order aggregate contract the payment core reads and mutates.
// Session records are persisted as order metadata.
type OrderStatePort interface {
	// Create stores a new order, or returns ErrOrderExists.
	Create(ctx context.Context, order *model.Order) error

	// GetOrder returns the order or nil if it does not exist.
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)

	// CurrentSession returns the latest session attached to the order, or nil.
	CurrentSession(ctx context.Context, orderID string) (*model.PaymentSession, error)

	// FindSession returns the session record, or ErrSessionNotFound.
	FindSession(ctx context.Context, sessionID string) (*model.PaymentSession, error)

	// AttachSession persists the session as the order's current one and moves
	// the order to pending with note, in one unit of work.
	AttachSession(ctx context.Context, session *model.PaymentSession, note string) error

	// ResolveSession atomically moves a non-terminal session to target and, when the
	// session is the order's current one, applies the matching order transition
	// with note. A session that is already terminal is left untouched and
	// reported with Applied=false.
	ResolveSession(ctx context.Context, sessionID string, target model.SessionStatus, channel model.Channel, note string) (*model.Resolution, error)

	// TouchSession records the time of the last upstream status check.
	TouchSession(ctx context.Context, sessionID string, checkedAt time.Time) error
}

// OrderAccessPort authorizes payer access to an order by its order key.
type OrderAccessPort interface {
	// Authorize returns the order if key matches it.
	Authorize(ctx context.Context, orderID, key string) (*model.Order, error)
}
