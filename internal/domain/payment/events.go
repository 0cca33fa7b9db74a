package payment

import (
	"github.com/furatpay/gateway/internal/infra/events"
	"github.com/furatpay/gateway/internal/model"
)

// Event types published by the payment domain.
const (
	EventSessionCreated       = "payment.session_created"
	EventSessionResolved      = "payment.session_resolved"
	EventPaymentCompleted     = "payment.completed"
	EventPaymentFailed        = "payment.failed"
	EventResolutionConflict   = "payment.resolution_conflict"
	EventNotificationReceived = "payment.notification_received"
	EventStatusChecked        = "payment.status_checked"
)

// Resolution results carried by SessionResolvedEvent.
const (
	ResultApplied    = "applied"
	ResultDuplicate  = "duplicate"
	ResultConflict   = "conflict"
	ResultSuperseded = "superseded"
)

// Notification results carried by NotificationReceivedEvent.
const (
	NotificationAccepted       = "accepted"
	NotificationReplayed       = "replayed"
	NotificationBadSignature   = "bad_signature"
	NotificationMalformed      = "malformed"
	NotificationUnknownSession = "unknown_session"
)

// SessionCreatedEvent is published when a session is attached to an order.
type SessionCreatedEvent struct {
	events.BaseEvent
	SessionID string               `json:"session_id"`
	ServiceID string               `json:"service_id"`
	Source    model.CheckoutSource `json:"source"`
}

// SessionResolvedEvent is published for every terminal outcome fed to resolve.
type SessionResolvedEvent struct {
	events.BaseEvent
	SessionID string              `json:"session_id"`
	Channel   model.Channel       `json:"channel"`
	Status    model.SessionStatus `json:"status"`
	Result    string              `json:"result"`
}

// PaymentCompletedEvent is published once when an order is paid.
type PaymentCompletedEvent struct {
	events.BaseEvent
	SessionID string        `json:"session_id"`
	Channel   model.Channel `json:"channel"`
}

// PaymentFailedEvent is published once when an order's payment fails.
type PaymentFailedEvent struct {
	events.BaseEvent
	SessionID string        `json:"session_id"`
	Channel   model.Channel `json:"channel"`
}

// ResolutionConflictEvent is published when a terminal outcome disagrees with
// the one already applied.
type ResolutionConflictEvent struct {
	events.BaseEvent
	SessionID string              `json:"session_id"`
	Channel   model.Channel       `json:"channel"`
	Kept      model.SessionStatus `json:"kept"`
	Rejected  model.SessionStatus `json:"rejected"`
}

// NotificationReceivedEvent is published for every notification request.
type NotificationReceivedEvent struct {
	events.BaseEvent
	Result string `json:"result"`
}

// StatusCheckedEvent is published for every payer status poll.
type StatusCheckedEvent struct {
	events.BaseEvent
	Status model.SessionStatus `json:"status"`
}
