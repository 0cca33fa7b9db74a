package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// SessionStatus represents the lifecycle state of a payment session.
type SessionStatus string

const (
	SessionStatusCreated   SessionStatus = "created"
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
)

// IsTerminal returns true if no further transition is permitted.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusFailed
}

// CanTransitionTo returns true if the status can move forward to target.
func (s SessionStatus) CanTransitionTo(target SessionStatus) bool {
	switch s {
	case SessionStatusCreated:
		return target == SessionStatusPending || target == SessionStatusCompleted ||
			target == SessionStatusFailed
	case SessionStatusPending:
		return target == SessionStatusCompleted || target == SessionStatusFailed
	default:
		return false
	}
}

// Outcome is a payment result as reported by the provider.
type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomePaid    Outcome = "paid"
	OutcomeFailed  Outcome = "failed"
)

// ParseOutcome parses a provider status string. Unknown values are reported as not ok.
func ParseOutcome(s string) (Outcome, bool) {
	switch Outcome(strings.ToLower(strings.TrimSpace(s))) {
	case OutcomePending:
		return OutcomePending, true
	case OutcomePaid:
		return OutcomePaid, true
	case OutcomeFailed:
		return OutcomeFailed, true
	default:
		return "", false
	}
}

// SessionStatus maps the outcome to the session status it resolves to.
func (o Outcome) SessionStatus() SessionStatus {
	switch o {
	case OutcomePaid:
		return SessionStatusCompleted
	case OutcomeFailed:
		return SessionStatusFailed
	default:
		return SessionStatusPending
	}
}

// Channel identifies which path delivered an outcome.
type Channel string

const (
	ChannelPoll         Channel = "poll"
	ChannelNotification Channel = "notification"
)

// Order metadata keys. Session records are stored under MetaSessionPrefix+sessionID;
// the flat keys mirror the order's current session.
const (
	MetaSessionPrefix = "_furatpay_session:"
	MetaSessionID     = "_furatpay_session_id"
	MetaServiceID     = "_furatpay_service_id"
	MetaServiceName   = "_furatpay_service_name"
	MetaPaymentURL    = "_furatpay_payment_url"
	MetaInvoiceID     = "_furatpay_invoice_id"
	MetaSessionStatus = "_furatpay_status"
	MetaLastCheckedAt = "_furatpay_last_checked_at"
)

// StatusTokenHeader carries the status token on status polls.
const StatusTokenHeader = "X-Status-Token"

// SessionMetaKey returns the metadata key holding the record of a session.
func SessionMetaKey(sessionID string) string {
	return MetaSessionPrefix + sessionID
}

// PaymentSession is one attempt to pay an order through one payment service.
type PaymentSession struct {
	SessionID     string        `json:"session_id"`
	OrderID       string        `json:"order_id"`
	ServiceID     string        `json:"service_id"`
	ServiceName   string        `json:"service_name,omitempty"`
	InvoiceID     string        `json:"invoice_id"`
	PaymentURL    string        `json:"payment_url"`
	Status        SessionStatus `json:"status"`
	ResolvedBy    Channel       `json:"resolved_by,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	LastCheckedAt *time.Time    `json:"last_checked_at,omitempty"`
	ResolvedAt    *time.Time    `json:"resolved_at,omitempty"`
}

// Transition moves s forward to target and reports whether it did.
// Terminal sessions never move.
func (s *PaymentSession) Transition(target SessionStatus, channel Channel, at time.Time) bool {
	if !s.Status.CanTransitionTo(target) {
		return false
	}
	s.Status = target
	if target.IsTerminal() {
		s.ResolvedBy = channel
		s.ResolvedAt = &at
	}
	return true
}

// MetaFields returns the flat order metadata mirroring s as the current session.
func (s *PaymentSession) MetaFields() map[string]string {
	fields := map[string]string{
		MetaSessionID:     s.SessionID,
		MetaServiceID:     s.ServiceID,
		MetaServiceName:   s.ServiceName,
		MetaPaymentURL:    s.PaymentURL,
		MetaInvoiceID:     s.InvoiceID,
		MetaSessionStatus: string(s.Status),
	}
	if s.LastCheckedAt != nil {
		fields[MetaLastCheckedAt] = strconv.FormatInt(s.LastCheckedAt.Unix(), 10)
	}
	return fields
}

// EncodeSession serializes a session record for order metadata.
func EncodeSession(s *PaymentSession) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeSession parses a session record read from order metadata.
func DecodeSession(value string) (*PaymentSession, error) {
	var s PaymentSession
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ProviderSession is what the provider returns when a payment session is created.
type ProviderSession struct {
	SessionID  string
	PaymentURL string
}

// Resolution reports what a resolve call did to a session.
type Resolution struct {
	Session  *PaymentSession
	Previous SessionStatus
	// Applied is true only for the call that moved the session to a terminal state.
	Applied bool
	// Current is false when the session was superseded by a newer attempt on the order.
	Current bool
	// OrderMoved is true when the call changed the order status. A superseded
	// session moves the order only when it completes.
	OrderMoved bool
}

// MovesOrder reports whether resolving the session to target should update the order.
func (r *Resolution) MovesOrder(target SessionStatus) bool {
	return r.Current || target == SessionStatusCompleted
}

// Conflicting reports whether target disagrees with an already terminal session.
func (r *Resolution) Conflicting(target SessionStatus) bool {
	return !r.Applied && r.Previous.IsTerminal() && target.IsTerminal() && r.Previous != target
}

// StatusView is the answer to a status poll.
type StatusView struct {
	Status      SessionStatus `json:"status"`
	RedirectURL string        `json:"redirect_url,omitempty"`
	Message     string        `json:"message,omitempty"`
}

// ExtensionData is checkout data submitted by the blocks front-end ahead of order processing.
type ExtensionData struct {
	ServiceID   string `json:"furatpay_service"`
	ServiceName string `json:"furatpay_service_name,omitempty"`
}

// CheckoutSource identifies the checkout front-end that submitted an order.
type CheckoutSource string

const (
	CheckoutSourceClassic CheckoutSource = "classic"
	CheckoutSourceBlocks  CheckoutSource = "blocks"
)

// CheckoutInput is the front-end independent request to start a payment session.
type CheckoutInput struct {
	OrderID     string
	ServiceID   string
	ServiceName string
	Source      CheckoutSource
}

// CheckoutResult is returned to the storefront after a session is created.
type CheckoutResult struct {
	OrderID    string `json:"order_id"`
	SessionID  string `json:"session_id"`
	PaymentURL string `json:"payment_url"`
	Redirect   string `json:"redirect"`
}

// PayPage carries what the payer-side polling client needs to start.
type PayPage struct {
	OrderID        string        `json:"order_id"`
	PaymentURL     string        `json:"payment_url"`
	Status         SessionStatus `json:"status"`
	StatusToken    string        `json:"status_token"`
	TokenExpiresAt time.Time     `json:"token_expires_at"`
	PollIntervalMs int64         `json:"poll_interval_ms"`
	MaxAttempts    int           `json:"max_attempts"`
}
