package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPayload is the body of a provider notification.
type NotificationPayload struct {
	EventID   string `json:"event_id"`
	SessionID string `json:"session_id" validate:"required,max=191"`
	InvoiceID string `json:"invoice_id"`
	Status    string `json:"status" validate:"required,oneof=pending paid failed"`
}

// DedupKey returns the key used to recognise a replayed notification.
func (p *NotificationPayload) DedupKey() string {
	if p.EventID != "" {
		return p.EventID
	}
	return p.SessionID + ":" + p.Status
}

// PaymentNotification is the audit record of a verified notification.
type PaymentNotification struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Provider   string     `json:"provider" gorm:"type:varchar(50);not null;uniqueIndex:idx_notification_provider_event"`
	EventID    string     `json:"event_id" gorm:"type:varchar(255);not null;uniqueIndex:idx_notification_provider_event"`
	SessionID  string     `json:"session_id" gorm:"type:varchar(191);not null;index"`
	Outcome    Outcome    `json:"outcome" gorm:"type:varchar(20);not null"`
	Applied    bool       `json:"applied" gorm:"not null;default:false"`
	ReceivedAt time.Time  `json:"received_at" gorm:"not null"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// TableName returns the table name for PaymentNotification.
func (PaymentNotification) TableName() string {
	return "payment_notifications"
}

// NotificationResult reports how a notification was handled.
type NotificationResult struct {
	SessionID string        `json:"session_id"`
	Status    SessionStatus `json:"status"`
	Applied   bool          `json:"applied"`
	Replayed  bool          `json:"replayed"`
}
