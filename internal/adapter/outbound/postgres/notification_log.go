package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
)

// notificationLogAdapter implements outbound.NotificationLogPort.
type notificationLogAdapter struct {
	db *gorm.DB
}

// NewNotificationLogAdapter creates a new notification log database adapter.
func NewNotificationLogAdapter(db *gorm.DB) outbound.NotificationLogPort {
	return &notificationLogAdapter{db: db}
}

func (a *notificationLogAdapter) Record(ctx context.Context, n *model.PaymentNotification) (bool, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	err := a.db.WithContext(ctx).Create(n).Error
	if err == nil {
		return true, nil
	}
	if !isUniqueViolation(err) {
		return false, fmt.Errorf("record notification: %w", err)
	}

	var existing model.PaymentNotification
	err = a.db.WithContext(ctx).
		Where("provider = ? AND event_id = ?", n.Provider, n.EventID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("record notification: conflicting row vanished")
		}
		return false, fmt.Errorf("load notification: %w", err)
	}
	return existing.ResolvedAt == nil, nil
}

func (a *notificationLogAdapter) MarkResolved(ctx context.Context, n *model.PaymentNotification) error {
	err := a.db.WithContext(ctx).
		Model(&model.PaymentNotification{}).
		Where("provider = ? AND event_id = ?", n.Provider, n.EventID).
		Updates(map[string]any{
			"applied":     n.Applied,
			"resolved_at": n.ResolvedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("mark notification resolved: %w", err)
	}
	return nil
}

// Compile-time check
var _ outbound.NotificationLogPort = (*notificationLogAdapter)(nil)
