package memory

import (
	"context"
	"sync"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
)

// NotificationLog records notifications in memory, unique by provider and event ID.
type NotificationLog struct {
	mu      sync.Mutex
	records map[string]*model.PaymentNotification
}

// NewNotificationLog creates an empty log.
func NewNotificationLog() *NotificationLog {
	return &NotificationLog{records: make(map[string]*model.PaymentNotification)}
}

func (l *NotificationLog) Record(_ context.Context, n *model.PaymentNotification) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := n.Provider + "|" + n.EventID
	if existing, ok := l.records[key]; ok {
		return existing.ResolvedAt == nil, nil
	}
	c := *n
	l.records[key] = &c
	return true, nil
}

func (l *NotificationLog) MarkResolved(_ context.Context, n *model.PaymentNotification) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.records[n.Provider+"|"+n.EventID]
	if !ok {
		return nil
	}
	existing.Applied = n.Applied
	existing.ResolvedAt = n.ResolvedAt
	return nil
}

// Len returns the number of recorded notifications.
func (l *NotificationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Compile-time check
var _ outbound.NotificationLogPort = (*NotificationLog)(nil)
