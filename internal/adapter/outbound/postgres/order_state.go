package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
)

// orderStateAdapter implements outbound.OrderStatePort. Session records live in
// order_meta; every session write holds the order row lock.
type orderStateAdapter struct {
	db *gorm.DB
}

// NewOrderStateAdapter creates a new order state database adapter.
func NewOrderStateAdapter(db *gorm.DB) outbound.OrderStatePort {
	return &orderStateAdapter{db: db}
}

func (a *orderStateAdapter) Create(ctx context.Context, order *model.Order) error {
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}
	if err := a.db.WithContext(ctx).Create(order).Error; err != nil {
		if isUniqueViolation(err) {
			return outbound.ErrOrderExists
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (a *orderStateAdapter) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := a.db.WithContext(ctx).First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

func (a *orderStateAdapter) CurrentSession(ctx context.Context, orderID string) (*model.PaymentSession, error) {
	db := a.db.WithContext(ctx)
	current, err := metaValue(db, orderID, model.MetaSessionID)
	if err != nil {
		return nil, err
	}
	if current == "" {
		return nil, nil
	}
	return loadSession(db, orderID, current)
}

func (a *orderStateAdapter) FindSession(ctx context.Context, sessionID string) (*model.PaymentSession, error) {
	var row model.OrderMeta
	err := a.db.WithContext(ctx).
		Where("meta_key = ?", model.SessionMetaKey(sessionID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return decodeRow(row)
}

func (a *orderStateAdapter) AttachSession(ctx context.Context, session *model.PaymentSession, note string) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, session.OrderID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := storeSession(tx, session, true, now); err != nil {
			return err
		}

		order.ApplySessionStatus(model.SessionStatusPending, note, now)
		return saveOrderStatus(tx, order)
	})
}

func (a *orderStateAdapter) ResolveSession(
	ctx context.Context,
	sessionID string,
	target model.SessionStatus,
	channel model.Channel,
	note string,
) (*model.Resolution, error) {
	found, err := a.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var res *model.Resolution
	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, found.OrderID)
		if err != nil {
			return err
		}

		// Re-read under the lock: the row read above may already be stale.
		session, err := loadSession(tx, order.ID, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return outbound.ErrSessionNotFound
		}
		current, err := metaValue(tx, order.ID, model.MetaSessionID)
		if err != nil {
			return err
		}

		res = &model.Resolution{
			Session:  session,
			Previous: session.Status,
			Current:  current == sessionID,
		}

		now := time.Now().UTC()
		if !session.Transition(target, channel, now) {
			return nil
		}
		res.Applied = true

		if err := storeSession(tx, session, res.Current, now); err != nil {
			return err
		}
		if !res.MovesOrder(target) {
			return nil
		}
		if res.OrderMoved = order.ApplySessionStatus(target, note, now); !res.OrderMoved {
			return nil
		}
		return saveOrderStatus(tx, order)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (a *orderStateAdapter) TouchSession(ctx context.Context, sessionID string, checkedAt time.Time) error {
	found, err := a.FindSession(ctx, sessionID)
	if err != nil {
		return err
	}

	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOrder(tx, found.OrderID); err != nil {
			return err
		}
		session, err := loadSession(tx, found.OrderID, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return outbound.ErrSessionNotFound
		}
		current, err := metaValue(tx, found.OrderID, model.MetaSessionID)
		if err != nil {
			return err
		}

		at := checkedAt.UTC()
		session.LastCheckedAt = &at
		return storeSession(tx, session, current == sessionID, time.Now().UTC())
	})
}

func lockOrder(tx *gorm.DB, orderID string) (*model.Order, error) {
	var order model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrOrderNotFound
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}
	return &order, nil
}

func saveOrderStatus(tx *gorm.DB, order *model.Order) error {
	err := tx.Model(order).
		Select("status", "notes", "paid_at", "failed_at", "updated_at").
		Updates(order).Error
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

func metaValue(db *gorm.DB, orderID, key string) (string, error) {
	var row model.OrderMeta
	err := db.Where("order_id = ? AND meta_key = ?", orderID, key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get order meta %s: %w", key, err)
	}
	return row.Value, nil
}

func loadSession(db *gorm.DB, orderID, sessionID string) (*model.PaymentSession, error) {
	value, err := metaValue(db, orderID, model.SessionMetaKey(sessionID))
	if err != nil || value == "" {
		return nil, err
	}
	return model.DecodeSession(value)
}

func decodeRow(row model.OrderMeta) (*model.PaymentSession, error) {
	session, err := model.DecodeSession(row.Value)
	if err != nil {
		return nil, fmt.Errorf("decode session %s: %w", row.Key, err)
	}
	return session, nil
}

// storeSession upserts the session record and, when mirror is set, the flat
// current-session keys.
func storeSession(tx *gorm.DB, session *model.PaymentSession, mirror bool, now time.Time) error {
	encoded, err := model.EncodeSession(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	rows := []model.OrderMeta{{
		OrderID:   session.OrderID,
		Key:       model.SessionMetaKey(session.SessionID),
		Value:     encoded,
		UpdatedAt: now,
	}}
	if mirror {
		for key, value := range session.MetaFields() {
			rows = append(rows, model.OrderMeta{
				OrderID:   session.OrderID,
				Key:       key,
				Value:     value,
				UpdatedAt: now,
			})
		}
	}

	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("store session meta: %w", err)
	}
	return nil
}

// Compile-time check
var _ outbound.OrderStatePort = (*orderStateAdapter)(nil)
