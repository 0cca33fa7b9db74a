package model

import (
	"time"

	"github.com/lib/pq"
)

// OrderStatus represents the externally visible status of a storefront order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// IsPaid returns true if the order has been paid.
func (s OrderStatus) IsPaid() bool {
	return s == OrderStatusPaid
}

// Order is the storefront order this gateway collects payment for.
// Payment session state lives in OrderMeta rows, never on this struct.
type Order struct {
	ID         string         `json:"id" gorm:"type:varchar(64);primaryKey"`
	KeyHash    string         `json:"-" gorm:"type:varchar(100);not null"`
	Total      int64          `json:"total" gorm:"not null"`
	Currency   string         `json:"currency" gorm:"type:varchar(3);not null"`
	BuyerName  string         `json:"buyer_name" gorm:"type:varchar(255)"`
	BuyerEmail string         `json:"buyer_email" gorm:"type:varchar(255)"`
	BuyerPhone string         `json:"buyer_phone" gorm:"type:varchar(50)"`
	ReturnURL  string         `json:"return_url,omitempty" gorm:"type:text"`
	Status     OrderStatus    `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes      pq.StringArray `json:"notes" gorm:"type:text[]"`
	PaidAt     *time.Time     `json:"paid_at,omitempty"`
	FailedAt   *time.Time     `json:"failed_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TableName returns the table name for Order.
func (Order) TableName() string {
	return "orders"
}

// Snapshot returns an immutable copy of the fields an invoice is built from.
func (o *Order) Snapshot() OrderSnapshot {
	return OrderSnapshot{
		OrderID:    o.ID,
		Total:      o.Total,
		Currency:   o.Currency,
		BuyerName:  o.BuyerName,
		BuyerEmail: o.BuyerEmail,
		BuyerPhone: o.BuyerPhone,
	}
}

// AddNote appends a status note to the order.
func (o *Order) AddNote(note string) {
	if note == "" {
		return
	}
	o.Notes = append(o.Notes, note)
}

// ApplySessionStatus moves the order to the state matching a session status
// and reports whether it did. A paid order is never moved again.
func (o *Order) ApplySessionStatus(status SessionStatus, note string, at time.Time) bool {
	if o.Status.IsPaid() {
		return false
	}
	switch status {
	case SessionStatusCompleted:
		o.Status = OrderStatusPaid
		o.PaidAt = &at
	case SessionStatusFailed:
		o.Status = OrderStatusFailed
		o.FailedAt = &at
	default:
		o.Status = OrderStatusPending
	}
	o.AddNote(note)
	o.UpdatedAt = at
	return true
}

// OrderSnapshot is a read of order total, currency and buyer contact at call time.
type OrderSnapshot struct {
	OrderID    string
	Total      int64
	Currency   string
	BuyerName  string
	BuyerEmail string
	BuyerPhone string
}

// OrderMeta is a durable key-value field attached to an order.
type OrderMeta struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_order_meta_order_key"`
	Key       string    `gorm:"column:meta_key;type:varchar(191);not null;uniqueIndex:idx_order_meta_order_key;index"`
	Value     string    `gorm:"column:meta_value;type:text"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for OrderMeta.
func (OrderMeta) TableName() string {
	return "order_meta"
}
