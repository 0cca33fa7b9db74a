// Package memory provides in-process implementations of the outbound ports
// for development and tests.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
)

// OrderStore keeps orders and their metadata in memory. One mutex serializes
// every write, so ResolveSession is a compare-and-swap.
type OrderStore struct {
	mu       sync.Mutex
	orders   map[string]*model.Order
	meta     map[string]map[string]string
	sessions map[string]string // session ID -> order ID
}

// NewOrderStore creates an empty order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:   make(map[string]*model.Order),
		meta:     make(map[string]map[string]string),
		sessions: make(map[string]string),
	}
}

func (s *OrderStore) Create(_ context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; ok {
		return outbound.ErrOrderExists
	}
	now := time.Now().UTC()
	stored := copyOrder(order)
	if stored.Status == "" {
		stored.Status = model.OrderStatusPending
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.orders[order.ID] = stored
	s.meta[order.ID] = make(map[string]string)
	return nil
}

func (s *OrderStore) GetOrder(_ context.Context, orderID string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	return copyOrder(order), nil
}

// Meta returns a copy of the metadata of an order.
func (s *OrderStore) Meta(orderID string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.meta[orderID]))
	for k, v := range s.meta[orderID] {
		out[k] = v
	}
	return out
}

func (s *OrderStore) CurrentSession(_ context.Context, orderID string) (*model.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID := s.meta[orderID][model.MetaSessionID]
	if sessionID == "" {
		return nil, nil
	}
	return s.loadLocked(orderID, sessionID)
}

func (s *OrderStore) FindSession(_ context.Context, sessionID string) (*model.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orderID, ok := s.sessions[sessionID]
	if !ok {
		return nil, outbound.ErrSessionNotFound
	}
	return s.loadLocked(orderID, sessionID)
}

func (s *OrderStore) AttachSession(_ context.Context, session *model.PaymentSession, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[session.OrderID]
	if !ok {
		return fmt.Errorf("%w: %s", outbound.ErrOrderNotFound, session.OrderID)
	}
	if err := s.storeLocked(session, true); err != nil {
		return err
	}
	s.sessions[session.SessionID] = session.OrderID
	order.ApplySessionStatus(model.SessionStatusPending, note, time.Now().UTC())
	return nil
}

func (s *OrderStore) ResolveSession(_ context.Context, sessionID string, target model.SessionStatus, channel model.Channel, note string) (*model.Resolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orderID, ok := s.sessions[sessionID]
	if !ok {
		return nil, outbound.ErrSessionNotFound
	}
	session, err := s.loadLocked(orderID, sessionID)
	if err != nil {
		return nil, err
	}

	res := &model.Resolution{
		Session:  session,
		Previous: session.Status,
		Current:  s.meta[orderID][model.MetaSessionID] == sessionID,
	}

	now := time.Now().UTC()
	if !session.Transition(target, channel, now) {
		return res, nil
	}
	if err := s.storeLocked(session, res.Current); err != nil {
		return nil, err
	}
	if res.MovesOrder(target) {
		res.OrderMoved = s.orders[orderID].ApplySessionStatus(target, note, now)
	}
	res.Applied = true
	return res, nil
}

func (s *OrderStore) TouchSession(_ context.Context, sessionID string, checkedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orderID, ok := s.sessions[sessionID]
	if !ok {
		return outbound.ErrSessionNotFound
	}
	session, err := s.loadLocked(orderID, sessionID)
	if err != nil {
		return err
	}
	session.LastCheckedAt = &checkedAt

	current := s.meta[orderID][model.MetaSessionID] == sessionID
	if err := s.storeLocked(session, false); err != nil {
		return err
	}
	if current {
		s.meta[orderID][model.MetaLastCheckedAt] = strconv.FormatInt(checkedAt.Unix(), 10)
	}
	return nil
}

func (s *OrderStore) loadLocked(orderID, sessionID string) (*model.PaymentSession, error) {
	value, ok := s.meta[orderID][model.SessionMetaKey(sessionID)]
	if !ok {
		return nil, outbound.ErrSessionNotFound
	}
	session, err := model.DecodeSession(value)
	if err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return session, nil
}

// storeLocked writes the session record and, if mirror is set, the flat current-session keys.
func (s *OrderStore) storeLocked(session *model.PaymentSession, mirror bool) error {
	value, err := model.EncodeSession(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	meta := s.meta[session.OrderID]
	meta[model.SessionMetaKey(session.SessionID)] = value
	if mirror {
		for k, v := range session.MetaFields() {
			meta[k] = v
		}
	}
	return nil
}

func copyOrder(o *model.Order) *model.Order {
	c := *o
	c.Notes = append([]string(nil), o.Notes...)
	return &c
}

// Compile-time check
var _ outbound.OrderStatePort = (*OrderStore)(nil)
