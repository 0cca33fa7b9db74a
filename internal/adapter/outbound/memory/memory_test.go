package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
)

func newSession(orderID, sessionID string) *model.PaymentSession {
	return &model.PaymentSession{
		SessionID:  sessionID,
		OrderID:    orderID,
		ServiceID:  "7",
		InvoiceID:  "inv-" + sessionID,
		PaymentURL: "https://pay.test/" + sessionID,
		Status:     model.SessionStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestOrderStore(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *OrderStore {
		s := NewOrderStore()
		require.NoError(t, s.Create(ctx, &model.Order{ID: "1", Total: 100, Currency: "IQD"}))
		return s
	}

	t.Run("create rejects duplicate", func(t *testing.T) {
		s := setup(t)
		err := s.Create(ctx, &model.Order{ID: "1"})
		assert.ErrorIs(t, err, outbound.ErrOrderExists)
	})

	t.Run("get missing order returns nil", func(t *testing.T) {
		s := setup(t)
		order, err := s.GetOrder(ctx, "2")
		require.NoError(t, err)
		assert.Nil(t, order)
	})

	t.Run("attach persists session as metadata", func(t *testing.T) {
		s := setup(t)
		require.NoError(t, s.AttachSession(ctx, newSession("1", "a"), "awaiting"))

		meta := s.Meta("1")
		assert.Equal(t, "a", meta[model.MetaSessionID])
		assert.Equal(t, "pending", meta[model.MetaSessionStatus])
		assert.Equal(t, "https://pay.test/a", meta[model.MetaPaymentURL])
		assert.Contains(t, meta, model.SessionMetaKey("a"))

		order, _ := s.GetOrder(ctx, "1")
		assert.Equal(t, []string{"awaiting"}, []string(order.Notes))
	})

	t.Run("attach to missing order", func(t *testing.T) {
		s := setup(t)
		err := s.AttachSession(ctx, newSession("2", "a"), "")
		assert.ErrorIs(t, err, outbound.ErrOrderNotFound)
	})

	t.Run("resolve is compare and swap", func(t *testing.T) {
		s := setup(t)
		require.NoError(t, s.AttachSession(ctx, newSession("1", "a"), ""))

		res, err := s.ResolveSession(ctx, "a", model.SessionStatusCompleted, model.ChannelPoll, "paid")
		require.NoError(t, err)
		assert.True(t, res.Applied)
		assert.True(t, res.Current)
		assert.Equal(t, model.SessionStatusPending, res.Previous)

		res, err = s.ResolveSession(ctx, "a", model.SessionStatusFailed, model.ChannelNotification, "failed")
		require.NoError(t, err)
		assert.False(t, res.Applied)
		assert.Equal(t, model.SessionStatusCompleted, res.Previous)
		assert.True(t, res.Conflicting(model.SessionStatusFailed))

		order, _ := s.GetOrder(ctx, "1")
		assert.Equal(t, model.OrderStatusPaid, order.Status)
		assert.Equal(t, []string{"paid"}, []string(order.Notes))
		assert.Equal(t, "completed", s.Meta("1")[model.MetaSessionStatus])
	})

	t.Run("superseded session does not mutate order", func(t *testing.T) {
		s := setup(t)
		require.NoError(t, s.AttachSession(ctx, newSession("1", "a"), ""))
		require.NoError(t, s.AttachSession(ctx, newSession("1", "b"), ""))

		res, err := s.ResolveSession(ctx, "a", model.SessionStatusFailed, model.ChannelNotification, "failed")
		require.NoError(t, err)

		assert.True(t, res.Applied)
		assert.False(t, res.Current)
		assert.False(t, res.OrderMoved)
		order, _ := s.GetOrder(ctx, "1")
		assert.Equal(t, model.OrderStatusPending, order.Status)
		assert.Equal(t, "b", s.Meta("1")[model.MetaSessionID])
		assert.Equal(t, "pending", s.Meta("1")[model.MetaSessionStatus])

		current, err := s.CurrentSession(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "b", current.SessionID)
	})

	t.Run("superseded session completion pays order", func(t *testing.T) {
		s := setup(t)
		require.NoError(t, s.AttachSession(ctx, newSession("1", "a"), ""))
		require.NoError(t, s.AttachSession(ctx, newSession("1", "b"), ""))

		res, err := s.ResolveSession(ctx, "a", model.SessionStatusCompleted, model.ChannelNotification, "paid")
		require.NoError(t, err)

		assert.True(t, res.Applied)
		assert.False(t, res.Current)
		assert.True(t, res.OrderMoved)
		order, _ := s.GetOrder(ctx, "1")
		assert.Equal(t, model.OrderStatusPaid, order.Status)
		assert.Equal(t, "b", s.Meta("1")[model.MetaSessionID])
	})

	t.Run("unknown session", func(t *testing.T) {
		s := setup(t)
		_, err := s.FindSession(ctx, "x")
		assert.ErrorIs(t, err, outbound.ErrSessionNotFound)
		_, err = s.ResolveSession(ctx, "x", model.SessionStatusCompleted, model.ChannelPoll, "")
		assert.ErrorIs(t, err, outbound.ErrSessionNotFound)
		assert.ErrorIs(t, s.TouchSession(ctx, "x", time.Now()), outbound.ErrSessionNotFound)
	})

	t.Run("touch records last check", func(t *testing.T) {
		s := setup(t)
		require.NoError(t, s.AttachSession(ctx, newSession("1", "a"), ""))
		at := time.Unix(1700000000, 0).UTC()

		require.NoError(t, s.TouchSession(ctx, "a", at))

		session, err := s.FindSession(ctx, "a")
		require.NoError(t, err)
		require.NotNil(t, session.LastCheckedAt)
		assert.True(t, at.Equal(*session.LastCheckedAt))
		assert.Equal(t, "1700000000", s.Meta("1")[model.MetaLastCheckedAt])
	})

	t.Run("concurrent resolution applies once", func(t *testing.T) {
		s := setup(t)
		require.NoError(t, s.AttachSession(ctx, newSession("1", "a"), ""))

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			applied int
		)
		for i := 0; i < 32; i++ {
			target := model.SessionStatusCompleted
			if i%2 == 0 {
				target = model.SessionStatusFailed
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := s.ResolveSession(ctx, "a", target, model.ChannelPoll, "note")
				if err == nil && res.Applied {
					mu.Lock()
					applied++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, applied)
		order, _ := s.GetOrder(ctx, "1")
		assert.Len(t, order.Notes, 1)
	})
}

func TestCheckoutDataStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get keeps data until deleted", func(t *testing.T) {
		s := NewCheckoutDataStore()
		require.NoError(t, s.Put(ctx, "1", &model.ExtensionData{ServiceID: "7"}, time.Minute))

		for i := 0; i < 2; i++ {
			data, err := s.Get(ctx, "1")
			require.NoError(t, err)
			require.NotNil(t, data)
			assert.Equal(t, "7", data.ServiceID)
		}

		require.NoError(t, s.Delete(ctx, "1"))
		data, err := s.Get(ctx, "1")
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("expired data is not returned", func(t *testing.T) {
		s := NewCheckoutDataStore()
		now := time.Now()
		s.now = func() time.Time { return now }
		require.NoError(t, s.Put(ctx, "1", &model.ExtensionData{ServiceID: "7"}, time.Minute))

		s.now = func() time.Time { return now.Add(2 * time.Minute) }
		data, err := s.Get(ctx, "1")
		require.NoError(t, err)
		assert.Nil(t, data)
	})
}

func TestServiceCache(t *testing.T) {
	ctx := context.Background()
	c := NewServiceCache()

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	services := []*model.PaymentService{{ID: "7", Name: "FIB"}}
	require.NoError(t, c.Set(ctx, services, time.Minute))
	got, _ = c.Get(ctx)
	assert.Equal(t, services, got)

	require.NoError(t, c.Invalidate(ctx))
	got, _ = c.Get(ctx)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, services, -time.Second))
	got, _ = c.Get(ctx)
	assert.Nil(t, got)
}

func TestNotificationLog(t *testing.T) {
	ctx := context.Background()
	l := NewNotificationLog()
	n := &model.PaymentNotification{Provider: "furatpay", EventID: "evt-1", SessionID: "a"}

	fresh, err := l.Record(ctx, n)
	require.NoError(t, err)
	assert.True(t, fresh)

	// Recorded but never resolved: processed again.
	fresh, err = l.Record(ctx, n)
	require.NoError(t, err)
	assert.True(t, fresh)

	now := time.Now()
	n.ResolvedAt = &now
	require.NoError(t, l.MarkResolved(ctx, n))

	fresh, err = l.Record(ctx, &model.PaymentNotification{Provider: "furatpay", EventID: "evt-1"})
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, 1, l.Len())
}

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()
	r := NewRateLimiter()

	for i := 0; i < 3; i++ {
		ok, err := r.Allow(ctx, "ip:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := r.Allow(ctx, "ip:1", 3, time.Minute)
	assert.False(t, ok)

	remaining, err := r.GetRemaining(ctx, "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	ok, _ = r.Allow(ctx, "ip:2", 3, time.Minute)
	assert.True(t, ok)
	remaining, _ = r.GetRemaining(ctx, "ip:2", 3, time.Minute)
	assert.Equal(t, 2, remaining)
}
