package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/furatpay/gateway/internal/infra/database"
	"github.com/furatpay/gateway/internal/model"
	"github.com/furatpay/gateway/internal/port/outbound"
)

// openTestDB connects to the database named by FURATPAY_TEST_DATABASE_DSN.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("FURATPAY_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("FURATPAY_TEST_DATABASE_DSN required")
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedOrder(t *testing.T, store outbound.OrderStatePort) string {
	t.Helper()
	id := "test-" + uuid.NewString()
	require.NoError(t, store.Create(context.Background(), &model.Order{
		ID:       id,
		KeyHash:  "x",
		Total:    25000,
		Currency: "IQD",
	}))
	return id
}

func attach(t *testing.T, store outbound.OrderStatePort, orderID string) string {
	t.Helper()
	sessionID := "sess-" + uuid.NewString()
	require.NoError(t, store.AttachSession(context.Background(), &model.PaymentSession{
		SessionID:  sessionID,
		OrderID:    orderID,
		ServiceID:  "7",
		InvoiceID:  "inv-1",
		PaymentURL: "https://pay.furatpay.test/" + sessionID,
		Status:     model.SessionStatusPending,
		CreatedAt:  time.Now().UTC(),
	}, "awaiting"))
	return sessionID
}

func TestOrderStateAdapter_ResolveSession(t *testing.T) {
	db := openTestDB(t)
	store := NewOrderStateAdapter(db)
	ctx := context.Background()

	t.Run("resolve is compare and swap", func(t *testing.T) {
		orderID := seedOrder(t, store)
		sessionID := attach(t, store, orderID)

		res, err := store.ResolveSession(ctx, sessionID, model.SessionStatusCompleted, model.ChannelNotification, "paid")
		require.NoError(t, err)
		assert.True(t, res.Applied)
		assert.True(t, res.Current)
		assert.True(t, res.OrderMoved)

		res, err = store.ResolveSession(ctx, sessionID, model.SessionStatusFailed, model.ChannelPoll, "failed")
		require.NoError(t, err)
		assert.False(t, res.Applied)
		assert.Equal(t, model.SessionStatusCompleted, res.Previous)

		order, err := store.GetOrder(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPaid, order.Status)
		assert.Equal(t, []string{"awaiting", "paid"}, []string(order.Notes))

		session, err := store.FindSession(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, model.SessionStatusCompleted, session.Status)
		assert.Equal(t, model.ChannelNotification, session.ResolvedBy)
	})

	t.Run("concurrent resolution applies once", func(t *testing.T) {
		orderID := seedOrder(t, store)
		sessionID := attach(t, store, orderID)

		const workers = 16
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners []model.SessionStatus
		)
		start := make(chan struct{})
		for i := 0; i < workers; i++ {
			target := model.SessionStatusCompleted
			if i%2 == 1 {
				target = model.SessionStatusFailed
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				res, err := store.ResolveSession(ctx, sessionID, target, model.ChannelPoll, string(target))
				if err == nil && res.Applied {
					mu.Lock()
					winners = append(winners, target)
					mu.Unlock()
				}
			}()
		}
		close(start)
		wg.Wait()

		require.Len(t, winners, 1)
		session, err := store.FindSession(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, winners[0], session.Status)

		order, err := store.GetOrder(ctx, orderID)
		require.NoError(t, err)
		assert.Len(t, order.Notes, 2)
	})

	t.Run("superseded session completion pays order", func(t *testing.T) {
		orderID := seedOrder(t, store)
		first := attach(t, store, orderID)
		second := attach(t, store, orderID)

		res, err := store.ResolveSession(ctx, first, model.SessionStatusFailed, model.ChannelNotification, "failed")
		require.NoError(t, err)
		assert.True(t, res.Applied)
		assert.False(t, res.OrderMoved)

		third := attach(t, store, orderID)
		res, err = store.ResolveSession(ctx, second, model.SessionStatusCompleted, model.ChannelNotification, "paid")
		require.NoError(t, err)
		assert.False(t, res.Current)
		assert.True(t, res.OrderMoved)

		order, err := store.GetOrder(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPaid, order.Status)

		current, err := store.CurrentSession(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, third, current.SessionID)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := store.ResolveSession(ctx, "sess-missing-"+uuid.NewString(), model.SessionStatusCompleted, model.ChannelPoll, "")
		assert.ErrorIs(t, err, outbound.ErrSessionNotFound)
	})
}
