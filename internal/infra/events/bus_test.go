package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	BaseEvent
}

func TestBus_Publish(t *testing.T) {
	t.Run("dispatches to handlers in order", func(t *testing.T) {
		bus := NewBus(zap.NewNop())
		var calls []string
		bus.Register(NewHandlerFunc([]string{"payment.completed"}, func(Event) error {
			calls = append(calls, "first")
			return nil
		}))
		bus.Register(NewHandlerFunc([]string{"payment.completed"}, func(Event) error {
			calls = append(calls, "second")
			return nil
		}))

		bus.Publish(testEvent{NewBaseEvent("payment.completed", "order-1")})

		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("failing handler does not stop others", func(t *testing.T) {
		bus := NewBus(zap.NewNop())
		called := false
		bus.Register(NewHandlerFunc([]string{"payment.failed"}, func(Event) error {
			return errors.New("boom")
		}))
		bus.Register(NewHandlerFunc([]string{"payment.failed"}, func(Event) error {
			called = true
			return nil
		}))

		bus.Publish(testEvent{NewBaseEvent("payment.failed", "order-1")})

		assert.True(t, called)
	})

	t.Run("ignores unrelated event types", func(t *testing.T) {
		bus := NewBus(zap.NewNop())
		called := false
		bus.Register(NewHandlerFunc([]string{"payment.failed"}, func(Event) error {
			called = true
			return nil
		}))

		bus.Publish(testEvent{NewBaseEvent("payment.completed", "order-1")})

		assert.False(t, called)
	})
}

func TestPublisher_Publish(t *testing.T) {
	bus := NewBus(zap.NewNop())
	var got Event
	bus.Register(NewHandlerFunc([]string{"session.created"}, func(e Event) error {
		got = e
		return nil
	}))
	publisher := NewPublisher(bus)

	require.NoError(t, publisher.Publish(context.Background(), testEvent{NewBaseEvent("session.created", "order-9")}))
	require.NotNil(t, got)
	assert.Equal(t, "order-9", got.AggregateID())

	assert.Error(t, publisher.Publish(context.Background(), "not an event"))
}
