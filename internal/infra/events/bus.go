package events

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Bus is a synchronous in-process event bus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
}

// NewBus creates a new event bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Register registers a handler for the events it handles.
func (b *Bus) Register(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, eventType := range handler.Handles() {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
		b.logger.Debug("registered event handler",
			zap.String("event_type", eventType),
		)
	}
}

// Publish dispatches an event to all registered handlers in registration order.
// A failing handler is logged and does not stop the others.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.EventType()]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("no handlers registered for event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
		)
		return
	}

	for _, handler := range handlers {
		if err := handler.Handle(event); err != nil {
			b.logger.Error("event handler failed",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.String("aggregate_id", event.AggregateID()),
				zap.Error(err),
			)
		}
	}
}

// Publisher adapts the bus to the outbound event publisher port.
type Publisher struct {
	bus *Bus
}

// NewPublisher creates a publisher backed by bus.
func NewPublisher(bus *Bus) *Publisher {
	return &Publisher{bus: bus}
}

// Publish publishes event if it is an Event.
func (p *Publisher) Publish(_ context.Context, event any) error {
	e, ok := event.(Event)
	if !ok {
		return fmt.Errorf("unsupported event type %T", event)
	}
	p.bus.Publish(e)
	return nil
}
