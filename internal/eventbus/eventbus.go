package eventbus

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"listingview/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventFilterChange = domain.EventFilterChange
	EventLoading      = domain.EventLoading
	EventUpdate       = domain.EventUpdate
	EventError        = domain.EventError
	EventStateChange  = domain.EventStateChange
)

// Re-export domain event types
type FilterChangeEvent = domain.FilterChangeEvent
type LoadingEvent = domain.LoadingEvent
type UpdateEvent = domain.UpdateEvent
type ErrorEvent = domain.ErrorEvent
type StateChangeEvent = domain.StateChangeEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	SubscribeAll(handler EventHandler) func()
}

type subscription struct {
	id        uint64
	eventType EventType // empty for wildcard subscribers
	handler   EventHandler
}

// bus delivers events synchronously in publish order
type bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
	logger *zap.Logger
}

// New creates a new event bus
func New(logger *zap.Logger) EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &bus{logger: logger}
}

// Publish delivers an event to every matching subscriber before returning.
// Handlers may publish or subscribe re-entrantly.
func (b *bus) Publish(event DomainEvent) {
	b.mu.RLock()
	targets := make([]EventHandler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.eventType == "" || s.eventType == event.Type() {
			targets = append(targets, s.handler)
		}
	}
	b.mu.RUnlock()

	if event.Type() != EventLoading {
		b.logger.Debug("publishing event", zap.String("type", string(event.Type())), zap.Int("subscribers", len(targets)))
	}

	for _, h := range targets {
		b.deliver(h, event)
	}
}

func (b *bus) deliver(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic",
				zap.String("type", string(event.Type())),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	h(event)
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	return b.add(eventType, handler)
}

// SubscribeAll subscribes to every event type
func (b *bus) SubscribeAll(handler EventHandler) func() {
	return b.add("", handler)
}

func (b *bus) add(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, eventType: eventType, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					break
				}
			}
		})
	}
}
