// Package eventbus provides implementations of the EventBus interface.
package eventbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// wildcard is the key under which SubscribeAll handlers are stored.
const wildcard domain.EventType = "*"

// SyncEventBus delivers events synchronously on the publisher's goroutine.
// Type-specific handlers run first, in subscription order, then wildcard handlers.
//
// The session loop is the only publisher in practice, so handlers observe
// events in the exact order playback changed. Handlers must not block.
type SyncEventBus struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[domain.EventType][]subscription
	nextID   uint64
	closed   bool
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// NewSyncEventBus creates a new synchronous event bus. logger may be nil.
func NewSyncEventBus(logger *slog.Logger) *SyncEventBus {
	return &SyncEventBus{
		logger:   logger,
		handlers: make(map[domain.EventType][]subscription),
	}
}

// Publish delivers event to its subscribers. A panicking handler is logged
// and does not prevent delivery to the remaining handlers.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	typed := bus.handlers[event.Type()]
	all := bus.handlers[wildcard]
	targets := make([]subscription, 0, len(typed)+len(all))
	targets = append(targets, typed...)
	targets = append(targets, all...)
	bus.mu.RUnlock()

	if bus.logger != nil && len(targets) > 0 {
		bus.logger.Debug("event published",
			slog.String("event_type", string(event.Type())),
			slog.Int("handlers", len(targets)))
	}

	for _, sub := range targets {
		bus.deliver(sub, event)
	}
}

func (bus *SyncEventBus) deliver(sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil && bus.logger != nil {
			bus.logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("subscription", string(sub.id)),
				slog.String("event_type", string(event.Type())))
		}
	}()
	sub.handler(event)
}

// Subscribe registers a handler for events of the specified type.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(eventType, "sub", handler)
}

// SubscribeAll registers a handler that receives every event.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(wildcard, "sub-all", handler)
}

func (bus *SyncEventBus) add(key domain.EventType, prefix string, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	bus.nextID++
	id := domain.SubscriptionID(fmt.Sprintf("%s-%d", prefix, bus.nextID))
	bus.handlers[key] = append(bus.handlers[key], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
// The relative order of the remaining handlers is preserved.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for key, subs := range bus.handlers {
		for i, sub := range subs {
			if sub.id != id {
				continue
			}
			kept := make([]subscription, 0, len(subs)-1)
			kept = append(kept, subs[:i]...)
			kept = append(kept, subs[i+1:]...)
			bus.handlers[key] = kept
			return
		}
	}
}

// HasSubscribers reports whether publishing eventType would reach any handler.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.handlers[eventType]) > 0 || len(bus.handlers[wildcard]) > 0
}

// SubscriberCount returns the number of active subscriptions.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := 0
	for _, subs := range bus.handlers {
		count += len(subs)
	}
	return count
}

// Close drops all subscriptions. Later publishes are ignored.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return fmt.Errorf("event bus already closed")
	}
	bus.closed = true
	bus.handlers = make(map[domain.EventType][]subscription)
	return nil
}

var _ ports.EventBus = (*SyncEventBus)(nil)
