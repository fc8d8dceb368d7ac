// Package eventbus provides implementations of the EventBus interface.
// This package contains the synchronous event bus implementation.
package eventbus

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
	"github.com/tejashwikalptaru/shuffleplay/internal/ports"
)

// SyncEventBus is a synchronous implementation of the EventBus interface.
// Events are delivered on the publishing goroutine, in subscription order.
//
// Thread-safety: batch runs publish from several workers at once, so handlers
// must tolerate concurrent invocation.
type SyncEventBus struct {
	logger *slog.Logger

	// byType maps event types to their subscriptions
	byType map[domain.EventType][]subscription

	// wildcard contains handlers that receive all events
	wildcard []subscription

	// mu protects byType, wildcard and closed
	mu sync.RWMutex

	nextID atomic.Uint64
	closed bool

	// delivered counts handler invocations, including ones that panicked
	delivered atomic.Uint64
}

type subscription struct {
	id      domain.SubscriptionID
	filter  ports.EventFilter
	handler domain.EventHandler
}

// NewSyncEventBus creates a new synchronous event bus.
func NewSyncEventBus() *SyncEventBus {
	return &SyncEventBus{
		byType: make(map[domain.EventType][]subscription),
	}
}

// SetLogger sets the logger for this event bus.
// This should be called after construction before using the event bus.
func (bus *SyncEventBus) SetLogger(logger *slog.Logger) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.logger = logger
}

// Publish delivers an event to the subscribers of its type, then to wildcard subscribers.
// Publishing on a closed bus is a no-op. A panicking handler is logged and skipped.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	// Snapshot so handlers may (un)subscribe without deadlocking.
	targets := make([]subscription, 0, len(bus.byType[event.Type()])+len(bus.wildcard))
	targets = append(targets, bus.byType[event.Type()]...)
	targets = append(targets, bus.wildcard...)
	logger := bus.logger
	bus.mu.RUnlock()

	for _, sub := range targets {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		bus.deliver(logger, sub, event)
	}
}

func (bus *SyncEventBus) deliver(logger *slog.Logger, sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil && logger != nil {
			logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("event_type", string(event.Type())),
				slog.String("subscription", string(sub.id)))
		}
	}()

	bus.delivered.Add(1)
	sub.handler(event)
}

// Subscribe registers a handler for events of the specified type.
// Returns a unique subscription ID that can be used to unsubscribe.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return bus.SubscribeFiltered(eventType, nil, handler)
}

// SubscribeFiltered registers a handler that only receives events of eventType
// for which filter returns true. A nil filter accepts every event.
func (bus *SyncEventBus) SubscribeFiltered(eventType domain.EventType, filter ports.EventFilter, handler domain.EventHandler) domain.SubscriptionID {
	sub := bus.newSubscription(filter, handler)

	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}
	bus.byType[eventType] = append(bus.byType[eventType], sub)
	return sub.id
}

// SubscribeAll registers a handler that receives all events regardless of type.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	sub := bus.newSubscription(nil, handler)

	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}
	bus.wildcard = append(bus.wildcard, sub)
	return sub.id
}

func (bus *SyncEventBus) newSubscription(filter ports.EventFilter, handler domain.EventHandler) subscription {
	if handler == nil {
		panic("event handler cannot be nil")
	}
	return subscription{
		id:      domain.SubscriptionID(fmt.Sprintf("sub-%d", bus.nextID.Add(1))),
		filter:  filter,
		handler: handler,
	}
}

// Unsubscribe removes a previously registered handler. Unknown IDs are ignored.
// Delivery order of the remaining subscriptions is preserved.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for eventType, subs := range bus.byType {
		if i := indexOf(subs, id); i >= 0 {
			bus.byType[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
	if i := indexOf(bus.wildcard, id); i >= 0 {
		bus.wildcard = append(bus.wildcard[:i:i], bus.wildcard[i+1:]...)
	}
}

func indexOf(subs []subscription, id domain.SubscriptionID) int {
	for i, sub := range subs {
		if sub.id == id {
			return i
		}
	}
	return -1
}

// HasSubscribers reports whether an event of the given type would reach any handler.
// The simulator checks it before building per-play events.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.byType[eventType]) > 0 || len(bus.wildcard) > 0
}

// Close shuts down the event bus and drops all subscriptions.
// Returns an error if already closed.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return fmt.Errorf("event bus already closed")
	}
	bus.closed = true
	bus.byType = make(map[domain.EventType][]subscription)
	bus.wildcard = nil
	return nil
}

// SubscriberCount returns the number of active subscriptions, typed and wildcard.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := len(bus.wildcard)
	for _, subs := range bus.byType {
		count += len(subs)
	}
	return count
}

// Delivered returns the number of handler invocations so far.
func (bus *SyncEventBus) Delivered() uint64 {
	return bus.delivered.Load()
}

var _ ports.FilteringEventBus = (*SyncEventBus)(nil)
