package ports

import (
	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
)

// EventBus carries simulation events from simulators to observers such as the
// metrics collector and the debug play trace.
//
// Batch workers publish from several goroutines at once, so implementations must
// be thread-safe.
//
//	sub := bus.Subscribe(domain.EventItemPlayed, func(e domain.Event) {
//	    played := e.(domain.ItemPlayedEvent)
//	    observe(played.RunID, played.Item, played.Step)
//	})
//	defer bus.Unsubscribe(sub)
type EventBus interface {
	// Publish hands event to every handler subscribed to its type, then to the
	// wildcard handlers. Handlers run on the publishing goroutine before Publish
	// returns and must be quick. Publishers release their own locks before calling
	// Publish, so a handler may read the publisher's state.
	Publish(event domain.Event)

	// Subscribe registers handler for one event type. Registering the same handler
	// twice yields two subscriptions and two calls per event.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a subscription. Unknown IDs are ignored.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers handler for every event type.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers reports whether an event of eventType would reach a handler.
	// Simulators check it before building per-play events.
	HasSubscribers(eventType domain.EventType) bool

	// Close drops all subscriptions. Later publishes are ignored.
	Close() error
}

// EventFilter decides whether an event is delivered to a filtered subscription.
type EventFilter func(event domain.Event) bool

// FilteringEventBus is an EventBus that can also deliver a subset of one event type.
type FilteringEventBus interface {
	EventBus

	// SubscribeFiltered registers handler for the events of eventType accepted by filter.
	//
	//	bus.SubscribeFiltered(domain.EventItemPlayed, func(e domain.Event) bool {
	//	    return e.(domain.ItemPlayedEvent).RunID == runID
	//	}, tracePlay)
	SubscribeFiltered(eventType domain.EventType, filter EventFilter, handler domain.EventHandler) domain.SubscriptionID
}
