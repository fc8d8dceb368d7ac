package eventbus

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
)

func playedEvent(runID string, step int) domain.ItemPlayedEvent {
	return domain.NewItemPlayedEvent(runID, domain.ItemID(step), step, 1, 0)
}

// TestNewSyncEventBus tests event bus creation.
func TestNewSyncEventBus(t *testing.T) {
	bus := NewSyncEventBus()

	if bus == nil {
		t.Fatal("NewSyncEventBus returned nil")
	}
	if bus.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", bus.SubscriberCount())
	}
	if bus.closed {
		t.Error("New event bus should not be closed")
	}
}

// TestPublishSubscribe tests basic publish/subscribe functionality.
func TestPublishSubscribe(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var received domain.Event
	var callCount int

	subID := bus.Subscribe(domain.EventRunCompleted, func(event domain.Event) {
		received = event
		callCount++
	})
	if subID == "" {
		t.Fatal("Subscribe returned empty subscription ID")
	}

	bus.Publish(domain.NewRunCompletedEvent("run-1", 42))

	if callCount != 1 {
		t.Errorf("Expected handler to be called once, got %d", callCount)
	}
	if received == nil {
		t.Fatal("Handler did not receive event")
	}

	completed, ok := received.(domain.RunCompletedEvent)
	if !ok {
		t.Fatalf("Expected RunCompletedEvent, got %T", received)
	}
	if completed.RunID != "run-1" || completed.TotalPlays != 42 {
		t.Errorf("Unexpected event payload: %+v", completed)
	}
	if completed.Timestamp().IsZero() {
		t.Error("Event timestamp should be set")
	}
	if bus.Delivered() != 1 {
		t.Errorf("Expected 1 delivery, got %d", bus.Delivered())
	}
}

// TestDeliveryOrder tests that handlers run in subscription order.
func TestDeliveryOrder(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var order []string
	bus.SubscribeAll(func(domain.Event) { order = append(order, "wildcard") })
	bus.Subscribe(domain.EventItemPlayed, func(domain.Event) { order = append(order, "first") })
	second := bus.Subscribe(domain.EventItemPlayed, func(domain.Event) { order = append(order, "second") })
	bus.Subscribe(domain.EventItemPlayed, func(domain.Event) { order = append(order, "third") })

	bus.Publish(playedEvent("run", 1))
	if got := strings.Join(order, ","); got != "first,second,third,wildcard" {
		t.Errorf("Unexpected delivery order %q", got)
	}

	order = nil
	bus.Unsubscribe(second)
	bus.Publish(playedEvent("run", 2))
	if got := strings.Join(order, ","); got != "first,third,wildcard" {
		t.Errorf("Unexpected delivery order after unsubscribe %q", got)
	}
}

// TestUnsubscribeInvalidID tests that unknown subscription IDs are ignored.
func TestUnsubscribeInvalidID(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	bus.Subscribe(domain.EventRunCompleted, func(domain.Event) {})
	bus.Unsubscribe("sub-does-not-exist")

	if bus.SubscriberCount() != 1 {
		t.Errorf("Expected 1 subscriber, got %d", bus.SubscriberCount())
	}
}

// TestSubscribeFiltered tests that filtered handlers only see matching events.
func TestSubscribeFiltered(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var steps []int
	bus.SubscribeFiltered(domain.EventItemPlayed, func(e domain.Event) bool {
		return e.(domain.ItemPlayedEvent).RunID == "wanted"
	}, func(e domain.Event) {
		steps = append(steps, e.(domain.ItemPlayedEvent).Step)
	})

	bus.Publish(playedEvent("wanted", 1))
	bus.Publish(playedEvent("other", 2))
	bus.Publish(playedEvent("wanted", 3))

	if len(steps) != 2 || steps[0] != 1 || steps[1] != 3 {
		t.Errorf("Expected steps [1 3], got %v", steps)
	}
	if bus.Delivered() != 2 {
		t.Errorf("Filtered-out events should not count as delivered, got %d", bus.Delivered())
	}
}

// TestHasSubscribers tests subscriber detection per event type.
func TestHasSubscribers(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	if bus.HasSubscribers(domain.EventItemPlayed) {
		t.Error("Empty bus should have no subscribers")
	}

	id := bus.Subscribe(domain.EventItemPlayed, func(domain.Event) {})
	if !bus.HasSubscribers(domain.EventItemPlayed) {
		t.Error("Expected subscribers for EventItemPlayed")
	}
	if bus.HasSubscribers(domain.EventBatchStarted) {
		t.Error("Expected no subscribers for EventBatchStarted")
	}

	bus.Unsubscribe(id)
	if bus.HasSubscribers(domain.EventItemPlayed) {
		t.Error("Expected no subscribers after unsubscribe")
	}

	bus.SubscribeAll(func(domain.Event) {})
	if !bus.HasSubscribers(domain.EventBatchStarted) {
		t.Error("Wildcard subscriber should count for every type")
	}
}

// TestHandlerPanic tests that panicking handlers don't crash the bus.
func TestHandlerPanic(t *testing.T) {
	var logs bytes.Buffer
	bus := NewSyncEventBus()
	bus.SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	defer bus.Close()

	var callCount int32
	bus.Subscribe(domain.EventRunCompleted, func(domain.Event) { panic("test panic") })
	bus.Subscribe(domain.EventRunCompleted, func(domain.Event) { atomic.AddInt32(&callCount, 1) })

	bus.Publish(domain.NewRunCompletedEvent("run", 1))

	if atomic.LoadInt32(&callCount) != 1 {
		t.Errorf("Expected normal handler to be called despite panic, got %d calls", callCount)
	}
	if !strings.Contains(logs.String(), "event handler panicked") {
		t.Errorf("Expected panic to be logged, got %q", logs.String())
	}
}

// TestClose tests closing the event bus.
func TestClose(t *testing.T) {
	bus := NewSyncEventBus()

	var calls int
	handler := func(domain.Event) { calls++ }
	bus.Subscribe(domain.EventRunCompleted, handler)
	bus.SubscribeAll(handler)

	if bus.SubscriberCount() != 2 {
		t.Errorf("Expected 2 subscribers before close, got %d", bus.SubscriberCount())
	}
	if err := bus.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
	if bus.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers after close, got %d", bus.SubscriberCount())
	}

	bus.Publish(domain.NewRunCompletedEvent("run", 1))
	if calls != 0 {
		t.Errorf("Publishing on a closed bus should be a no-op, got %d calls", calls)
	}
	if err := bus.Close(); err == nil {
		t.Error("Expected error when closing already closed bus")
	}
}

// TestConcurrentPublish tests publishing from several goroutines, as batch workers do.
func TestConcurrentPublish(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var received int64
	bus.Subscribe(domain.EventItemPlayed, func(domain.Event) { atomic.AddInt64(&received, 1) })

	const publishers, perPublisher = 8, 250
	var wg sync.WaitGroup
	for p := range publishers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for step := range perPublisher {
				bus.Publish(playedEvent(string(rune('a'+p)), step+1))
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&received); got != publishers*perPublisher {
		t.Errorf("Expected %d events, got %d", publishers*perPublisher, got)
	}
}

// TestConcurrentPublishAndSubscribe tests subscribing while events are in flight.
func TestConcurrentPublishAndSubscribe(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 200 {
			bus.Publish(playedEvent("run", i+1))
		}
	}()
	go func() {
		defer wg.Done()
		for range 50 {
			id := bus.Subscribe(domain.EventItemPlayed, func(domain.Event) {})
			bus.Unsubscribe(id)
		}
	}()
	wg.Wait()

	if bus.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", bus.SubscriberCount())
	}
}

// TestUnsubscribeFromHandler tests that handlers may unsubscribe themselves.
func TestUnsubscribeFromHandler(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var calls int
	var id domain.SubscriptionID
	id = bus.Subscribe(domain.EventRunCompleted, func(domain.Event) {
		calls++
		bus.Unsubscribe(id)
	})

	bus.Publish(domain.NewRunCompletedEvent("run", 1))
	bus.Publish(domain.NewRunCompletedEvent("run", 2))

	if calls != 1 {
		t.Errorf("Expected handler to run once, got %d", calls)
	}
}

// TestNilEvent tests publishing nil event (should be no-op).
func TestNilEvent(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var callCount int32
	bus.SubscribeAll(func(domain.Event) { atomic.AddInt32(&callCount, 1) })
	bus.Publish(nil)

	if atomic.LoadInt32(&callCount) != 0 {
		t.Errorf("Handler should not be called for nil event, got %d calls", callCount)
	}
}

// TestNilHandler tests that subscribing with nil handler panics.
func TestNilHandler(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when subscribing with nil handler")
		}
	}()

	bus.Subscribe(domain.EventRunCompleted, nil)
}

// TestDifferentEventTypes tests that subscribers only receive their event type.
func TestDifferentEventTypes(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var started, completed int32
	bus.Subscribe(domain.EventBatchStarted, func(domain.Event) { atomic.AddInt32(&started, 1) })
	bus.Subscribe(domain.EventBatchCompleted, func(domain.Event) { atomic.AddInt32(&completed, 1) })

	bus.Publish(domain.NewBatchStartedEvent("batch", 3, 7))
	if started != 1 || completed != 0 {
		t.Errorf("Expected 1/0 events, got %d/%d", started, completed)
	}

	bus.Publish(domain.NewBatchCompletedEvent("batch", 3))
	if started != 1 || completed != 1 {
		t.Errorf("Expected 1/1 events, got %d/%d", started, completed)
	}
}
