// Package domain defines events for the event-driven architecture.
// Events let observers (metrics, logging) follow a simulation without coupling to it.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Simulation events
	EventSimulationInitialized EventType = "simulation.initialized"
	EventItemPlayed            EventType = "item.played"
	EventRunCompleted          EventType = "run.completed"

	// Batch events
	EventBatchStarted   EventType = "batch.started"
	EventBatchCompleted EventType = "batch.completed"

	// Library scanning events
	EventScanCompleted EventType = "scan.completed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// SimulationInitializedEvent is published when a simulator has shuffled its items
// and frozen its recycle window.
type SimulationInitializedEvent struct {
	baseEvent
	RunID  string
	Items  int
	Window RecycleWindow
}

// Type returns the event type.
func (e SimulationInitializedEvent) Type() EventType {
	return EventSimulationInitialized
}

// NewSimulationInitializedEvent creates a new SimulationInitializedEvent.
func NewSimulationInitializedEvent(runID string, items int, window RecycleWindow) SimulationInitializedEvent {
	return SimulationInitializedEvent{
		baseEvent: newBaseEvent(),
		RunID:     runID,
		Items:     items,
		Window:    window,
	}
}

// ItemPlayedEvent is published for every simulated play.
type ItemPlayedEvent struct {
	baseEvent
	RunID string
	Item  ItemID
	Step  int // 1-based play index within the run
	Rank  int // 1-indexed position the item was reinserted at
	Gap   int // steps since the item's previous play in this run, 0 on its first play
}

// Type returns the event type.
func (e ItemPlayedEvent) Type() EventType {
	return EventItemPlayed
}

// NewItemPlayedEvent creates a new ItemPlayedEvent.
func NewItemPlayedEvent(runID string, item ItemID, step, rank, gap int) ItemPlayedEvent {
	return ItemPlayedEvent{
		baseEvent: newBaseEvent(),
		RunID:     runID,
		Item:      item,
		Step:      step,
		Rank:      rank,
		Gap:       gap,
	}
}

// RunCompletedEvent is published when Run finishes.
type RunCompletedEvent struct {
	baseEvent
	RunID      string
	TotalPlays int
}

// Type returns the event type.
func (e RunCompletedEvent) Type() EventType {
	return EventRunCompleted
}

// NewRunCompletedEvent creates a new RunCompletedEvent.
func NewRunCompletedEvent(runID string, totalPlays int) RunCompletedEvent {
	return RunCompletedEvent{
		baseEvent:  newBaseEvent(),
		RunID:      runID,
		TotalPlays: totalPlays,
	}
}

// BatchStartedEvent is published before a batch schedules its runs.
type BatchStartedEvent struct {
	baseEvent
	BatchID string
	Runs    int
	Seed    uint64
}

// Type returns the event type.
func (e BatchStartedEvent) Type() EventType {
	return EventBatchStarted
}

// NewBatchStartedEvent creates a new BatchStartedEvent.
func NewBatchStartedEvent(batchID string, runs int, seed uint64) BatchStartedEvent {
	return BatchStartedEvent{
		baseEvent: newBaseEvent(),
		BatchID:   batchID,
		Runs:      runs,
		Seed:      seed,
	}
}

// BatchCompletedEvent is published after every run of a batch finished.
type BatchCompletedEvent struct {
	baseEvent
	BatchID string
	Runs    int
}

// Type returns the event type.
func (e BatchCompletedEvent) Type() EventType {
	return EventBatchCompleted
}

// NewBatchCompletedEvent creates a new BatchCompletedEvent.
func NewBatchCompletedEvent(batchID string, runs int) BatchCompletedEvent {
	return BatchCompletedEvent{
		baseEvent: newBaseEvent(),
		BatchID:   batchID,
		Runs:      runs,
	}
}

// ScanCompletedEvent is published when a library scan finishes.
type ScanCompletedEvent struct {
	baseEvent
	Root    string
	Entries []CatalogEntry
}

// Type returns the event type.
func (e ScanCompletedEvent) Type() EventType {
	return EventScanCompleted
}

// NewScanCompletedEvent creates a new ScanCompletedEvent.
func NewScanCompletedEvent(root string, entries []CatalogEntry) ScanCompletedEvent {
	return ScanCompletedEvent{
		baseEvent: newBaseEvent(),
		Root:      root,
		Entries:   entries,
	}
}
