// Package metrics exposes simulation statistics as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
	"github.com/tejashwikalptaru/shuffleplay/internal/ports"
)

const namespace = "shuffleplay"

// Collector follows simulations through the event bus and records plays, completed
// runs and the distance between repeat plays of an item.
//
// Repeat gaps are read from ItemPlayedEvent.Gap.
//
// Thread-safety: batch workers publish concurrently; Prometheus metrics are thread-safe.
type Collector struct {
	bus      ports.EventBus
	registry *prometheus.Registry
	subs     []domain.SubscriptionID

	plays   prometheus.Counter
	runs    prometheus.Counter
	batches prometheus.Counter
	gaps    prometheus.Histogram
}

// NewCollector creates a collector with its own registry and subscribes it to bus.
func NewCollector(bus ports.EventBus) *Collector {
	c := &Collector{
		bus:      bus,
		registry: prometheus.NewRegistry(),
		plays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plays_total",
			Help:      "Number of simulated plays.",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of completed simulation runs.",
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Number of completed simulation batches.",
		}),
		gaps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "repeat_gap",
			Help:      "Plays between two consecutive plays of the same item.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	c.registry.MustRegister(c.plays, c.runs, c.batches, c.gaps)

	c.subs = append(c.subs,
		bus.Subscribe(domain.EventItemPlayed, c.handlePlayed),
		bus.Subscribe(domain.EventRunCompleted, func(domain.Event) { c.runs.Inc() }),
		bus.Subscribe(domain.EventBatchCompleted, func(domain.Event) { c.batches.Inc() }),
	)
	return c
}

func (c *Collector) handlePlayed(event domain.Event) {
	played, ok := event.(domain.ItemPlayedEvent)
	if !ok {
		return
	}
	c.plays.Inc()
	if played.Gap > 0 {
		c.gaps.Observe(float64(played.Gap))
	}
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes the current metrics in the Prometheus text format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return domain.NewServiceError("Metrics", "WriteTextfile", "failed to write "+path, err)
	}
	return nil
}

// Close unsubscribes the collector from the bus.
func (c *Collector) Close() {
	for _, id := range c.subs {
		c.bus.Unsubscribe(id)
	}
	c.subs = nil
}
