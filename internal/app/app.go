// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and runs the simulations the CLI asks for.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tejashwikalptaru/shuffleplay/internal/adapter/catalog"
	"github.com/tejashwikalptaru/shuffleplay/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/shuffleplay/internal/adapter/metrics"
	"github.com/tejashwikalptaru/shuffleplay/internal/adapter/random"
	"github.com/tejashwikalptaru/shuffleplay/internal/config"
	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
	"github.com/tejashwikalptaru/shuffleplay/internal/logger"
	"github.com/tejashwikalptaru/shuffleplay/internal/ports"
	"github.com/tejashwikalptaru/shuffleplay/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
type Application struct {
	config *config.Config
	logger *slog.Logger

	// Infrastructure
	eventBus  *eventbus.SyncEventBus
	collector *metrics.Collector
	catalog   ports.Catalog

	// Services
	batchService *service.BatchService
}

// Options customizes NewApplication for tests.
type Options struct {
	// Logger replaces the logger built from the configuration
	Logger *slog.Logger

	// Catalog replaces the tag-reading library scanner
	Catalog ports.Catalog
}

// NewApplication creates a new application with all dependencies wired.
func NewApplication(cfg *config.Config, opts Options) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{config: cfg}

	app.logger = opts.Logger
	if app.logger == nil {
		app.logger = logger.NewLogger(cfg.LoggerConfig())
	}

	bus := eventbus.NewSyncEventBus()
	bus.SetLogger(app.logger.With(slog.String("component", "eventbus")))
	app.eventBus = bus

	app.collector = metrics.NewCollector(bus)

	app.catalog = opts.Catalog
	if app.catalog == nil {
		app.catalog = catalog.NewLibrary(
			app.logger.With(slog.String("component", "catalog")),
			bus,
			cfg.Library.Extensions,
		)
	}

	app.batchService = service.NewBatchService(
		app.logger.With(slog.String("service", "batch")),
		random.Factory,
		bus,
		cfg.Batch.Workers,
	)

	app.logger.Debug("application initialized",
		slog.Int("songs", cfg.Simulation.Songs),
		slog.String("library", cfg.Library.Path))
	return app, nil
}

// Config returns the configuration the application was built with.
func (a *Application) Config() *config.Config {
	return a.config
}

// Collector returns the metrics collector.
func (a *Application) Collector() *metrics.Collector {
	return a.collector
}

// seed returns the configured seed, or a fresh one when none is configured.
func (a *Application) seed() uint64 {
	if a.config.Simulation.Seed != 0 {
		return a.config.Simulation.Seed
	}
	return random.NewSeed()
}

// items resolves the simulated item set: the scanned library when a path is
// configured, 1..Songs otherwise.
func (a *Application) items(ctx context.Context) ([]domain.ItemID, []domain.CatalogEntry, error) {
	if a.config.Library.Path == "" {
		return domain.SongRange(a.config.Simulation.Songs), nil, nil
	}
	entries, err := a.catalog.Scan(ctx, a.config.Library.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan library: %w", err)
	}
	return catalog.IDs(entries), entries, nil
}

// RunSingle executes one simulation of the configured number of plays.
func (a *Application) RunSingle(ctx context.Context) (*Report, error) {
	items, entries, err := a.items(ctx)
	if err != nil {
		return nil, err
	}

	src := random.NewSource(a.seed())
	cfg := a.config.Simulation.ShuffleConfig
	log := a.logger.With(slog.String("service", "shuffle"))
	sim := service.NewShuffleService(log, src, a.eventBus)
	if err := sim.Initialize(items, cfg); err != nil {
		return nil, err
	}

	// Trace every play of this run at debug level.
	if log.Enabled(ctx, slog.LevelDebug) {
		runID := sim.RunID()
		sub := a.eventBus.SubscribeFiltered(domain.EventItemPlayed,
			func(e domain.Event) bool { return e.(domain.ItemPlayedEvent).RunID == runID },
			func(e domain.Event) {
				played := e.(domain.ItemPlayedEvent)
				log.Debug("item played",
					slog.Int("step", played.Step),
					slog.Int("item", int(played.Item)),
					slog.Int("rank", played.Rank))
			})
		defer a.eventBus.Unsubscribe(sub)
	}

	result, err := sim.Run(cfg.Plays)
	if err != nil {
		return nil, err
	}

	a.logger.Info("simulation finished",
		slog.String("run_id", result.RunID),
		slog.Int("items", len(items)),
		slog.Int("plays", result.TotalPlays),
		slog.Uint64("seed", src.Seed()))

	report := &Report{
		Seed:    src.Seed(),
		Config:  cfg,
		Result:  result,
		Catalog: entries,
	}
	if result.Playlist != nil {
		gaps := service.AnalyzeGaps(result.Playlist)
		report.Gaps = &gaps
	}
	return report, nil
}

// RunBatch executes the configured number of independent runs.
func (a *Application) RunBatch(ctx context.Context) (*BatchReport, error) {
	items, entries, err := a.items(ctx)
	if err != nil {
		return nil, err
	}

	seed := a.seed()
	cfg := a.config.Simulation.ShuffleConfig
	batch, err := a.batchService.RunBatch(ctx, items, cfg, a.config.Batch.Runs, seed)
	if err != nil {
		return nil, err
	}

	return &BatchReport{
		Config:  cfg,
		Result:  batch,
		Catalog: entries,
	}, nil
}

// WindowTable computes the recycle window for every list length 1..maxSongs.
func (a *Application) WindowTable(maxSongs int) ([]domain.RecycleWindow, error) {
	cfg := a.config.Simulation.ShuffleConfig
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if maxSongs < 1 {
		return nil, domain.NewValidationError("max_songs", maxSongs, "must be at least 1")
	}

	table := make([]domain.RecycleWindow, maxSongs)
	for n := 1; n <= maxSongs; n++ {
		table[n-1] = service.ComputeRecycleWindow(n, cfg)
	}
	return table, nil
}

// Shutdown writes the metrics textfile if configured and releases the event bus.
func (a *Application) Shutdown() error {
	var err error
	if path := a.config.Metrics.Textfile; path != "" {
		if err = a.collector.WriteTextfile(path); err == nil {
			a.logger.Info("metrics written", slog.String("path", path))
		}
	}

	a.collector.Close()
	if closeErr := a.eventBus.Close(); closeErr != nil {
		a.logger.Warn("failed to close event bus", slog.Any("error", closeErr))
	}
	a.logger.Debug("application shutdown complete",
		slog.Uint64("events_delivered", a.eventBus.Delivered()))
	return err
}
