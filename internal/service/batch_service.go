package service

import (
	"context"
	"log/slog"
	"sync"

	"code.cloudfoundry.org/workpool"
	"github.com/google/uuid"
	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
	"github.com/tejashwikalptaru/shuffleplay/internal/ports"
)

// BatchService executes independent simulations over the same item set concurrently.
//
// Run i draws from the stream the factory returns for index i and owns its playlist
// and counts, so a batch result depends only on the base seed, never on scheduling.
type BatchService struct {
	logger  *slog.Logger
	streams func(seed uint64) ports.SourceFactory
	bus     ports.EventBus
	workers int
}

// NewBatchService creates a batch runner using at most workers goroutines.
// streams maps a base seed to the factory of its per-run random streams.
func NewBatchService(
	logger *slog.Logger,
	streams func(seed uint64) ports.SourceFactory,
	bus ports.EventBus,
	workers int,
) *BatchService {
	return &BatchService{
		logger:  logger,
		streams: streams,
		bus:     bus,
		workers: max(1, workers),
	}
}

// RunBatch performs runs simulations of cfg.Plays plays each.
//
// When ctx is done no further run is started and ctx.Err() is returned; runs that
// already started finish first. Invalid items or parameters are reported before any
// run starts.
func (s *BatchService) RunBatch(
	ctx context.Context,
	items []domain.ItemID,
	cfg domain.ShuffleConfig,
	runs int,
	seed uint64,
) (*domain.BatchResult, error) {
	if runs < 1 {
		return nil, domain.NewValidationError("runs", runs, "at least one run is required")
	}
	if err := domain.ValidateItems(items); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := workpool.NewWorkPool(min(s.workers, runs))
	if err != nil {
		return nil, domain.NewServiceError("BatchService", "RunBatch", "failed to create work pool", err)
	}
	defer pool.Stop()

	batchID := uuid.New().String()
	logger := s.logger.With(slog.String("batch_id", batchID))
	logger.Info("batch started",
		slog.Int("runs", runs),
		slog.Int("items", len(items)),
		slog.Uint64("seed", seed))
	if s.bus != nil {
		s.bus.Publish(domain.NewBatchStartedEvent(batchID, runs, seed))
	}

	factory := s.streams(seed)
	results := make([]*domain.PlayResult, runs)
	errs := make([]error, runs)

	var wg sync.WaitGroup
	for i := range runs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				errs[i] = ctx.Err()
				return
			}
			sim := NewShuffleService(logger.With(slog.Int("run", i)), factory(uint64(i)), s.bus)
			if err := sim.Initialize(items, cfg); err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = sim.Run(cfg.Plays)
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		logger.Warn("batch cancelled", slog.Any("error", err))
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	batch := aggregate(batchID, seed, results)
	logger.Info("batch completed",
		slog.Int("runs", len(batch.Runs)),
		slog.Int("repeats", batch.Gaps.Count))
	if s.bus != nil {
		s.bus.Publish(domain.NewBatchCompletedEvent(batchID, len(batch.Runs)))
	}
	return batch, nil
}

func aggregate(batchID string, seed uint64, results []*domain.PlayResult) *domain.BatchResult {
	batch := &domain.BatchResult{
		BatchID: batchID,
		Seed:    seed,
		Runs:    results,
		Totals:  make(map[domain.ItemID]int),
		Gaps:    domain.GapStats{Histogram: make(map[int]int)},
	}
	for _, r := range results {
		for id, n := range r.Plays {
			batch.Totals[id] += n
		}
		if r.Playlist != nil {
			batch.Gaps.Merge(AnalyzeGaps(r.Playlist))
		}
	}
	return batch
}
