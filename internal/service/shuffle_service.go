// Package service provides the simulation logic of the shuffle play simulator.
package service

import (
	"log/slog"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
	"github.com/tejashwikalptaru/shuffleplay/internal/ports"
)

// rankBias is added to the uniform draw before truncation. It turns the draw into a
// round-to-nearest rank and keeps the played item from tying with its own slot.
const rankBias = 0.5

// ShuffleService simulates shuffle play over a fixed item set.
//
// After Initialize shuffles the items, every Play takes the head of the playlist,
// counts it, and reinserts it at a random rank inside the trailing recycle window.
// A simulation is sequential; the mutex only makes the accessors safe to call from
// other goroutines. Events are published after the mutex is released, so handlers
// may call the accessors.
type ShuffleService struct {
	// Dependencies (injected)
	logger *slog.Logger
	rng    ports.RandomSource
	bus    ports.EventBus

	// State
	initialized bool
	runID       string
	cfg         domain.ShuffleConfig
	window      domain.RecycleWindow
	items       []domain.ItemID // original order
	playlist    []int           // positions into items
	counts      []int           // indexed by original position
	lastStep    []int           // step of the last play by original position, 0 if never played
	trace       []domain.ItemID
	step        int

	mu sync.RWMutex
}

// NewShuffleService creates a simulator drawing from rng. bus may be nil.
func NewShuffleService(logger *slog.Logger, rng ports.RandomSource, bus ports.EventBus) *ShuffleService {
	return &ShuffleService{
		logger: logger,
		rng:    rng,
		bus:    bus,
	}
}

// Initialize validates items and cfg, shuffles the items uniformly, zeroes the play
// counts and freezes the recycle window. Calling it again discards the previous state.
//
// Returns an error matching domain.ErrInvalidConfiguration when items are empty,
// duplicated or non-positive, or when a parameter is outside its domain.
func (s *ShuffleService) Initialize(items []domain.ItemID, cfg domain.ShuffleConfig) error {
	if err := domain.ValidateItems(items); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()

	n := len(items)
	s.items = append([]domain.ItemID(nil), items...)
	s.playlist = make([]int, n)
	for i := range s.playlist {
		s.playlist[i] = i
	}
	s.rng.Shuffle(n, func(i, j int) {
		s.playlist[i], s.playlist[j] = s.playlist[j], s.playlist[i]
	})

	s.counts = make([]int, n)
	s.lastStep = make([]int, n)
	s.trace = nil
	if cfg.Verbose {
		s.trace = make([]domain.ItemID, 0, cfg.Plays)
	}
	s.step = 0
	s.cfg = cfg
	s.window = ComputeRecycleWindow(n, cfg)
	s.runID = uuid.New().String()
	s.initialized = true

	s.logger.Debug("simulation initialized",
		slog.String("run_id", s.runID),
		slog.Int("items", n),
		slog.Int("recycle", s.window.Size),
		slog.Int("start", s.window.Start))

	event := domain.NewSimulationInitializedEvent(s.runID, n, s.window)
	s.mu.Unlock()

	s.publish(event)
	return nil
}

// Play advances playback by one step and returns the played item.
// Returns domain.ErrNotInitialized before Initialize.
func (s *ShuffleService) Play() (domain.ItemID, error) {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return 0, domain.ErrNotInitialized
	}
	id, event := s.playLocked()
	s.mu.Unlock()

	s.publish(event)
	return id, nil
}

// playLocked performs one play. The returned event is nil when nobody listens.
func (s *ShuffleService) playLocked() (domain.ItemID, domain.Event) {
	head := s.playlist[0]
	id := s.items[head]

	s.counts[head]++
	s.step++
	gap := 0
	if last := s.lastStep[head]; last > 0 {
		gap = s.step - last
	}
	s.lastStep[head] = s.step
	if s.cfg.Verbose {
		s.trace = append(s.trace, id)
	}

	rank := 1
	if n := len(s.playlist); n > 1 {
		rank = s.drawRank()
		// Items 2..rank move forward one slot; the head takes slot rank.
		copy(s.playlist[:rank-1], s.playlist[1:rank])
		s.playlist[rank-1] = head
	}

	if s.bus == nil || !s.bus.HasSubscribers(domain.EventItemPlayed) {
		return id, nil
	}
	return id, domain.NewItemPlayedEvent(s.runID, id, s.step, rank, gap)
}

func (s *ShuffleService) publish(event domain.Event) {
	if s.bus != nil && event != nil {
		s.bus.Publish(event)
	}
}

// drawRank returns the 1-indexed reinsertion rank inside the recycle window.
func (s *ShuffleService) drawRank() int {
	lo, hi := float64(s.window.Start), float64(s.window.Length)
	rank := int(math.Floor(s.rng.Uniform(lo, hi) + rankBias))
	return min(max(rank, s.window.Start), s.window.Length)
}

// Run plays totalPlays times and returns the cumulative result. Runs continue from the
// current state, so counts accumulate until the next Initialize.
//
// Returns domain.ErrNotInitialized before Initialize and an error matching
// domain.ErrInvalidConfiguration for a negative totalPlays.
func (s *ShuffleService) Run(totalPlays int) (*domain.PlayResult, error) {
	if totalPlays < 0 {
		return nil, domain.NewValidationError("plays", totalPlays, "must be non-negative")
	}

	for range totalPlays {
		if _, err := s.Play(); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	if !s.initialized {
		s.mu.RUnlock()
		return nil, domain.ErrNotInitialized
	}
	result := s.resultLocked()
	s.mu.RUnlock()

	s.logger.Debug("run completed",
		slog.String("run_id", result.RunID),
		slog.Int("plays", totalPlays),
		slog.Int("total_plays", result.TotalPlays))

	s.publish(domain.NewRunCompletedEvent(result.RunID, result.TotalPlays))
	return result, nil
}

func (s *ShuffleService) resultLocked() *domain.PlayResult {
	plays := make(map[domain.ItemID]int, len(s.items))
	for i, id := range s.items {
		plays[id] = s.counts[i]
	}

	result := &domain.PlayResult{
		RunID:      s.runID,
		Items:      append([]domain.ItemID(nil), s.items...),
		Plays:      plays,
		Final:      s.orderLocked(),
		Window:     s.window,
		TotalPlays: s.step,
	}
	if s.cfg.Verbose {
		result.Playlist = append(make([]domain.ItemID, 0, len(s.trace)), s.trace...)
	}
	return result
}

func (s *ShuffleService) orderLocked() []domain.ItemID {
	order := make([]domain.ItemID, len(s.playlist))
	for i, pos := range s.playlist {
		order[i] = s.items[pos]
	}
	return order
}

// Playlist returns a copy of the current playlist order, nil before Initialize.
func (s *ShuffleService) Playlist() []domain.ItemID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil
	}
	return s.orderLocked()
}

// Counts returns a copy of the play counts keyed by item.
func (s *ShuffleService) Counts() map[domain.ItemID]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.ItemID]int, len(s.items))
	for i, id := range s.items {
		counts[id] = s.counts[i]
	}
	return counts
}

// Window returns the frozen recycle window.
func (s *ShuffleService) Window() domain.RecycleWindow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window
}

// RunID returns the identifier assigned by the last Initialize.
func (s *ShuffleService) RunID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runID
}

// IsInitialized reports whether Initialize has succeeded.
func (s *ShuffleService) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// ShufflePlay initializes a simulator over songs and runs cfg.Plays plays.
// It is the one-call entry point for the common case.
func ShufflePlay(songs []domain.ItemID, cfg domain.ShuffleConfig, rng ports.RandomSource) (*domain.PlayResult, error) {
	sim := NewShuffleService(slog.New(slog.DiscardHandler), rng, nil)
	if err := sim.Initialize(songs, cfg); err != nil {
		return nil, err
	}
	return sim.Run(cfg.Plays)
}

var _ interface {
	Initialize([]domain.ItemID, domain.ShuffleConfig) error
	Play() (domain.ItemID, error)
	Run(int) (*domain.PlayResult, error)
	Playlist() []domain.ItemID
	Counts() map[domain.ItemID]int
	Window() domain.RecycleWindow
} = (*ShuffleService)(nil)
