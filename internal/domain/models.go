// Package domain contains the core simulation models with no external dependencies.
// This package defines the fundamental entities of the shuffle play simulator.
package domain

// ItemID is an opaque, strictly positive identifier naming a playable unit (a song).
// Identifiers need not be contiguous or sorted.
type ItemID int

// Default simulation parameters.
const (
	DefaultPlays      = 100
	DefaultRandomness = 0.05
	DefaultBuffer     = 4
	DefaultMinRec     = 0.2
)

// ShuffleConfig holds the parameters of one simulation run.
// It is immutable for the duration of the run.
type ShuffleConfig struct {
	// Plays is the number of plays performed by a full run (n in the original formulation)
	Plays int `json:"plays" toml:"plays"`

	// Randomness controls how fast the recycle bin approaches the full list as the list grows
	Randomness float64 `json:"randomness" toml:"randomness"`

	// Buffer is the minimum number of plays before an item may repeat
	Buffer int `json:"buffer" toml:"buffer"`

	// MinRec is the minimum proportion of the list the recycle bin spans
	MinRec float64 `json:"min_rec" toml:"min_rec"`

	// Verbose enables recording of the playback trace
	Verbose bool `json:"verbose" toml:"verbose"`
}

// DefaultShuffleConfig returns the documented default parameters.
func DefaultShuffleConfig() ShuffleConfig {
	return ShuffleConfig{
		Plays:      DefaultPlays,
		Randomness: DefaultRandomness,
		Buffer:     DefaultBuffer,
		MinRec:     DefaultMinRec,
	}
}

// RecycleWindow is the trailing range of playlist positions a played item is reinserted into.
// Positions are 1-indexed and inclusive: Start..Length.
type RecycleWindow struct {
	// Size is the number of trailing positions in the window
	Size int `json:"size"`

	// Start is the first position of the window
	Start int `json:"start"`

	// Length is the playlist length the window was computed for
	Length int `json:"length"`
}

// Contains reports whether the 1-indexed position lies inside the window.
func (w RecycleWindow) Contains(position int) bool {
	return position >= w.Start && position <= w.Length
}

// PlayResult is the outcome of a simulation run.
type PlayResult struct {
	// RunID uniquely identifies the run (UUID)
	RunID string `json:"run_id"`

	// Items lists the item identifiers in their original order
	Items []ItemID `json:"items"`

	// Plays maps each item to the number of times it was played
	Plays map[ItemID]int `json:"plays"`

	// Playlist is the chronological playback trace, only set for verbose runs
	Playlist []ItemID `json:"playlist,omitempty"`

	// Final is the playlist order after the last play
	Final []ItemID `json:"final"`

	// Window is the recycle window used for the whole run
	Window RecycleWindow `json:"window"`

	// TotalPlays is the number of plays performed
	TotalPlays int `json:"total_plays"`
}

// GapStats summarizes the distances between consecutive plays of the same item.
// A gap is the difference of play indices, so an immediate repeat has gap 1.
type GapStats struct {
	Count     int         `json:"count"`
	Min       int         `json:"min"`
	Max       int         `json:"max"`
	Mean      float64     `json:"mean"`
	Histogram map[int]int `json:"histogram"`
}

// Merge folds other into s.
func (s *GapStats) Merge(other GapStats) {
	if other.Count == 0 {
		return
	}
	if s.Histogram == nil {
		s.Histogram = make(map[int]int, len(other.Histogram))
	}
	total := s.Mean*float64(s.Count) + other.Mean*float64(other.Count)
	if s.Count == 0 || other.Min < s.Min {
		s.Min = other.Min
	}
	if other.Max > s.Max {
		s.Max = other.Max
	}
	s.Count += other.Count
	s.Mean = total / float64(s.Count)
	for gap, n := range other.Histogram {
		s.Histogram[gap] += n
	}
}

// BatchResult aggregates several independent runs over the same item set.
type BatchResult struct {
	// BatchID uniquely identifies the batch (UUID)
	BatchID string `json:"batch_id"`

	// Seed is the base seed every run stream was derived from
	Seed uint64 `json:"seed"`

	// Runs holds the per-run results in run order
	Runs []*PlayResult `json:"runs"`

	// Totals sums play counts across runs
	Totals map[ItemID]int `json:"totals"`

	// Gaps aggregates repeat gaps across verbose runs
	Gaps GapStats `json:"gaps"`
}

// DefaultExtensions lists the audio file extensions a library scan recognizes
// when none are configured.
var DefaultExtensions = []string{
	".mp3", ".flac", ".ogg", ".oga", ".m4a", ".m4b", ".mp4", ".aac", ".wav", ".aiff", ".dsf",
}

// CatalogEntry ties an item identifier to a file in an audio library.
type CatalogEntry struct {
	ID       ItemID `json:"id"`
	FilePath string `json:"file_path"`
	Title    string `json:"title"`
	Artist   string `json:"artist,omitempty"`
	Album    string `json:"album,omitempty"`
}

// SongRange returns the identifiers 1..n.
func SongRange(n int) []ItemID {
	if n <= 0 {
		return nil
	}
	items := make([]ItemID, n)
	for i := range items {
		items[i] = ItemID(i + 1)
	}
	return items
}
