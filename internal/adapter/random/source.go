// Package random provides explicitly owned random sources for the simulator.
//
// Every simulation owns its generator; nothing here touches the global math/rand state,
// so a run is reproducible from its seed and independent runs can execute in parallel.
package random

import (
	"math/rand/v2"
	"sync"

	"github.com/tejashwikalptaru/shuffleplay/internal/ports"
)

// Source is a seeded PCG generator implementing ports.RandomSource.
// It is not safe for concurrent use; see Locked.
type Source struct {
	seed uint64
	rng  *rand.Rand
}

// NewSource creates a source whose stream is fully determined by seed.
func NewSource(seed uint64) *Source {
	return &Source{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, splitMix64(seed))),
	}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() uint64 {
	return s.seed
}

// Shuffle permutes n elements with a Fisher-Yates shuffle.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// Uniform returns a value in [lo, hi]. Reversed bounds are swapped.
func (s *Source) Uniform(lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + (hi-lo)*s.rng.Float64()
}

// Stream derives the source for stream index i of a base seed. Streams of one
// base seed are decorrelated by passing the pair through SplitMix64 twice.
func Stream(base, i uint64) *Source {
	return NewSource(DeriveSeed(base, i))
}

// DeriveSeed returns the seed of stream i of base.
func DeriveSeed(base, i uint64) uint64 {
	return splitMix64(splitMix64(base) ^ (i + 1))
}

// Factory returns a ports.SourceFactory producing the streams of base.
func Factory(base uint64) ports.SourceFactory {
	return func(stream uint64) ports.RandomSource {
		return Stream(base, stream)
	}
}

// NewSeed draws a fresh base seed from the runtime's auto-seeded generator.
// It is only used when the caller did not ask for a reproducible run.
func NewSeed() uint64 {
	for {
		if seed := rand.Uint64(); seed != 0 {
			return seed
		}
	}
}

func splitMix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Locked serializes access to a source shared by several goroutines.
type Locked struct {
	mu  sync.Mutex
	src ports.RandomSource
}

// NewLocked wraps src.
func NewLocked(src ports.RandomSource) *Locked {
	return &Locked{src: src}
}

// Shuffle implements ports.RandomSource.
func (l *Locked) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.src.Shuffle(n, swap)
}

// Uniform implements ports.RandomSource.
func (l *Locked) Uniform(lo, hi float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Uniform(lo, hi)
}

var (
	_ ports.RandomSource = (*Source)(nil)
	_ ports.RandomSource = (*Locked)(nil)
)
