package random

import (
	"sync"

	"github.com/tejashwikalptaru/shuffleplay/internal/ports"
)

// Scripted is a deterministic ports.RandomSource for tests.
// Shuffle leaves the order untouched unless a permutation is queued, and Uniform
// replays queued fractions in order, mapping fraction f to lo + (hi-lo)*f.
//
// Thread-safety: This implementation is thread-safe.
type Scripted struct {
	mu        sync.Mutex
	fractions []float64
	next      int
	perms     [][]int

	// Calls records every Uniform call as {lo, hi}
	Calls [][2]float64
}

// NewScripted creates a source replaying fractions. When the fractions run out
// the sequence starts over; with no fractions Uniform always returns lo.
func NewScripted(fractions ...float64) *Scripted {
	return &Scripted{fractions: fractions}
}

// QueuePermutation makes the next Shuffle call arrange elements so that the element
// originally at perm[k] ends up at position k. perm must be a permutation of 0..n-1.
func (s *Scripted) QueuePermutation(perm []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.perms = append(s.perms, append([]int(nil), perm...))
}

// Shuffle implements ports.RandomSource.
func (s *Scripted) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	if len(s.perms) == 0 {
		s.mu.Unlock()
		return
	}
	perm := s.perms[0]
	s.perms = s.perms[1:]
	s.mu.Unlock()

	// pos[e] tracks where original element e currently sits, at[p] the element at p.
	pos := make([]int, n)
	at := make([]int, n)
	for i := range pos {
		pos[i], at[i] = i, i
	}
	for k := 0; k < n && k < len(perm); k++ {
		j := pos[perm[k]]
		if j == k {
			continue
		}
		swap(k, j)
		ek, ej := at[k], at[j]
		at[k], at[j] = ej, ek
		pos[ej], pos[ek] = k, j
	}
}

// Uniform implements ports.RandomSource.
func (s *Scripted) Uniform(lo, hi float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, [2]float64{lo, hi})
	if len(s.fractions) == 0 {
		return lo
	}
	f := s.fractions[s.next%len(s.fractions)]
	s.next++
	return lo + (hi-lo)*f
}

var _ ports.RandomSource = (*Scripted)(nil)
