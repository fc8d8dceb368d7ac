// Package testutil provides testing utilities for shuffleplay.
package testutil

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
)

// VerifyNoLeaks should be deferred at the start of tests that spawn goroutines.
// It verifies that no goroutines were leaked during the test.
func VerifyNoLeaks(t *testing.T, opts ...goleak.Option) {
	t.Helper()
	goleak.VerifyNone(t, opts...)
}

// AssertPermutation fails the test unless got holds exactly the items of want, each once.
func AssertPermutation(t *testing.T, want, got []domain.ItemID) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("playlist has %d items, want %d", len(got), len(want))
	}
	seen := make(map[domain.ItemID]int, len(want))
	for _, id := range want {
		seen[id]++
	}
	for _, id := range got {
		seen[id]--
	}
	for id, n := range seen {
		if n != 0 {
			t.Fatalf("item %d occurrence mismatch (%+d) in playlist %v", id, -n, got)
		}
	}
}

// SumCounts returns the total of all play counts.
func SumCounts(counts map[domain.ItemID]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
