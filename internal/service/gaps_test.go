package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
)

func TestAnalyzeGaps(t *testing.T) {
	stats := AnalyzeGaps([]domain.ItemID{1, 2, 1, 3, 2, 1})

	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 2, stats.Min)
	assert.Equal(t, 3, stats.Max)
	assert.InDelta(t, 8.0/3.0, stats.Mean, 1e-9)
	assert.Equal(t, map[int]int{2: 1, 3: 2}, stats.Histogram)
}

func TestAnalyzeGaps_NoRepeats(t *testing.T) {
	for _, trace := range [][]domain.ItemID{nil, {}, {4, 5, 6}} {
		stats := AnalyzeGaps(trace)
		assert.Zero(t, stats.Count)
		assert.Zero(t, stats.Mean)
		assert.Empty(t, stats.Histogram)
	}
}

func TestAnalyzeGaps_ImmediateRepeat(t *testing.T) {
	stats := AnalyzeGaps([]domain.ItemID{7, 7, 7})

	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 1, stats.Min)
	assert.Equal(t, 1, stats.Max)
	assert.Equal(t, map[int]int{1: 2}, stats.Histogram)
}
