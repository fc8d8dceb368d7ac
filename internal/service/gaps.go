package service

import "github.com/tejashwikalptaru/shuffleplay/internal/domain"

// AnalyzeGaps measures the distance between consecutive plays of each item in a
// playback trace. A trace with no repeats yields a zero GapStats with an empty histogram.
func AnalyzeGaps(trace []domain.ItemID) domain.GapStats {
	stats := domain.GapStats{Histogram: make(map[int]int)}
	last := make(map[domain.ItemID]int, len(trace))

	sum := 0
	for step, id := range trace {
		if prev, ok := last[id]; ok {
			gap := step - prev
			if stats.Count == 0 || gap < stats.Min {
				stats.Min = gap
			}
			if gap > stats.Max {
				stats.Max = gap
			}
			stats.Histogram[gap]++
			stats.Count++
			sum += gap
		}
		last[id] = step
	}

	if stats.Count > 0 {
		stats.Mean = float64(sum) / float64(stats.Count)
	}
	return stats
}
