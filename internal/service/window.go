package service

import (
	"math"

	"github.com/tejashwikalptaru/shuffleplay/internal/domain"
)

// ComputeRecycleWindow sizes the recycle bin for a playlist of n items.
//
//	base         = 1 - exp(-randomness * ln(n))
//	proportional = n * max(minRec, base)
//	recycle      = min(max(1, n - buffer), round(proportional)), at least 1
//	start        = max(1, n - recycle)
//
// round is round-half-to-even. The caller validates cfg; n < 1 yields the zero window.
func ComputeRecycleWindow(n int, cfg domain.ShuffleConfig) domain.RecycleWindow {
	if n < 1 {
		return domain.RecycleWindow{}
	}

	length := float64(n)
	base := 1 - math.Exp(-cfg.Randomness*math.Log(length))
	proportional := length * math.Max(cfg.MinRec, base)

	recycle := min(max(1, n-cfg.Buffer), int(math.RoundToEven(proportional)))
	recycle = max(1, recycle)

	return domain.RecycleWindow{
		Size:   recycle,
		Start:  max(1, n-recycle),
		Length: n,
	}
}
