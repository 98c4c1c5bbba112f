// Package classifier labels a sample from its z-scores.
//
// The rule is the smaller absolute z-score wins. Equal magnitudes resolve to
// Distribution 2, and Nearest keeps the same bias for K candidates by
// preferring the later one on a tie.
package classifier

import (
	"errors"
	"fmt"
	"math"

	"github.com/vk/distsplit/internal/dist"
	"github.com/vk/distsplit/internal/scorer"
)

// ErrNoCandidates is returned by Nearest when given an empty candidate list.
var ErrNoCandidates = errors.New("no candidate distributions")

// Classify returns Distribution1 when |z1| < |z2| and Distribution2
// otherwise. NaN input, or infinite magnitudes on both sides, cannot be
// ordered and is reported as a numeric anomaly.
func Classify[T dist.Float](z dist.ZScores[T]) (dist.Label, error) {
	a, b := float64(z.Z1), float64(z.Z2)
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, fmt.Errorf("%w: cannot compare z-scores (%v, %v)", dist.ErrNumericAnomaly, z.Z1, z.Z2)
	}
	if math.IsInf(a, 0) && math.IsInf(b, 0) {
		return 0, fmt.Errorf("%w: both z-scores are infinite", dist.ErrNumericAnomaly)
	}
	if math.Abs(a) < math.Abs(b) {
		return dist.Distribution1, nil
	}
	return dist.Distribution2, nil
}

// Nearest returns the index of the candidate with the smallest absolute
// z-score for sample. With two candidates it agrees with Classify.
func Nearest[T dist.Float](sample T, candidates []dist.Params[T]) (int, error) {
	if len(candidates) == 0 {
		return -1, ErrNoCandidates
	}
	best := -1
	bestAbs := math.Inf(1)
	for i, c := range candidates {
		z, err := scorer.One(sample, c)
		if err != nil {
			return -1, fmt.Errorf("candidate %d: %w", i+1, err)
		}
		if abs := math.Abs(float64(z)); abs <= bestAbs {
			best, bestAbs = i, abs
		}
	}
	return best, nil
}
