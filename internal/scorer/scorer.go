// Package scorer converts a sample into its z-scores against the two
// candidate distributions.
package scorer

import (
	"fmt"

	"github.com/vk/distsplit/internal/dist"
)

// Score returns z1 = (sample-mean1)/std1 and z2 = (sample-mean2)/std2.
// A non-positive standard deviation is rejected before dividing, and a
// result that is not finite is reported instead of returned.
func Score[T dist.Float](sample, mean1, std1, mean2, std2 T) (dist.ZScores[T], error) {
	return ScorePair(sample, dist.Params[T]{Mean: mean1, StdDev: std1}, dist.Params[T]{Mean: mean2, StdDev: std2})
}

// ScorePair is Score with the candidates given as Params.
func ScorePair[T dist.Float](sample T, first, second dist.Params[T]) (dist.ZScores[T], error) {
	if err := first.Validate(); err != nil {
		return dist.ZScores[T]{}, fmt.Errorf("distribution 1: %w", err)
	}
	if err := second.Validate(); err != nil {
		return dist.ZScores[T]{}, fmt.Errorf("distribution 2: %w", err)
	}
	if !dist.IsFinite(sample) {
		return dist.ZScores[T]{}, fmt.Errorf("%w: sample %v", dist.ErrNumericAnomaly, sample)
	}

	z := dist.ZScores[T]{
		Z1: (sample - first.Mean) / first.StdDev,
		Z2: (sample - second.Mean) / second.StdDev,
	}
	if !dist.IsFinite(z.Z1) || !dist.IsFinite(z.Z2) {
		return dist.ZScores[T]{}, fmt.Errorf("%w: z-scores (%v, %v) for sample %v", dist.ErrNumericAnomaly, z.Z1, z.Z2, sample)
	}
	return z, nil
}

// One returns the z-score of sample against a single distribution.
func One[T dist.Float](sample T, p dist.Params[T]) (T, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if !dist.IsFinite(sample) {
		return 0, fmt.Errorf("%w: sample %v", dist.ErrNumericAnomaly, sample)
	}
	z := (sample - p.Mean) / p.StdDev
	if !dist.IsFinite(z) {
		return 0, fmt.Errorf("%w: z-score %v for sample %v", dist.ErrNumericAnomaly, z, sample)
	}
	return z, nil
}
