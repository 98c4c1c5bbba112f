package dist

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Float is the set of real-number precisions a run can be instantiated with.
type Float interface {
	constraints.Float
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite[T Float](v T) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Range is the closed interval samples are drawn from.
type Range[T Float] struct {
	Low  T
	High T
}

// Validate checks Low <= High with both bounds finite.
func (r Range[T]) Validate() error {
	if !IsFinite(r.Low) || !IsFinite(r.High) {
		return fmt.Errorf("%w: bounds must be finite, got [%v, %v]", ErrInvalidRange, r.Low, r.High)
	}
	if r.Low > r.High {
		return fmt.Errorf("%w: low %v exceeds high %v", ErrInvalidRange, r.Low, r.High)
	}
	return nil
}

// Contains reports whether v lies within [Low, High].
func (r Range[T]) Contains(v T) bool {
	return v >= r.Low && v <= r.High
}

// Params describes one hypothesized Gaussian distribution.
type Params[T Float] struct {
	Mean   T
	StdDev T
}

// Validate checks StdDev > 0 with both fields finite.
func (p Params[T]) Validate() error {
	if !IsFinite(p.Mean) || !IsFinite(p.StdDev) {
		return fmt.Errorf("%w: mean and stddev must be finite, got (%v, %v)", ErrInvalidParameter, p.Mean, p.StdDev)
	}
	if !(p.StdDev > 0) {
		return fmt.Errorf("%w: stddev must be positive, got %v", ErrInvalidParameter, p.StdDev)
	}
	return nil
}

// ZScores holds the standardized distance of one sample from each of the
// two candidate distributions.
type ZScores[T Float] struct {
	Z1 T
	Z2 T
}

// Label is the terminal output of a trial.
type Label int

const (
	// Distribution1 means the sample is closer to the first candidate.
	Distribution1 Label = iota + 1
	// Distribution2 means the sample is closer to the second candidate, or
	// equally close to both.
	Distribution2
)

// String returns the text written to the classification stream.
func (l Label) String() string {
	switch l {
	case Distribution1:
		return "Distribution 1"
	case Distribution2:
		return "Distribution 2"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// Labels lists every valid label in order.
func Labels() []Label {
	return []Label{Distribution1, Distribution2}
}
