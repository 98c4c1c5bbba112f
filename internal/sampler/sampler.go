package sampler

import (
	"fmt"
	"math/rand/v2"

	"github.com/vk/distsplit/internal/dist"
)

// Generator produces one sample per call from [low, high]. count records how
// many samples the caller intends to draw over the whole run; it never makes
// a call return more than one value.
type Generator[T dist.Float] interface {
	Generate(low, high T, count int) (T, error)
}

// Sampler draws uniformly distributed samples from its own PCG source.
type Sampler[T dist.Float] struct {
	rng       *rand.Rand
	requested int
	drawn     int
}

// New creates a sampler seeded with seed.
func New[T dist.Float](seed Seed) *Sampler[T] {
	return &Sampler[T]{rng: rand.New(rand.NewPCG(seed.Hi, seed.Lo))}
}

// NewFromEntropy creates a sampler seeded from the operating system.
func NewFromEntropy[T dist.Float]() (*Sampler[T], error) {
	seed, err := EntropySeed()
	if err != nil {
		return nil, err
	}
	return New[T](seed), nil
}

// Generate returns one value in [low, high). When low == high the single
// admissible value is returned.
func (s *Sampler[T]) Generate(low, high T, count int) (T, error) {
	if err := (dist.Range[T]{Low: low, High: high}).Validate(); err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, fmt.Errorf("%w: sample count must not be negative, got %d", dist.ErrInvalidParameter, count)
	}
	s.requested = count
	s.drawn++

	if low == high {
		return low, nil
	}

	lo, hi := float64(low), float64(high)
	// Interpolating avoids computing hi-lo, which overflows for ranges
	// wider than the largest finite float64.
	u := s.rng.Float64()
	v := T(lo*(1-u) + hi*u)
	// Narrowing to float32 can round up onto the bound.
	if v > high {
		v = high
	}
	if v < low {
		v = low
	}
	if !dist.IsFinite(v) {
		return 0, fmt.Errorf("%w: generated sample %v", dist.ErrNumericAnomaly, v)
	}
	return v, nil
}

// Requested returns the count passed to the most recent Generate call.
func (s *Sampler[T]) Requested() int { return s.requested }

// Drawn returns how many samples this sampler has produced.
func (s *Sampler[T]) Drawn() int { return s.drawn }

// Fixed is a Generator that always returns Value, provided it lies inside
// the requested range.
type Fixed[T dist.Float] struct {
	Value T
}

// Generate implements Generator.
func (f Fixed[T]) Generate(low, high T, count int) (T, error) {
	r := dist.Range[T]{Low: low, High: high}
	if err := r.Validate(); err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, fmt.Errorf("%w: sample count must not be negative, got %d", dist.ErrInvalidParameter, count)
	}
	if !dist.IsFinite(f.Value) {
		return 0, fmt.Errorf("%w: fixed sample %v", dist.ErrNumericAnomaly, f.Value)
	}
	if !r.Contains(f.Value) {
		return 0, fmt.Errorf("%w: fixed sample %v outside [%v, %v]", dist.ErrInvalidRange, f.Value, low, high)
	}
	return f.Value, nil
}
