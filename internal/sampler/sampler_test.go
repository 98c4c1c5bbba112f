package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/distsplit/internal/dist"
)

func drawMany[T dist.Float](t *testing.T, low, high T, n int) []T {
	t.Helper()
	s, err := NewFromEntropy[T]()
	require.NoError(t, err)
	out := make([]T, n)
	for i := range out {
		v, err := s.Generate(low, high, n)
		require.NoError(t, err)
		out[i] = v
	}
	return out
}

func TestGenerate_StaysInRange(t *testing.T) {
	t.Parallel()

	const n = 10_000
	t.Run("float32", func(t *testing.T) {
		t.Parallel()
		for _, v := range drawMany[float32](t, 1, 100, n) {
			require.GreaterOrEqual(t, v, float32(1))
			require.LessOrEqual(t, v, float32(100))
		}
	})
	t.Run("float64", func(t *testing.T) {
		t.Parallel()
		for _, v := range drawMany[float64](t, -0.5, 0.5, n) {
			require.GreaterOrEqual(t, v, -0.5)
			require.LessOrEqual(t, v, 0.5)
		}
	})
	t.Run("float32 near one ulp", func(t *testing.T) {
		t.Parallel()
		high := math.Nextafter32(1, 2)
		for _, v := range drawMany[float32](t, 1, high, n) {
			require.True(t, v == 1 || v == high, "got %v", v)
		}
	})
}

func TestGenerate_CoversRange(t *testing.T) {
	t.Parallel()

	var below, above int
	for _, v := range drawMany[float64](t, 0, 1, 10_000) {
		if v < 0.5 {
			below++
		} else {
			above++
		}
	}
	// Both halves of a uniform draw are hit about equally often.
	assert.InDelta(t, 5000, below, 500)
	assert.InDelta(t, 5000, above, 500)
}

func TestGenerate_FullFloatRange(t *testing.T) {
	t.Parallel()

	t.Run("float64", func(t *testing.T) {
		t.Parallel()
		var neg, pos int
		for _, v := range drawMany[float64](t, -math.MaxFloat64, math.MaxFloat64, 1000) {
			require.False(t, math.IsInf(v, 0) || math.IsNaN(v), "got %v", v)
			if v < 0 {
				neg++
			} else {
				pos++
			}
		}
		assert.InDelta(t, 500, neg, 100)
		assert.InDelta(t, 500, pos, 100)
	})
	t.Run("float32", func(t *testing.T) {
		t.Parallel()
		var atHigh int
		for _, v := range drawMany[float32](t, -math.MaxFloat32, math.MaxFloat32, 1000) {
			if v == math.MaxFloat32 {
				atHigh++
			}
		}
		assert.Less(t, atHigh, 10)
	})
}

func TestGenerate_Errors(t *testing.T) {
	t.Parallel()

	s := New[float64](Seed{Hi: 1, Lo: 2})

	_, err := s.Generate(100, 1, 1)
	require.ErrorIs(t, err, dist.ErrInvalidRange)

	_, err = s.Generate(math.NaN(), 1, 1)
	require.ErrorIs(t, err, dist.ErrInvalidRange)

	_, err = s.Generate(1, 2, -1)
	require.ErrorIs(t, err, dist.ErrInvalidParameter)

	assert.Zero(t, s.Drawn(), "failed calls must not count as draws")
}

func TestGenerate_DegenerateRange(t *testing.T) {
	t.Parallel()

	s := New[float32](Seed{Hi: 3, Lo: 4})
	v, err := s.Generate(42, 42, 10)
	require.NoError(t, err)
	assert.Equal(t, float32(42), v)
}

func TestGenerate_OneSamplePerCall(t *testing.T) {
	t.Parallel()

	s := New[float64](Seed{Hi: 5, Lo: 6})
	for i := 0; i < 3; i++ {
		_, err := s.Generate(0, 1, 1000)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, s.Drawn())
	assert.Equal(t, 1000, s.Requested())
}

func TestNew_SameSeedSameStream(t *testing.T) {
	t.Parallel()

	seed := DeriveSeed(1234, 7)
	a, b := New[float64](seed), New[float64](seed)
	for i := 0; i < 100; i++ {
		va, err := a.Generate(1, 100, 1)
		require.NoError(t, err)
		vb, err := b.Generate(1, 100, 1)
		require.NoError(t, err)
		require.Equal(t, va, vb, "draw %d diverged", i)
	}
}

func TestDeriveSeed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DeriveSeed(99, 3), DeriveSeed(99, 3))

	seen := make(map[Seed]int)
	for i := 0; i < 1000; i++ {
		s := DeriveSeed(99, i)
		prev, dup := seen[s]
		require.False(t, dup, "index %d collides with index %d", i, prev)
		seen[s] = i
	}
	assert.NotEqual(t, DeriveSeed(1, 0), DeriveSeed(2, 0))
}

func TestEntropySeed_Distinct(t *testing.T) {
	t.Parallel()

	a, err := EntropySeed()
	require.NoError(t, err)
	b, err := EntropySeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestFixed(t *testing.T) {
	t.Parallel()

	v, err := Fixed[float32]{Value: 31}.Generate(1, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(31), v)

	_, err = Fixed[float32]{Value: 101}.Generate(1, 100, 1)
	assert.ErrorIs(t, err, dist.ErrInvalidRange)

	_, err = Fixed[float64]{Value: math.NaN()}.Generate(1, 100, 1)
	assert.ErrorIs(t, err, dist.ErrNumericAnomaly)

	_, err = Fixed[float64]{Value: 5}.Generate(10, 1, 1)
	assert.ErrorIs(t, err, dist.ErrInvalidRange)
}
