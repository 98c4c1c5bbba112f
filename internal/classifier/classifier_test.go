package classifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/distsplit/internal/dist"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		z    dist.ZScores[float64]
		want dist.Label
	}{
		{name: "closer to first", z: dist.ZScores[float64]{Z1: 0.25, Z2: -4.9167}, want: dist.Distribution1},
		{name: "closer to second", z: dist.ZScores[float64]{Z1: 13.75, Z2: -0.4167}, want: dist.Distribution2},
		{name: "tie", z: dist.ZScores[float64]{Z1: 5, Z2: 5}, want: dist.Distribution2},
		{name: "tie opposite signs", z: dist.ZScores[float64]{Z1: -2, Z2: 2}, want: dist.Distribution2},
		{name: "both zero", z: dist.ZScores[float64]{}, want: dist.Distribution2},
		{name: "sign ignored", z: dist.ZScores[float64]{Z1: -1, Z2: 1.5}, want: dist.Distribution1},
		{name: "infinite second", z: dist.ZScores[float64]{Z1: 1e300, Z2: math.Inf(-1)}, want: dist.Distribution1},
		{name: "infinite first", z: dist.ZScores[float64]{Z1: math.Inf(1), Z2: 3}, want: dist.Distribution2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Classify(tc.z)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	z := dist.ZScores[float32]{Z1: 1.5, Z2: -1.25}
	first, err := Classify(z)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		got, err := Classify(z)
		require.NoError(t, err)
		require.Equal(t, first, got)
	}
}

func TestClassify_NumericAnomaly(t *testing.T) {
	t.Parallel()

	for _, z := range []dist.ZScores[float64]{
		{Z1: math.NaN(), Z2: 1},
		{Z1: 1, Z2: math.NaN()},
		{Z1: math.Inf(1), Z2: math.Inf(-1)},
	} {
		_, err := Classify(z)
		assert.ErrorIs(t, err, dist.ErrNumericAnomaly, "scores %+v", z)
	}
}

func TestNearest(t *testing.T) {
	t.Parallel()

	candidates := []dist.Params[float64]{
		{Mean: 30, StdDev: 4},
		{Mean: 90, StdDev: 12},
		{Mean: 60, StdDev: 1},
	}

	got, err := Nearest(31.0, candidates)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = Nearest(60.5, candidates)
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	_, err = Nearest(31.0, nil)
	assert.ErrorIs(t, err, ErrNoCandidates)

	_, err = Nearest(31.0, []dist.Params[float64]{{Mean: 1, StdDev: 0}})
	assert.ErrorIs(t, err, dist.ErrInvalidParameter)
}

func TestNearest_AgreesWithClassify(t *testing.T) {
	t.Parallel()

	first := dist.Params[float64]{Mean: 30, StdDev: 4}
	second := dist.Params[float64]{Mean: 90, StdDev: 12}
	// 45 lies at z = 3.75 and z = -3.75: an exact tie.
	for _, sample := range []float64{1, 31, 45, 60, 85, 100} {
		idx, err := Nearest(sample, []dist.Params[float64]{first, second})
		require.NoError(t, err)
		label, err := Classify(dist.ZScores[float64]{
			Z1: (sample - first.Mean) / first.StdDev,
			Z2: (sample - second.Mean) / second.StdDev,
		})
		require.NoError(t, err)
		assert.Equal(t, label, dist.Labels()[idx], "sample %v", sample)
	}
}
