package app_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/distsplit/internal/app"
	"github.com/vk/distsplit/internal/config"
	"github.com/vk/distsplit/internal/dist"
	"github.com/vk/distsplit/internal/harness"
	"github.com/vk/distsplit/internal/sink/socketio"
	"github.com/vk/distsplit/internal/testutil"
)

const twoExperiments = `
experiment "near-first" {
  trials  = 12
  ordered = true
  seed    = 3

  range {
    low  = 29
    high = 31
  }
}

experiment "near-second" {
  trials    = 8
  precision = "float64"

  range {
    low  = 88
    high = max(88, 92)
  }
  distribution "a" {
    mean   = 30
    stddev = 4
  }
  distribution "b" {
    mean   = 90
    stddev = pow(2, 3) + 4
  }
}
`

func scrape(t *testing.T, a *app.App) string {
	t.Helper()
	rec := httptest.NewRecorder()
	a.Metrics().Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestApp_DefaultExperiment(t *testing.T) {
	t.Parallel()

	seed := uint64(99)
	ordered := true
	result := testutil.RunApp(context.Background(), t, nil, app.Config{
		Overrides: config.Overrides{Seed: &seed, Ordered: &ordered},
	})

	require.NoError(t, result.Err)
	testutil.AssertLabelLines(t, result.Output, 10)
	assert.Equal(t, config.DefaultName, result.App.Experiment().Name)
	assert.Contains(t, result.LogOutput, "🚀 Starting concurrent trials...")
	assert.Contains(t, result.LogOutput, "🏁 Trials finished.")
	assert.Contains(t, result.LogOutput, "run_id=")
	assert.NotContains(t, result.Output.String(), "level=", "logs must not leak into the result stream")

	body := scrape(t, result.App)
	assert.Contains(t, body, "distsplit_trial_duration_seconds_count 10")
	assert.Contains(t, body, "distsplit_trials_in_flight 0")
}

func TestApp_SelectsNamedExperiment(t *testing.T) {
	t.Parallel()

	files := map[string]string{"exp/main.hcl": twoExperiments}

	t.Run("near first", func(t *testing.T) {
		t.Parallel()
		result := testutil.RunApp(context.Background(), t, files, app.Config{Experiment: "near-first"})
		require.NoError(t, result.Err)
		for _, l := range testutil.AssertLabelLines(t, result.Output, 12) {
			assert.Equal(t, dist.Distribution1.String(), l)
		}
		assert.Contains(t, scrape(t, result.App), `distsplit_trials_total{label="Distribution 1"} 12`)
	})

	t.Run("near second with expressions", func(t *testing.T) {
		t.Parallel()
		result := testutil.RunApp(context.Background(), t, files, app.Config{Experiment: "near-second"})
		require.NoError(t, result.Err)
		exp := result.App.Experiment()
		assert.Equal(t, config.Float64, exp.Precision)
		assert.Equal(t, 92.0, exp.Range.High)
		assert.Equal(t, 12.0, exp.Distributions[1].StdDev)
		for _, l := range testutil.AssertLabelLines(t, result.Output, 8) {
			assert.Equal(t, dist.Distribution2.String(), l)
		}
	})

	t.Run("ambiguous", func(t *testing.T) {
		t.Parallel()
		result := testutil.RunApp(context.Background(), t, files, app.Config{})
		require.ErrorIs(t, result.Err, app.ErrConfig)
		assert.Contains(t, result.Err.Error(), "near-first, near-second")
		assert.Nil(t, result.App)
	})
}

func TestApp_OverridesBeatFile(t *testing.T) {
	t.Parallel()

	trials := 4
	mean1 := 90.0
	result := testutil.RunApp(context.Background(), t, map[string]string{"main.hcl": twoExperiments}, app.Config{
		Experiment: "near-first",
		Overrides:  config.Overrides{Trials: &trials, Mean1: &mean1},
	})

	require.NoError(t, result.Err)
	exp := result.App.Experiment()
	assert.Equal(t, 4, exp.Trials)
	assert.Equal(t, 90.0, exp.Distributions[0].Mean)
	assert.Equal(t, uint64(3), exp.Seed, "file values survive when not overridden")
	testutil.AssertLabelLines(t, result.Output, 4)
}

func TestApp_ZeroStdDevFailsFast(t *testing.T) {
	t.Parallel()

	zero := 0.0
	result := testutil.RunApp(context.Background(), t, nil, app.Config{
		Overrides: config.Overrides{StdDev1: &zero},
	})

	require.ErrorIs(t, result.Err, app.ErrConfig)
	require.ErrorIs(t, result.Err, dist.ErrInvalidParameter)
	assert.Nil(t, result.App)
	assert.Empty(t, result.Output.String())
	assert.NotContains(t, result.LogOutput, "Starting concurrent trials")
}

func TestApp_NarrowingToFloat32IsRejected(t *testing.T) {
	t.Parallel()

	tiny := 1e-50
	result := testutil.RunApp(context.Background(), t, nil, app.Config{
		Overrides: config.Overrides{StdDev2: &tiny},
	})

	require.ErrorIs(t, result.Err, app.ErrConfig)
	require.ErrorIs(t, result.Err, dist.ErrInvalidParameter)
	assert.NotErrorIs(t, result.Err, harness.ErrTrialsFailed)
	assert.Empty(t, result.Output.String())
}

func TestApp_CancelledContextFailsTrials(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := testutil.RunApp(ctx, t, nil, app.Config{})

	require.ErrorIs(t, result.Err, harness.ErrTrialsFailed)
	require.ErrorIs(t, result.Err, context.Canceled)
	assert.Empty(t, result.Output.String())
}

func TestApp_UnreachableSocketIOAbortsBeforeTrials(t *testing.T) {
	t.Parallel()

	result := testutil.RunApp(context.Background(), t, nil, app.Config{
		SocketIO: socketio.Config{URL: "http://127.0.0.1:1", ConnectTimeout: 300 * time.Millisecond},
	})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "socket.io sink")
	assert.Empty(t, result.Output.String())
	assert.NotContains(t, result.LogOutput, "Starting concurrent trials")
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		cfg     app.Config
		wantErr string
	}{
		{name: "empty is valid", cfg: app.Config{}},
		{name: "full", cfg: app.Config{ConfigPath: "x.hcl", Experiment: "a", LogFormat: "json", LogLevel: "debug", HealthcheckPort: 8080}},
		{name: "experiment without path", cfg: app.Config{Experiment: "a"}, wantErr: "requires a config path"},
		{name: "bad format", cfg: app.Config{LogFormat: "xml"}, wantErr: "invalid log format"},
		{name: "bad level", cfg: app.Config{LogLevel: "verbose"}, wantErr: "invalid log level"},
		{name: "bad port", cfg: app.Config{HealthcheckPort: 70000}, wantErr: "out of range"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := app.NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *cfg)
		})
	}
}
