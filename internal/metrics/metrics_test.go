package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	m := New()

	m.TrialStarted()
	m.TrialFinished(time.Microsecond)
	m.TrialRecorded("Distribution 1", "")
	m.TrialStarted()
	m.TrialFinished(time.Microsecond)
	m.TrialRecorded("Distribution 2", "")
	m.TrialStarted()
	m.TrialFinished(time.Microsecond)
	m.TrialRecorded("Distribution 2", "")
	m.TrialStarted()
	m.TrialFinished(time.Microsecond)
	m.TrialRecorded("", "numeric_anomaly")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.trials.WithLabelValues("Distribution 1")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.trials.WithLabelValues("Distribution 2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("numeric_anomaly")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestMetrics_HandlerExposesRegistry(t *testing.T) {
	m := New()
	m.TrialStarted()
	m.TrialFinished(time.Millisecond)
	m.TrialRecorded("Distribution 1", "")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `distsplit_trials_total{label="Distribution 1"} 1`)
	assert.Contains(t, string(body), "distsplit_trial_duration_seconds_count 1")
}
