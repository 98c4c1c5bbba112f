package harness

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vk/distsplit/internal/dist"
	"github.com/vk/distsplit/internal/trial"
)

// ErrTrialsFailed is wrapped by Report.Err when at least one trial failed.
var ErrTrialsFailed = errors.New("one or more trials failed")

// Report aggregates the outcome of a run.
type Report[T dist.Float] struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	// Labels counts successful trials per chosen distribution.
	Labels map[dist.Label]int
	// Failures counts failed trials per error kind.
	Failures map[string]int
	// Results holds every trial outcome in index order.
	Results []trial.Result[T]
	Elapsed time.Duration
}

func newReport[T dist.Float](runID string, results []trial.Result[T], elapsed time.Duration) *Report[T] {
	r := &Report[T]{
		RunID:    runID,
		Total:    len(results),
		Labels:   make(map[dist.Label]int, 2),
		Failures: make(map[string]int),
		Results:  results,
		Elapsed:  elapsed,
	}
	for _, res := range results {
		if res.OK() {
			r.Succeeded++
			r.Labels[res.Label]++
			continue
		}
		r.Failed++
		r.Failures[dist.Kind(res.Err)]++
	}
	return r
}

// Err returns nil when every trial succeeded. Otherwise it wraps
// ErrTrialsFailed together with the first failure by trial index.
func (r *Report[T]) Err() error {
	if r.Failed == 0 {
		return nil
	}
	var first error
	var failed []string
	for _, res := range r.Results {
		if res.OK() {
			continue
		}
		failed = append(failed, fmt.Sprint(res.Index))
		if first == nil {
			first = res.Err
		}
	}
	const maxListed = 10
	listed := failed
	if len(listed) > maxListed {
		listed = append(listed[:maxListed:maxListed], "...")
	}
	return fmt.Errorf("%w: %d of %d (trials %s): %w", ErrTrialsFailed, r.Failed, r.Total, strings.Join(listed, ", "), first)
}

// FailureKinds returns the failure kinds seen, sorted for stable output.
func (r *Report[T]) FailureKinds() []string {
	kinds := make([]string, 0, len(r.Failures))
	for k := range r.Failures {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
