package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vk/distsplit/internal/ctxlog"
	"github.com/vk/distsplit/internal/dist"
	"github.com/vk/distsplit/internal/sampler"
	"github.com/vk/distsplit/internal/sink"
	"github.com/vk/distsplit/internal/trial"
	"golang.org/x/sync/errgroup"
)

// Observer is notified around every trial. Implementations must be safe for
// concurrent use.
type Observer interface {
	// TrialStarted and TrialFinished bracket the pipeline of one trial.
	TrialStarted()
	TrialFinished(d time.Duration)
	// TrialRecorded reports the final outcome once the result has been
	// emitted. label is empty for a failed trial, kind for a successful one.
	TrialRecorded(label, kind string)
}

// GeneratorFactory builds the sample source for one trial. It is called from
// the trial's own goroutine.
type GeneratorFactory[T dist.Float] func(index int) (sampler.Generator[T], error)

// Options configures a run.
type Options struct {
	// RunID tags every record and log line. A random one is assigned when empty.
	RunID string
	// Ordered buffers results and emits them in trial-index order after all
	// trials have finished. When false results are emitted as they complete.
	Ordered bool
	// Seed, when non-zero, makes the run reproducible: trial i draws from a
	// stream derived from (Seed, i). Zero seeds every trial from entropy.
	Seed uint64
	// Workers caps concurrently executing trials. Zero means one goroutine
	// per trial, all started at once.
	Workers int
}

type nopObserver struct{}

func (nopObserver) TrialStarted() {}
func (nopObserver) TrialFinished(time.Duration) {}
func (nopObserver) TrialRecorded(string, string) {}

// Harness runs the trials of one experiment.
type Harness[T dist.Float] struct {
	pipeline trial.Pipeline[T]
	opts     Options
	sink     sink.Sink
	observer Observer
	factory  GeneratorFactory[T]
}

// Option customises a Harness.
type Option[T dist.Float] func(*Harness[T])

// WithObserver registers an observer for trial lifecycle events.
func WithObserver[T dist.Float](o Observer) Option[T] {
	return func(h *Harness[T]) { h.observer = o }
}

// WithGeneratorFactory replaces the default per-trial sampler construction.
func WithGeneratorFactory[T dist.Float](f GeneratorFactory[T]) Option[T] {
	return func(h *Harness[T]) { h.factory = f }
}

// New validates the pipeline and returns a Harness ready to run. No trial is
// started when validation fails.
func New[T dist.Float](p trial.Pipeline[T], opts Options, s sink.Sink, options ...Option[T]) (*Harness[T], error) {
	if p.Count <= 0 {
		return nil, fmt.Errorf("%w: number of trials must be positive, got %d", dist.ErrInvalidParameter, p.Count)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if opts.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must not be negative, got %d", dist.ErrInvalidParameter, opts.Workers)
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if s == nil {
		s = sink.Discard{}
	}
	h := &Harness[T]{
		pipeline: p,
		opts:     opts,
		sink:     s,
		observer: nopObserver{},
	}
	h.factory = h.defaultFactory
	for _, o := range options {
		o(h)
	}
	return h, nil
}

// RunID returns the identifier attached to this run.
func (h *Harness[T]) RunID() string { return h.opts.RunID }

func (h *Harness[T]) defaultFactory(index int) (sampler.Generator[T], error) {
	if h.opts.Seed != 0 {
		return sampler.New[T](sampler.DeriveSeed(h.opts.Seed, index)), nil
	}
	return sampler.NewFromEntropy[T]()
}

// Run executes every trial and blocks until all of them have finished and
// their results have been emitted. It respects the cancellation signal from
// ctx: trials that have not reached a stage boundary abandon cleanly and are
// reported as failed.
func (h *Harness[T]) Run(ctx context.Context) *Report[T] {
	ctx, logger := ctxlog.With(ctx, "run_id", h.opts.RunID)
	n := h.pipeline.Count
	results := make([]trial.Result[T], n)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	if h.opts.Workers > 0 {
		g.SetLimit(h.opts.Workers)
	}

	logger.Debug("Launching trials.", "count", n, "ordered", h.opts.Ordered, "workers", h.opts.Workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			results[i] = h.runOne(gctx, i)
			if !h.opts.Ordered {
				h.emit(gctx, &results[i])
				h.record(gctx, &results[i])
			}
			// Failures stay in the result so siblings keep running.
			return nil
		})
	}

	logger.Debug("Waiting for all trials to complete...")
	_ = g.Wait()
	logger.Debug("All trials completed.", "elapsed", time.Since(start))

	if h.opts.Ordered {
		for i := range results {
			h.emit(ctx, &results[i])
			h.record(ctx, &results[i])
		}
	}

	report := newReport(h.opts.RunID, results, time.Since(start))
	for _, res := range results {
		if !res.OK() {
			logger.Error("Trial failed.", "trial", res.Index, "kind", dist.Kind(res.Err), "error", res.Err)
		}
	}
	return report
}

func (h *Harness[T]) runOne(ctx context.Context, index int) trial.Result[T] {
	h.observer.TrialStarted()
	gen, err := h.factory(index)
	var res trial.Result[T]
	if err != nil {
		res = trial.Result[T]{Index: index, Err: &trial.Error{Index: index, Stage: trial.StageGenerate, Err: err}}
	} else {
		res = h.pipeline.Run(ctx, gen, index)
	}
	h.observer.TrialFinished(res.Duration)
	return res
}

// record reports the final outcome of a trial after emission.
func (h *Harness[T]) record(ctx context.Context, res *trial.Result[T]) {
	if !res.OK() {
		h.observer.TrialRecorded("", dist.Kind(res.Err))
		return
	}
	h.observer.TrialRecorded(res.Label.String(), "")
	ctxlog.FromContext(ctx).Debug("Trial finished.", "trial", res.Index, "sample", res.Sample, "z1", res.Scores.Z1, "z2", res.Scores.Z2, "label", res.Label.String())
}

// emit delivers a successful result to the sink. A delivery failure turns
// the result into a failed one so it is counted in the report.
func (h *Harness[T]) emit(ctx context.Context, res *trial.Result[T]) {
	if !res.OK() {
		return
	}
	rec := sink.Record{
		RunID:  h.opts.RunID,
		Index:  res.Index,
		Label:  res.Label.String(),
		Sample: float64(res.Sample),
		Z1:     float64(res.Scores.Z1),
		Z2:     float64(res.Scores.Z2),
	}
	if err := h.sink.Emit(ctx, rec); err != nil {
		res.Err = &trial.Error{Index: res.Index, Stage: trial.StageEmit, Err: err}
	}
}
