package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/distsplit/internal/config"
	"github.com/vk/distsplit/internal/ctxlog"
	"github.com/vk/distsplit/internal/dist"
	"github.com/vk/distsplit/internal/harness"
	"github.com/vk/distsplit/internal/sink"
	"github.com/vk/distsplit/internal/sink/socketio"
	"github.com/vk/distsplit/internal/trial"
)

// Run executes the resolved experiment. It returns nil only when every trial
// produced a classification.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger
	runID := uuid.NewString()
	logger.Debug("App.Run method started.", "run_id", runID)

	if err := a.experiment.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if a.config.HealthcheckPort > 0 {
		a.healthCheckServer(ctx)
		defer func() { _ = a.closeHealthCheckServer(ctx) }()
	}

	s, err := a.openSinks(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn("Failed to close result sinks.", "error", err)
		}
	}()

	exp := a.experiment
	switch exp.Precision {
	case config.Float64:
		err = runExperiment[float64](ctx, a, exp, runID, s)
	default:
		err = runExperiment[float32](ctx, a, exp, runID, s)
	}

	logger.Debug("App.Run method finished.")
	return err
}

// openSinks builds the result sinks. The socket.io sink is added when a URL
// is configured. The output writer comes last, so a label reaches the
// classification stream only after every other sink accepted the record.
func (a *App) openSinks(ctx context.Context) (sink.Sink, error) {
	stdout := sink.NewWriter(a.outW)
	if a.config.SocketIO.URL == "" {
		return sink.Multi{stdout}, nil
	}

	ctxlog.FromContext(ctx).Debug("Connecting socket.io sink.", "url", a.config.SocketIO.URL)
	sio, err := socketio.Dial(ctx, a.config.SocketIO)
	if err != nil {
		return nil, fmt.Errorf("failed to open socket.io sink: %w", err)
	}
	return sink.Multi{sio, stdout}, nil
}

func runExperiment[T dist.Float](ctx context.Context, a *App, exp *config.Experiment, runID string, s sink.Sink) error {
	logger := ctxlog.FromContext(ctx)

	p := trial.Pipeline[T]{
		Range:  dist.Range[T]{Low: T(exp.Range.Low), High: T(exp.Range.High)},
		First:  dist.Params[T]{Mean: T(exp.Distributions[0].Mean), StdDev: T(exp.Distributions[0].StdDev)},
		Second: dist.Params[T]{Mean: T(exp.Distributions[1].Mean), StdDev: T(exp.Distributions[1].StdDev)},
		Count:  exp.Trials,
	}
	opts := harness.Options{
		RunID:   runID,
		Ordered: exp.Ordered,
		Seed:    exp.Seed,
		Workers: exp.Workers,
	}

	// Narrowing to float32 can turn a valid value into zero or Inf, so the
	// pipeline is validated again at the run precision.
	h, err := harness.New(p, opts, s, harness.WithObserver[T](a.metrics))
	if err != nil {
		return fmt.Errorf("%w: experiment %q: %w", ErrConfig, exp.Name, err)
	}

	logger.Info("🚀 Starting concurrent trials...",
		"run_id", runID,
		"experiment", exp.Name,
		"trials", exp.Trials,
		"precision", exp.Precision,
		"ordered", exp.Ordered,
	)
	report := h.Run(ctx)
	logger.Info("🏁 Trials finished.",
		"run_id", runID,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"distribution_1", report.Labels[dist.Distribution1],
		"distribution_2", report.Labels[dist.Distribution2],
		"elapsed", report.Elapsed,
	)
	if report.Failed > 0 {
		logger.Warn("Some trials failed.", "kinds", report.FailureKinds())
	}
	return report.Err()
}
