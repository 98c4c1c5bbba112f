package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/distsplit/internal/config"
	"github.com/vk/distsplit/internal/ctxlog"
	"github.com/vk/distsplit/internal/metrics"
)

// ErrConfig marks errors caused by the configuration rather than by a run.
var ErrConfig = errors.New("invalid configuration")

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	experiment *config.Experiment
	metrics    *metrics.Metrics
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. The experiment is resolved and validated here, so an
// invalid configuration is rejected before any trial could be spawned.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	exp, err := resolveExperiment(ctx, cfg, loader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := exp.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	logger.Debug("Experiment resolved.", "name", exp.Name, "source", exp.Source, "trials", exp.Trials, "precision", exp.Precision)

	return &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		experiment: exp,
		metrics:    metrics.New(),
	}, nil
}

// Experiment returns the resolved experiment. This is primarily for testing.
func (a *App) Experiment() *config.Experiment {
	return a.experiment
}

// Metrics returns the application's metrics. This is primarily for testing.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// resolveExperiment layers defaults, the selected file experiment and the
// command line overrides.
func resolveExperiment(ctx context.Context, cfg *Config, loader config.Loader) (*config.Experiment, error) {
	logger := ctxlog.FromContext(ctx)

	exp := config.Default()
	if cfg.ConfigPath != "" {
		if loader == nil {
			return nil, fmt.Errorf("no loader available for config path %s", cfg.ConfigPath)
		}
		catalog, err := loader.Load(ctx, cfg.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		logger.Debug("Configuration loaded.", "experiments", catalog.Names())
		if len(catalog.Experiments) > 0 || cfg.Experiment != "" {
			exp, err = catalog.Select(cfg.Experiment)
			if err != nil {
				return nil, err
			}
		}
	}
	return cfg.Overrides.Apply(exp), nil
}
