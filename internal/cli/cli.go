package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vk/distsplit/internal/app"
	"github.com/vk/distsplit/internal/config"
	"github.com/vk/distsplit/internal/sink/socketio"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("distsplit", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
distsplit - Classify random samples between two Gaussian distributions.

Every trial draws one value uniformly from [low, high), computes its z-score
against both distributions and prints the label of the closer one, one line
per trial. Trials run concurrently.

Usage:
  distsplit [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to a single .hcl file or a directory containing .hcl files.
    Without it the built-in experiment is used.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the experiment file or directory.")
	cFlag := flagSet.String("c", "", "Path to the experiment file or directory (shorthand).")
	experimentFlag := flagSet.String("experiment", "", "Name of the experiment to run when the config holds several.")

	trialsFlag := flagSet.Int("trials", 0, "Number of concurrent trials. Overrides the config.")
	lowFlag := flagSet.Float64("low", 0, "Lower bound of the sampling range. Overrides the config.")
	highFlag := flagSet.Float64("high", 0, "Upper bound of the sampling range. Overrides the config.")
	mean1Flag := flagSet.Float64("mean1", 0, "Mean of distribution 1. Overrides the config.")
	std1Flag := flagSet.Float64("std1", 0, "Standard deviation of distribution 1. Overrides the config.")
	mean2Flag := flagSet.Float64("mean2", 0, "Mean of distribution 2. Overrides the config.")
	std2Flag := flagSet.Float64("std2", 0, "Standard deviation of distribution 2. Overrides the config.")
	precisionFlag := flagSet.String("precision", "", "Floating point precision. Options: 'float32' or 'float64'.")
	orderedFlag := flagSet.Bool("ordered", false, "Print results in trial order instead of completion order.")
	seedFlag := flagSet.Uint64("seed", 0, "Base seed for reproducible runs. 0 seeds every trial from entropy.")
	workersFlag := flagSet.Int("workers", 0, "Maximum number of trials executing at once. 0 is unlimited.")

	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	sioURLFlag := flagSet.String("socketio-url", "", "Publish every classification to this socket.io server.")
	sioNamespaceFlag := flagSet.String("socketio-namespace", "/", "Socket.io namespace to publish on.")
	sioEventFlag := flagSet.String("socketio-event", socketio.DefaultEvent, "Socket.io event name for classifications.")
	sioInsecureFlag := flagSet.Bool("socketio-insecure", false, "Skip TLS certificate verification for the socket.io server.")
	sioTimeoutFlag := flagSet.Duration("socketio-timeout", 15*time.Second, "Socket.io connection timeout.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *configFlag != "" {
		path = *configFlag
	} else if *cFlag != "" {
		path = *cFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, usageError("expected at most one config path, got %d", flagSet.NArg())
	}
	slog.Debug("Config path determined.", "path", path)

	// Only flags given on the command line override the config.
	var overrides config.Overrides
	var visitErr error
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "trials":
			overrides.Trials = trialsFlag
		case "low":
			overrides.Low = lowFlag
		case "high":
			overrides.High = highFlag
		case "mean1":
			overrides.Mean1 = mean1Flag
		case "std1":
			overrides.StdDev1 = std1Flag
		case "mean2":
			overrides.Mean2 = mean2Flag
		case "std2":
			overrides.StdDev2 = std2Flag
		case "ordered":
			overrides.Ordered = orderedFlag
		case "seed":
			overrides.Seed = seedFlag
		case "workers":
			overrides.Workers = workersFlag
		case "precision":
			p, err := config.ParsePrecision(*precisionFlag)
			if err != nil {
				visitErr = err
				return
			}
			overrides.Precision = &p
		}
	})
	if visitErr != nil {
		return nil, false, usageError("invalid precision: %v", visitErr)
	}

	cfg, err := app.NewConfig(app.Config{
		ConfigPath:      path,
		Experiment:      *experimentFlag,
		Overrides:       overrides,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
		SocketIO: socketio.Config{
			URL:                *sioURLFlag,
			Namespace:          *sioNamespaceFlag,
			Event:              *sioEventFlag,
			InsecureSkipVerify: *sioInsecureFlag,
			ConnectTimeout:     *sioTimeoutFlag,
		},
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
