package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/distsplit/internal/app"
	"github.com/vk/distsplit/internal/cli"
	"github.com/vk/distsplit/internal/harness"
	"github.com/vk/distsplit/internal/hcl"
)

// main is the entrypoint for the distsplit application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a run error to the process exit status: 2 for usage and
// configuration errors, 1 for failed trials and anything else.
func exitCode(err error) int {
	var exitErr *cli.ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, harness.ErrTrialsFailed):
		return 1
	case errors.Is(err, app.ErrConfig):
		return 2
	default:
		return 1
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Instantiate the concrete HCL loader to pass to the app.
	loader := hcl.NewLoader()
	distApp, err := app.NewApp(ctx, outW, errW, appConfig, loader)
	if err != nil {
		return err
	}

	return distApp.Run(ctx)
}
