package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/distsplit/internal/app"
	"github.com/vk/distsplit/internal/hcl"
)

// AppResult holds the outcomes of an application run.
type AppResult struct {
	Output    *SafeBuffer
	LogOutput string
	Err       error
	App       *app.App
}

// RunApp builds an App from cfg, with the given HCL files written to a
// temporary directory used as the config path, and runs it to completion.
// Construction errors are reported in Err with a nil App.
func RunApp(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config) *AppResult {
	t.Helper()

	if len(files) > 0 {
		cfg.ConfigPath = WriteFiles(t, files)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	conf, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("DISTSPLIT_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	a, err := app.NewApp(ctx, out, logs, conf, hcl.NewLoader())
	if err != nil {
		return &AppResult{Output: out, LogOutput: logs.String(), Err: err}
	}
	err = a.Run(ctx)
	return &AppResult{Output: out, LogOutput: logs.String(), Err: err, App: a}
}
