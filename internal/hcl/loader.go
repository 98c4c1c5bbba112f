package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/distsplit/internal/config"
	"github.com/vk/distsplit/internal/ctxlog"
	"github.com/vk/distsplit/internal/fsutil"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	defaults *config.Experiment
	environ  func() []string
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a loader whose omitted values fall back to
// config.Default().
func NewLoader() *Loader {
	return &Loader{defaults: config.Default(), environ: os.Environ}
}

// WithEnviron replaces the source of the `env` variable, which is
// os.Environ by default.
func (l *Loader) WithEnviron(environ []string) *Loader {
	l.environ = func() []string { return environ }
	return l
}

// Load finds and parses all HCL files under the given paths into a catalog.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, p := range paths {
		found, err := findFiles(p)
		if err != nil {
			return nil, err
		}
		logger.Debug("Discovered experiment files.", "path", p, "count", len(found))
		files = append(files, found...)
	}

	catalog := config.NewCatalog()
	if len(files) == 0 {
		logger.Warn("No .hcl experiment files found.", "paths", paths)
		return catalog, nil
	}

	evalCtx, err := newEvalContext(l.defaults, l.environ())
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	for _, path := range files {
		hclFile, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}

		var parsed file
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &parsed); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
		}

		for _, block := range parsed.Experiments {
			exp, err := l.translate(block, path)
			if err != nil {
				return nil, err
			}
			if err := catalog.Add(exp); err != nil {
				return nil, err
			}
			logger.Debug("Loaded experiment.", "name", exp.Name, "file", path)
		}
	}
	return catalog, nil
}

func findFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find experiment files in %s: %w", path, err)
	}
	return files, nil
}
