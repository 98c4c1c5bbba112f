package config

import "context"

// Loader is the interface for a format-specific experiment loader.
type Loader interface {
	// Load reads every experiment defined under the given paths. Each path
	// may be a single file or a directory searched recursively.
	Load(ctx context.Context, paths ...string) (*Catalog, error)
}
