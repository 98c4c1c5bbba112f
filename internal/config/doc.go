// Package config defines the format-agnostic experiment model, its built-in
// defaults and validation, along with the Loader interface for reading
// experiments from configuration files.
//
// The `config.Experiment` is the single source of truth for the `app`
// package. Concrete loaders, such as the HCL one, are provided in separate
// packages.
package config
