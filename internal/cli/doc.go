// Package cli parses command-line arguments into an app.Config. Only flags
// given explicitly are turned into experiment overrides, so values from an
// experiment file survive unless the user asks otherwise.
package cli
