// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary run lifecycle (resolve the
// experiment, open sinks, run the trials, report), decoupled from any
// specific entrypoint like a CLI.
package app
