package app

import (
	"errors"
	"fmt"

	"github.com/vk/distsplit/internal/config"
	"github.com/vk/distsplit/internal/sink/socketio"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // .hcl file or directory, optional
	Experiment string // name of the experiment to run, optional
	Overrides  config.Overrides

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// SocketIO enables the socket.io result sink when URL is set.
	SocketIO socketio.Config
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Experiment != "" && cfg.ConfigPath == "" {
		return nil, errors.New("an experiment name requires a config path")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d out of range", cfg.HealthcheckPort)
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return &cfg, nil
}
