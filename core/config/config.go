// Package config loads the server's environment-driven settings, the
// way the teacher's chunk server/master services load theirs via
// envconfig.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the environment-supplied settings spec.md §6 names:
// bind address/port and the two thread pool sizes.
type Config struct {
	ServerIP      string `envconfig:"SERVER_IP" default:"127.0.0.1"`
	ServerPort    int    `envconfig:"SERVER_PORT" default:"9000"`
	ServerThreads int    `envconfig:"SERVER_THREADS" default:"4"`
	ClientThreads int    `envconfig:"CLIENT_THREADS" default:"8"`
}

// Load reads Config from the environment and validates it. Invalid
// configuration is fatal at startup per spec.md §7.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate enforces the bounds spec.md §6 requires.
func (c *Config) Validate() error {
	if c.ServerPort < 1024 || c.ServerPort > 65535 {
		return fmt.Errorf("server_port must be between 1024 and 65535, got %d", c.ServerPort)
	}
	if c.ServerThreads < 1 || c.ServerThreads > 100 {
		return fmt.Errorf("server_threads must be between 1 and 100, got %d", c.ServerThreads)
	}
	if c.ClientThreads < 1 || c.ClientThreads > 1000 {
		return fmt.Errorf("client_threads must be between 1 and 1000, got %d", c.ClientThreads)
	}
	return nil
}
