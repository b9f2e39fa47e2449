// Copyright (c) 2026 Jeremy Hahn
// Copyright (c) 2026 Automate The Things, LLC
//
// This file is part of go-eid.
//
// go-eid is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jeremyhahn/go-eid/internal/config"
	"github.com/jeremyhahn/go-eid/pkg/logging"
	"github.com/jeremyhahn/go-eid/pkg/token/p11"
	"github.com/jeremyhahn/go-eid/pkg/token/pcsc"
	"github.com/jeremyhahn/go-eid/pkg/types"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// OutputFormat controls output formatting (json, text)
	OutputFormat string

	// Verbose enables verbose logging
	Verbose bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputFormat: "json",
	}
}

// loadAppConfig resolves and loads the application configuration. An
// explicitly passed --config file must exist; otherwise $HOME/.go-eid.yaml
// is used when present, and the built-in defaults when not.
func (c *Config) loadAppConfig() (*config.Config, error) {
	if c.ConfigFile != "" {
		if _, err := os.Stat(c.ConfigFile); err != nil {
			return nil, fmt.Errorf("config file %s not found", c.ConfigFile)
		}
		return config.Load(c.ConfigFile)
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".go-eid.yaml")
		if _, err := os.Stat(path); err == nil {
			return config.Load(path)
		}
	}
	return config.Default(), nil
}

// newLogger builds the logger from the config level and the verbose flag.
func (c *Config) newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(c.Verbose || cfg.Logging.Level == "debug")
}

// buildToken connects the configured security-token backend.
func buildToken(cfg *config.Config, logger *logging.Logger) (types.SecurityToken, io.Closer, error) {
	switch cfg.Token.Backend {
	case "pcsc":
		// The built-in defaults carry no card profile; that has to come
		// from a config file.
		if cfg.Token.PCSC == nil {
			return nil, nil, fmt.Errorf("pcsc backend selected but token.pcsc is not configured; pass --config")
		}
		profile, err := cfg.Token.PCSC.Profile.Build()
		if err != nil {
			return nil, nil, err
		}
		t, err := pcsc.Connect(cfg.Token.PCSC.Reader, profile, logger)
		if err != nil {
			return nil, nil, err
		}
		return t, t, nil
	case "p11":
		if cfg.Token.P11 == nil {
			return nil, nil, fmt.Errorf("p11 backend selected but token.p11 is not configured; pass --config")
		}
		t, err := p11.Open(cfg.Token.P11.BuildP11(), logger)
		if err != nil {
			return nil, nil, err
		}
		return t, t, nil
	default:
		return nil, nil, fmt.Errorf("unknown token backend %q", cfg.Token.Backend)
	}
}
