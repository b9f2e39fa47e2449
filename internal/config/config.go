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

// Package config loads the go-eid application configuration: which token
// backend to use and how to reach it, plus logging and provenance settings.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-eid/pkg/token/p11"
	"github.com/jeremyhahn/go-eid/pkg/token/pcsc"
	"github.com/jeremyhahn/go-eid/pkg/types"
)

// Config represents the complete application configuration
type Config struct {
	Token   TokenConfig   `yaml:"token"`
	Logging LoggingConfig `yaml:"logging"`
	// AppVersion overrides the provenance URL placed in tokens. Empty
	// means derive it from the build version.
	AppVersion string `yaml:"app_version"`
}

// TokenConfig selects and configures the security-token backend
type TokenConfig struct {
	// Backend is the token backend to use: pcsc or p11
	Backend string `yaml:"backend"`

	PCSC *PCSCConfig `yaml:"pcsc,omitempty"`
	P11  *P11Config  `yaml:"p11,omitempty"`
}

// PCSCConfig contains PC/SC smart-card backend settings
type PCSCConfig struct {
	// Reader is the PC/SC reader name; empty selects the first reader
	// with a card present
	Reader  string        `yaml:"reader"`
	Profile ProfileConfig `yaml:"profile"`
}

// ProfileConfig describes the card family in the reader
type ProfileConfig struct {
	Name         string   `yaml:"name"`
	AID          string   `yaml:"aid"` // hex
	Algorithm    string   `yaml:"algorithm"`
	CertFilePath []uint16 `yaml:"cert_file_path"`
	PinReference byte     `yaml:"pin_reference"`
	KeyReference byte     `yaml:"key_reference"`
	MinPinLength int      `yaml:"min_pin_length"`
	MaxPinLength int      `yaml:"max_pin_length"`
	PinPadLength int      `yaml:"pin_pad_length"`
	PinFiller    byte     `yaml:"pin_filler"`
}

// P11Config contains PKCS#11 backend settings
type P11Config struct {
	Library   string `yaml:"library"`
	Slot      *uint  `yaml:"slot,omitempty"`
	KeyLabel  string `yaml:"key_label"`
	Algorithm string `yaml:"algorithm"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level string `yaml:"level"` // info, debug
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
func Load(path string) (*Config, error) {
	// #nosec G304 - Config file path is provided by admin/user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file exists: the
// PC/SC backend with no reader pinned, profile to be supplied at runtime.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills unset fields with defaults
func (c *Config) applyDefaults() {
	if c.Token.Backend == "" {
		c.Token.Backend = "pcsc"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	if backend := os.Getenv("WEBEID_TOKEN_BACKEND"); backend != "" {
		cfg.Token.Backend = backend
	}
	if level := os.Getenv("WEBEID_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if reader := os.Getenv("WEBEID_PCSC_READER"); reader != "" && cfg.Token.PCSC != nil {
		cfg.Token.PCSC.Reader = reader
	}
	if lib := os.Getenv("PKCS11_LIBRARY"); lib != "" && cfg.Token.P11 != nil {
		cfg.Token.P11.Library = lib
	}
	if slot := os.Getenv("PKCS11_SLOT"); slot != "" && cfg.Token.P11 != nil {
		n, err := strconv.ParseUint(slot, 10, 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: invalid PKCS11_SLOT value %q, ignoring: %v\n", slot, err)
		} else {
			s := uint(n)
			cfg.Token.P11.Slot = &s
		}
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	switch c.Token.Backend {
	case "pcsc":
		if c.Token.PCSC == nil {
			return fmt.Errorf("token.pcsc section is required for the pcsc backend")
		}
		if _, err := c.Token.PCSC.Profile.Build(); err != nil {
			return err
		}
	case "p11":
		if c.Token.P11 == nil {
			return fmt.Errorf("token.p11 section is required for the p11 backend")
		}
		if c.Token.P11.Library == "" {
			return fmt.Errorf("token.p11.library is required")
		}
		if types.ParseSignatureAlgorithm(c.Token.P11.Algorithm) == "" {
			return fmt.Errorf("token.p11.algorithm %q is not supported", c.Token.P11.Algorithm)
		}
	default:
		return fmt.Errorf("unknown token backend %q (pcsc, p11)", c.Token.Backend)
	}
	switch c.Logging.Level {
	case "info", "debug":
	default:
		return fmt.Errorf("unknown logging level %q (info, debug)", c.Logging.Level)
	}
	return nil
}

// Build converts the YAML profile into a pcsc.Profile.
func (p *ProfileConfig) Build() (*pcsc.Profile, error) {
	aid, err := hex.DecodeString(p.AID)
	if err != nil {
		return nil, fmt.Errorf("profile %q: invalid AID hex: %w", p.Name, err)
	}
	profile := &pcsc.Profile{
		Name:         p.Name,
		AID:          aid,
		Algorithm:    types.ParseSignatureAlgorithm(p.Algorithm),
		CertFilePath: p.CertFilePath,
		PinReference: p.PinReference,
		KeyReference: p.KeyReference,
		MinPinLength: p.MinPinLength,
		MaxPinLength: p.MaxPinLength,
		PinPadLength: p.PinPadLength,
		PinFiller:    p.PinFiller,
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// BuildP11 converts the YAML settings into a p11.Config.
func (p *P11Config) BuildP11() *p11.Config {
	return &p11.Config{
		Module:    p.Library,
		Slot:      p.Slot,
		KeyLabel:  p.KeyLabel,
		Algorithm: types.ParseSignatureAlgorithm(p.Algorithm),
	}
}
