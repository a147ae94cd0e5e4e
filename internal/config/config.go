// go-pn532-i2c
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-pn532-i2c.
//
// go-pn532-i2c is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-pn532-i2c is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-pn532-i2c; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package config loads the reader configuration from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete reader configuration
type Config struct {
	Logging    LoggingConfig    `toml:"logging" yaml:"logging"`
	Bus        BusConfig        `toml:"bus" yaml:"bus"`
	Metrics    MetricsConfig    `toml:"metrics" yaml:"metrics"`
	Controller ControllerConfig `toml:"controller" yaml:"controller"`
	Session    SessionConfig    `toml:"session" yaml:"session"`
}

// BusConfig selects the I2C bus and the controller on it
type BusConfig struct {
	// Name is a periph bus name ("1", "/dev/i2c-1"); empty means detect.
	Name               string   `toml:"name" yaml:"name"`
	TransactionTimeout Duration `toml:"transaction_timeout" yaml:"transaction_timeout"`
	SpeedHz            int64    `toml:"speed_hz" yaml:"speed_hz"`
	Address            uint16   `toml:"address" yaml:"address"`
}

// ControllerConfig tunes the readiness handshake
type ControllerConfig struct {
	ReadyTimeout      Duration `toml:"ready_timeout" yaml:"ready_timeout"`
	ReadyPollInterval Duration `toml:"ready_poll_interval" yaml:"ready_poll_interval"`
}

// SessionConfig tunes the polling loop
type SessionConfig struct {
	PollInterval           Duration `toml:"poll_interval" yaml:"poll_interval"`
	LimitActivationRetries bool     `toml:"limit_activation_retries" yaml:"limit_activation_retries"`
	ReportRepeats          bool     `toml:"report_repeats" yaml:"report_repeats"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string     `toml:"level" yaml:"level"`
	Format string     `toml:"format" yaml:"format"`
	File   FileConfig `toml:"file" yaml:"file"`
}

// FileConfig configures the rotated log file; an empty Filename disables it
type FileConfig struct {
	Filename   string `toml:"filename" yaml:"filename"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `toml:"compress" yaml:"compress"`
}

// MetricsConfig configures the Prometheus endpoint; empty Listen disables it
type MetricsConfig struct {
	Listen string `toml:"listen" yaml:"listen"`
}

// Duration is a time.Duration written as a Go duration string
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Bus: BusConfig{
			Name:               "",
			Address:            0x24,
			SpeedHz:            100_000,
			TransactionTimeout: Duration{time.Second},
		},
		Controller: ControllerConfig{
			ReadyTimeout:      Duration{2 * time.Second},
			ReadyPollInterval: Duration{50 * time.Millisecond},
		},
		Session: SessionConfig{
			PollInterval:           Duration{time.Second},
			LimitActivationRetries: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File: FileConfig{
				MaxSizeMB:  10,
				MaxBackups: 3,
				MaxAgeDays: 7,
			},
		},
	}
}

// Load reads path on top of the defaults. The format follows the file
// extension: .toml, or .yaml/.yml.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q: %w", ext, ErrInvalid)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the driver cannot work with
func (c *Config) Validate() error {
	switch {
	case c.Bus.Address == 0 || c.Bus.Address > 0x7F:
		return fmt.Errorf("bus.address 0x%02X is not a 7-bit address: %w", c.Bus.Address, ErrInvalid)
	case c.Bus.SpeedHz <= 0:
		return fmt.Errorf("bus.speed_hz must be positive: %w", ErrInvalid)
	case c.Bus.TransactionTimeout.Duration <= 0:
		return fmt.Errorf("bus.transaction_timeout must be positive: %w", ErrInvalid)
	case c.Controller.ReadyTimeout.Duration <= 0:
		return fmt.Errorf("controller.ready_timeout must be positive: %w", ErrInvalid)
	case c.Controller.ReadyPollInterval.Duration <= 0:
		return fmt.Errorf("controller.ready_poll_interval must be positive: %w", ErrInvalid)
	case c.Session.PollInterval.Duration <= 0:
		return fmt.Errorf("session.poll_interval must be positive: %w", ErrInvalid)
	}
	return nil
}
