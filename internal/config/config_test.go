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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, uint16(0x24), cfg.Bus.Address)
	assert.Equal(t, 50*time.Millisecond, cfg.Controller.ReadyPollInterval.Duration)
	assert.True(t, cfg.Session.LimitActivationRetries)
}

func TestLoad_TOML(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "reader.toml", `
[bus]
name = "/dev/i2c-1"
address = 0x24
transaction_timeout = "500ms"

[controller]
ready_timeout = "3s"

[session]
poll_interval = "250ms"
report_repeats = true

[logging]
level = "debug"

[logging.file]
filename = "/var/log/pn532.log"

[metrics]
listen = ":9100"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/i2c-1", cfg.Bus.Name)
	assert.Equal(t, 500*time.Millisecond, cfg.Bus.TransactionTimeout.Duration)
	assert.Equal(t, int64(100_000), cfg.Bus.SpeedHz, "unset keys keep defaults")
	assert.Equal(t, 3*time.Second, cfg.Controller.ReadyTimeout.Duration)
	assert.Equal(t, 50*time.Millisecond, cfg.Controller.ReadyPollInterval.Duration)
	assert.Equal(t, 250*time.Millisecond, cfg.Session.PollInterval.Duration)
	assert.True(t, cfg.Session.ReportRepeats)
	assert.True(t, cfg.Session.LimitActivationRetries)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/var/log/pn532.log", cfg.Logging.File.Filename)
	assert.Equal(t, 10, cfg.Logging.File.MaxSizeMB)
	assert.Equal(t, ":9100", cfg.Metrics.Listen)
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "reader.yaml", `
bus:
  name: "1"
  address: 0x28
controller:
  ready_poll_interval: 10ms
session:
  poll_interval: 2s
  limit_activation_retries: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "1", cfg.Bus.Name)
	assert.Equal(t, uint16(0x28), cfg.Bus.Address)
	assert.Equal(t, 10*time.Millisecond, cfg.Controller.ReadyPollInterval.Duration)
	assert.Equal(t, 2*time.Second, cfg.Session.PollInterval.Duration)
	assert.False(t, cfg.Session.LimitActivationRetries)
	assert.Equal(t, time.Second, cfg.Bus.TransactionTimeout.Duration)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		file    string
		content string
		invalid bool
	}{
		{
			name:    "unknown extension",
			file:    "reader.ini",
			content: "bus=1",
			invalid: true,
		},
		{
			name:    "bad duration",
			file:    "reader.toml",
			content: "[session]\npoll_interval = \"soon\"\n",
		},
		{
			name:    "address out of range",
			file:    "reader.toml",
			content: "[bus]\naddress = 0x80\n",
			invalid: true,
		},
		{
			name:    "zero poll interval",
			file:    "reader.yml",
			content: "session:\n  poll_interval: 0s\n",
			invalid: true,
		},
		{
			name:    "malformed yaml",
			file:    "reader.yaml",
			content: "bus: [",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
