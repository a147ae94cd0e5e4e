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

package main

import "time"

// Operating modes
type Mode int

const (
	// ModeComprehensive tests every reader and then reports tags until interrupted.
	ModeComprehensive Mode = iota
	// ModeQuick only tests the readers.
	ModeQuick
)

// TransportI2C is the only transport this tool drives
const TransportI2C = "i2c"

// Config holds application configuration
type Config struct {
	Mode          Mode
	DetectTimeout time.Duration
	ReadyTimeout  time.Duration
	PollInterval  time.Duration
	Verbose       bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Mode:          ModeComprehensive,
		DetectTimeout: 10 * time.Second,
		ReadyTimeout:  2 * time.Second,
		PollInterval:  250 * time.Millisecond,
		Verbose:       false,
	}
}
