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

import (
	"fmt"

	pn532 "github.com/ZaparooProject/go-pn532-i2c"
	"github.com/ZaparooProject/go-pn532-i2c/detection"
	"github.com/ZaparooProject/go-pn532-i2c/transport/i2c"
	"go.uber.org/zap"
)

// Discovery handles reader discovery and device creation
type Discovery struct {
	config *Config
	output *Output
	logger *zap.Logger
}

// NewDiscovery creates a new discovery handler
func NewDiscovery(config *Config, output *Output, logger *zap.Logger) *Discovery {
	return &Discovery{
		config: config,
		output: output,
		logger: logger,
	}
}

// DiscoverReaders discovers all available PN532 readers
func (d *Discovery) DiscoverReaders() ([]detection.DeviceInfo, error) {
	d.output.Verbose("Discovering readers...")

	opts := detection.DefaultOptions()
	opts.Timeout = d.config.DetectTimeout
	opts.Mode = detection.Safe

	readers, err := detection.DetectAll(&opts)
	if err != nil {
		return nil, fmt.Errorf("reader discovery failed: %w", err)
	}

	d.output.Verbose("   Found %d reader(s)", len(readers))
	return readers, nil
}

// OpenDevice opens the bus of a detected reader. Closing the device
// closes the bus.
func (d *Discovery) OpenDevice(reader detection.DeviceInfo) (*pn532.Device, error) {
	if reader.Transport != TransportI2C {
		return nil, fmt.Errorf("unsupported transport type: %s", reader.Transport)
	}

	bus, err := i2c.Open(reader.Path, i2c.DefaultSpeed)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus: %w", err)
	}

	device, err := pn532.New(bus,
		pn532.WithAddress(reader.Address),
		pn532.WithReadyTimeout(d.config.ReadyTimeout),
		pn532.WithLogger(d.logger.With(zap.String("reader", reader.Path))),
	)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to create device: %w", err)
	}
	return device, nil
}
