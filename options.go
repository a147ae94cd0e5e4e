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

package pn532

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithConfig replaces the whole device configuration
func WithConfig(config *DeviceConfig) Option {
	return func(d *Device) error {
		if config == nil {
			return fmt.Errorf("nil device config: %w", ErrInvalidParameter)
		}
		cfg := *config
		d.config = &cfg
		return nil
	}
}

// WithAddress sets the controller's bus address
func WithAddress(addr uint16) Option {
	return func(d *Device) error {
		d.config.Address = addr
		return nil
	}
}

// WithBusTimeout sets the per-transaction bus timeout
func WithBusTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		d.config.BusTimeout = timeout
		return nil
	}
}

// WithReadyTimeout sets how long to wait for the controller to become ready
func WithReadyTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		d.config.ReadyTimeout = timeout
		return nil
	}
}

// WithReadyPollInterval sets the delay between status polls
func WithReadyPollInterval(interval time.Duration) Option {
	return func(d *Device) error {
		d.config.ReadyPollInterval = interval
		return nil
	}
}

// WithLogger sets the logger used for protocol tracing
func WithLogger(logger *zap.Logger) Option {
	return func(d *Device) error {
		if logger == nil {
			logger = zap.NewNop()
		}
		d.logger = logger.Named("pn532")
		return nil
	}
}

// WithObserver registers an observer for finished exchanges
func WithObserver(observer ExchangeObserver) Option {
	return func(d *Device) error {
		d.observer = observer
		return nil
	}
}
