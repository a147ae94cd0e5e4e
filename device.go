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
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Exchange buffer sizing
const (
	responseBufferSize = 64
	ackReadLength      = 7 // status + preamble + ACK
	dataReadOverhead   = 9 // status + preamble + start code(2) + len + lcs + tfi + dcs + postamble
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// Address is the 7-bit bus address of the controller.
	Address uint16
	// BusTimeout bounds every single bus transaction.
	BusTimeout time.Duration
	// ReadyTimeout bounds each wait for the controller to become ready.
	ReadyTimeout time.Duration
	// ReadyPollInterval is the delay between two status polls.
	ReadyPollInterval time.Duration
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Address:           DefaultAddress,
		BusTimeout:        time.Second,
		ReadyTimeout:      2 * time.Second,
		ReadyPollInterval: 50 * time.Millisecond,
	}
}

// Validate checks the configuration for unusable values.
func (c *DeviceConfig) Validate() error {
	switch {
	case c.Address == 0 || c.Address > 0x7F:
		return fmt.Errorf("address 0x%02X is not a 7-bit address: %w", c.Address, ErrInvalidParameter)
	case c.BusTimeout <= 0:
		return fmt.Errorf("bus timeout must be positive: %w", ErrInvalidParameter)
	case c.ReadyTimeout <= 0:
		return fmt.Errorf("ready timeout must be positive: %w", ErrInvalidParameter)
	case c.ReadyPollInterval <= 0:
		return fmt.Errorf("ready poll interval must be positive: %w", ErrInvalidParameter)
	}
	return nil
}

// ExchangeObserver is notified once per finished exchange.
type ExchangeObserver interface {
	ObserveExchange(command string, duration time.Duration, err error)
}

// FirmwareVersion describes the controller as reported by GetFirmwareVersion.
type FirmwareVersion struct {
	Version          string
	IC               byte
	SupportIso14443a bool
	SupportIso14443b bool
	SupportIso18092  bool
}

// Device represents a PN532 controller attached to a Bus.
//
// Exchanges are strictly sequential: a second Exchange blocks until the
// one in flight has finished. The response buffer is owned by the Device
// and never escapes it; callers receive copies.
type Device struct {
	bus      Bus
	config   *DeviceConfig
	logger   *zap.Logger
	observer ExchangeObserver
	state    atomic.Int32
	mu       sync.Mutex
	buf      [responseBufferSize]byte
}

// New creates a new PN532 device on the given bus
func New(bus Bus, opts ...Option) (*Device, error) {
	if bus == nil {
		return nil, fmt.Errorf("bus cannot be nil: %w", ErrInvalidParameter)
	}

	device := &Device{
		bus:    bus,
		config: DefaultDeviceConfig(),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	if err := device.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid device config: %w", err)
	}

	return device, nil
}

// Bus returns the underlying bus
func (d *Device) Bus() Bus {
	return d.bus
}

// Config returns a copy of the device configuration.
func (d *Device) Config() DeviceConfig {
	return *d.config
}

// State returns the state of the current or most recent exchange.
func (d *Device) State() State {
	return State(d.state.Load())
}

func (d *Device) setState(s State) {
	d.state.Store(int32(s))
	d.logger.Debug("exchange state", zap.Stringer("state", s))
}

// SAMConfigure puts the controller into normal mode. Without it the
// controller does not search for targets.
func (d *Device) SAMConfigure(ctx context.Context) error {
	if _, err := d.Exchange(ctx, SAMConfiguration); err != nil {
		return err
	}
	return nil
}

// LimitActivationRetries bounds the controller's passive activation
// retries so that an empty field yields a zero target count instead of
// an open-ended search.
func (d *Device) LimitActivationRetries(ctx context.Context) error {
	if _, err := d.Exchange(ctx, RFConfigurationRetries); err != nil {
		return err
	}
	return nil
}

// ListPassiveTarget runs InListPassiveTarget and returns the raw response
// payload, starting with the command echo byte.
func (d *Device) ListPassiveTarget(ctx context.Context) ([]byte, error) {
	return d.Exchange(ctx, InListPassiveTarget)
}

// FirmwareVersion queries the controller's firmware version
func (d *Device) FirmwareVersion(ctx context.Context) (*FirmwareVersion, error) {
	resp, err := d.Exchange(ctx, GetFirmwareVersion)
	if err != nil {
		return nil, err
	}

	if len(resp) < firmwareResponseMax {
		return nil, fmt.Errorf("firmware response too short: %d bytes: %w", len(resp), ErrUnexpectedResponse)
	}

	return &FirmwareVersion{
		IC:               resp[1],
		Version:          fmt.Sprintf("%d.%d", resp[2], resp[3]),
		SupportIso14443a: resp[4]&0x01 != 0,
		SupportIso14443b: resp[4]&0x02 != 0,
		SupportIso18092:  resp[4]&0x04 != 0,
	}, nil
}

// Close closes the bus if the device owns a closable one
func (d *Device) Close() error {
	closer, ok := d.bus.(BusCloser)
	if !ok {
		return nil
	}
	if err := closer.Close(); err != nil {
		return fmt.Errorf("failed to close bus: %w", err)
	}
	return nil
}
