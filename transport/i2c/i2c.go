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

// Package i2c provides the I2C bus implementation for the PN532 driver
package i2c

import (
	"errors"
	"fmt"
	"sync"
	"time"

	pn532 "github.com/ZaparooProject/go-pn532-i2c"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	// DefaultSpeed is the standard mode clock the PN532 is specified for.
	DefaultSpeed = 100 * physic.KiloHertz

	// Max clock frequency (400 kHz).
	maxClockFreq = 400 * physic.KiloHertz
)

// ErrTransactionTimeout is returned when a transaction outlives its timeout
var ErrTransactionTimeout = errors.New("I2C transaction timeout")

// ErrClosed is returned for transactions on a closed bus
var ErrClosed = errors.New("I2C bus closed")

// Bus implements pn532.Bus on top of a periph.io I2C bus
type Bus struct {
	bus    i2c.Bus
	closer func() error
	name   string
	mu     sync.Mutex
	closed bool
}

// Open initializes the periph host and opens the named bus. An empty name
// opens the first bus available.
func Open(name string, speed physic.Frequency) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", name, err)
	}

	if speed <= 0 {
		speed = DefaultSpeed
	}
	if speed > maxClockFreq {
		speed = maxClockFreq
	}
	// Not every adapter supports changing speed; continue with its default
	_ = bc.SetSpeed(speed)

	b := NewFromBus(bc, name)
	b.closer = bc.Close
	return b, nil
}

// NewFromBus wraps an already opened periph bus. The caller keeps
// ownership of bus.
func NewFromBus(bus i2c.Bus, name string) *Bus {
	if name == "" {
		name = bus.String()
	}
	return &Bus{bus: bus, name: name}
}

// String returns the bus name
func (b *Bus) String() string {
	return b.name
}

// Write sends data to addr in one transaction
func (b *Bus) Write(addr uint16, data []byte, timeout time.Duration) error {
	return b.tx(addr, data, nil, timeout)
}

// Read fills p from addr in one transaction
func (b *Bus) Read(addr uint16, p []byte, timeout time.Duration) error {
	return b.tx(addr, nil, p, timeout)
}

// tx runs one transaction bounded by timeout. periph cannot abort a
// transaction, so on timeout the bus stays locked until the stuck Tx
// returns. Tx reads into a private buffer that is copied into r only when
// it completes in time, so callers may reuse r right after a timeout.
func (b *Bus) tx(addr uint16, w, r []byte, timeout time.Duration) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("%s: %w", b.name, ErrClosed)
	}

	var tmp []byte
	if len(r) > 0 {
		tmp = make([]byte, len(r))
	}
	wbuf := append([]byte(nil), w...)

	done := make(chan error, 1)
	go func() {
		defer b.mu.Unlock()
		done <- b.bus.Tx(addr, wbuf, tmp)
	}()

	if timeout <= 0 {
		err := <-done
		copy(r, tmp)
		return b.result(addr, err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		copy(r, tmp)
		return b.result(addr, err)
	case <-timer.C:
		return fmt.Errorf("%s: tx to 0x%02X after %s: %w", b.name, addr, timeout, ErrTransactionTimeout)
	}
}

func (b *Bus) result(addr uint16, err error) error {
	if err != nil {
		return fmt.Errorf("%s: tx to 0x%02X: %w", b.name, addr, err)
	}
	return nil
}

// Close releases the bus if it was opened by Open
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	if b.closer == nil {
		return nil
	}
	if err := b.closer(); err != nil {
		return fmt.Errorf("failed to close I2C bus %s: %w", b.name, err)
	}
	return nil
}

// Ensure Bus implements pn532.BusCloser
var _ pn532.BusCloser = (*Bus)(nil)
