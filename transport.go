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
	"time"
)

// DefaultAddress is the 7-bit I2C address of the PN532.
const DefaultAddress = 0x24

// Bus is the two-wire transport the Device exchanges frames over.
//
// Implementations enforce timeout per transaction and must not retry
// internally. Read fills all of p.
type Bus interface {
	// Write sends data to the device at addr in one transaction.
	Write(addr uint16, data []byte, timeout time.Duration) error

	// Read reads len(p) bytes from the device at addr in one transaction.
	Read(addr uint16, p []byte, timeout time.Duration) error
}

// BusCloser is a Bus that owns an underlying resource.
type BusCloser interface {
	Bus
	Close() error
}
