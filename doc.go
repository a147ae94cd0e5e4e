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

/*
Package pn532 drives a PN532 NFC controller over an I2C bus and reads the
UID of ISO14443A tags placed on it.

The controller is polled, not interrupt driven: every exchange writes one
pre-built command frame, waits for the status byte to report ready, reads
and checks the ACK frame, waits again and reads the response frame.

Features:
  - Fixed command set: SAMConfiguration, RFConfiguration, InListPassiveTarget
    and GetFirmwareVersion, encoded once at start-up
  - Frame codec with length and data checksum validation
  - Bounded readiness polling with context cancellation
  - Classified errors (bus, timeout, length, checksum, unexpected ACK)
  - Structured logging with zap and exchange metrics via an observer
  - A polling session (package polling) that survives read failures

Basic Usage:

	import (
	    pn532 "github.com/ZaparooProject/go-pn532-i2c"
	    "github.com/ZaparooProject/go-pn532-i2c/polling"
	    "github.com/ZaparooProject/go-pn532-i2c/transport/i2c"
	)

	bus, err := i2c.Open("/dev/i2c-1", i2c.DefaultSpeed)
	if err != nil {
	    log.Fatal(err)
	}

	device, err := pn532.New(bus, pn532.WithLogger(logger))
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	session, err := polling.NewSession(device, polling.DefaultConfig())
	if err != nil {
	    log.Fatal(err)
	}
	session.OnTagDetected = func(tag *pn532.TagRecord) {
	    fmt.Println(tag)
	}

	// Blocks until ctx is done; fails only if configuration fails.
	if err := session.Run(ctx); err != nil {
	    log.Fatal(err)
	}

Error Handling:

Exchange failures are returned as *ExchangeError, which records the command
and the state the exchange failed in. The cause can be inspected:

	if errors.Is(err, pn532.ErrUnexpectedAck) {
	    // controller answered with something other than ACK
	}

ErrorKind maps an error to a short label suitable for logs and metrics.

Thread Safety:

Exchanges on one Device are serialized; concurrent callers wait for the
exchange in flight to finish.
*/
package pn532
