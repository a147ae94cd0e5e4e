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
	"github.com/ZaparooProject/go-pn532-i2c/internal/frame"
)

// PN532 Command codes
const (
	cmdGetFirmwareVersion  = 0x02
	cmdSamConfiguration    = 0x14
	cmdRFConfiguration     = 0x32
	cmdInListPassiveTarget = 0x4A
)

// Maximum response payload sizes (echo byte included)
const (
	samConfigResponseMax     = 2
	rfConfigResponseMax      = 2
	firmwareResponseMax      = 5
	passiveTargetResponseMax = 32
)

// DefaultPassiveActivationRetries bounds the PN532's own retries while
// searching for a passive target. Each retry is roughly 100ms, so 0x0A
// makes an empty field answer with zero targets after about one second.
const DefaultPassiveActivationRetries byte = 0x0A

// Command is an immutable, pre-built outbound frame.
type Command struct {
	name        string
	frame       []byte
	code        byte
	responseMax int
}

func newCommand(name string, payload []byte, responseMax int) Command {
	return Command{
		name:        name,
		code:        payload[0],
		frame:       frame.Encode(frame.HostToPn532, payload),
		responseMax: responseMax,
	}
}

// Name returns the command's name as used in logs and errors.
func (c Command) Name() string {
	return c.name
}

// Code returns the PN532 command code.
func (c Command) Code() byte {
	return c.code
}

// Frame returns a copy of the encoded frame.
func (c Command) Frame() []byte {
	return append([]byte(nil), c.frame...)
}

// ResponseMax is the largest response payload the command can produce. A
// value of zero means the command is acknowledged without a data frame.
func (c Command) ResponseMax() int {
	return c.responseMax
}

// Built once at start-up; byte-exact with the PN532 user manual.
var (
	// SAMConfiguration selects normal mode with a 1s virtual card timeout
	// and the IRQ line enabled.
	SAMConfiguration = newCommand("SAMConfiguration",
		[]byte{cmdSamConfiguration, 0x01, 0x14, 0x01}, samConfigResponseMax)

	// InListPassiveTarget searches for at most one ISO14443A target at 106 kbps.
	InListPassiveTarget = newCommand("InListPassiveTarget",
		[]byte{cmdInListPassiveTarget, 0x01, 0x00}, passiveTargetResponseMax)

	// GetFirmwareVersion queries IC, version, revision and supported protocols.
	GetFirmwareVersion = newCommand("GetFirmwareVersion",
		[]byte{cmdGetFirmwareVersion}, firmwareResponseMax)

	// RFConfigurationRetries sets MxRtyATR, MxRtyPSL and MxRtyPassiveActivation
	// so that InListPassiveTarget returns when no tag is in the field.
	RFConfigurationRetries = newCommand("RFConfiguration",
		[]byte{cmdRFConfiguration, 0x05, 0xFF, 0x01, DefaultPassiveActivationRetries}, rfConfigResponseMax)
)
