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

package testing

import (
	"github.com/ZaparooProject/go-pn532-i2c/internal/frame"
)

// BuildFirmwareVersionResponse creates a GetFirmwareVersion response payload
func BuildFirmwareVersionResponse() []byte {
	// IC, Ver, Rev, Support
	// Example: PN532 version 1.6 revision 7, supports ISO14443A/B and ISO18092
	return []byte{0x03, 0x32, 0x01, 0x06, 0x07}
}

// BuildSAMConfigurationResponse creates a SAMConfiguration response payload
func BuildSAMConfigurationResponse() []byte {
	return []byte{0x15}
}

// BuildRFConfigurationResponse creates an RFConfiguration response payload
func BuildRFConfigurationResponse() []byte {
	return []byte{0x33}
}

// BuildTagDetectionResponse creates an InListPassiveTarget response payload
// for a single ISO14443A target
func BuildTagDetectionResponse(atqa [2]byte, sak byte, uid []byte) []byte {
	response := []byte{0x4B, 0x01, 0x01} // Command + 1 target found, target number 1

	// ATQA (Answer To Request Type A), SAK (Select Acknowledge), UID length and UID
	response = append(response, atqa[0], atqa[1], sak, byte(len(uid)))
	response = append(response, uid...)

	return response
}

// BuildNoTagResponse creates an empty InListPassiveTarget response payload
func BuildNoTagResponse() []byte {
	return []byte{0x4B, 0x00} // No targets found
}

// BuildAckRead returns the bytes following the status byte of an ACK read
func BuildAckRead() []byte {
	return []byte{0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00}
}

// BuildNackRead returns the bytes following the status byte of a NACK read
func BuildNackRead() []byte {
	return []byte{0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00}
}

// BuildSyntaxErrorRead returns an application level error frame
func BuildSyntaxErrorRead() []byte {
	return []byte{0x00, 0x00, 0xFF, 0x01, 0xFF, 0x7F, 0x81, 0x00}
}

// BuildDataRead wraps a response payload the way the PN532 emits it after
// the status byte: an extra preamble followed by a normal information frame
func BuildDataRead(payload []byte) []byte {
	return append([]byte{0x00}, frame.Encode(frame.Pn532ToHost, payload)...)
}

// Common UIDs for testing
var (
	// TestNTAG213UID is a sample NTAG213 UID
	TestNTAG213UID = []byte{0x04, 0xAB, 0xCD, 0xEF, 0x12, 0x34, 0x56}

	// TestMIFARE1KUID is a sample MIFARE Classic 1K UID
	TestMIFARE1KUID = []byte{0xDE, 0xAD, 0xBE, 0xEF}

	// TestMIFARE4KUID is a sample MIFARE Classic 4K UID
	TestMIFARE4KUID = []byte{0xAB, 0xCD, 0xEF, 0x01}
)

// Command bytes for reference
const (
	CmdGetFirmwareVersion  = 0x02
	CmdSAMConfiguration    = 0x14
	CmdRFConfiguration     = 0x32
	CmdInListPassiveTarget = 0x4A
)
