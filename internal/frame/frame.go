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

package frame

import (
	"bytes"
	"errors"
	"fmt"
)

// Frame errors
var (
	ErrLength         = errors.New("frame length exceeds buffer")
	ErrChecksum       = errors.New("checksum mismatch")
	ErrFrameCorrupted = errors.New("frame corrupted")
	ErrUnexpectedAck  = errors.New("unexpected acknowledgement")
)

// CalculateChecksum returns the modulo 256 sum of data.
func CalculateChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// ValidateChecksum reports whether data does NOT sum to zero, i.e. whether
// the frame section should be rejected.
func ValidateChecksum(data []byte) bool {
	return CalculateChecksum(data) != 0
}

// CalculateLengthChecksum returns the two's complement of length.
func CalculateLengthChecksum(length byte) byte {
	return ^length + 1
}

// CalculateDataChecksum returns the two's complement of TFI plus data.
func CalculateDataChecksum(tfi byte, data []byte) byte {
	return ^(tfi + CalculateChecksum(data)) + 1
}

// Encode wraps payload in a normal information frame:
// [00 FF LEN LCS TFI payload... DCS 00].
//
// Payloads longer than MaxPayloadLength cannot be described by a single
// length byte; Encode panics for them since every command is fixed at
// build time.
func Encode(tfi byte, payload []byte) []byte {
	if len(payload) > MaxPayloadLength {
		panic(fmt.Sprintf("frame: payload of %d bytes exceeds %d", len(payload), MaxPayloadLength))
	}

	length := byte(len(payload) + 1)
	frm := make([]byte, 0, len(payload)+MinFrameLength)
	frm = append(frm, StartCode1, StartCode2, length, CalculateLengthChecksum(length), tfi)
	frm = append(frm, payload...)
	frm = append(frm, CalculateDataChecksum(tfi, payload), Postamble)
	return frm
}

// findStart returns the index of the byte following the first start code,
// or -1 when raw holds none.
func findStart(raw []byte) int {
	for off := 0; off < len(raw)-1; off++ {
		if raw[off] == StartCode1 && raw[off+1] == StartCode2 {
			return off + 2
		}
	}
	return -1
}

// Decode locates and validates one information frame in raw and returns its
// payload (the bytes between TFI and DCS). Leading bytes before the start
// code, such as the I2C status byte and the extra preamble, are skipped.
//
// The returned payload aliases raw.
func Decode(raw []byte, tfi byte) ([]byte, error) {
	off := findStart(raw)
	if off < 0 || off+2 > len(raw) {
		return nil, fmt.Errorf("no start code in %d bytes: %w", len(raw), ErrFrameCorrupted)
	}

	length := int(raw[off])
	// LEN, LCS, TFI+payload, DCS
	if end := off + 2 + length + 1; end > len(raw) {
		return nil, fmt.Errorf("declared length %d needs %d bytes, have %d: %w",
			length, end, len(raw), ErrLength)
	}

	if ValidateChecksum(raw[off : off+2]) {
		return nil, fmt.Errorf("length checksum %02X for length %02X: %w", raw[off+1], raw[off], ErrChecksum)
	}

	if length == 0 {
		return nil, fmt.Errorf("empty frame: %w", ErrFrameCorrupted)
	}

	body := raw[off+2 : off+2+length+1] // TFI + payload + DCS
	if body[0] != tfi {
		if body[0] == ErrorFrame {
			return nil, fmt.Errorf("error frame received: %w", ErrFrameCorrupted)
		}
		return nil, fmt.Errorf("unexpected TFI %02X, want %02X: %w", body[0], tfi, ErrFrameCorrupted)
	}

	if ValidateChecksum(body) {
		return nil, fmt.Errorf("data checksum %02X: %w", body[length], ErrChecksum)
	}

	return body[1:length], nil
}

// DecodeAck validates that raw carries an ACK frame.
func DecodeAck(raw []byte) error {
	off := findStart(raw)
	if off < 0 || off+len(AckBody) > len(raw) {
		return fmt.Errorf("no start code in %d bytes: %w", len(raw), ErrUnexpectedAck)
	}

	got := raw[off : off+len(AckBody)]
	switch {
	case bytes.Equal(got, AckBody):
		return nil
	case bytes.Equal(got, NackBody):
		return fmt.Errorf("NACK received: %w", ErrUnexpectedAck)
	default:
		return fmt.Errorf("got % X: %w", got, ErrUnexpectedAck)
	}
}
