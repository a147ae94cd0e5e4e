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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateChecksum(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{
			name: "empty data",
			data: []byte{},
			want: 0,
		},
		{
			name: "single byte",
			data: []byte{0x42},
			want: 0x42,
		},
		{
			name: "two bytes",
			data: []byte{0x10, 0x20},
			want: 0x30,
		},
		{
			name: "overflow handling",
			data: []byte{0xFF, 0x01},
			want: 0x00, // 255 + 1 = 256, truncated to 0
		},
		{
			name: "multiple bytes",
			data: []byte{0x01, 0x02, 0x03, 0x04},
			want: 0x0A,
		},
		{
			name: "real frame data",
			data: []byte{0xD4, 0x03, 0x32, 0x01, 0x00, 0x6B, 0x02, 0x4A, 0x65, 0x6C, 0x6C, 0x6F},
			want: 0x6D, // Sum of all bytes (corrected value)
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CalculateChecksum(tt.data); got != tt.want {
				t.Errorf("CalculateChecksum() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateChecksum(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		data     []byte
		wantNack bool // true if checksum invalid (should NACK)
	}{
		{
			name:     "valid checksum (zero sum)",
			data:     []byte{0x10, 0xF0}, // 0x10 + 0xF0 = 0x00 (valid)
			wantNack: false,
		},
		{
			name:     "invalid checksum",
			data:     []byte{0x10, 0x20}, // 0x10 + 0x20 = 0x30 (invalid)
			wantNack: true,
		},
		{
			name:     "empty data",
			data:     []byte{},
			wantNack: false, // Empty data has checksum 0 (valid)
		},
		{
			name:     "valid frame with correct DCS",
			data:     []byte{0xD4, 0x03, 0x29},
			wantNack: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidateChecksum(tt.data); got != tt.wantNack {
				t.Errorf("ValidateChecksum() = %v, want %v", got, tt.wantNack)
			}
		})
	}
}

func TestCalculateDataChecksum(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		tfi  byte
		want byte
	}{
		{
			name: "simple case",
			tfi:  0xD4,
			data: []byte{0x02},
			want: 0x2A, // Two's complement of (0xD4 + 0x02)
		},
		{
			name: "empty data",
			tfi:  0xD4,
			data: []byte{},
			want: 0x2C, // Two's complement of 0xD4
		},
		{
			name: "multiple bytes",
			tfi:  0xD4,
			data: []byte{0x02, 0x01, 0x03},
			want: 0x26, // Two's complement of (0xD4 + 0x02 + 0x01 + 0x03)
		},
		{
			name: "SAM configuration command",
			tfi:  0xD4,
			data: []byte{0x14, 0x01, 0x14, 0x01},
			want: 0x02,
		},
		{
			name: "InListPassiveTarget command",
			tfi:  0xD4,
			data: []byte{0x4A, 0x01, 0x00},
			want: 0xE1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CalculateDataChecksum(tt.tfi, tt.data); got != tt.want {
				t.Errorf("CalculateDataChecksum() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateLengthChecksum(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		length byte
		want   byte
	}{
		{
			name:   "length 2",
			length: 0x02,
			want:   0xFE, // Two's complement of 0x02
		},
		{
			name:   "length 1",
			length: 0x01,
			want:   0xFF, // Two's complement of 0x01
		},
		{
			name:   "length 255",
			length: 0xFF,
			want:   0x01, // Two's complement of 0xFF
		},
		{
			name:   "length 0",
			length: 0x00,
			want:   0x00, // Two's complement of 0x00
		},
		{
			name:   "length 16",
			length: 0x10,
			want:   0xF0, // Two's complement of 0x10
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CalculateLengthChecksum(tt.length); got != tt.want {
				t.Errorf("CalculateLengthChecksum() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestChecksumProperty verifies the mathematical property that
// length + LCS should always equal 0 (mod 256)
func TestChecksumProperty(t *testing.T) {
	t.Parallel()
	for i := 0; i < 256; i++ {
		length := byte(i)
		lcs := CalculateLengthChecksum(length)
		sum := length + lcs
		if sum != 0 {
			t.Errorf("Property violation: length=%d + LCS=%d = %d, expected 0", length, lcs, sum)
		}
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		payload []byte
		want    []byte
	}{
		{
			name:    "SAM configuration",
			payload: []byte{0x14, 0x01, 0x14, 0x01},
			want:    []byte{0x00, 0xFF, 0x05, 0xFB, 0xD4, 0x14, 0x01, 0x14, 0x01, 0x02, 0x00},
		},
		{
			name:    "InListPassiveTarget",
			payload: []byte{0x4A, 0x01, 0x00},
			want:    []byte{0x00, 0xFF, 0x04, 0xFC, 0xD4, 0x4A, 0x01, 0x00, 0xE1, 0x00},
		},
		{
			name:    "GetFirmwareVersion",
			payload: []byte{0x02},
			want:    []byte{0x00, 0xFF, 0x02, 0xFE, 0xD4, 0x02, 0x2A, 0x00},
		},
		{
			name:    "empty payload",
			payload: []byte{},
			want:    []byte{0x00, 0xFF, 0x01, 0xFF, 0xD4, 0x2C, 0x00},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Encode(HostToPn532, tt.payload))
		})
	}
}

func TestEncodePanicsOnOversizedPayload(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		Encode(HostToPn532, make([]byte, MaxPayloadLength+1))
	})
	assert.NotPanics(t, func() {
		Encode(HostToPn532, make([]byte, MaxPayloadLength))
	})
}

func TestDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	payloads := [][]byte{
		{},
		{0x15},
		{0x4B, 0x00},
		{0x4B, 0x01, 0x01, 0x00, 0x04, 0x08, 0x04, 0xDE, 0xAD, 0xBE, 0xEF},
		{0x00, 0xFF, 0x00, 0xFF},
		make([]byte, MaxPayloadLength),
	}

	for _, payload := range payloads {
		for _, tfi := range []byte{HostToPn532, Pn532ToHost} {
			got, err := Decode(Encode(tfi, payload), tfi)
			require.NoError(t, err)
			assert.Equal(t, payload, append([]byte{}, got...))
		}
	}
}

func TestDecodeSkipsI2CStatusAndPreamble(t *testing.T) {
	t.Parallel()
	raw := append([]byte{0x01, 0x00}, Encode(Pn532ToHost, []byte{0x15})...)
	raw = append(raw, 0x00, 0x00, 0x00) // trailing bytes of a fixed-size read

	got, err := Decode(raw, Pn532ToHost)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x15}, got)
}

func TestDecodeDataChecksumBitFlips(t *testing.T) {
	t.Parallel()
	frm := Encode(Pn532ToHost, []byte{0x4B, 0x01, 0x01, 0x00, 0x44, 0x00, 0x07})
	dcs := len(frm) - 2

	for bit := 0; bit < 8; bit++ {
		corrupted := append([]byte{}, frm...)
		corrupted[dcs] ^= 1 << bit

		_, err := Decode(corrupted, Pn532ToHost)
		require.ErrorIs(t, err, ErrChecksum, "bit %d", bit)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()
	valid := Encode(Pn532ToHost, []byte{0x15})

	tests := []struct {
		name    string
		raw     []byte
		wantErr error
	}{
		{
			name:    "no start code",
			raw:     []byte{0x01, 0x80, 0x80, 0x80},
			wantErr: ErrFrameCorrupted,
		},
		{
			name:    "start code at end",
			raw:     []byte{0x01, 0x00, 0xFF},
			wantErr: ErrFrameCorrupted,
		},
		{
			name:    "declared length exceeds buffer",
			raw:     []byte{0x00, 0xFF, 0x20, 0xE0, 0xD5, 0x15},
			wantErr: ErrLength,
		},
		{
			name:    "length exceeds buffer even with bad LCS",
			raw:     []byte{0x00, 0xFF, 0x40, 0x00, 0xD5, 0x15},
			wantErr: ErrLength,
		},
		{
			name:    "length checksum mismatch",
			raw:     []byte{0x00, 0xFF, 0x02, 0xFD, 0xD5, 0x15, 0x16, 0x00},
			wantErr: ErrChecksum,
		},
		{
			name:    "zero length",
			raw:     []byte{0x00, 0xFF, 0x00, 0x00, 0x00, 0x00},
			wantErr: ErrFrameCorrupted,
		},
		{
			name:    "wrong direction",
			raw:     Encode(HostToPn532, []byte{0x15}),
			wantErr: ErrFrameCorrupted,
		},
		{
			name:    "error frame",
			raw:     []byte{0x00, 0xFF, 0x01, 0xFF, 0x7F, 0x81, 0x00},
			wantErr: ErrFrameCorrupted,
		},
		{
			name: "payload corrupted",
			raw: func() []byte {
				b := append([]byte{}, valid...)
				b[5] ^= 0x01
				return b
			}(),
			wantErr: ErrChecksum,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(tt.raw, Pn532ToHost)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeAck(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		raw     []byte
		wantErr bool
	}{
		{
			name: "ACK with status byte",
			raw:  []byte{0x01, 0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00},
		},
		{
			name: "bare ACK",
			raw:  []byte{0x00, 0xFF, 0x00, 0xFF, 0x00},
		},
		{
			name:    "NACK",
			raw:     []byte{0x01, 0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00},
			wantErr: true,
		},
		{
			name:    "data frame instead of ACK",
			raw:     append([]byte{0x01}, Encode(Pn532ToHost, []byte{0x15})...),
			wantErr: true,
		},
		{
			name:    "no start code",
			raw:     []byte{0x01, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80},
			wantErr: true,
		},
		{
			name:    "truncated",
			raw:     []byte{0x01, 0x00, 0x00, 0xFF, 0x00},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := DecodeAck(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnexpectedAck)
				return
			}
			require.NoError(t, err)
		})
	}
}
