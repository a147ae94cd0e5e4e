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
	"testing"

	"github.com/ZaparooProject/go-pn532-i2c/internal/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandFrames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cmd   Command
		frame []byte
		code  byte
	}{
		{
			name:  "SAMConfiguration",
			cmd:   SAMConfiguration,
			frame: []byte{0x00, 0xFF, 0x05, 0xFB, 0xD4, 0x14, 0x01, 0x14, 0x01, 0x02, 0x00},
			code:  0x14,
		},
		{
			name:  "InListPassiveTarget",
			cmd:   InListPassiveTarget,
			frame: []byte{0x00, 0xFF, 0x04, 0xFC, 0xD4, 0x4A, 0x01, 0x00, 0xE1, 0x00},
			code:  0x4A,
		},
		{
			name:  "GetFirmwareVersion",
			cmd:   GetFirmwareVersion,
			frame: []byte{0x00, 0xFF, 0x02, 0xFE, 0xD4, 0x02, 0x2A, 0x00},
			code:  0x02,
		},
		{
			name:  "RFConfiguration",
			cmd:   RFConfigurationRetries,
			frame: []byte{0x00, 0xFF, 0x06, 0xFA, 0xD4, 0x32, 0x05, 0xFF, 0x01, 0x0A, 0xEB, 0x00},
			code:  0x32,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.name, tt.cmd.Name())
			assert.Equal(t, tt.code, tt.cmd.Code())
			assert.Equal(t, tt.frame, tt.cmd.Frame())
			assert.LessOrEqual(t, tt.cmd.ResponseMax()+dataReadOverhead, responseBufferSize)

			payload, err := frame.Decode(tt.cmd.Frame(), frame.HostToPn532)
			require.NoError(t, err)
			assert.Equal(t, tt.code, payload[0])
		})
	}
}

func TestCommandFrameIsImmutable(t *testing.T) {
	t.Parallel()
	f := SAMConfiguration.Frame()
	f[5] = 0x00
	assert.Equal(t, byte(0x14), SAMConfiguration.Frame()[5])
}
