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

package i2c

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ZaparooProject/go-pn532-i2c/detection"
	"github.com/ZaparooProject/go-pn532-i2c/internal/frame"
	virt "github.com/ZaparooProject/go-pn532-i2c/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// virtualBus pins a VirtualPN532 to its own address.
type virtualBus struct {
	sim *virt.VirtualPN532
}

func (b virtualBus) Write(p []byte) error {
	return b.sim.Write(b.sim.Address, p, time.Second)
}

func (b virtualBus) Read(p []byte) error {
	return b.sim.Read(b.sim.Address, p, time.Second)
}

func TestProbe_SafeModeReadsFirmware(t *testing.T) {
	t.Parallel()
	sim := virt.NewVirtualPN532()
	sim.SetBusyPolls(2)

	confidence, metadata, err := probe(context.Background(), virtualBus{sim}, detection.Safe)
	require.NoError(t, err)
	assert.Equal(t, detection.High, confidence)
	assert.Equal(t, "1.6", metadata["firmware"])
	assert.Equal(t, "0x32", metadata["ic"])
	assert.Equal(t, []byte{virt.CmdGetFirmwareVersion}, sim.Commands())
}

func TestProbe_PassiveModeNeverWrites(t *testing.T) {
	t.Parallel()
	sim := virt.NewVirtualPN532()

	confidence, _, err := probe(context.Background(), virtualBus{sim}, detection.Passive)
	require.NoError(t, err)
	assert.Equal(t, detection.Medium, confidence)
	assert.Empty(t, sim.Writes())
}

func TestProbe_Failures(t *testing.T) {
	t.Parallel()
	busErr := errors.New("remote I/O error")

	tests := []struct {
		setup      func(sim *virt.VirtualPN532)
		wantErr    error
		name       string
		confidence detection.Confidence
	}{
		{
			name:       "nothing at address",
			setup:      func(sim *virt.VirtualPN532) { sim.FailReads(1, busErr) },
			wantErr:    busErr,
			confidence: detection.Low,
		},
		{
			name:       "NACK instead of ACK",
			setup:      func(sim *virt.VirtualPN532) { sim.SetNextAck(virt.BuildNackRead()) },
			wantErr:    frame.ErrUnexpectedAck,
			confidence: detection.Medium,
		},
		{
			name:       "error frame instead of firmware",
			setup:      func(sim *virt.VirtualPN532) { sim.SetNextResponse(virt.BuildSyntaxErrorRead()) },
			wantErr:    frame.ErrFrameCorrupted,
			confidence: detection.Medium,
		},
		{
			name:       "never ready",
			setup:      func(sim *virt.VirtualPN532) { sim.SetBusyPolls(1000) },
			wantErr:    errNotReady,
			confidence: detection.Medium,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sim := virt.NewVirtualPN532()
			tt.setup(sim)

			confidence, _, err := probe(context.Background(), virtualBus{sim}, detection.Safe)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.confidence, confidence)
		})
	}
}
