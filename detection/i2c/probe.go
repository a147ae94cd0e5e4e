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
	"fmt"
	"time"

	"github.com/ZaparooProject/go-pn532-i2c/detection"
	"github.com/ZaparooProject/go-pn532-i2c/internal/frame"
	itransport "github.com/ZaparooProject/go-pn532-i2c/internal/transport"
)

const (
	probeReadyTimeout = 500 * time.Millisecond
	probePollInterval = 10 * time.Millisecond

	// status byte + ACK frame
	ackReadLength = 7
	// status byte + preamble + frame overhead + TFI + 5 byte firmware payload
	firmwareReadLength = 1 + 1 + frame.Overhead + 1 + 5

	statusReady           = 0x01
	cmdGetFirmwareVersion = 0x02
)

var errNotReady = errors.New("controller never became ready")

// rawBus is an I2C client with the target address already selected.
type rawBus interface {
	Write(p []byte) error
	Read(p []byte) error
}

// probe checks whether a PN532 answers on bus. In passive mode a readable
// status byte is all that is checked. Otherwise GetFirmwareVersion is sent
// and its ACK and response are validated.
func probe(ctx context.Context, bus rawBus, mode detection.Mode) (detection.Confidence, map[string]string, error) {
	metadata := make(map[string]string)

	status := make([]byte, 1)
	if err := bus.Read(status); err != nil {
		return detection.Low, metadata, fmt.Errorf("status read: %w", err)
	}
	if mode == detection.Passive {
		return detection.Medium, metadata, nil
	}

	if err := bus.Write(frame.Encode(frame.HostToPn532, []byte{cmdGetFirmwareVersion})); err != nil {
		return detection.Medium, metadata, fmt.Errorf("send GetFirmwareVersion: %w", err)
	}

	ack := make([]byte, ackReadLength)
	if err := readWhenReady(ctx, bus, ack); err != nil {
		return detection.Medium, metadata, err
	}
	if err := frame.DecodeAck(ack[1:]); err != nil {
		return detection.Medium, metadata, err
	}

	resp := make([]byte, firmwareReadLength)
	if err := readWhenReady(ctx, bus, resp); err != nil {
		return detection.Medium, metadata, err
	}
	payload, err := frame.Decode(resp[1:], frame.Pn532ToHost)
	if err != nil {
		return detection.Medium, metadata, err
	}
	if len(payload) < 5 || payload[0] != cmdGetFirmwareVersion+1 {
		return detection.Medium, metadata, fmt.Errorf("unexpected firmware response % X", payload)
	}

	metadata["ic"] = fmt.Sprintf("0x%02X", payload[1])
	metadata["firmware"] = fmt.Sprintf("%d.%d", payload[2], payload[3])
	return detection.High, metadata, nil
}

func readWhenReady(ctx context.Context, bus rawBus, p []byte) error {
	_, err := itransport.TimeoutRetry(ctx, probeReadyTimeout, probePollInterval, func() (struct{}, bool, error) {
		clear(p)
		if err := bus.Read(p[:1]); err != nil {
			return struct{}{}, true, nil
		}
		return struct{}{}, p[0] != statusReady, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errNotReady, err)
	}
	if err := bus.Read(p); err != nil {
		return fmt.Errorf("frame read: %w", err)
	}
	return nil
}
