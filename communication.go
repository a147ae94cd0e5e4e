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
	"context"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-pn532-i2c/internal/frame"
	"go.uber.org/zap"
)

// Exchange performs one full round trip for cmd: send the frame, wait for
// and validate the ACK, then, if the command has a response, wait for and
// validate the data frame. It returns a copy of the response payload,
// starting with the command echo byte.
//
// Failures are returned as *ExchangeError and abort the remaining steps.
// Nothing is retried here.
func (d *Device) Exchange(ctx context.Context, cmd Command) (resp []byte, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	defer func() {
		if err != nil {
			d.setState(StateFailed)
		} else {
			d.setState(StateDone)
		}
		if d.observer != nil {
			d.observer.ObserveExchange(cmd.name, time.Since(start), err)
		}
	}()

	d.setState(StateIdle)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, d.fail(cmd, ctxErr)
	}

	if err := d.sendCommand(cmd); err != nil {
		return nil, d.fail(cmd, err)
	}

	if err := d.receiveAck(ctx); err != nil {
		return nil, d.fail(cmd, err)
	}

	if cmd.responseMax == 0 {
		return nil, nil
	}

	payload, err := d.receiveData(ctx, cmd.responseMax)
	if err != nil {
		return nil, d.fail(cmd, err)
	}

	if len(payload) == 0 || payload[0] != cmd.code+1 {
		return nil, d.fail(cmd, fmt.Errorf("response % X does not echo command %02X: %w",
			payload, cmd.code, ErrUnexpectedResponse))
	}

	d.logger.Debug("exchange complete",
		zap.String("command", cmd.name),
		zap.String("payload", fmt.Sprintf("% X", payload)),
		zap.Duration("elapsed", time.Since(start)))

	return append([]byte(nil), payload...), nil
}

func (d *Device) fail(cmd Command, err error) error {
	return &ExchangeError{Command: cmd.name, State: d.State(), Err: err}
}

// sendCommand writes the pre-built frame in one bus transaction.
func (d *Device) sendCommand(cmd Command) error {
	d.setState(StateSending)
	d.logger.Debug("sending command",
		zap.String("command", cmd.name),
		zap.String("frame", fmt.Sprintf("% X", cmd.frame)))

	if err := d.bus.Write(d.config.Address, cmd.frame, d.config.BusTimeout); err != nil {
		return fmt.Errorf("write %s frame: %w: %w", cmd.name, ErrBus, err)
	}
	return nil
}

// receiveAck waits for the controller and validates its ACK frame.
func (d *Device) receiveAck(ctx context.Context) error {
	d.setState(StateAwaitAckReady)
	if err := d.waitReady(ctx, d.config.ReadyTimeout, d.config.ReadyPollInterval); err != nil {
		return err
	}

	d.setState(StateReceivingAck)
	raw := d.scratch(ackReadLength)
	if err := d.bus.Read(d.config.Address, raw, d.config.BusTimeout); err != nil {
		return fmt.Errorf("read ACK: %w: %w", ErrBus, err)
	}

	if err := frame.DecodeAck(raw); err != nil {
		d.logger.Debug("invalid ACK", zap.String("raw", fmt.Sprintf("% X", raw)))
		return fmt.Errorf("validate ACK: %w", err)
	}
	return nil
}

// receiveData waits for the controller and reads the response frame of at
// most maxPayload payload bytes.
func (d *Device) receiveData(ctx context.Context, maxPayload int) ([]byte, error) {
	n := maxPayload + dataReadOverhead
	if n > len(d.buf) {
		return nil, fmt.Errorf("response of up to %d bytes exceeds %d byte buffer: %w",
			n, len(d.buf), ErrLength)
	}

	d.setState(StateAwaitDataReady)
	if err := d.waitReady(ctx, d.config.ReadyTimeout, d.config.ReadyPollInterval); err != nil {
		return nil, err
	}

	d.setState(StateReceivingData)
	raw := d.scratch(n)
	if err := d.bus.Read(d.config.Address, raw, d.config.BusTimeout); err != nil {
		return nil, fmt.Errorf("read response: %w: %w", ErrBus, err)
	}

	payload, err := frame.Decode(raw, frame.Pn532ToHost)
	if err != nil {
		d.logger.Debug("invalid response frame", zap.String("raw", fmt.Sprintf("% X", raw)))
		return nil, fmt.Errorf("validate response: %w", err)
	}
	return payload, nil
}

// scratch returns the first n bytes of the response buffer, zeroed so that
// nothing from a previous exchange can be parsed again.
func (d *Device) scratch(n int) []byte {
	buf := d.buf[:n]
	clear(buf)
	return buf
}
