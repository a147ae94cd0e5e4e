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

	itransport "github.com/ZaparooProject/go-pn532-i2c/internal/transport"
	"go.uber.org/zap"
)

// statusReady is the status byte value announcing a pending frame.
const statusReady = 0x01

// waitReady polls the one-byte status register until the controller
// reports ready. A failed status read counts as "not ready yet"; only
// running out of time is an error.
func (d *Device) waitReady(ctx context.Context, timeout, interval time.Duration) error {
	status := d.scratch(1)
	var lastErr error
	readErrors := 0

	_, err := itransport.TimeoutRetry(ctx, timeout, interval, func() (struct{}, bool, error) {
		status[0] = 0
		if err := d.bus.Read(d.config.Address, status, d.config.BusTimeout); err != nil {
			readErrors++
			lastErr = err
			d.logger.Debug("status read failed", zap.Int("failures", readErrors), zap.Error(err))
			return struct{}{}, true, nil
		}
		return struct{}{}, status[0] != statusReady, nil
	})
	if err != nil {
		if lastErr != nil {
			return fmt.Errorf("wait ready: %w (%d status reads failed, last: %v)", err, readErrors, lastErr)
		}
		return fmt.Errorf("wait ready: %w", err)
	}
	return nil
}
