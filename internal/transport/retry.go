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

// Package transport provides internal transport utilities
package transport

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned by TimeoutRetry when the operation never succeeded
// within the allotted time.
var ErrTimeout = errors.New("operation timeout")

// RetryOperation represents a function that can be retried
// Returns: data, shouldRetry, error
// - data: the result if successful
// - shouldRetry: true if the operation should be retried
// - error: any permanent error that should stop retries
type RetryOperation[T any] func() (T, bool, error)

// TimeoutRetry executes an operation with timeout-based retry logic.
// Common pattern for polling operations (like waiting for device ready).
//
// The operation always runs at least once. Between attempts TimeoutRetry
// sleeps for interval; once timeout has elapsed without success it returns
// ErrTimeout. Context cancellation interrupts the sleep.
func TimeoutRetry[T any](
	ctx context.Context,
	timeout, interval time.Duration,
	operation RetryOperation[T],
) (T, error) {
	var zero T
	start := time.Now()
	attempts := 0

	for {
		attempts++
		result, shouldRetry, err := operation()
		if err != nil {
			return zero, err
		}

		if !shouldRetry {
			return result, nil
		}

		if time.Since(start) >= timeout {
			return zero, fmt.Errorf("gave up after %d attempts in %s: %w",
				attempts, time.Since(start).Round(time.Millisecond), ErrTimeout)
		}

		if err := sleep(ctx, interval); err != nil {
			return zero, err
		}
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry interrupted: %w", ctx.Err())
		default:
			return nil
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("retry interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
