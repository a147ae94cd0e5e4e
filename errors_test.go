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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err       error
		name      string
		kind      string
		retryable bool
	}{
		{name: "nil", err: nil, kind: ""},
		{name: "bus", err: fmt.Errorf("write: %w: %w", ErrBus, errors.New("EIO")), kind: KindBus, retryable: true},
		{name: "timeout", err: fmt.Errorf("wait ready: %w", ErrTimeout), kind: KindTimeout, retryable: true},
		{name: "length", err: ErrLength, kind: KindLength, retryable: true},
		{name: "checksum", err: ErrChecksumMismatch, kind: KindChecksum, retryable: true},
		{name: "frame", err: ErrFrameCorrupted, kind: KindFrame, retryable: true},
		{name: "ack", err: ErrUnexpectedAck, kind: KindUnexpectedAck, retryable: true},
		{name: "response", err: ErrUnexpectedResponse, kind: KindUnexpectedResponse, retryable: true},
		{name: "canceled", err: context.Canceled, kind: KindCanceled},
		{name: "deadline", err: fmt.Errorf("retry interrupted: %w", context.DeadlineExceeded), kind: KindCanceled},
		{name: "other", err: errors.New("something else"), kind: KindOther},
		{
			name:      "exchange error",
			err:       &ExchangeError{Command: "SAMConfiguration", State: StateReceivingAck, Err: ErrUnexpectedAck},
			kind:      KindUnexpectedAck,
			retryable: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.kind, ErrorKind(tt.err))
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestExchangeError(t *testing.T) {
	t.Parallel()
	err := &ExchangeError{Command: "InListPassiveTarget", State: StateAwaitDataReady, Err: ErrTimeout}

	assert.Equal(t, "InListPassiveTarget failed while awaiting data ready: operation timeout", err.Error())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestStateString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "receiving data", StateReceivingData.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}
