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

	"github.com/ZaparooProject/go-pn532-i2c/internal/frame"
	itransport "github.com/ZaparooProject/go-pn532-i2c/internal/transport"
)

// Common errors
var (
	// ErrBus is wrapped around every failed bus write or read.
	ErrBus = errors.New("bus transaction failed")
	// ErrTimeout means the controller never reported ready in time.
	ErrTimeout = itransport.ErrTimeout
	// ErrLength means a frame declared more bytes than the read buffer holds.
	ErrLength = frame.ErrLength
	// ErrChecksumMismatch means a length or data checksum did not verify.
	ErrChecksumMismatch = frame.ErrChecksum
	// ErrFrameCorrupted means no valid frame could be located in the read.
	ErrFrameCorrupted = frame.ErrFrameCorrupted
	// ErrUnexpectedAck means the controller answered something other than ACK.
	ErrUnexpectedAck = frame.ErrUnexpectedAck
	// ErrUnexpectedResponse means a valid frame carried an unexpected payload.
	ErrUnexpectedResponse = errors.New("unexpected response")
	// ErrInvalidParameter is returned for invalid configuration values.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Error kinds as reported by ErrorKind.
const (
	KindBus                = "bus"
	KindTimeout            = "timeout"
	KindLength             = "length"
	KindChecksum           = "checksum"
	KindFrame              = "frame"
	KindUnexpectedAck      = "unexpected_ack"
	KindUnexpectedResponse = "unexpected_response"
	KindCanceled           = "canceled"
	KindOther              = "other"
)

// ExchangeError reports a failed command exchange and the state it failed in.
type ExchangeError struct {
	Err     error
	Command string
	State   State
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("%s failed while %s: %v", e.Command, e.State, e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies err into one of the Kind* labels. It returns an
// empty string for a nil error.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, ErrBus):
		return KindBus
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrLength):
		return KindLength
	case errors.Is(err, ErrChecksumMismatch):
		return KindChecksum
	case errors.Is(err, ErrFrameCorrupted):
		return KindFrame
	case errors.Is(err, ErrUnexpectedAck):
		return KindUnexpectedAck
	case errors.Is(err, ErrUnexpectedResponse):
		return KindUnexpectedResponse
	default:
		return KindOther
	}
}

// IsRetryable reports whether a later exchange can be expected to succeed
// after err. Protocol and bus failures are retryable; cancellation and
// unclassified errors are not.
func IsRetryable(err error) bool {
	switch ErrorKind(err) {
	case KindBus, KindTimeout, KindLength, KindChecksum, KindFrame,
		KindUnexpectedAck, KindUnexpectedResponse:
		return true
	default:
		return false
	}
}
