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

package main

import (
	"fmt"

	pn532 "github.com/ZaparooProject/go-pn532-i2c"
	"github.com/ZaparooProject/go-pn532-i2c/detection"
)

// Output handles consistent formatting of messages
type Output struct {
	verbose bool
}

// NewOutput creates a new output handler
func NewOutput(verbose bool) *Output {
	return &Output{verbose: verbose}
}

// ReaderTestHeader prints the appropriate header for reader testing
func (o *Output) ReaderTestHeader(reader detection.DeviceInfo) {
	if o.verbose {
		_, _ = fmt.Printf("Testing reader: %s (confidence %s)\n", reader.Name, reader.Confidence)
	} else {
		_, _ = fmt.Printf("Testing %s reader at %s... ", reader.Transport, reader.Path)
	}
}

// TestFailure prints failure indicator for non-verbose mode
func (o *Output) TestFailure() {
	if !o.verbose {
		_, _ = fmt.Print("FAIL\n")
	}
}

// TestSuccess prints success message with firmware version
func (o *Output) TestSuccess(reader detection.DeviceInfo, version *pn532.FirmwareVersion) {
	if o.verbose {
		_, _ = fmt.Printf("   OK: Firmware: %s (IC 0x%02X)\n", version.Version, version.IC)
		_, _ = fmt.Printf("   OK: Device: %s address 0x%02X\n", reader.Path, reader.Address)
	} else {
		_, _ = fmt.Printf("OK: (firmware v%s)\n", version.Version)
	}
}

// TagDetected prints a newly detected tag
func (*Output) TagDetected(readerPath string, tag *pn532.TagRecord) {
	_, _ = fmt.Printf("\nCARD: Card detected on %s: %s\n", readerPath, tag)
}

// TagRemoved prints a tag removal
func (*Output) TagRemoved(readerPath string) {
	_, _ = fmt.Printf("CARD: Card removed from %s\n", readerPath)
}

// Error prints an error message
func (*Output) Error(format string, args ...any) {
	_, _ = fmt.Printf("ERROR: "+format+"\n", args...)
}

// Warning prints a warning message
func (*Output) Warning(format string, args ...any) {
	_, _ = fmt.Printf("WARNING: "+format+"\n", args...)
}

// Info prints an info message
func (*Output) Info(format string, args ...any) {
	_, _ = fmt.Printf("INFO: "+format+"\n", args...)
}

// Verbose prints only if verbose mode is enabled
func (o *Output) Verbose(format string, args ...any) {
	if o.verbose {
		_, _ = fmt.Printf(format+"\n", args...)
	}
}
