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
	"context"
	"fmt"

	pn532 "github.com/ZaparooProject/go-pn532-i2c"
	"github.com/ZaparooProject/go-pn532-i2c/detection"
)

// Testing handles reader testing
type Testing struct {
	config    *Config
	output    *Output
	discovery *Discovery
}

// NewTesting creates a new testing handler
func NewTesting(config *Config, output *Output, discovery *Discovery) *Testing {
	return &Testing{
		config:    config,
		output:    output,
		discovery: discovery,
	}
}

// TestReader performs basic connectivity tests on a reader
func (t *Testing) TestReader(ctx context.Context, reader detection.DeviceInfo) error {
	t.output.ReaderTestHeader(reader)

	device, err := t.discovery.OpenDevice(reader)
	if err != nil {
		t.output.TestFailure()
		return err
	}
	defer func() {
		if closeErr := device.Close(); closeErr != nil {
			t.output.Verbose("Warning: device close failed: %v", closeErr)
		}
	}()

	version, err := device.FirmwareVersion(ctx)
	if err != nil {
		t.output.TestFailure()
		return fmt.Errorf("failed to get firmware version: %w", err)
	}

	t.output.TestSuccess(reader, version)

	if err := t.runConnectivityTests(ctx, device); err != nil {
		return fmt.Errorf("connectivity tests failed: %w", err)
	}
	return nil
}

// runConnectivityTests configures the controller and runs one tag read
func (t *Testing) runConnectivityTests(ctx context.Context, device *pn532.Device) error {
	t.output.Verbose("   Running connectivity tests...")

	if err := device.SAMConfigure(ctx); err != nil {
		return fmt.Errorf("SAM configuration failed: %w", err)
	}
	t.output.Verbose("   OK: SAM configuration OK")

	if err := device.LimitActivationRetries(ctx); err != nil {
		return fmt.Errorf("RF configuration failed: %w", err)
	}
	t.output.Verbose("   OK: RF configuration OK")

	resp, err := device.ListPassiveTarget(ctx)
	if err != nil {
		return fmt.Errorf("tag read failed (%s): %w", pn532.ErrorKind(err), err)
	}
	tag, err := pn532.ParseTagRecord(resp)
	if err != nil {
		return err
	}
	if tag == nil {
		t.output.Verbose("   OK: Tag read OK, field empty")
	} else {
		t.output.Verbose("   OK: Tag read OK, %s", tag)
	}
	return nil
}
