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

//go:build linux

package i2c

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/go-pn532-i2c/detection"
	"golang.org/x/sys/unix"
)

// ioctl requests from linux/i2c-dev.h
const (
	i2cSlave   = 0x0703
	i2cFuncs   = 0x0705
	i2cFuncI2C = 0x00000001
)

const busGlob = "/dev/i2c-*"

type fdBus struct {
	fd int
}

func (b fdBus) Write(p []byte) error {
	n, err := unix.Write(b.fd, p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(p))
	}
	return nil
}

func (b fdBus) Read(p []byte) error {
	n, err := unix.Read(b.fd, p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return fmt.Errorf("short read: %d of %d bytes", n, len(p))
	}
	return nil
}

func detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	paths, err := filepath.Glob(busGlob)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for I2C buses: %w", err)
	}

	var devices []detection.DeviceInfo
	for _, path := range paths {
		if ctx.Err() != nil {
			return devices, detection.ErrDetectionTimeout
		}
		if detection.IsPathIgnored(path, opts.IgnorePaths) {
			continue
		}

		dev, ok := probePath(ctx, path, opts.Mode)
		if ok {
			devices = append(devices, dev)
		}
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

func probePath(ctx context.Context, path string, mode detection.Mode) (detection.DeviceInfo, bool) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return detection.DeviceInfo{}, false
	}
	defer func() { _ = unix.Close(fd) }()

	// the kernel stores an unsigned long here
	funcs, err := unix.IoctlGetInt(fd, i2cFuncs)
	if err != nil || funcs&i2cFuncI2C == 0 {
		return detection.DeviceInfo{}, false
	}
	if err := unix.IoctlSetInt(fd, i2cSlave, DefaultPN532Address); err != nil {
		return detection.DeviceInfo{}, false
	}

	confidence, metadata, err := probe(ctx, fdBus{fd: fd}, mode)
	if err != nil && confidence == detection.Low {
		return detection.DeviceInfo{}, false
	}
	if err != nil {
		metadata["probe_error"] = err.Error()
	}
	metadata["address"] = fmt.Sprintf("0x%02X", DefaultPN532Address)

	return detection.DeviceInfo{
		Transport:  "i2c",
		Path:       path,
		Name:       fmt.Sprintf("PN532 on %s", strings.TrimPrefix(path, "/dev/")),
		Address:    DefaultPN532Address,
		Confidence: confidence,
		Metadata:   metadata,
	}, true
}
