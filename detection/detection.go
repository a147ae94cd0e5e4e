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

// Package detection locates PN532 controllers attached to the host.
package detection

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Detection errors
var (
	ErrNoDevicesFound      = errors.New("no PN532 devices found")
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
	ErrDetectionTimeout    = errors.New("detection timed out")
)

// Mode controls how intrusive detection is allowed to be
type Mode int

const (
	// Passive only reads from the default address and never writes.
	Passive Mode = iota
	// Safe additionally sends GetFirmwareVersion and checks for an ACK.
	Safe
)

// Confidence rates how sure a detector is that it found a PN532
type Confidence int

const (
	Low Confidence = iota
	Medium
	High
)

func (c Confidence) String() string {
	switch c {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// DeviceInfo describes one detected controller
type DeviceInfo struct {
	Metadata   map[string]string
	Transport  string
	Path       string
	Name       string
	Address    uint16
	Confidence Confidence
}

// Options configure a detection run
type Options struct {
	IgnorePaths []string
	Timeout     time.Duration
	Mode        Mode
}

// DefaultOptions returns the default detection options
func DefaultOptions() Options {
	return Options{
		Mode:    Safe,
		Timeout: 5 * time.Second,
	}
}

// Detector finds devices reachable over one transport
type Detector interface {
	Transport() string
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
}

var (
	registryMu sync.Mutex
	registry   []Detector
)

// RegisterDetector makes a detector available to DetectAll
func RegisterDetector(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, d)
}

// DetectAll runs every registered detector and returns the devices found,
// most confident first.
func DetectAll(opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}

	registryMu.Lock()
	detectors := append([]Detector(nil), registry...)
	registryMu.Unlock()

	return detectWith(detectors, opts)
}

func detectWith(detectors []Detector, opts *Options) ([]DeviceInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	var devices []DeviceInfo
	var errs []error
	for _, d := range detectors {
		found, err := d.Detect(ctx, opts)
		if err != nil {
			if !errors.Is(err, ErrNoDevicesFound) {
				errs = append(errs, fmt.Errorf("%s: %w", d.Transport(), err))
			}
			continue
		}
		for _, dev := range found {
			if !IsPathIgnored(dev.Path, opts.IgnorePaths) {
				devices = append(devices, dev)
			}
		}
	}

	if len(devices) == 0 {
		if len(errs) > 0 {
			return nil, fmt.Errorf("%w: %w", ErrNoDevicesFound, errors.Join(errs...))
		}
		return nil, ErrNoDevicesFound
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Confidence > devices[j].Confidence
	})
	return devices, nil
}

// IsPathIgnored reports whether devicePath matches one of ignorePaths.
// Comparison is case-insensitive and on cleaned paths.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" {
		return false
	}

	normalized := normalizePath(devicePath)
	for _, ignored := range ignorePaths {
		if ignored == "" {
			continue
		}
		if normalizePath(ignored) == normalized {
			return true
		}
	}
	return false
}

func normalizePath(path string) string {
	return strings.ToLower(filepath.Clean(strings.TrimSpace(path)))
}
