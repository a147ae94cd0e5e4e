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
	"errors"
	"fmt"

	pn532 "github.com/ZaparooProject/go-pn532-i2c"
	"github.com/ZaparooProject/go-pn532-i2c/detection"
	"github.com/ZaparooProject/go-pn532-i2c/polling"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// deviceOpener opens a PN532 on a discovered reader
type deviceOpener interface {
	OpenDevice(reader detection.DeviceInfo) (*pn532.Device, error)
}

// Modes handles the different operating modes
type Modes struct {
	config    *Config
	output    *Output
	discovery *Discovery
	opener    deviceOpener
	testing   *Testing
	logger    *zap.Logger
}

// NewModes creates a new modes handler
func NewModes(config *Config, output *Output, discovery *Discovery, testing *Testing, logger *zap.Logger) *Modes {
	return &Modes{
		config:    config,
		output:    output,
		discovery: discovery,
		opener:    discovery,
		testing:   testing,
		logger:    logger,
	}
}

// RunQuick tests every reader once
func (m *Modes) RunQuick(ctx context.Context) error {
	_, _ = fmt.Println("NFC Test Tool - Quick Mode")
	_, _ = fmt.Println("==========================")

	_, err := m.testReaders(ctx)
	return err
}

// RunComprehensive tests every reader and then reports tags until ctx is done
func (m *Modes) RunComprehensive(ctx context.Context) error {
	_, _ = fmt.Println("NFC Test Tool - Comprehensive Mode")
	_, _ = fmt.Println("=====================================")

	readers, err := m.testReaders(ctx)
	if err != nil {
		return err
	}

	m.output.Info("Monitoring %d reader(s), place a card on a reader (Ctrl+C to stop)", len(readers))
	return m.monitor(ctx, readers)
}

// testReaders returns the readers that passed their test
func (m *Modes) testReaders(ctx context.Context) ([]detection.DeviceInfo, error) {
	readers, err := m.discovery.DiscoverReaders()
	if err != nil {
		return nil, err
	}

	var working []detection.DeviceInfo
	for _, reader := range readers {
		if err := m.testing.TestReader(ctx, reader); err != nil {
			m.output.Warning("Reader test failed: %v", err)
			continue
		}
		working = append(working, reader)
	}

	if len(working) == 0 {
		return nil, errors.New("no working PN532 readers found")
	}
	return working, nil
}

// monitor runs one polling session per reader. A reader that cannot be
// opened or configured stops all of them, and monitor returns only after
// every started session has finished.
func (m *Modes) monitor(ctx context.Context, readers []detection.DeviceInfo) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	stop := func(err error) error {
		cancel()
		_ = g.Wait()
		return err
	}

	for _, reader := range readers {
		device, err := m.opener.OpenDevice(reader)
		if err != nil {
			return stop(err)
		}

		session, err := polling.NewSession(device, &polling.Config{
			PollInterval:           m.config.PollInterval,
			LimitActivationRetries: true,
		}, polling.WithLogger(m.logger.With(zap.String("reader", reader.Path))))
		if err != nil {
			_ = device.Close()
			return stop(err)
		}

		path := reader.Path
		session.OnTagDetected = func(tag *pn532.TagRecord) { m.output.TagDetected(path, tag) }
		session.OnTagRemoved = func() { m.output.TagRemoved(path) }
		session.OnError = func(err error) { m.output.Verbose("   %s: read failed: %v", path, err) }

		g.Go(func() error {
			defer func() { _ = device.Close() }()
			if err := session.Run(ctx); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}

	return g.Wait()
}
