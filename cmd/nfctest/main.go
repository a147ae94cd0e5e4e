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

// Command nfctest finds PN532 readers on the host's I2C buses, checks that
// they answer, and optionally reports tags placed on them.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ZaparooProject/go-pn532-i2c/detection/i2c"
	"github.com/ZaparooProject/go-pn532-i2c/internal/config"
	"github.com/ZaparooProject/go-pn532-i2c/internal/logging"
)

func main() {
	if run() != 0 {
		os.Exit(1)
	}
}

func run() int {
	quick := flag.Bool("quick", false, "Quick mode - test readers and exit")
	detectTimeoutFlag := flag.Duration("detect-timeout", 10*time.Second, "Reader detection timeout")
	pollIntervalFlag := flag.Duration("poll-interval", 250*time.Millisecond, "Tag polling interval")
	verboseFlag := flag.Bool("verbose", false, "Enable verbose output")

	flag.Parse()

	cfg := DefaultConfig()
	if *quick {
		cfg.Mode = ModeQuick
	}
	cfg.DetectTimeout = *detectTimeoutFlag
	cfg.PollInterval = *pollIntervalFlag
	cfg.Verbose = *verboseFlag

	logCfg := config.Default().Logging
	logCfg.Level = "warn"
	if cfg.Verbose {
		logCfg.Level = "debug"
	}
	logger := logging.New(logCfg)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	output := NewOutput(cfg.Verbose)
	discovery := NewDiscovery(cfg, output, logger)
	testing := NewTesting(cfg, output, discovery)
	modes := NewModes(cfg, output, discovery, testing, logger)

	var err error
	switch cfg.Mode {
	case ModeComprehensive:
		err = modes.RunComprehensive(ctx)
	case ModeQuick:
		err = modes.RunQuick(ctx)
	}

	if err != nil {
		output.Error("%v", err)
		return 1
	}
	return 0
}
