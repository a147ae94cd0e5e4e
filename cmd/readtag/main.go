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

// Command readtag configures a PN532 on an I2C bus and prints the UID of
// every tag placed on it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pn532 "github.com/ZaparooProject/go-pn532-i2c"
	"github.com/ZaparooProject/go-pn532-i2c/detection"
	_ "github.com/ZaparooProject/go-pn532-i2c/detection/i2c"
	"github.com/ZaparooProject/go-pn532-i2c/internal/config"
	"github.com/ZaparooProject/go-pn532-i2c/internal/logging"
	"github.com/ZaparooProject/go-pn532-i2c/metrics"
	"github.com/ZaparooProject/go-pn532-i2c/polling"
	"github.com/ZaparooProject/go-pn532-i2c/transport/i2c"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"
)

type flags struct {
	configPath *string
	busName    *string
	debug      *bool
	once       *bool
}

func parseFlags() *flags {
	f := &flags{
		configPath: flag.String("config", "", "Path to a TOML or YAML configuration file"),
		busName: flag.String("bus", "",
			"I2C bus (e.g., 1 or /dev/i2c-1). Leave empty for auto-detection."),
		debug: flag.Bool("debug", false, "Enable debug logging"),
		once:  flag.Bool("once", false, "Exit after the first tag is read"),
	}
	flag.Parse()
	return f
}

func loadConfig(f *flags) (*config.Config, error) {
	cfg := config.Default()
	if *f.configPath != "" {
		loaded, err := config.Load(*f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if *f.busName != "" {
		cfg.Bus.Name = *f.busName
	}
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// resolveBus fills in the bus name and address from detection when no bus
// was configured.
func resolveBus(cfg *config.Config, logger *zap.Logger) error {
	if cfg.Bus.Name != "" {
		return nil
	}

	logger.Info("auto-detecting PN532 devices")
	devices, err := detection.DetectAll(nil)
	if err != nil {
		return fmt.Errorf("auto-detection failed: %w", err)
	}

	dev := devices[0]
	logger.Info("using detected device",
		zap.String("path", dev.Path),
		zap.String("confidence", dev.Confidence.String()),
		zap.Any("metadata", dev.Metadata))
	cfg.Bus.Name = dev.Path
	if dev.Address != 0 {
		cfg.Bus.Address = dev.Address
	}
	return nil
}

func openDevice(cfg *config.Config, logger *zap.Logger, observer pn532.ExchangeObserver) (*pn532.Device, error) {
	bus, err := i2c.Open(cfg.Bus.Name, physic.Frequency(cfg.Bus.SpeedHz)*physic.Hertz)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus: %w", err)
	}

	device, err := pn532.New(bus,
		pn532.WithAddress(cfg.Bus.Address),
		pn532.WithBusTimeout(cfg.Bus.TransactionTimeout.Duration),
		pn532.WithReadyTimeout(cfg.Controller.ReadyTimeout.Duration),
		pn532.WithReadyPollInterval(cfg.Controller.ReadyPollInterval.Duration),
		pn532.WithLogger(logger),
		pn532.WithObserver(observer),
	)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	return device, nil
}

func run(ctx context.Context, f *flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging)
	defer func() { _ = logger.Sync() }()

	if err := resolveBus(cfg, logger); err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	collector := metrics.NewCollector(reg)
	if cfg.Metrics.Listen != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           metrics.Handler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving metrics", zap.String("listen", cfg.Metrics.Listen))
	}

	device, err := openDevice(cfg, logger, collector)
	if err != nil {
		return err
	}
	defer func() { _ = device.Close() }()

	if fw, err := device.FirmwareVersion(ctx); err != nil {
		logger.Warn("could not read firmware version", zap.Error(err))
	} else {
		logger.Info("PN532 found",
			zap.String("bus", cfg.Bus.Name),
			zap.String("firmware", fw.Version),
			zap.Uint8("ic", fw.IC))
	}

	session, err := polling.NewSession(device, &polling.Config{
		PollInterval:           cfg.Session.PollInterval.Duration,
		LimitActivationRetries: cfg.Session.LimitActivationRetries,
		ReportRepeats:          cfg.Session.ReportRepeats,
	}, polling.WithLogger(logger), polling.WithObserver(collector))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session.OnTagDetected = func(tag *pn532.TagRecord) {
		_, _ = fmt.Println(tag.String())
		if *f.once {
			cancel()
		}
	}
	session.OnTagRemoved = func() {
		_, _ = fmt.Println("Tag removed")
	}

	return session.Run(ctx)
}

func main() {
	f := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
