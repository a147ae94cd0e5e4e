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

// Package polling runs the steady-state tag polling loop on top of a
// configured PN532.
package polling

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	pn532 "github.com/ZaparooProject/go-pn532-i2c"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// Cycle results as passed to Observer.ObserveCycle
const (
	ResultTag   = "tag"
	ResultEmpty = "empty"
	ResultError = "error"
)

// Read failures are logged at warn level at most this often after the
// initial burst; the rest go to debug.
const (
	failureWarnInterval = 10 * time.Second
	failureWarnBurst    = 3
)

// Session errors
var (
	ErrSessionRunning = errors.New("session is already running")
	ErrConfigure      = errors.New("controller configuration failed")
)

// Config holds configuration options for the Session
type Config struct {
	// PollInterval is the delay between the end of one tag read cycle and
	// the start of the next.
	PollInterval time.Duration
	// LimitActivationRetries sends RFConfiguration after SAMConfiguration
	// so that an empty field is reported instead of blocking the search.
	LimitActivationRetries bool
	// ReportRepeats reports a tag on every cycle it is seen instead of
	// once per presence.
	ReportRepeats bool
}

// DefaultConfig returns sensible default configuration values
func DefaultConfig() *Config {
	return &Config{
		PollInterval:           time.Second,
		LimitActivationRetries: true,
	}
}

// Observer is notified of each cycle's outcome.
type Observer interface {
	ObserveCycle(result string)
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver sets the cycle observer
func WithObserver(observer Observer) Option {
	return func(s *Session) {
		s.observer = observer
	}
}

// Session configures the controller once and then reads tags at a fixed
// cadence. Read failures during the loop are logged and the loop carries
// on; only a failed configuration ends the session.
type Session struct {
	device        *pn532.Device
	config        *Config
	logger        *zap.Logger
	observer      Observer
	warnLimiter   *rate.Limiter
	OnTagDetected func(*pn532.TagRecord)
	OnTagRemoved  func()
	OnNoTag       func()
	OnError       func(error)
	id            string
	state         CardState
	failures      atomic.Uint64
	running       atomic.Bool
}

// NewSession creates a new session for the given device
func NewSession(device *pn532.Device, config *Config, opts ...Option) (*Session, error) {
	if device == nil {
		return nil, errors.New("device cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive: %w", pn532.ErrInvalidParameter)
	}

	s := &Session{
		device:      device,
		config:      config,
		logger:      zap.NewNop(),
		warnLimiter: rate.NewLimiter(rate.Every(failureWarnInterval), failureWarnBurst),
		id:          uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", s.id))

	return s, nil
}

// ID returns the session identifier attached to every log line
func (s *Session) ID() string {
	return s.id
}

// Failures returns the number of failed read cycles so far
func (s *Session) Failures() uint64 {
	return s.failures.Load()
}

// Configure runs the start-up configuration exchange. The session cannot
// poll if it fails.
func (s *Session) Configure(ctx context.Context) error {
	if err := s.device.SAMConfigure(ctx); err != nil {
		s.logger.Error("SAM configuration failed", zap.Error(err), zap.String("kind", pn532.ErrorKind(err)))
		return fmt.Errorf("%w: %w", ErrConfigure, err)
	}

	if s.config.LimitActivationRetries {
		if err := s.device.LimitActivationRetries(ctx); err != nil {
			s.logger.Error("RF configuration failed", zap.Error(err), zap.String("kind", pn532.ErrorKind(err)))
			return fmt.Errorf("%w: %w", ErrConfigure, err)
		}
	}

	s.logger.Info("controller configured")
	return nil
}

// PollForTag runs one tag read exchange. It returns nil without error
// when no tag is in the field.
func (s *Session) PollForTag(ctx context.Context) (*pn532.TagRecord, error) {
	resp, err := s.device.ListPassiveTarget(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := pn532.ParseTagRecord(resp)
	if err != nil {
		return nil, fmt.Errorf("parse target: %w", err)
	}
	return tag, nil
}

// Run configures the controller and then polls until ctx is done. It
// returns an error only if configuration fails or the session is already
// running.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSessionRunning
	}
	defer s.running.Store(false)

	if err := s.Configure(ctx); err != nil {
		return err
	}

	s.logger.Info("polling for tags", zap.Duration("interval", s.config.PollInterval))
	for {
		s.cycle(ctx)

		select {
		case <-ctx.Done():
			s.logger.Debug("polling stopped", zap.Error(ctx.Err()))
			return nil
		case <-time.After(s.config.PollInterval):
		}
	}
}

// cycle runs one read and reports its outcome.
func (s *Session) cycle(ctx context.Context) {
	tag, err := s.PollForTag(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.failures.Add(1)
		level := zapcore.DebugLevel
		if s.warnLimiter.Allow() {
			level = zapcore.WarnLevel
		}
		s.logger.Log(level, "tag read failed",
			zap.Error(err),
			zap.String("kind", pn532.ErrorKind(err)),
			zap.Bool("retryable", pn532.IsRetryable(err)),
			zap.Uint64("failures", s.failures.Load()))
		s.observe(ResultError)
		if s.OnError != nil {
			s.OnError(err)
		}
		return
	}

	isNew, removed := s.state.Observe(tag, time.Now())
	if removed {
		s.logger.Info("tag removed")
		if s.OnTagRemoved != nil {
			s.OnTagRemoved()
		}
	}

	if tag == nil {
		s.logger.Info("no tag")
		s.observe(ResultEmpty)
		if s.OnNoTag != nil {
			s.OnNoTag()
		}
		return
	}

	s.observe(ResultTag)
	if !isNew && !s.config.ReportRepeats {
		s.logger.Info("tag still present", zap.String("uid", tag.UIDHex()))
		return
	}

	s.logger.Info("tag detected",
		zap.String("uid", tag.UIDHex()),
		zap.String("type", string(tag.Type())),
		zap.Int("uid_length", len(tag.UID)))
	if s.OnTagDetected != nil {
		s.OnTagDetected(tag)
	}
}

func (s *Session) observe(result string) {
	if s.observer != nil {
		s.observer.ObserveCycle(result)
	}
}
