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

// Package metrics exposes Prometheus collectors for the driver and the
// polling session.
package metrics

import (
	"net/http"
	"time"

	pn532 "github.com/ZaparooProject/go-pn532-i2c"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pn532"

// NewRegistry creates a registry with the Go and process collectors registered
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler returns the Prometheus HTTP handler for reg
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Collector records exchange and polling cycle outcomes. It implements
// pn532.ExchangeObserver and polling.Observer.
type Collector struct {
	Exchanges        *prometheus.CounterVec   // labels: command, result
	ExchangeDuration *prometheus.HistogramVec // labels: command
	Cycles           *prometheus.CounterVec   // labels: result
}

// NewCollector registers and returns the driver metrics
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Exchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchanges_total",
			Help:      "Command exchanges by command and result (ok or error kind).",
		}, []string{"command", "result"}),
		ExchangeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "exchange_duration_seconds",
			Help:      "Duration of command exchanges.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"command"}),
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_cycles_total",
			Help:      "Polling cycles by result (tag, empty, error).",
		}, []string{"result"}),
	}
	reg.MustRegister(c.Exchanges, c.ExchangeDuration, c.Cycles)
	return c
}

// ObserveExchange implements pn532.ExchangeObserver
func (c *Collector) ObserveExchange(command string, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = pn532.ErrorKind(err)
	}
	c.Exchanges.WithLabelValues(command, result).Inc()
	c.ExchangeDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// ObserveCycle implements polling.Observer
func (c *Collector) ObserveCycle(result string) {
	c.Cycles.WithLabelValues(result).Inc()
}

var _ pn532.ExchangeObserver = (*Collector)(nil)
