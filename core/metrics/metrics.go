/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Tablegrid Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics holds the Prometheus collectors of a grid server. All
// methods are safe on a nil *Metrics so engine packages can run without one.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the set of collectors registered on one registry
type Metrics struct {
	registry        *prometheus.Registry
	composeTotal    *prometheus.CounterVec
	composeDuration prometheus.Histogram
	renderedRows    prometheus.Histogram
	pendingChanges  *prometheus.GaugeVec
	saveWarnings    prometheus.Counter
	eventsFired     *prometheus.CounterVec
	colorFailures   prometheus.Counter
	sourceReloads   *prometheus.CounterVec
}

// New creates the collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		composeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablegrid_compose_total",
				Help: "Render passes composed, by widget.",
			},
			[]string{"widget"},
		),
		composeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tablegrid_compose_duration_seconds",
				Help:    "Time spent composing one render pass.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
			},
		),
		renderedRows: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tablegrid_rendered_rows",
				Help:    "Rows in the data window of a render pass.",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
		pendingChanges: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tablegrid_pending_changes",
				Help: "Cells in the unsaved change set, by widget.",
			},
			[]string{"widget"},
		),
		saveWarnings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tablegrid_save_without_handler_total",
				Help: "Save attempts refused because no saveChanges handler was bound.",
			},
		),
		eventsFired: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablegrid_events_fired_total",
				Help: "Widget events fired, by event name.",
			},
			[]string{"event"},
		),
		colorFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tablegrid_row_color_failures_total",
				Help: "Row color expressions that failed to compile.",
			},
		),
		sourceReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablegrid_source_reloads_total",
				Help: "Data source reloads, by source and outcome.",
			},
			[]string{"source", "outcome"},
		),
	}
	m.registry.MustRegister(
		m.composeTotal,
		m.composeDuration,
		m.renderedRows,
		m.pendingChanges,
		m.saveWarnings,
		m.eventsFired,
		m.colorFailures,
		m.sourceReloads,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCompose records one render pass
func (m *Metrics) ObserveCompose(widget string, elapsed time.Duration, rows int) {
	if m == nil {
		return
	}
	m.composeTotal.WithLabelValues(widget).Inc()
	m.composeDuration.Observe(elapsed.Seconds())
	m.renderedRows.Observe(float64(rows))
}

// SetPendingChanges records the size of a widget's change set
func (m *Metrics) SetPendingChanges(widget string, n int) {
	if m == nil {
		return
	}
	m.pendingChanges.WithLabelValues(widget).Set(float64(n))
}

// IncSaveWarning counts a refused save
func (m *Metrics) IncSaveWarning() {
	if m == nil {
		return
	}
	m.saveWarnings.Inc()
}

// IncEvent counts a fired event
func (m *Metrics) IncEvent(event string) {
	if m == nil {
		return
	}
	m.eventsFired.WithLabelValues(event).Inc()
}

// IncColorFailure counts a row color expression that did not compile
func (m *Metrics) IncColorFailure() {
	if m == nil {
		return
	}
	m.colorFailures.Inc()
}

// IncSourceReload counts a data source reload
func (m *Metrics) IncSourceReload(source string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.sourceReloads.WithLabelValues(source, outcome).Inc()
}
