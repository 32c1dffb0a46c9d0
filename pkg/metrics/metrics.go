// This file is part of reachmap (https://github.com/spezifisch/reachmap).
// Copyright (C) 2021-2022 spezifisch <spezifisch-7e6@below.fr> (https://github.com/spezifisch).
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, version 3 of the License.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE. See the GNU Affero General Public License for more
// details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Package metrics collects prometheus metrics about compile runs.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/spezifisch/reachmap/pkg/reach"
)

// Registry holds all metrics of the application
type Registry struct {
	SearchesTotal     prometheus.Counter
	SearchDuration    prometheus.Histogram
	LabelsTotal       *prometheus.CounterVec
	StopsReached      prometheus.Histogram
	POIs              *prometheus.GaugeVec
	RecompilesSkipped prometheus.Counter
	NetworkStops      prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	factory := promauto.With(r.registry)

	r.SearchesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "reachmap_searches_total",
		Help: "Total number of reachability searches",
	})
	r.SearchDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "reachmap_search_duration_seconds",
		Help:    "Duration of a search including building the area index",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
	})
	r.LabelsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "reachmap_labels_total",
		Help: "Search labels by outcome",
	}, []string{"outcome"})
	r.StopsReached = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "reachmap_stops_reached",
		Help:    "Number of stops reached per search",
		Buckets: []float64{10, 100, 1000, 10000, 100000},
	})
	r.POIs = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "reachmap_pois",
		Help: "Number of areas in the compiled model of a marker slot",
	}, []string{"marker"})
	r.RecompilesSkipped = factory.NewCounter(prometheus.CounterOpts{
		Name: "reachmap_recompiles_skipped_total",
		Help: "Marker slots whose compiled model was reused",
	})
	r.NetworkStops = factory.NewGauge(prometheus.GaugeOpts{
		Name: "reachmap_network_stops",
		Help: "Stops in the loaded network model",
	})

	return r
}

// RecordSearch records one compiled marker
func (r *Registry) RecordSearch(duration time.Duration, stats reach.Stats, reached int) {
	r.SearchesTotal.Inc()
	r.SearchDuration.Observe(duration.Seconds())
	r.StopsReached.Observe(float64(reached))

	r.LabelsTotal.WithLabelValues("enqueued").Add(float64(stats.Enqueued))
	r.LabelsTotal.WithLabelValues("accepted").Add(float64(stats.Accepted))
	r.LabelsTotal.WithLabelValues("dominated").Add(float64(stats.Dominated))
	r.LabelsTotal.WithLabelValues("over_line_cap").Add(float64(stats.OverLineCap))
	r.LabelsTotal.WithLabelValues("unresolved").Add(float64(stats.Unresolved))
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile dumps all metrics in text exposition format, for node_exporter's textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.GetPrometheusRegistry())
}
