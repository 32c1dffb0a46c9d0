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

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/spezifisch/reachmap/pkg/reach"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.SearchesTotal == nil || r.SearchDuration == nil || r.LabelsTotal == nil || r.POIs == nil {
		t.Error("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordSearch(t *testing.T) {
	r := NewRegistry()
	stats := reach.Stats{Enqueued: 10, Accepted: 6, Dominated: 3, OverLineCap: 1}
	r.RecordSearch(5*time.Millisecond, stats, 6)
	r.RecordSearch(7*time.Millisecond, stats, 6)

	var metric dto.Metric
	if err := r.SearchesTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("SearchesTotal = %v, want 2", metric.Counter.GetValue())
	}

	tests := []struct {
		outcome string
		want    float64
	}{
		{"enqueued", 20},
		{"accepted", 12},
		{"dominated", 6},
		{"over_line_cap", 2},
		{"unresolved", 0},
	}
	for _, tt := range tests {
		t.Run(tt.outcome, func(t *testing.T) {
			counter, err := r.LabelsTotal.GetMetricWithLabelValues(tt.outcome)
			if err != nil {
				t.Fatalf("Failed to get metric: %v", err)
			}
			var m dto.Metric
			if err := counter.Write(&m); err != nil {
				t.Fatalf("Failed to write metric: %v", err)
			}
			if m.Counter.GetValue() != tt.want {
				t.Errorf("labels{%s} = %v, want %v", tt.outcome, m.Counter.GetValue(), tt.want)
			}
		})
	}

	var hist dto.Metric
	if err := r.SearchDuration.Write(&hist); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if hist.Histogram.GetSampleCount() != 2 {
		t.Errorf("SearchDuration samples = %d, want 2", hist.Histogram.GetSampleCount())
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordSearch(time.Millisecond, reach.Stats{Accepted: 1}, 1)
	r.NetworkStops.Set(42)

	path := filepath.Join(t.TempDir(), "reachmap.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"reachmap_searches_total 1", "reachmap_network_stops 42"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile is missing %q", want)
		}
	}
}
