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

package compile

import (
	"context"
	"runtime"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/spezifisch/reachmap/pkg/metrics"
	"github.com/spezifisch/reachmap/pkg/network"
	"github.com/spezifisch/reachmap/pkg/reach"
)

// Compiler keeps one compiled model per marker slot and only recompiles the
// slots whose marker or network changed.
type Compiler struct {
	params  reach.Params
	workers int
	metrics *metrics.Registry

	mu       sync.Mutex
	model    *network.Model
	compiled []*CompiledModel
}

// NewCompiler returns a compiler. workers <= 0 uses one worker per CPU, reg may be nil.
func NewCompiler(params reach.Params, workers int, reg *metrics.Registry) *Compiler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Compiler{
		params:  params,
		workers: workers,
		metrics: reg,
	}
}

// Update returns the compiled model of every marker, in marker order. Slots
// past the end of markers are forgotten. On error the previous state is kept.
func (c *Compiler) Update(ctx context.Context, model *network.Model, markers []Marker) ([]*CompiledModel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	modelChanged := c.model != model
	next := make([]*CompiledModel, len(markers))
	var dirty []int
	for i, m := range markers {
		if !modelChanged && i < len(c.compiled) && c.compiled[i] != nil && c.compiled[i].Marker == m {
			next[i] = c.compiled[i]
			continue
		}
		dirty = append(dirty, i)
	}

	durations := make([]time.Duration, len(markers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for _, i := range dirty {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			next[i], durations[i] = c.compile(model, i, markers[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"markers":      len(markers),
		"recompiled":   len(dirty),
		"modelChanged": modelChanged,
	}).Debug("compiled models updated")

	if c.metrics != nil {
		for _, i := range dirty {
			compiled := next[i]
			c.metrics.RecordSearch(durations[i], compiled.Stats, compiled.POIs.Len()-1)
			c.metrics.POIs.WithLabelValues(strconv.Itoa(i)).Set(float64(compiled.POIs.Len()))
		}
		c.metrics.RecompilesSkipped.Add(float64(len(markers) - len(dirty)))
		for i := len(markers); i < len(c.compiled); i++ {
			c.metrics.POIs.DeleteLabelValues(strconv.Itoa(i))
		}
		if modelChanged {
			c.metrics.NetworkStops.Set(float64(model.Len()))
		}
	}

	c.model = model
	c.compiled = next
	return append([]*CompiledModel(nil), next...), nil
}

// Compiled returns the models of the last successful Update
func (c *Compiler) Compiled() []*CompiledModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*CompiledModel(nil), c.compiled...)
}

func (c *Compiler) compile(model *network.Model, slot int, marker Marker) (*CompiledModel, time.Duration) {
	tStart := time.Now()
	compiled := Compile(model, marker, c.params)
	elapsed := time.Since(tStart)

	log.WithFields(log.Fields{
		"slot":     slot,
		"marker":   marker.String(),
		"reached":  compiled.POIs.Len() - 1,
		"pois":     compiled.POIs.Len(),
		"duration": elapsed,
	}).Debug("compiled marker")
	return compiled, elapsed
}
