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

// Package reach finds every stop reachable from an origin within a travel time budget.
//
// The search relaxes labels in FIFO order. A stop keeps the label with the most
// remaining time; a label replaces it only when strictly better, and only labels
// that replace something are expanded. Every hop costs time, so the best
// remaining time per stop can only grow a bounded number of times and the
// queue runs dry.
package reach

import (
	"github.com/spezifisch/reachmap/pkg/geo"
	"github.com/spezifisch/reachmap/pkg/network"
)

// Label is a way of arriving at a stop
type Label struct {
	Stop        int
	Remaining   float64 // minutes left of the budget
	LineChanges int
	Line        string // "" after walking
}

// Stats counts what happened to the labels of one search
type Stats struct {
	Seeded      int
	Enqueued    int
	Accepted    int
	Dominated   int
	OverLineCap int
	Unresolved  int
}

// Result holds the best label of every reached stop, indexed by stop id.
type Result struct {
	Origin geo.LatLng
	Budget float64
	Stats  Stats

	best    []Label
	reached []bool
	count   int
}

func newResult(stops int, origin geo.LatLng, budget float64) *Result {
	return &Result{
		Origin:  origin,
		Budget:  budget,
		best:    make([]Label, stops),
		reached: make([]bool, stops),
	}
}

// Get returns the best label of a stop, ok is false if it wasn't reached
func (r *Result) Get(stop int) (label Label, ok bool) {
	if stop < 0 || stop >= len(r.reached) || !r.reached[stop] {
		return Label{}, false
	}
	return r.best[stop], true
}

// Len returns the number of reached stops
func (r *Result) Len() int {
	return r.count
}

// Each calls fn for every reached stop in ascending stop id order
func (r *Result) Each(fn func(Label)) {
	for i, ok := range r.reached {
		if ok {
			fn(r.best[i])
		}
	}
}

// Labels returns the best labels in ascending stop id order
func (r *Result) Labels() []Label {
	labels := make([]Label, 0, r.count)
	r.Each(func(l Label) {
		labels = append(labels, l)
	})
	return labels
}

func (r *Result) record(l Label) {
	if !r.reached[l.Stop] {
		r.count++
	}
	r.reached[l.Stop] = true
	r.best[l.Stop] = l
}

type searcher struct {
	model  *network.Model
	params Params
	queue  []Label
	result *Result

	// observe sees every dequeued label, used by tests
	observe func(Label)
}

// Search runs a reachability search from origin with budget minutes.
// The model is only read, so searches for different origins may run in parallel.
func Search(model *network.Model, origin geo.LatLng, budget float64, params Params) *Result {
	s := &searcher{
		model:  model,
		params: params,
		result: newResult(model.Len(), origin, budget),
	}
	return s.run()
}

func (s *searcher) run() *Result {
	s.seed()
	s.result.Stats.Seeded = len(s.queue)

	for len(s.queue) > 0 {
		label := s.queue[0]
		s.queue = s.queue[1:]
		s.visit(label)
	}
	s.queue = nil
	return s.result
}

func (s *searcher) push(l Label) {
	s.result.Stats.Enqueued++
	s.queue = append(s.queue, l)
}

// seed enqueues every stop within walking distance of the origin
func (s *searcher) seed() {
	origin, budget := s.result.Origin, s.result.Budget
	walkingTime := s.params.WalkingTime(budget)
	if !(walkingTime > 0) {
		return
	}

	area := geo.BoundsAround(origin, 2*s.params.TimeToDistance(walkingTime))
	for _, stop := range s.model.StopsWithin(area) {
		timeToStop := s.params.DistanceToTime(geo.Distance(origin, stop.Position))
		if timeToStop > s.params.MaxWalkingTime {
			continue
		}
		remaining := budget - timeToStop
		if remaining > 0 {
			// walking is always a line change
			s.push(Label{Stop: stop.ID, Remaining: remaining, LineChanges: 1})
		}
	}
}

func (s *searcher) visit(l Label) {
	if s.observe != nil {
		s.observe(l)
	}

	if l.LineChanges > s.params.MaxLineChanges {
		s.result.Stats.OverLineCap++
		return
	}
	if before, ok := s.result.Get(l.Stop); ok && before.Remaining >= l.Remaining {
		s.result.Stats.Dominated++
		return
	}

	s.result.record(l)
	s.result.Stats.Accepted++
	s.expand(l)
}

func (s *searcher) expand(from Label) {
	stop := s.model.Stops[from.Stop]
	for i := range stop.Options {
		option := &stop.Options[i]
		if _, ok := s.model.Stop(option.To); !ok {
			s.result.Stats.Unresolved++
			continue
		}

		switch option.Kind {
		case network.Walk:
			s.walk(from, option)
		case network.Transit:
			s.ride(from, option)
		}
	}
}

func (s *searcher) walk(from Label, option *network.TravelOption) {
	walkingTime := s.params.DistanceToTime(option.WalkDistance)
	if walkingTime > s.params.MaxWalkingTime {
		return
	}
	remaining := from.Remaining - walkingTime
	if remaining > 0 {
		s.push(Label{
			Stop:        option.To,
			Remaining:   remaining,
			LineChanges: from.LineChanges + 1,
		})
	}
}

func (s *searcher) ride(from Label, option *network.TravelOption) {
	travelTime := (option.TravelTime + option.StayTime) / 60
	lineChanges := from.LineChanges
	if option.Line != "" && option.Line != from.Line {
		travelTime += s.params.LineChangeTime
		lineChanges++
	}
	remaining := from.Remaining - travelTime
	if remaining > 0 {
		s.push(Label{
			Stop:        option.To,
			Remaining:   remaining,
			LineChanges: lineChanges,
			Line:        option.Line,
		})
	}
}
