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

// Package network holds the immutable stop graph a reachability search runs on,
// and the loaders turning network files into it.
package network

import (
	log "github.com/sirupsen/logrus"

	"github.com/spezifisch/reachmap/pkg/geo"
	"github.com/spezifisch/reachmap/pkg/quadtree"
)

// NoStop marks a travel option whose destination is not part of the model
const NoStop = -1

// OptionKind tells walking and riding edges apart
type OptionKind uint8

const (
	// Walk edges carry a distance in meters
	Walk OptionKind = iota + 1
	// Transit edges carry travel and stay time in seconds
	Transit
)

func (k OptionKind) String() string {
	switch k {
	case Walk:
		return "walk"
	case Transit:
		return "transit"
	}
	return "invalid"
}

// TravelOption is a directed edge to the stop with dense id To.
type TravelOption struct {
	To           int
	Kind         OptionKind
	WalkDistance float64 // meters
	TravelTime   float64 // seconds
	StayTime     float64 // seconds, 0 when absent
	Line         string  // "" when the edge names no line
}

// Stop is a stop with a position. ID is its index in Model.Stops.
type Stop struct {
	ID       int
	Position geo.LatLng
	Name     string
	Options  []TravelOption
}

// Model must not be modified after Load, searches share it between goroutines.
type Model struct {
	CityID string
	Stops  []*Stop
	Lines  []*RawLine

	index *quadtree.Tree[*Stop]
}

// LoadStats counts what Load dropped
type LoadStats struct {
	DroppedStops    int
	InvalidOptions  int
	DanglingOptions int
}

// LoadNetwork builds a model from a decoded network
func LoadNetwork(raw *RawNetwork) *Model {
	m := Load(raw.Stops)
	m.CityID = raw.CityID
	m.Lines = raw.Lines
	return m
}

// Load builds a model from raw stops. Stops without coordinates are left out,
// the others are renumbered 0..n-1 in input order and travel options are
// rewritten to the new ids. Options towards dropped or unknown stops keep
// To == NoStop so a search skips them.
func Load(raw []*RawStop) *Model {
	m, stats := load(raw)
	log.WithFields(log.Fields{
		"stops":           len(m.Stops),
		"droppedStops":    stats.DroppedStops,
		"invalidOptions":  stats.InvalidOptions,
		"danglingOptions": stats.DanglingOptions,
	}).Debug("network model loaded")
	return m
}

func load(raw []*RawStop) (*Model, LoadStats) {
	var stats LoadStats

	denseID := make([]int, len(raw))
	stops := make([]*Stop, 0, len(raw))
	for i, rs := range raw {
		if rs == nil || !rs.HasPosition() {
			denseID[i] = NoStop
			stats.DroppedStops++
			continue
		}
		denseID[i] = len(stops)
		stops = append(stops, &Stop{
			ID:       len(stops),
			Position: geo.LatLng{Lat: *rs.Latitude, Lng: *rs.Longitude},
			Name:     rs.Name,
		})
	}

	for i, rs := range raw {
		if denseID[i] == NoStop {
			continue
		}
		stop := stops[denseID[i]]
		for _, ro := range rs.TravelOptions {
			option, ok := convertOption(ro)
			if !ok {
				stats.InvalidOptions++
				continue
			}
			option.To = NoStop
			if int64(ro.Stop) < int64(len(denseID)) {
				option.To = denseID[ro.Stop]
			}
			if option.To == NoStop {
				stats.DanglingOptions++
			}
			stop.Options = append(stop.Options, option)
		}
	}

	m := &Model{
		Stops: stops,
		index: quadtree.Build(stops, func(s *Stop) geo.Bounds {
			return geo.PointBounds(s.Position)
		}),
	}
	return m, stats
}

// convertOption prefers the walking distance when both kinds are set
func convertOption(ro *RawTravelOption) (TravelOption, bool) {
	switch {
	case ro == nil:
		return TravelOption{}, false
	case ro.WalkDistance != nil:
		return TravelOption{Kind: Walk, WalkDistance: float64(*ro.WalkDistance)}, true
	case ro.TravelTime != nil:
		o := TravelOption{Kind: Transit, TravelTime: float64(*ro.TravelTime)}
		if ro.StayTime != nil {
			o.StayTime = float64(*ro.StayTime)
		}
		if ro.Line != nil {
			o.Line = *ro.Line
		}
		return o, true
	}
	return TravelOption{}, false
}

// Len returns the number of stops
func (m *Model) Len() int {
	return len(m.Stops)
}

// Stop looks up a stop by dense id
func (m *Model) Stop(id int) (*Stop, bool) {
	if id < 0 || id >= len(m.Stops) {
		return nil, false
	}
	return m.Stops[id], true
}

// StopsWithin returns the stops inside b
func (m *Model) StopsWithin(b geo.Bounds) []*Stop {
	return m.index.Query(b)
}
