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

// Package compile turns reachability results into indexed areas for rendering.
package compile

import (
	"math"

	"github.com/spezifisch/reachmap/pkg/geo"
	"github.com/spezifisch/reachmap/pkg/network"
	"github.com/spezifisch/reachmap/pkg/quadtree"
	"github.com/spezifisch/reachmap/pkg/reach"
)

// AreaPOI is the disk walkable from a reached stop (or the origin).
// Renderers must not draw it larger than Bounds, the index relies on it.
type AreaPOI struct {
	Stop        int        `json:"stop"` // network.NoStop for the origin
	Center      geo.LatLng `json:"center"`
	Radius      float64    `json:"radius"` // meters
	Bounds      geo.Bounds `json:"bounds"`
	LineChanges int        `json:"lineChanges"`
	WalkTime    float64    `json:"walkTime"`   // minutes left for walking from the center
	TravelTime  float64    `json:"travelTime"` // minutes spent to get to the center
}

// CompiledModel is the immutable outcome for one marker
type CompiledModel struct {
	Marker Marker
	POIs   *quadtree.Tree[AreaPOI]
	Stats  reach.Stats
}

// Query returns the areas intersecting rect
func (c *CompiledModel) Query(rect geo.Bounds) []AreaPOI {
	return c.POIs.Query(rect)
}

// Compile searches from the marker and indexes one area per reached stop plus
// one for walking straight from the origin.
func Compile(model *network.Model, marker Marker, params reach.Params) *CompiledModel {
	result := reach.Search(model, marker.Position, marker.MaxTravelTime, params)

	pois := make([]AreaPOI, 0, result.Len()+1)
	result.Each(func(l reach.Label) {
		stop := model.Stops[l.Stop]
		poi := newAreaPOI(stop.Position, l.Remaining, params)
		poi.Stop = stop.ID
		poi.LineChanges = l.LineChanges
		poi.TravelTime = marker.MaxTravelTime - l.Remaining
		pois = append(pois, poi)
	})

	origin := newAreaPOI(marker.Position, marker.MaxTravelTime, params)
	origin.Stop = network.NoStop
	pois = append(pois, origin)

	return &CompiledModel{
		Marker: marker,
		POIs:   quadtree.Build(pois, func(p AreaPOI) geo.Bounds { return p.Bounds }),
		Stats:  result.Stats,
	}
}

func newAreaPOI(center geo.LatLng, remaining float64, params reach.Params) AreaPOI {
	walkTime := math.Max(0, params.WalkingTime(remaining))
	radius := params.TimeToDistance(walkTime)
	return AreaPOI{
		Center:   center,
		Radius:   radius,
		Bounds:   geo.BoundsAround(center, 2*radius),
		WalkTime: walkTime,
	}
}
