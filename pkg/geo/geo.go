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

// Package geo has the planar helpers used for stops, search radii and map tiles.
package geo

import (
	"fmt"
	"math"
)

const (
	earthRadiusMeters        = 6371000
	earthCircumferenceMeters = 40075017
)

// LatLng is a position in degrees
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p LatLng) String() string {
	return fmt.Sprintf("%.7f,%.7f", p.Lat, p.Lng)
}

// IsValid reports whether p is a finite position on the globe
func (p LatLng) IsValid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Bounds is a closed lat/lng rectangle
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// NewBounds returns the rectangle spanned by two corners in any order
func NewBounds(a, b LatLng) Bounds {
	return Bounds{
		South: math.Min(a.Lat, b.Lat),
		West:  math.Min(a.Lng, b.Lng),
		North: math.Max(a.Lat, b.Lat),
		East:  math.Max(a.Lng, b.Lng),
	}
}

// PointBounds is the zero-area rectangle at p
func PointBounds(p LatLng) Bounds {
	return Bounds{South: p.Lat, West: p.Lng, North: p.Lat, East: p.Lng}
}

// BoundsAround returns the square with side sizeMeters centered at center.
func BoundsAround(center LatLng, sizeMeters float64) Bounds {
	latAccuracy := 180 * sizeMeters / earthCircumferenceMeters
	lngAccuracy := latAccuracy / math.Cos(math.Pi/180*center.Lat)

	return NewBounds(
		LatLng{Lat: center.Lat - latAccuracy, Lng: center.Lng - lngAccuracy},
		LatLng{Lat: center.Lat + latAccuracy, Lng: center.Lng + lngAccuracy},
	)
}

// IsEmpty reports whether b contains no point at all: inverted, NaN or infinite edges.
// A zero-area rectangle is not empty.
func (b Bounds) IsEmpty() bool {
	return !(b.South <= b.North && b.West <= b.East) ||
		math.IsInf(b.South, 0) || math.IsInf(b.North, 0) ||
		math.IsInf(b.West, 0) || math.IsInf(b.East, 0)
}

// Center of the rectangle
func (b Bounds) Center() LatLng {
	return LatLng{
		Lat: (b.South + b.North) / 2,
		Lng: (b.West + b.East) / 2,
	}
}

// Contains reports whether p lies inside b, edges included
func (b Bounds) Contains(p LatLng) bool {
	return p.Lat >= b.South && p.Lat <= b.North &&
		p.Lng >= b.West && p.Lng <= b.East
}

// ContainsBounds reports whether o lies completely inside b
func (b Bounds) ContainsBounds(o Bounds) bool {
	return o.South >= b.South && o.North <= b.North &&
		o.West >= b.West && o.East <= b.East
}

// Intersects reports whether the two rectangles share at least one point
func (b Bounds) Intersects(o Bounds) bool {
	return o.North >= b.South && o.South <= b.North &&
		o.East >= b.West && o.West <= b.East
}

// Extend returns the smallest rectangle covering b and o
func (b Bounds) Extend(o Bounds) Bounds {
	return Bounds{
		South: math.Min(b.South, o.South),
		West:  math.Min(b.West, o.West),
		North: math.Max(b.North, o.North),
		East:  math.Max(b.East, o.East),
	}
}

// Quadrants splits b at its center. Order is NW, NE, SW, SE.
func (b Bounds) Quadrants() [4]Bounds {
	c := b.Center()
	return [4]Bounds{
		{South: c.Lat, West: b.West, North: b.North, East: c.Lng},
		{South: c.Lat, West: c.Lng, North: b.North, East: b.East},
		{South: b.South, West: b.West, North: c.Lat, East: c.Lng},
		{South: b.South, West: c.Lng, North: c.Lat, East: b.East},
	}
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%.7f,%.7f %.7f,%.7f]", b.South, b.West, b.North, b.East)
}

// Distance returns the haversine distance in meters between a and b
func Distance(a, b LatLng) float64 {
	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}
