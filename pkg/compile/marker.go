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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spezifisch/reachmap/pkg/geo"
)

// Travel time limits for markers, in minutes
const (
	DefaultTravelTime = 15.0
	MinTravelTime     = 5.0
	MaxTravelTime     = 75.0
	TravelTimeStep    = 5.0
)

// ErrInvalidMarker is wrapped by marker parsing and validation errors
var ErrInvalidMarker = errors.New("invalid marker")

var validate = validator.New()

// Marker is an origin with a travel time budget in minutes
type Marker struct {
	Position      geo.LatLng `json:"position"`
	MaxTravelTime float64    `json:"maxTravelTime"`
}

func (m Marker) String() string {
	return fmt.Sprintf("%s,%g", m.Position, m.MaxTravelTime)
}

// Validate checks the position and that the budget is within MinTravelTime and MaxTravelTime.
func (m Marker) Validate() error {
	checks := []struct {
		field string
		value float64
		tag   string
	}{
		{"latitude", m.Position.Lat, "latitude"},
		{"longitude", m.Position.Lng, "longitude"},
		{"travel time", m.MaxTravelTime, fmt.Sprintf("gte=%g,lte=%g", MinTravelTime, MaxTravelTime)},
	}
	for _, c := range checks {
		if err := validate.Var(c.value, c.tag); err != nil {
			return fmt.Errorf("%w: %s %g", ErrInvalidMarker, c.field, c.value)
		}
	}
	return nil
}

// ParseMarker parses "lat,lng" or "lat,lng,minutes"
func ParseMarker(s string) (Marker, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return Marker{}, fmt.Errorf("%w: '%s' is not lat,lng[,minutes]", ErrInvalidMarker, s)
	}

	values := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Marker{}, fmt.Errorf("%w: '%s': %v", ErrInvalidMarker, s, err)
		}
		values[i] = v
	}

	m := Marker{
		Position:      geo.LatLng{Lat: values[0], Lng: values[1]},
		MaxTravelTime: DefaultTravelTime,
	}
	if len(values) == 3 {
		m.MaxTravelTime = values[2]
	}
	return m, m.Validate()
}

// DefaultMarker places marker id around a city center: the first one on the
// center, the others on alternating corners of a growing square.
func DefaultMarker(center geo.LatLng, id int, maxTravelTime float64) Marker {
	if maxTravelTime <= 0 {
		maxTravelTime = DefaultTravelTime
	}
	if id == 0 {
		return Marker{Position: center, MaxTravelTime: maxTravelTime}
	}

	b := geo.BoundsAround(center, float64(4000+1000*id))
	var corner geo.LatLng
	switch id % 4 {
	case 0:
		corner = geo.LatLng{Lat: b.North, Lng: b.West}
	case 1:
		corner = geo.LatLng{Lat: b.South, Lng: b.East}
	case 2:
		corner = geo.LatLng{Lat: b.North, Lng: b.East}
	default:
		corner = geo.LatLng{Lat: b.South, Lng: b.West}
	}
	return Marker{Position: corner, MaxTravelTime: maxTravelTime}
}
