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

package network

import "github.com/spezifisch/reachmap/pkg/geo"

// RawNetwork is a city network as shipped in the mapnificent .bin files
type RawNetwork struct {
	CityID string     `json:"cityid"`
	Stops  []*RawStop `json:"stops"`
	Lines  []*RawLine `json:"lines,omitempty"`
}

// RawStop is a stop before filtering. Coordinates are optional.
type RawStop struct {
	Latitude      *float64           `json:"lat,omitempty"`
	Longitude     *float64           `json:"lng,omitempty"`
	Name          string             `json:"name,omitempty"`
	TravelOptions []*RawTravelOption `json:"options,omitempty"`
}

// RawTravelOption points at another stop by its index in the raw stop list.
// Exactly one of WalkDistance (meters) and TravelTime (seconds) is expected.
type RawTravelOption struct {
	Stop         uint32  `json:"stop"`
	TravelTime   *uint32 `json:"travel,omitempty"`
	StayTime     *uint32 `json:"stay,omitempty"`
	Line         *string `json:"line,omitempty"`
	WalkDistance *uint32 `json:"walk,omitempty"`
}

// RawLine describes a transit line. Only carried along, the search uses average travel times.
type RawLine struct {
	LineID    string         `json:"id"`
	Name      string         `json:"name,omitempty"`
	LineTimes []*RawLineTime `json:"times,omitempty"`
}

// RawLineTime is a service interval of a line
type RawLineTime struct {
	Interval uint32 `json:"interval"`
	Start    uint32 `json:"start"`
	Stop     uint32 `json:"stop"`
	Weekday  uint32 `json:"weekday"`
}

// HasPosition reports whether both coordinates are set to a finite position on the globe
func (s *RawStop) HasPosition() bool {
	return s.Latitude != nil && s.Longitude != nil &&
		geo.LatLng{Lat: *s.Latitude, Lng: *s.Longitude}.IsValid()
}
