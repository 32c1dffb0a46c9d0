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
	"math"
	"reflect"
	"testing"

	"github.com/spezifisch/reachmap/pkg/geo"
)

func TestParseMarker(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		want    Marker
		wantErr bool
	}{
		{
			name: "with travel time",
			s:    "52.52,13.405,30",
			want: Marker{Position: geo.LatLng{Lat: 52.52, Lng: 13.405}, MaxTravelTime: 30},
		},
		{
			name: "default travel time",
			s:    "52.52, 13.405",
			want: Marker{Position: geo.LatLng{Lat: 52.52, Lng: 13.405}, MaxTravelTime: DefaultTravelTime},
		},
		{name: "too few parts", s: "52.52", wantErr: true},
		{name: "too many parts", s: "1,2,3,4", wantErr: true},
		{name: "not a number", s: "north,13.4", wantErr: true},
		{name: "latitude out of range", s: "95,13.4", wantErr: true},
		{name: "longitude out of range", s: "52,200", wantErr: true},
		{name: "travel time too short", s: "52,13,2", wantErr: true},
		{name: "travel time too long", s: "52,13,90", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMarker(tt.s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMarker() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidMarker) {
					t.Errorf("ParseMarker() error = %v, want ErrInvalidMarker", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMarker() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultMarker(t *testing.T) {
	center := geo.LatLng{Lat: 48.1374, Lng: 11.5755}

	if got := DefaultMarker(center, 0, 0); got != (Marker{Position: center, MaxTravelTime: DefaultTravelTime}) {
		t.Errorf("DefaultMarker(0) = %v", got)
	}

	tests := []struct {
		id         int
		north      bool
		east       bool
		travelTime float64
	}{
		{id: 1, north: false, east: true, travelTime: 30},
		{id: 2, north: true, east: true, travelTime: 30},
		{id: 3, north: false, east: false, travelTime: 30},
		{id: 4, north: true, east: false, travelTime: 30},
		{id: 5, north: false, east: true, travelTime: 30},
	}
	for _, tt := range tests {
		got := DefaultMarker(center, tt.id, tt.travelTime)
		if (got.Position.Lat > center.Lat) != tt.north || (got.Position.Lng > center.Lng) != tt.east {
			t.Errorf("DefaultMarker(%d) = %v, wrong corner", tt.id, got.Position)
		}
		if got.MaxTravelTime != tt.travelTime {
			t.Errorf("DefaultMarker(%d) travel time = %v", tt.id, got.MaxTravelTime)
		}

		// corners of a square with side 4000+1000*id
		wantHalf := float64(4000+1000*tt.id) / 2
		dLat := geo.Distance(center, geo.LatLng{Lat: got.Position.Lat, Lng: center.Lng})
		if math.Abs(dLat-wantHalf) > 10 {
			t.Errorf("DefaultMarker(%d) is %v m north/south, want %v", tt.id, dLat, wantHalf)
		}
	}
}

func TestMarker_Validate(t *testing.T) {
	valid := Marker{Position: geo.LatLng{Lat: -33.86, Lng: 151.2}, MaxTravelTime: MaxTravelTime}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	invalid := valid
	invalid.MaxTravelTime = math.NaN()
	if err := invalid.Validate(); err == nil {
		t.Error("Validate() accepted NaN travel time")
	}
}
