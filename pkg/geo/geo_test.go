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

package geo

import (
	"math"
	"reflect"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b LatLng
		want float64
		tol  float64
	}{
		{
			name: "same point",
			a:    LatLng{Lat: 52.52, Lng: 13.405},
			b:    LatLng{Lat: 52.52, Lng: 13.405},
			want: 0,
			tol:  1e-9,
		},
		{
			name: "one degree latitude",
			a:    LatLng{Lat: 0, Lng: 0},
			b:    LatLng{Lat: 1, Lng: 0},
			want: 111194.9,
			tol:  1,
		},
		{
			name: "berlin to potsdam",
			a:    LatLng{Lat: 52.5200, Lng: 13.4050},
			b:    LatLng{Lat: 52.3906, Lng: 13.0645},
			want: 27150,
			tol:  300,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Distance() = %v, want %v ± %v", got, tt.want, tt.tol)
			}
			if back := Distance(tt.b, tt.a); math.Abs(back-got) > 1e-6 {
				t.Errorf("Distance() not symmetric: %v vs %v", got, back)
			}
		})
	}
}

func TestBoundsAround(t *testing.T) {
	center := LatLng{Lat: 48.1374, Lng: 11.5755}
	b := BoundsAround(center, 2000)

	if c := b.Center(); math.Abs(c.Lat-center.Lat) > 1e-9 || math.Abs(c.Lng-center.Lng) > 1e-9 {
		t.Errorf("BoundsAround() center = %v, want %v", c, center)
	}

	north := LatLng{Lat: b.North, Lng: center.Lng}
	if d := Distance(center, north); math.Abs(d-1000) > 2 {
		t.Errorf("half height = %v m, want 1000", d)
	}
	east := LatLng{Lat: center.Lat, Lng: b.East}
	if d := Distance(center, east); math.Abs(d-1000) > 5 {
		t.Errorf("half width = %v m, want 1000", d)
	}

	if got := BoundsAround(center, 0); !reflect.DeepEqual(got, PointBounds(center)) {
		t.Errorf("BoundsAround(0) = %v, want point", got)
	}
}

func TestBounds_Intersects(t *testing.T) {
	unit := Bounds{South: 0, West: 0, North: 1, East: 1}
	tests := []struct {
		name  string
		other Bounds
		want  bool
	}{
		{"overlap", Bounds{South: 0.5, West: 0.5, North: 2, East: 2}, true},
		{"inside", Bounds{South: 0.2, West: 0.2, North: 0.3, East: 0.3}, true},
		{"covering", Bounds{South: -1, West: -1, North: 2, East: 2}, true},
		{"touching edge", Bounds{South: 1, West: 0, North: 2, East: 1}, true},
		{"touching corner", Bounds{South: 1, West: 1, North: 2, East: 2}, true},
		{"north of", Bounds{South: 1.1, West: 0, North: 2, East: 1}, false},
		{"west of", Bounds{South: 0, West: -2, North: 1, East: -0.1}, false},
		{"point inside", PointBounds(LatLng{Lat: 0.5, Lng: 0.5}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unit.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.other.Intersects(unit); got != tt.want {
				t.Errorf("Intersects() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBounds_Quadrants(t *testing.T) {
	b := Bounds{South: 0, West: 0, North: 2, East: 4}
	want := [4]Bounds{
		{South: 1, West: 0, North: 2, East: 2},
		{South: 1, West: 2, North: 2, East: 4},
		{South: 0, West: 0, North: 1, East: 2},
		{South: 0, West: 2, North: 1, East: 4},
	}
	if got := b.Quadrants(); !reflect.DeepEqual(got, want) {
		t.Errorf("Quadrants() = %v, want %v", got, want)
	}

	covered := want[0]
	for _, q := range want[1:] {
		covered = covered.Extend(q)
	}
	if !reflect.DeepEqual(covered, b) {
		t.Errorf("quadrants cover %v, want %v", covered, b)
	}
}

func TestBounds_ExtendContains(t *testing.T) {
	a := PointBounds(LatLng{Lat: 1, Lng: 1})
	b := a.Extend(PointBounds(LatLng{Lat: -1, Lng: 3}))
	want := Bounds{South: -1, West: 1, North: 1, East: 3}
	if !reflect.DeepEqual(b, want) {
		t.Fatalf("Extend() = %v, want %v", b, want)
	}
	if !b.Contains(LatLng{Lat: 0, Lng: 2}) {
		t.Error("Contains() inner point = false")
	}
	if b.Contains(LatLng{Lat: 0, Lng: 3.5}) {
		t.Error("Contains() outer point = true")
	}
	if !b.ContainsBounds(a) {
		t.Error("ContainsBounds() own corner = false")
	}
}

func TestLatLng_IsValid(t *testing.T) {
	tests := []struct {
		name string
		p    LatLng
		want bool
	}{
		{"origin", LatLng{}, true},
		{"corners", LatLng{Lat: -90, Lng: 180}, true},
		{"latitude too large", LatLng{Lat: 90.5, Lng: 0}, false},
		{"longitude too small", LatLng{Lat: 0, Lng: -180.1}, false},
		{"NaN", LatLng{Lat: math.NaN(), Lng: 0}, false},
		{"infinite", LatLng{Lat: 0, Lng: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBounds_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		b    Bounds
		want bool
	}{
		{"zero", Bounds{}, false},
		{"point", PointBounds(LatLng{Lat: 1, Lng: 2}), false},
		{"square", BoundsAround(LatLng{Lat: 52, Lng: 13}, 100), false},
		{"inverted latitude", Bounds{South: 1, North: 0}, true},
		{"inverted longitude", Bounds{West: 1, East: 0}, true},
		{"NaN edge", Bounds{South: math.NaN(), North: 1}, true},
		{"infinite edge", Bounds{South: 0, North: math.Inf(1)}, true},
		{"infinite size", BoundsAround(LatLng{}, math.Inf(1)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}
