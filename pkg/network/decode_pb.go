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

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrDecode is wrapped by every failure to turn network bytes into a RawNetwork
var ErrDecode = errors.New("network decode failed")

// Field numbers of the mapnificent network messages.
const (
	fieldNetworkCityID = 1
	fieldNetworkStops  = 2
	fieldNetworkLines  = 3

	fieldStopLatitude      = 1
	fieldStopLongitude     = 2
	fieldStopTravelOptions = 3
	fieldStopName          = 4

	fieldOptionStop         = 1
	fieldOptionTravelTime   = 2
	fieldOptionStayTime     = 3
	fieldOptionLine         = 4
	fieldOptionWalkDistance = 5

	fieldLineID    = 1
	fieldLineTimes = 2
	fieldLineName  = 3

	fieldLineTimeInterval = 1
	fieldLineTimeStart    = 2
	fieldLineTimeStop     = 3
	fieldLineTimeWeekday  = 4
)

type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// Decode parses a protobuf encoded mapnificent network.
func Decode(data []byte) (*RawNetwork, error) {
	raw := &RawNetwork{}
	err := consumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldNetworkCityID:
			return consumeString(typ, b, &raw.CityID)
		case fieldNetworkStops:
			stop := &RawStop{}
			n, err := consumeMessage(typ, b, stop.field)
			raw.Stops = append(raw.Stops, stop)
			return n, err
		case fieldNetworkLines:
			line := &RawLine{}
			n, err := consumeMessage(typ, b, line.field)
			raw.Lines = append(raw.Lines, line)
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return raw, nil
}

func (s *RawStop) field(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case fieldStopLatitude:
		v, n, err := consumeDouble(typ, b)
		s.Latitude = &v
		return n, err
	case fieldStopLongitude:
		v, n, err := consumeDouble(typ, b)
		s.Longitude = &v
		return n, err
	case fieldStopTravelOptions:
		option := &RawTravelOption{}
		n, err := consumeMessage(typ, b, option.field)
		s.TravelOptions = append(s.TravelOptions, option)
		return n, err
	case fieldStopName:
		return consumeString(typ, b, &s.Name)
	}
	return 0, nil
}

func (o *RawTravelOption) field(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case fieldOptionStop:
		return consumeUint32(typ, b, &o.Stop)
	case fieldOptionTravelTime:
		o.TravelTime = new(uint32)
		return consumeUint32(typ, b, o.TravelTime)
	case fieldOptionStayTime:
		o.StayTime = new(uint32)
		return consumeUint32(typ, b, o.StayTime)
	case fieldOptionLine:
		o.Line = new(string)
		return consumeString(typ, b, o.Line)
	case fieldOptionWalkDistance:
		o.WalkDistance = new(uint32)
		return consumeUint32(typ, b, o.WalkDistance)
	}
	return 0, nil
}

func (l *RawLine) field(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case fieldLineID:
		return consumeString(typ, b, &l.LineID)
	case fieldLineTimes:
		lt := &RawLineTime{}
		n, err := consumeMessage(typ, b, lt.field)
		l.LineTimes = append(l.LineTimes, lt)
		return n, err
	case fieldLineName:
		return consumeString(typ, b, &l.Name)
	}
	return 0, nil
}

func (lt *RawLineTime) field(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case fieldLineTimeInterval:
		return consumeUint32(typ, b, &lt.Interval)
	case fieldLineTimeStart:
		return consumeUint32(typ, b, &lt.Start)
	case fieldLineTimeStop:
		return consumeUint32(typ, b, &lt.Stop)
	case fieldLineTimeWeekday:
		return consumeUint32(typ, b, &lt.Weekday)
	}
	return 0, nil
}

// consumeFields calls fn for every field in b. fn returns 0 for fields it doesn't know.
func consumeFields(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := fn(num, typ, b)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
		}
		if m < 0 {
			return fmt.Errorf("field %d: %w", num, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}

func expectType(typ, want protowire.Type) error {
	if typ != want {
		return fmt.Errorf("wire type %d, want %d", typ, want)
	}
	return nil
}

func consumeMessage(typ protowire.Type, b []byte, fn fieldFunc) (int, error) {
	if err := expectType(typ, protowire.BytesType); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	return n, consumeFields(v, fn)
}

func consumeString(typ protowire.Type, b []byte, out *string) (int, error) {
	if err := expectType(typ, protowire.BytesType); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeBytes(b)
	if n >= 0 {
		*out = string(v)
	}
	return n, nil
}

func consumeUint32(typ protowire.Type, b []byte, out *uint32) (int, error) {
	if err := expectType(typ, protowire.VarintType); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*out = uint32(v)
	}
	return n, nil
}

func consumeDouble(typ protowire.Type, b []byte) (float64, int, error) {
	if err := expectType(typ, protowire.Fixed64Type); err != nil {
		return 0, 0, err
	}
	v, n := protowire.ConsumeFixed64(b)
	return math.Float64frombits(v), n, nil
}
