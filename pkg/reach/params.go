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

package reach

import (
	"errors"
	"fmt"
	"math"
)

// Defaults. All times are minutes.
const (
	// DefaultWalkingSpeed in meters per minute decides how far a walk gets
	DefaultWalkingSpeed = 80.0

	// DefaultMaxWalkingTime is the longest single walk anyone is assumed to take
	DefaultMaxWalkingTime = 20.0

	// DefaultLineChangeTime is added whenever a different line is boarded
	DefaultLineChangeTime = 2.0

	// DefaultMaxLineChanges counts walks and boardings alike
	DefaultMaxLineChanges = 4
)

// ErrInvalidParams is returned by Params.Validate
var ErrInvalidParams = errors.New("invalid search parameters")

// Params tunes the search. The same values must be used for searching and for
// turning the result into areas, otherwise walk costs and radii disagree.
type Params struct {
	WalkingSpeed   float64 `yaml:"walkingSpeed" validate:"gt=0"`
	MaxWalkingTime float64 `yaml:"maxWalkingTime" validate:"gt=0"`
	LineChangeTime float64 `yaml:"lineChangeTime" validate:"gte=0"`
	MaxLineChanges int     `yaml:"maxLineChanges" validate:"gte=1"`
}

// DefaultParams returns the stock parameters
func DefaultParams() Params {
	return Params{
		WalkingSpeed:   DefaultWalkingSpeed,
		MaxWalkingTime: DefaultMaxWalkingTime,
		LineChangeTime: DefaultLineChangeTime,
		MaxLineChanges: DefaultMaxLineChanges,
	}
}

// Validate checks what the struct tags can't express: every value must be finite.
func (p Params) Validate() error {
	switch {
	case !(p.WalkingSpeed > 0) || math.IsInf(p.WalkingSpeed, 0):
		return fmt.Errorf("%w: walking speed %v", ErrInvalidParams, p.WalkingSpeed)
	case !(p.MaxWalkingTime > 0) || math.IsInf(p.MaxWalkingTime, 0):
		return fmt.Errorf("%w: max walking time %v", ErrInvalidParams, p.MaxWalkingTime)
	case !(p.LineChangeTime >= 0) || math.IsInf(p.LineChangeTime, 0):
		return fmt.Errorf("%w: line change time %v", ErrInvalidParams, p.LineChangeTime)
	case p.MaxLineChanges < 1:
		return fmt.Errorf("%w: max line changes %d", ErrInvalidParams, p.MaxLineChanges)
	}
	return nil
}

// TimeToDistance returns the meters walked in minutes
func (p Params) TimeToDistance(minutes float64) float64 {
	return minutes * p.WalkingSpeed
}

// DistanceToTime returns the minutes needed to walk meters
func (p Params) DistanceToTime(meters float64) float64 {
	return meters / p.WalkingSpeed
}

// WalkingTime caps a remaining time at the walking ceiling
func (p Params) WalkingTime(remaining float64) float64 {
	return math.Min(remaining, p.MaxWalkingTime)
}
