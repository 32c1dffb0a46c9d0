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

// Package city reads the metadata file shipped next to a city network.
package city

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/spezifisch/reachmap/pkg/geo"
)

// CopyrightInfo credits a data owner
type CopyrightInfo struct {
	OwnerInfo   string `json:"ownerInfo"`
	Description string `json:"description,omitempty"`
}

// City is the first YAML document of a city file, the second one holds the copyright.
type City struct {
	CityID      string     `yaml:"cityid" validate:"required"`
	CityName    string     `yaml:"cityname" validate:"required"`
	Description string     `yaml:"description"`
	Zoom        int        `yaml:"zoom" validate:"gte=0,lte=22"`
	Lat         *float64   `yaml:"lat" validate:"omitempty,latitude"`
	Lng         *float64   `yaml:"lng" validate:"omitempty,longitude"`
	Coordinates []float64  `yaml:"coordinates" validate:"omitempty,len=2"`
	Position    geo.LatLng `yaml:"-"`

	Copyright []CopyrightInfo `yaml:"-"`
}

var validate = validator.New()

// Load reads a city file
func Load(path string) (*City, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes the metadata document and, when present, the copyright document.
func Parse(data []byte) (*City, error) {
	d := yaml.NewDecoder(bytes.NewReader(data))

	var c City
	if err := d.Decode(&c); err != nil {
		return nil, fmt.Errorf("city metadata: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("city metadata: %w", err)
	}

	switch {
	case len(c.Coordinates) == 2:
		// GeoJSON order
		c.Position = geo.LatLng{Lat: c.Coordinates[1], Lng: c.Coordinates[0]}
		if err := validatePosition(c.Position); err != nil {
			return nil, err
		}
	case c.Lat != nil && c.Lng != nil:
		c.Position = geo.LatLng{Lat: *c.Lat, Lng: *c.Lng}
	default:
		return nil, errors.New("city metadata: no position")
	}

	var copyright yaml.Node
	err := d.Decode(&copyright)
	switch {
	case errors.Is(err, io.EOF):
	case err != nil:
		// the second document may be free text that isn't valid YAML
		log.WithError(err).WithField("city", c.CityID).Debug("ignoring copyright document")
	default:
		c.Copyright = parseCopyright(&copyright)
	}

	return &c, nil
}

func validatePosition(p geo.LatLng) error {
	if err := validate.Var(p.Lat, "latitude"); err != nil {
		return fmt.Errorf("city metadata: latitude %v: %w", p.Lat, err)
	}
	if err := validate.Var(p.Lng, "longitude"); err != nil {
		return fmt.Errorf("city metadata: longitude %v: %w", p.Lng, err)
	}
	return nil
}

func parseCopyright(doc *yaml.Node) []CopyrightInfo {
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}

	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" || n.Value == "" {
			return nil
		}
		return []CopyrightInfo{{OwnerInfo: n.Value}}
	case yaml.MappingNode:
		var owners map[string]*string
		if err := n.Decode(&owners); err != nil {
			return nil
		}
		infos := make([]CopyrightInfo, 0, len(owners))
		for owner, description := range owners {
			info := CopyrightInfo{OwnerInfo: owner}
			if description != nil {
				info.Description = *description
			}
			infos = append(infos, info)
		}
		sort.Slice(infos, func(i, j int) bool { return infos[i].OwnerInfo < infos[j].OwnerInfo })
		return infos
	}
	return nil
}
