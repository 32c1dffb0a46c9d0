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

// Package export writes compiled models in formats mapping applications import.
package export

import (
	"fmt"
	"io"
	"os"
	"sort"

	kml "github.com/twpayne/go-kml/v2"

	"github.com/spezifisch/reachmap/pkg/compile"
	"github.com/spezifisch/reachmap/pkg/network"
)

// WriteKML writes one folder per compiled model with a placemark per area
func WriteKML(w io.Writer, title string, models []*compile.CompiledModel, stops *network.Model) error {
	folders := make([]kml.Element, 0, len(models)+1)
	folders = append(folders, kml.Name(title))

	for i, m := range models {
		folder := []kml.Element{
			kml.Name(fmt.Sprintf("Marker %d", i)),
			kml.Description(m.Marker.String()),
		}

		pois := m.POIs.All()
		sort.Slice(pois, func(a, b int) bool {
			if pois[a].TravelTime != pois[b].TravelTime {
				return pois[a].TravelTime < pois[b].TravelTime
			}
			return pois[a].Stop < pois[b].Stop
		})
		for _, poi := range pois {
			folder = append(folder, kml.Placemark(
				kml.Name(poiName(poi, stops)),
				kml.Description(fmt.Sprintf("travel %.1f min, walk %.1f min (%.0f m), %d line changes",
					poi.TravelTime, poi.WalkTime, poi.Radius, poi.LineChanges)),
				kml.Point(
					kml.Coordinates(kml.Coordinate{Lon: poi.Center.Lng, Lat: poi.Center.Lat}),
				),
			))
		}

		folders = append(folders, kml.Folder(folder...))
	}

	return kml.KML(kml.Document(folders...)).WriteIndent(w, "", "  ")
}

// WriteKMLFile is WriteKML to a new file
func WriteKMLFile(path, title string, models []*compile.CompiledModel, stops *network.Model) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteKML(f, title, models, stops)
}

func poiName(poi compile.AreaPOI, stops *network.Model) string {
	if poi.Stop == network.NoStop {
		return "Origin"
	}
	if stops != nil {
		if s, ok := stops.Stop(poi.Stop); ok && s.Name != "" {
			return s.Name
		}
	}
	return fmt.Sprintf("Stop %d", poi.Stop)
}
