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

package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spezifisch/reachmap/pkg/compile"
	"github.com/spezifisch/reachmap/pkg/geo"
)

type queryResult struct {
	Marker string            `json:"marker"`
	POIs   []compile.AreaPOI `json:"pois"`
}

// parseBBox parses south,west,north,east
func parseBBox(s string) (geo.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geo.Bounds{}, fmt.Errorf("bbox '%s' is not south,west,north,east", s)
	}
	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return geo.Bounds{}, fmt.Errorf("bbox '%s': %w", s, err)
		}
		v[i] = f
	}
	if v[0] > v[2] || v[1] > v[3] {
		return geo.Bounds{}, fmt.Errorf("bbox '%s' is inverted", s)
	}
	return geo.Bounds{South: v[0], West: v[1], North: v[2], East: v[3]}, nil
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the areas intersecting a bounding box as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			bboxStr, _ := cmd.Flags().GetString("bbox")
			rect, err := parseBBox(bboxStr)
			if err != nil {
				return err
			}

			j, err := run(cmd.Context(), cmd, nil)
			if err != nil {
				return err
			}

			results := make([]queryResult, 0, len(j.compiled))
			for _, c := range j.compiled {
				pois := c.Query(rect)
				sort.Slice(pois, func(a, b int) bool { return pois[a].Stop < pois[b].Stop })
				results = append(results, queryResult{Marker: c.Marker.String(), POIs: pois})
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}
	cmd.Flags().String("bbox", "", "south,west,north,east")
	_ = cmd.MarkFlagRequired("bbox")
	return cmd
}
