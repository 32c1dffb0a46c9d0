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
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spezifisch/reachmap/pkg/export"
	"github.com/spezifisch/reachmap/pkg/metrics"
)

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the reachable areas of every marker",
		Long:  `Loads the network, searches from every marker and optionally writes the areas as KML.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := metrics.DefaultRegistry()
			j, err := run(cmd.Context(), cmd, reg)
			if err != nil {
				return err
			}

			for i, c := range j.compiled {
				log.WithFields(log.Fields{
					"marker":    c.Marker.String(),
					"pois":      c.POIs.Len(),
					"seeded":    c.Stats.Seeded,
					"enqueued":  c.Stats.Enqueued,
					"dominated": c.Stats.Dominated,
				}).Infof("compiled marker %d", i)
			}

			if kmlFile, _ := cmd.Flags().GetString("kml"); kmlFile != "" {
				title := j.model.CityID
				if j.city != nil {
					title = j.city.CityName
				}
				if err := export.WriteKMLFile(kmlFile, title, j.compiled, j.model); err != nil {
					return err
				}
				log.WithField("file", kmlFile).Info("wrote KML")
			}

			if metricsFile, _ := cmd.Flags().GetString("metrics"); metricsFile != "" {
				if err := reg.WriteTextfile(metricsFile); err != nil {
					return err
				}
				log.WithField("file", metricsFile).Info("wrote metrics")
			}
			return nil
		},
	}
	cmd.Flags().StringP("kml", "k", "", "write areas to this KML file")
	cmd.Flags().String("metrics", "", "write prometheus metrics to this textfile")
	return cmd
}
