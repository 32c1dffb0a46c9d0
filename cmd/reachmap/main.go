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
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spezifisch/reachmap/pkg/city"
	"github.com/spezifisch/reachmap/pkg/compile"
	"github.com/spezifisch/reachmap/pkg/config"
	"github.com/spezifisch/reachmap/pkg/metrics"
	"github.com/spezifisch/reachmap/pkg/network"
)

var cfg *config.Config

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reachmap",
		Short: "Compute where you can get by public transport",
		Long: `Searches a transit network from one or more markers and compiles the
reachable stops into walkable areas for map rendering.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			configFile, _ := cmd.Flags().GetString("config")
			cfg, err = config.Load(configFile)
			if err != nil {
				return err
			}

			level := cfg.LogLevel
			if cmd.Flags().Changed("log-level") {
				level, _ = cmd.Flags().GetString("log-level")
			}
			lvl, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			log.SetLevel(lvl)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("network", "n", "", "network file (.bin or .json, optionally .sz compressed)")
	rootCmd.PersistentFlags().String("city", "", "city metadata file, used for default markers")
	rootCmd.PersistentFlags().StringArrayP("marker", "m", []string{}, "marker as lat,lng[,minutes], repeatable")

	rootCmd.AddCommand(newCompileCmd(), newQueryCmd())
	return rootCmd
}

// job is the loaded input shared by all subcommands
type job struct {
	model    *network.Model
	city     *city.City
	markers  []compile.Marker
	compiled []*compile.CompiledModel
}

func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if v, _ := cmd.Flags().GetString(name); v != "" {
		return v
	}
	return fallback
}

// run loads the network and city, and compiles every marker
func run(ctx context.Context, cmd *cobra.Command, reg *metrics.Registry) (*job, error) {
	networkFile := stringFlag(cmd, "network", cfg.Network)
	if networkFile == "" {
		return nil, errors.New("no network file given")
	}

	var j job
	tStart := time.Now()
	raw, err := network.ReadFile(networkFile)
	if err != nil {
		return nil, err
	}
	j.model = network.LoadNetwork(raw)
	timeTrack(tStart, "network loading")
	log.WithFields(log.Fields{
		"file":  networkFile,
		"city":  j.model.CityID,
		"stops": j.model.Len(),
	}).Info("loaded network")

	if cityFile := stringFlag(cmd, "city", cfg.City); cityFile != "" {
		j.city, err = city.Load(cityFile)
		if err != nil {
			return nil, err
		}
		for _, c := range j.city.Copyright {
			log.WithField("owner", c.OwnerInfo).Info(c.Description)
		}
	}

	markerStrs, _ := cmd.Flags().GetStringArray("marker")
	if len(markerStrs) == 0 {
		markerStrs = cfg.Markers
	}
	for _, s := range markerStrs {
		m, err := compile.ParseMarker(s)
		if err != nil {
			return nil, err
		}
		j.markers = append(j.markers, m)
	}
	if len(j.markers) == 0 {
		if j.city == nil {
			return nil, errors.New("no markers and no city file to place a default marker")
		}
		j.markers = append(j.markers, compile.DefaultMarker(j.city.Position, 0, compile.DefaultTravelTime))
	}

	tStart = time.Now()
	compiler := compile.NewCompiler(cfg.Search, cfg.Workers, reg)
	j.compiled, err = compiler.Update(ctx, j.model, j.markers)
	if err != nil {
		return nil, err
	}
	timeTrack(tStart, "compiling")
	return &j, nil
}

// from: https://coderwall.com/p/cp5fya/measuring-execution-time-in-go
func timeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	log.Debugf("> %s took %s", name, elapsed)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
