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

// Package config loads the reachmap settings from a YAML file, a .env file and
// the environment, in that order of increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/spezifisch/reachmap/pkg/reach"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "REACHMAP_"

// DefaultEnvFile is read when Load gets no explicit env files
const DefaultEnvFile = ".env"

// Config holds everything the CLI needs besides its flags
type Config struct {
	Search   reach.Params `yaml:"search"`
	Workers  int          `yaml:"workers" validate:"gte=0"`
	LogLevel string       `yaml:"logLevel" validate:"oneof=trace debug info warn error"`
	Network  string       `yaml:"network"`
	City     string       `yaml:"city"`
	Markers  []string     `yaml:"markers"`
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Search:   reach.DefaultParams(),
		LogLevel: "info",
	}
}

var validate = validator.New()

// Load reads path (may be empty) and applies env overrides from the process
// environment and envFiles. Without envFiles DefaultEnvFile is tried.
// Missing env files are skipped.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		d := yaml.NewDecoder(bytes.NewReader(data))
		d.KnownFields(true)
		if err := d.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	env := make(map[string]string)
	for _, f := range envFiles {
		vars, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		log.WithFields(log.Fields{"file": f, "vars": len(vars)}).Debug("read env file")
		for k, v := range vars {
			env[k] = v
		}
	}

	if err := applyEnv(&cfg, env); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Search.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// lookup prefers the process environment over env files
func lookup(env map[string]string, key string) (string, bool) {
	key = EnvPrefix + key
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v, true
	}
	v, ok := env[key]
	return v, ok && v != ""
}

func applyEnv(cfg *Config, env map[string]string) error {
	strs := map[string]*string{
		"LOG_LEVEL": &cfg.LogLevel,
		"NETWORK":   &cfg.Network,
		"CITY":      &cfg.City,
	}
	for key, dst := range strs {
		if v, ok := lookup(env, key); ok {
			*dst = v
		}
	}

	floats := map[string]*float64{
		"WALKING_SPEED":    &cfg.Search.WalkingSpeed,
		"MAX_WALKING_TIME": &cfg.Search.MaxWalkingTime,
		"LINE_CHANGE_TIME": &cfg.Search.LineChangeTime,
	}
	for key, dst := range floats {
		if v, ok := lookup(env, key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = f
		}
	}

	ints := map[string]*int{
		"MAX_LINE_CHANGES": &cfg.Search.MaxLineChanges,
		"WORKERS":          &cfg.Workers,
	}
	for key, dst := range ints {
		if v, ok := lookup(env, key); ok {
			i, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = i
		}
	}
	return nil
}
