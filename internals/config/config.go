// Copyright (c) 2024 SUSE LLC
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License version 3 as
// published by the Free Software Foundation.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads the optional sdbootutil configuration file. The
// file provides defaults for values that are otherwise probed from the
// system or passed on the command line.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the configuration file lives unless the
// SDBOOTUTIL_CONFIG environment variable points elsewhere.
const DefaultPath = "/etc/sdbootutil/config.yaml"

// Config carries the file-provided defaults. Zero values mean the
// corresponding setting was not given.
type Config struct {
	ESPPath    string `yaml:"esp-path,omitempty"`
	Arch       string `yaml:"arch,omitempty"`
	Shimdir    string `yaml:"shimdir,omitempty"`
	EntryToken string `yaml:"entry-token,omitempty"`
}

// Path returns the configuration file location, honoring the
// SDBOOTUTIL_CONFIG environment variable.
func Path() string {
	if path := os.Getenv("SDBOOTUTIL_CONFIG"); path != "" {
		return path
	}
	return DefaultPath
}

// Load reads and parses the configuration at path. A missing or empty
// file yields an empty configuration, unknown fields are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("cannot parse %s: %v", path, err)
	}
	return &cfg, nil
}
