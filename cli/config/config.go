//
// Copyright (c) 2025 the esp32-micropython authors
// All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package config persists per-project tool settings in a small JSON
// file in the working directory. The config is loaded once per
// invocation and passed explicitly to the operations that need it.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/juju/errors"
)

// FileName is the config file looked up in the working directory.
const FileName = ".esp32_deploy_config.json"

// Config holds the persisted settings, at minimum the selected serial
// port.
type Config struct {
	Port string `json:"port,omitempty"`

	path string
}

// ConfigError means the config file exists but could not be read or
// parsed. The tool continues with defaults after warning about it.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config file %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Load reads the config file from the working directory. A missing
// file yields an empty config and no error; a malformed one yields an
// empty config and a ConfigError so the caller can warn and continue.
func Load() (*Config, error) {
	c := &Config{path: FileName}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, &ConfigError{Path: c.path, Err: err}
	}
	if err := json.Unmarshal(data, c); err != nil {
		return &Config{path: FileName}, &ConfigError{Path: c.path, Err: err}
	}
	return c, nil
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Trace(err)
	}
	if err := os.WriteFile(c.path, append(data, '\n'), 0644); err != nil {
		return &ConfigError{Path: c.path, Err: err}
	}
	return nil
}
