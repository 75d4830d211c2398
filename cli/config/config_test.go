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
package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esp32-micropython/esp32/cli/config"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Port)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Port = "/dev/ttyACM0"
	require.NoError(t, cfg.Save())

	cfg2, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", cfg2.Port)
}

func TestLoadCorruptedFile(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(config.FileName, []byte("{not json"), 0644))

	cfg, err := config.Load()
	var cerr *config.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, config.FileName, cerr.Path)
	// Defaults are still usable after a corrupted config.
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Port)
}
