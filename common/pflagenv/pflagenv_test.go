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
package pflagenv

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestParseFlagSet(t *testing.T) {
	fs := pflag.NewFlagSet("pflagenv-test", pflag.ContinueOnError)

	var port, chip, baud, tool string
	fs.StringVar(&port, "port", "", "")
	fs.StringVar(&chip, "chip", "esp32c3", "")
	fs.StringVar(&baud, "baud-rate", "115200", "")
	fs.StringVar(&tool, "esptool", "esptool", "")
	fs.Parse([]string{"--port=/dev/ttyUSB0", "--chip="})

	t.Setenv("ESP32_PORT", "/dev/ttyACM5")
	t.Setenv("ESP32_CHIP", "esp32s3")
	t.Setenv("ESP32_BAUD_RATE", "460800")
	ParseFlagSet(fs, "ESP32_")

	// Explicit command line values win over the environment.
	if got, want := port, "/dev/ttyUSB0"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
	if got, want := chip, ""; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
	// Dashes map to underscores in the variable name.
	if got, want := baud, "460800"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
	// Untouched flags keep their defaults.
	if got, want := tool, "esptool"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
}
