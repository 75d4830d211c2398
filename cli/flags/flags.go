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
package flags

import (
	flag "github.com/spf13/pflag"
)

var (
	Port = flag.StringP("port", "p", "", "Serial port where the device is connected. "+
		"Overrides the port persisted in "+`.esp32_deploy_config.json`+" for this invocation.")
	Force = flag.BoolP("force", "f", false, "Skip confirmations and device probes")

	BaudRate      = flag.Int("baud-rate", 115200, "Serial port speed for the console")
	FlashBaudRate = flag.Int("baud", 460800, "Serial port speed used while writing firmware. "+
		"Other common values: 230400, 921600, 1152000.")

	Chip        = flag.String("chip", "esp32c3", "Chip type passed to esptool")
	EsptoolPath = flag.String("esptool", "esptool", "Path to the esptool binary")
	Mpremote    = flag.String("mpremote", "mpremote", "Path to the mpremote binary")
)
