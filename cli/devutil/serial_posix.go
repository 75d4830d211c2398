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

//go:build !windows

package devutil

import (
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// EnumerateSerialPorts lists candidate device ports. The ESP32-C3
// shows up as a USB CDC device (ttyACM) with native USB and as ttyUSB
// behind a UART bridge.
func EnumerateSerialPorts() []string {
	if runtime.GOOS == "darwin" {
		list, _ := filepath.Glob("/dev/cu.*")
		filtered := make([]string, 0, len(list))
		for _, s := range list {
			if !strings.Contains(s, "Bluetooth-") {
				filtered = append(filtered, s)
			}
		}
		return filtered
	}
	usb, _ := filepath.Glob("/dev/ttyUSB*")
	acm, _ := filepath.Glob("/dev/ttyACM*")
	list := append(usb, acm...)
	sort.Strings(list)
	return list
}
