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

//go:build windows

package devutil

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/windows/registry"
)

func EnumerateSerialPorts() []string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `HARDWARE\DEVICEMAP\SERIALCOMM\`, registry.QUERY_VALUE)
	if err != nil {
		return nil
	}
	defer k.Close()
	names, err := k.ReadValueNames(0)
	if err != nil {
		return nil
	}
	ports := make([]string, 0, len(names))
	for _, n := range names {
		val, _, err := k.GetStringValue(n)
		if err != nil {
			continue
		}
		// COM1 and COM2 are usually on-board serial ports, not the device.
		if val == "COM1" || val == "COM2" {
			continue
		}
		ports = append(ports, val)
	}
	sort.Sort(byCOMNumber(ports))
	return ports
}

func comNumber(port string) int {
	if !strings.HasPrefix(port, "COM") {
		return -1
	}
	n, err := strconv.Atoi(port[3:])
	if err != nil {
		return -1
	}
	return n
}

type byCOMNumber []string

func (a byCOMNumber) Len() int      { return len(a) }
func (a byCOMNumber) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a byCOMNumber) Less(i, j int) bool {
	ci, cj := comNumber(a[i]), comNumber(a[j])
	if ci < 0 || cj < 0 {
		return a[i] < a[j]
	}
	return ci < cj
}
