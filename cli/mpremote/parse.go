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
package mpremote

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/esp32-micropython/esp32/cli/transfer"
)

// File mode bits as reported by the device's os.stat.
const (
	modeDir  = 0x4000
	modeFile = 0x8000
)

var statTupleRe = regexp.MustCompile(`\(([^)]*)\)`)

// parseStatKind extracts the mode word from the os.stat tuple printed
// by the device, e.g.
//
//	(32768, 0, 0, 0, 0, 0, 139, 0, 0, 0)
func parseStatKind(out string) (transfer.EntryKind, error) {
	m := statTupleRe.FindStringSubmatch(out)
	if m == nil {
		return transfer.KindMissing, errors.Errorf("unexpected stat output: %q", strings.TrimSpace(out))
	}
	modeStr := strings.TrimSpace(strings.SplitN(m[1], ",", 2)[0])
	mode, err := strconv.Atoi(modeStr)
	if err != nil {
		return transfer.KindMissing, errors.Annotatef(err, "bad stat mode %q", modeStr)
	}
	switch {
	case mode&modeDir == modeDir:
		return transfer.KindDir, nil
	case mode&modeFile == modeFile:
		return transfer.KindFile, nil
	default:
		return transfer.KindMissing, errors.Errorf("unknown stat mode %d", mode)
	}
}

// parseLsOutput turns a device listing into entries. Lines are either
// "     139 main.py" ("fs ls" output, size then name) or bare relative
// paths from the on-device walk; directories carry a trailing slash.
// Echoed command lines and the listed directory itself are skipped.
func parseLsOutput(out string) []transfer.Entry {
	var entries []transfer.Entry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(strings.ToLower(line), "ls ") ||
			strings.HasPrefix(strings.ToLower(line), "stat ") || strings.HasPrefix(line, ":") {
			continue
		}
		name := line
		if fields := strings.SplitN(line, " ", 2); len(fields) == 2 && isDigits(fields[0]) {
			name = strings.TrimSpace(fields[1])
		}
		if name == "" || name == "/" || name == "./" {
			continue
		}
		dir := strings.HasSuffix(name, "/")
		entries = append(entries, transfer.Entry{Rel: strings.TrimSuffix(name, "/"), Dir: dir})
	}
	return entries
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
