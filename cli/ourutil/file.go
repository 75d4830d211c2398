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
package ourutil

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/juju/errors"
)

func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// FetchToTemp downloads url into a temporary file and returns its
// path. The caller is responsible for removing the file. Progress is
// reported in 5% ticks when the server announces the size.
func FetchToTemp(url, suffix string) (string, error) {
	Reportf("Fetching %s...", url)
	resp, err := http.Get(url)
	if err != nil {
		return "", errors.Annotatef(err, "%s: failed to fetch", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("%s: failed to fetch: %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp("", "fw-*"+suffix)
	if err != nil {
		return "", errors.Trace(err)
	}
	defer tmp.Close()

	total := resp.ContentLength
	if total > 0 {
		Reportf("File size: %d KB", total/1024)
	}
	fmt.Fprintf(os.Stderr, "Downloading: [")
	var written int64
	ticks := int64(0)
	buf := make([]byte, 8192)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := tmp.Write(buf[:n]); werr != nil {
				os.Remove(tmp.Name())
				return "", errors.Trace(werr)
			}
			written += int64(n)
			if total > 0 {
				if t := written * 20 / total; t > ticks {
					fmt.Fprint(os.Stderr, strings.Repeat("#", int(t-ticks)))
					ticks = t
				}
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			os.Remove(tmp.Name())
			return "", errors.Annotatef(rerr, "%s: failed to fetch body", url)
		}
	}
	fmt.Fprintln(os.Stderr, "] Done.")
	Reportf("  done, %d bytes.", written)
	return tmp.Name(), nil
}
