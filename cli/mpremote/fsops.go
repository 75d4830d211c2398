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
	"context"
	"fmt"
	"strings"

	"github.com/juju/errors"

	"github.com/esp32-micropython/esp32/cli/ourutil"
	"github.com/esp32-micropython/esp32/cli/transfer"
)

// lsTarget maps a device path to mpremote's ls argument.
func lsTarget(devPath string) string {
	n := strings.Trim(devPath, "/")
	if n == "" {
		return ":/"
	}
	return ":/" + n
}

// Target maps a device path to mpremote's remote-file syntax, for use
// as a cp source or destination.
func Target(devPath string) string {
	return ":/" + strings.Trim(devPath, "/")
}

// devicePath turns a user path into an absolute device path, "/" for
// the root.
func devicePath(devPath string) string {
	return "/" + strings.Trim(devPath, "/")
}

// pyQuote escapes s for use inside a single-quoted MicroPython string
// literal.
func pyQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// statCode prints the os.stat tuple for a device path. mpremote has no
// stat sub-command, so the tuple is fetched through the interpreter.
func statCode(devPath string) string {
	return fmt.Sprintf("import os; print(os.stat('%s'))", pyQuote(devicePath(devPath)))
}

// listCode walks a device directory with os.ilistdir, printing each
// entry's path relative to it, directories with a trailing slash.
// mpremote's own ls is not recursive, so the walk runs on the device.
func listCode(devPath string) string {
	return fmt.Sprintf(`import os
def _w(b, r):
    for e in os.ilistdir(b):
        n = (r + '/' + e[0]) if r else e[0]
        p = (b + '/' + e[0]) if b != '/' else '/' + e[0]
        if e[1] & 0x4000:
            print(n + '/')
            _w(p, n)
        else:
            print(n)
_w('%s', '')
`, pyQuote(devicePath(devPath)))
}

// Kind resolves what a device path refers to. Part of the transfer
// oracle contract. A missing path raises ENOENT on the device, which
// maps to KindMissing rather than an error.
func (c *Client) Kind(ctx context.Context, devPath string) (transfer.EntryKind, error) {
	out, err := c.run(ctx, statTimeout, "exec", statCode(devPath))
	if err != nil {
		// The ENOENT traceback may come back on either stream.
		if isNoSuchFile(err) || noSuchFile(out) {
			return transfer.KindMissing, nil
		}
		return transfer.KindMissing, errors.Trace(err)
	}
	return parseStatKind(out)
}

// ListRecursive lists everything under the given device directory,
// relative paths, directories flagged. Part of the transfer oracle
// contract.
func (c *Client) ListRecursive(ctx context.Context, dir string) ([]transfer.Entry, error) {
	out, err := c.run(ctx, lsTimeout, "exec", listCode(dir))
	if err != nil {
		if isNoSuchFile(err) || noSuchFile(out) {
			return nil, errors.Errorf("remote path %q not found", dir)
		}
		return nil, errors.Trace(err)
	}
	return parseLsOutput(out), nil
}

// ListTop lists the immediate children of a device directory.
func (c *Client) ListTop(ctx context.Context, dir string) ([]transfer.Entry, error) {
	out, err := c.run(ctx, lsTimeout, "fs", "ls", lsTarget(dir))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return parseLsOutput(out), nil
}

// MkdirAll creates a device directory component by component. An
// already-existing directory is fine; a file in the way is not.
func (c *Client) MkdirAll(ctx context.Context, dir string) error {
	norm := strings.Trim(dir, "/")
	if norm == "" {
		return nil
	}
	cur := ""
	for _, part := range strings.Split(norm, "/") {
		if cur == "" {
			cur = part
		} else {
			cur = cur + "/" + part
		}
		kind, err := c.Kind(ctx, cur)
		if err != nil {
			return errors.Trace(err)
		}
		switch kind {
		case transfer.KindDir:
			continue
		case transfer.KindFile:
			return errors.Errorf("remote path %q exists and is a file, cannot create directory", cur)
		}
		if _, err := c.run(ctx, mkdirTimeout, "fs", "mkdir", Target(cur)); err != nil {
			// mkdir can race with the device's own writes; re-stat before
			// giving up.
			if strings.Contains(err.Error(), "EEXIST") || strings.Contains(err.Error(), "File exists") {
				if kind, kerr := c.Kind(ctx, cur); kerr == nil && kind == transfer.KindDir {
					continue
				}
			}
			return errors.Annotatef(err, "failed to create remote directory %q", cur)
		}
		ourutil.Reportf("    Created remote directory :/%s", cur)
		settle()
	}
	return nil
}

// Cp copies a single file between host and device. Remote paths use
// the ":" prefix on either side.
func (c *Client) Cp(ctx context.Context, src, dst string) error {
	if _, err := c.run(ctx, cpTimeout, "fs", "cp", src, dst); err != nil {
		return errors.Trace(err)
	}
	settle()
	return nil
}

// RemoveRecursive deletes a device file or directory tree.
func (c *Client) RemoveRecursive(ctx context.Context, devPath string) error {
	if _, err := c.run(ctx, rmTimeout, "fs", "rm", "-r", Target(devPath)); err != nil {
		return errors.Trace(err)
	}
	settle()
	return nil
}

// Df prints the device filesystem usage.
func (c *Client) Df(ctx context.Context) error {
	return c.runStream(ctx, dfTimeout, "fs", "df")
}

// Exec runs MicroPython code on the device, streaming its output. A
// zero timeout lets the code run until it finishes or the user
// interrupts.
func (c *Client) Exec(ctx context.Context, code string) error {
	return c.runStream(ctx, 0, "exec", code)
}

// ExecOutput runs MicroPython code on the device and captures stdout.
func (c *Client) ExecOutput(ctx context.Context, code string) (string, error) {
	return c.run(ctx, execTimeout, "exec", code)
}

func noSuchFile(s string) bool {
	return strings.Contains(s, "No such file or directory") || strings.Contains(s, "ENOENT")
}

func isNoSuchFile(err error) bool {
	return noSuchFile(err.Error())
}
