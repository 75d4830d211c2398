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

// Package mpremote drives the external mpremote tool against a single
// serial port. It exposes the device filesystem as a transfer oracle.
// All operations are sequential: the serial link is an exclusive
// resource and mpremote holds it for the duration of each invocation.
package mpremote

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/juju/errors"

	"github.com/esp32-micropython/esp32/cli/flags"
	"github.com/esp32-micropython/esp32/cli/ourutil"
)

// Per-operation deadlines. The device side is slow; copies of a single
// file can legitimately take a while at 115200 baud.
const (
	statTimeout  = 10 * time.Second
	lsTimeout    = 20 * time.Second
	mkdirTimeout = 15 * time.Second
	cpTimeout    = 2 * time.Minute
	rmTimeout    = 60 * time.Second
	execTimeout  = 20 * time.Second
	dfTimeout    = 10 * time.Second

	// Settle delay between filesystem operations. Back-to-back raw REPL
	// sessions confuse some ESP32-C3 builds.
	opDelay = 300 * time.Millisecond
)

// ConnectionError means the device did not respond on the port at all,
// as opposed to an individual file operation failing.
type ConnectionError struct {
	Port string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("no response from device on %s: %v\n"+
		"Ensure the device is properly connected and flashed with MicroPython "+
		"(hold BOOT while plugging in to enter bootloader mode, then 'esp32 flash'). "+
		"If it is mid-boot, reset it and retry.", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Client invokes mpremote against one serial port.
type Client struct {
	Port string
	tool string
}

func NewClient(port string) *Client {
	return &Client{Port: port, tool: *flags.Mpremote}
}

func (c *Client) run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	full := append([]string{"connect", c.Port}, args...)
	out, err := ourutil.GetCommandOutput(ctx, timeout, c.tool, full...)
	return out, c.wrapErr(err)
}

// runStream is for operations whose output belongs to the user, such
// as running a script or printing diagnostics.
func (c *Client) runStream(ctx context.Context, timeout time.Duration, args ...string) error {
	full := append([]string{c.tool, "connect", c.Port}, args...)
	return c.wrapErr(ourutil.RunCmd(ctx, timeout, ourutil.CmdOutAlways, full...))
}

var connFailures = []string{
	"could not enter raw repl",
	"no device found",
	"failed to access",
	"device busy",
	"Errno 16",
	"Permission denied",
}

func (c *Client) wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return errors.Annotatef(err, "mpremote not found in PATH; install it with 'pip install mpremote'")
	}
	msg := err.Error()
	for _, s := range connFailures {
		if strings.Contains(msg, s) {
			return &ConnectionError{Port: c.Port, Err: err}
		}
	}
	return err
}

// settle gives the device a moment between filesystem operations.
func settle() {
	time.Sleep(opDelay)
}
