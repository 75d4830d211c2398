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

// Package devutil handles serial port discovery, selection and
// persistence.
package devutil

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/juju/errors"
	flag "github.com/spf13/pflag"

	"github.com/esp32-micropython/esp32/cli/config"
	"github.com/esp32-micropython/esp32/cli/flags"
	"github.com/esp32-micropython/esp32/cli/mpremote"
	"github.com/esp32-micropython/esp32/cli/ourutil"
)

// GetPort resolves the port for this invocation: the --port flag wins,
// then the persisted config.
func GetPort(cfg *config.Config) (string, error) {
	if *flags.Port != "" {
		return *flags.Port, nil
	}
	if cfg.Port != "" {
		return cfg.Port, nil
	}
	return "", errors.Errorf("no serial port selected; run 'esp32 devices' to list ports, " +
		"then 'esp32 device <PORT>' to select one")
}

// Probe checks that a responsive MicroPython device sits on the port
// by listing its filesystem root.
func Probe(ctx context.Context, port string) error {
	client := mpremote.NewClient(port)
	if _, err := client.ListTop(ctx, "/"); err != nil {
		return errors.Annotatef(err, "device test on %s failed", port)
	}
	return nil
}

// VerifyMicroPython asks the interpreter on the device to identify
// itself.
func VerifyMicroPython(ctx context.Context, port string) error {
	client := mpremote.NewClient(port)
	out, err := client.ExecOutput(ctx, "import sys; print(sys.implementation.name)")
	if err != nil {
		return errors.Trace(err)
	}
	name := strings.ToLower(strings.TrimSpace(out))
	if !strings.Contains(name, "micropython") {
		return errors.Errorf("unexpected interpreter on %s: %q", port, strings.TrimSpace(out))
	}
	ourutil.Reportf("MicroPython confirmed on %s (sys.implementation.name: %q).", port, name)
	return nil
}

// Devices implements the "devices" command.
func Devices(ctx context.Context, cfg *config.Config) error {
	ports := EnumerateSerialPorts()
	if len(ports) == 0 {
		ourutil.Reportf("No serial ports found.")
		return nil
	}
	ourutil.Reportf("Available serial ports:")
	found := false
	for _, p := range ports {
		if p == cfg.Port {
			found = true
			fmt.Fprintf(os.Stderr, "  %s - selected\n", color.GreenString("*%s*", p))
		} else {
			fmt.Fprintf(os.Stderr, "  %s\n", p)
		}
	}
	switch {
	case cfg.Port == "":
		ourutil.Reportf("\nNo port selected. Use 'esp32 device <PORT>' to set one.")
	case !found:
		ourutil.Reportf("\nWarning: the selected port %q is not available. Please reconfigure.", cfg.Port)
	default:
		ourutil.Reportf("\nSelected port: %s (use 'esp32 device <PORT>' to change it).", cfg.Port)
	}
	return nil
}

// Device implements the "device" command: with an argument it tests
// and persists the port, without one it tests the current selection.
func Device(ctx context.Context, cfg *config.Config) error {
	args := flag.Args()
	if len(args) < 2 {
		port, err := GetPort(cfg)
		if err != nil {
			return errors.Trace(err)
		}
		ourutil.Reportf("Current selected port is %s. Testing...", port)
		if err := Probe(ctx, port); err != nil {
			return errors.Trace(err)
		}
		ourutil.Reportf("Device on %s responded.", port)
		return nil
	}

	port := args[1]
	available := EnumerateSerialPorts()
	ok := false
	for _, p := range available {
		if p == port {
			ok = true
			break
		}
	}
	if !ok {
		return errors.Errorf("port %s not found among available ports: %s",
			port, strings.Join(available, ", "))
	}

	forced := false
	if err := Probe(ctx, port); err != nil {
		if !*flags.Force {
			return errors.Annotatef(err, "device test failed; to set %s anyway, use --force", port)
		}
		ourutil.Reportf("Device test failed: %v", err)
		forced = true
	}

	cfg.Port = port
	if err := cfg.Save(); err != nil {
		return errors.Trace(err)
	}
	if forced {
		ourutil.Reportf("Selected port set to %s (forced).", port)
	} else {
		ourutil.Reportf("Selected port set to %s.", port)
	}
	return nil
}
