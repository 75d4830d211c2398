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
package fs

import (
	"context"
	"fmt"
	"strings"

	"github.com/juju/errors"
	flag "github.com/spf13/pflag"

	"github.com/esp32-micropython/esp32/cli/config"
	"github.com/esp32-micropython/esp32/cli/devutil"
	"github.com/esp32-micropython/esp32/cli/mpremote"
	"github.com/esp32-micropython/esp32/cli/ourutil"
	"github.com/esp32-micropython/esp32/cli/transfer"
	"github.com/esp32-micropython/esp32/common/multierror"
)

// Run implements the "run" command: execute a script that already
// lives on the device, streaming its output. Defaults to main.py.
func Run(ctx context.Context, cfg *config.Config) error {
	script := "main.py"
	if args := flag.Args(); len(args) >= 2 {
		script = args[1]
	}
	norm := strings.TrimLeft(script, "/")

	port, err := devutil.GetPort(cfg)
	if err != nil {
		return errors.Trace(err)
	}
	client := mpremote.NewClient(port)

	ourutil.Reportf("Checking for %q on device...", norm)
	kind, err := client.Kind(ctx, norm)
	if err != nil {
		return errors.Trace(err)
	}
	switch kind {
	case transfer.KindMissing:
		return errors.Errorf("script %q not found on device", ":/"+norm)
	case transfer.KindDir:
		return errors.Errorf("%q is a directory, not a runnable script", ":/"+norm)
	}

	escaped := strings.ReplaceAll("/"+norm, "'", `\'`)
	ourutil.Reportf("Running %s on %s...", norm, port)
	return errors.Trace(client.Exec(ctx, fmt.Sprintf("exec(open('%s').read())", escaped)))
}

// Diagnostics implements the "diagnostics" command.
func Diagnostics(ctx context.Context, cfg *config.Config) error {
	port, err := devutil.GetPort(cfg)
	if err != nil {
		return errors.Trace(err)
	}
	client := mpremote.NewClient(port)
	ourutil.Reportf("Running diagnostics on %s...", port)

	var errs error
	steps := []struct {
		desc string
		run  func() error
	}{
		{"Memory info (micropython.mem_info)", func() error {
			out, err := client.ExecOutput(ctx, "import micropython; micropython.mem_info(1)")
			fmt.Print(out)
			return err
		}},
		{"Filesystem usage (fs df)", func() error {
			return client.Df(ctx)
		}},
		{"Free GC memory (gc.mem_free)", func() error {
			out, err := client.ExecOutput(ctx, "import gc; gc.collect(); print(gc.mem_free())")
			fmt.Print(out)
			return err
		}},
		{"Root listing", func() error {
			items, err := client.ListTop(ctx, "/")
			for _, it := range items {
				if it.Dir {
					fmt.Printf("%s/\n", it.Rel)
				} else {
					fmt.Printf("%s\n", it.Rel)
				}
			}
			return err
		}},
	}
	for _, step := range steps {
		ourutil.Reportf("\n--- %s ---", step.desc)
		if err := step.run(); err != nil {
			ourutil.Reportf("Error: %v", err)
			errs = multierror.Append(errs, errors.Annotatef(err, "%s", step.desc))
		}
	}
	if errs != nil {
		ourutil.Reportf("\nDiagnostics completed with some errors.")
		return errs
	}
	ourutil.Reportf("\nDiagnostics completed. Review output above.")
	return nil
}
