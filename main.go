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
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/juju/errors"
	flag "github.com/spf13/pflag"

	"github.com/esp32-micropython/esp32/cli/config"
	"github.com/esp32-micropython/esp32/cli/console"
	"github.com/esp32-micropython/esp32/cli/devutil"
	"github.com/esp32-micropython/esp32/cli/flags"
	"github.com/esp32-micropython/esp32/cli/flash"
	"github.com/esp32-micropython/esp32/cli/fs"
	"github.com/esp32-micropython/esp32/cli/ourutil"
	"github.com/esp32-micropython/esp32/common/pflagenv"
	"github.com/esp32-micropython/esp32/version"
)

const envPrefix = "ESP32_"

var (
	versionFlag = flag.Bool("version", false, "Print version and exit")
	helpFull    = flag.Bool("helpfull", false, "Show full help, including advanced flags")
)

type handler func(ctx context.Context, cfg *config.Config) error

type command struct {
	name     string
	handler  handler
	short    string
	hidden   bool
	optional []string
}

var commands = []command{
	{"devices", devutil.Devices, `List serial ports and mark the selected device`, false, nil},
	{"device", devutil.Device, `Select a device port, or test the current one`, false, []string{"force"}},
	{"flash", flash.Flash, `Erase the chip and flash MicroPython firmware`, false, []string{"port", "chip", "baud", "esptool", "force"}},
	{"upload", fs.Upload, `Upload a file or directory to the device`, false, []string{"port", "mpremote"}},
	{"upload_all_cwd", fs.UploadAllCwd, `Upload everything in the current directory`, false, []string{"port", "mpremote"}},
	{"download", fs.Download, `Download a file or directory from the device`, false, []string{"port", "mpremote"}},
	{"list", fs.Ls, `List files on the device recursively`, false, []string{"port", "mpremote"}},
	{"ls", fs.Ls, `Alias for list`, true, []string{"port", "mpremote"}},
	{"tree", fs.Tree, `Show the device filesystem as a tree`, false, []string{"port", "mpremote"}},
	{"delete", fs.Delete, `Delete a file or directory on the device`, false, []string{"port", "mpremote", "force"}},
	{"run", fs.Run, `Run a script that is already on the device (default main.py)`, false, []string{"port", "mpremote"}},
	{"diagnostics", fs.Diagnostics, `Print memory and filesystem health info`, false, []string{"port", "mpremote"}},
	{"console", console.Console, `Attach a serial console to the device`, false, []string{"port", "baud-rate"}},
}

func run(ctx context.Context, cfg *config.Config) error {
	for _, c := range commands {
		if c.name == flag.Arg(0) {
			return errors.Trace(c.handler(ctx, cfg))
		}
	}
	usage()
	return nil
}

func main() {
	initFlags()
	flag.Parse()
	pflagenv.Parse(envPrefix)

	if *helpFull {
		unhideFlags()
		usage()
		return
	}
	if *versionFlag {
		fmt.Printf("%s\nVersion: %s\nBuild ID: %s\n",
			"The ESP32 MicroPython deployment tool", version.Version, version.BuildId)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		ourutil.Reportf("Warning: %v, starting with an empty config", err)
	}
	if f := flag.Lookup("port"); f != nil && f.Changed {
		cfg.Port = *flags.Port
	}

	if err := run(context.Background(), cfg); err != nil {
		glog.Infof("Error: %+v", err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
