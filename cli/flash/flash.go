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
package flash

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/juju/errors"
	flag "github.com/spf13/pflag"

	"github.com/esp32-micropython/esp32/cli/config"
	"github.com/esp32-micropython/esp32/cli/devutil"
	"github.com/esp32-micropython/esp32/cli/flags"
	"github.com/esp32-micropython/esp32/cli/ourutil"
)

// DefaultFirmwareURL is the MicroPython build flashed when no firmware
// argument is given.
const DefaultFirmwareURL = "https://micropython.org/resources/firmware/ESP32_GENERIC_C3-20250415-v1.25.0.bin"

const (
	eraseTimeout = 3 * time.Minute
	writeTimeout = 10 * time.Minute
	versionProbe = 15 * time.Second
)

// Flash erases the chip and writes a MicroPython firmware image using
// the external esptool binary.
func Flash(ctx context.Context, cfg *config.Config) error {
	port, err := devutil.GetPort(cfg)
	if err != nil {
		return errors.Trace(err)
	}

	fwArg := ""
	if args := flag.Args(); len(args) >= 2 {
		fwArg = args[1]
	}
	fwFile, cleanup, err := resolveFirmware(fwArg)
	if err != nil {
		return errors.Trace(err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	if err := checkEsptool(ctx); err != nil {
		return errors.Trace(err)
	}

	ourutil.Reportf("Flashing %s (chip %s) on %s", fwFile, *flags.Chip, port)
	ourutil.Reportf("")
	ourutil.Reportf("Put the board in bootloader mode first:")
	ourutil.Reportf("  1. Hold the BOOT button")
	ourutil.Reportf("  2. Press and release RESET (or re-plug USB) while holding BOOT")
	ourutil.Reportf("  3. Release BOOT")
	ourutil.Reportf("")
	if !*flags.Force {
		if !ourutil.Confirm("This will ERASE the entire flash.") {
			return errors.Errorf("flash aborted")
		}
	}

	ourutil.Reportf("Erasing flash...")
	if err := ourutil.RunCmd(ctx, eraseTimeout, ourutil.CmdOutAlways,
		*flags.EsptoolPath, "--chip", *flags.Chip, "--port", port, "erase_flash"); err != nil {
		if strings.Contains(err.Error(), "Could not connect") {
			return errors.Annotatef(err, "esptool could not connect; is the board in bootloader mode?")
		}
		return errors.Annotatef(err, "erase_flash failed")
	}

	ourutil.Reportf("Writing firmware at 0x0 (baud %d)...", *flags.FlashBaudRate)
	if err := ourutil.RunCmd(ctx, writeTimeout, ourutil.CmdOutAlways,
		*flags.EsptoolPath, "--chip", *flags.Chip, "--port", port,
		"--baud", fmt.Sprintf("%d", *flags.FlashBaudRate),
		"write_flash", "-z", "0x0", fwFile); err != nil {
		return errors.Annotatef(err, "write_flash failed")
	}

	ourutil.Reportf("Flash complete, waiting for the board to boot...")
	time.Sleep(5 * time.Second)

	if err := devutil.VerifyMicroPython(ctx, port); err != nil {
		ourutil.Reportf("Warning: could not verify MicroPython after flashing: %v", err)
		ourutil.Reportf("Try re-plugging the board and running \"esp32 device\".")
		return nil
	}
	ourutil.Reportf("MicroPython is up on %s.", port)
	return nil
}

// resolveFirmware turns the optional firmware argument into a local
// file path, downloading URLs to a temp file. The returned cleanup
// func, if non-nil, removes the temp file.
func resolveFirmware(arg string) (string, func(), error) {
	src := arg
	if src == "" {
		ourutil.Reportf("No firmware given, using the default MicroPython build for ESP32-C3.")
		src = DefaultFirmwareURL
	}
	if ourutil.IsURL(src) {
		fname, err := ourutil.FetchToTemp(src, ".bin")
		if err != nil {
			return "", nil, errors.Annotatef(err, "failed to fetch firmware %s", src)
		}
		return fname, func() { os.Remove(fname) }, nil
	}
	if _, err := os.Stat(src); err != nil {
		return "", nil, errors.Annotatef(err, "firmware file %s", src)
	}
	return src, nil, nil
}

func checkEsptool(ctx context.Context) error {
	out, err := ourutil.GetCommandOutput(ctx, versionProbe, *flags.EsptoolPath, "version")
	if err != nil {
		return errors.Annotatef(err, "esptool is not available (try \"pip install esptool\")")
	}
	ourutil.Reportf("Using %s", strings.TrimSpace(strings.SplitN(out, "\n", 2)[0]))
	return nil
}
