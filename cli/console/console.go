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
package console

import (
	"context"
	"io"
	"os"

	"github.com/cesanta/go-serial/serial"
	"github.com/juju/errors"

	"github.com/esp32-micropython/esp32/cli/config"
	"github.com/esp32-micropython/esp32/cli/devutil"
	"github.com/esp32-micropython/esp32/cli/flags"
	"github.com/esp32-micropython/esp32/cli/ourutil"
)

// Console attaches the terminal to the device's serial port: device
// output goes to stdout, stdin goes to the device. Useful for watching
// boot messages and for the interactive REPL. Ctrl-C (or the device
// going away) ends the session.
func Console(ctx context.Context, cfg *config.Config) error {
	port, err := devutil.GetPort(cfg)
	if err != nil {
		return errors.Trace(err)
	}

	sp, err := serial.Open(serial.OpenOptions{
		PortName:        port,
		BaudRate:        uint(*flags.BaudRate),
		DataBits:        8,
		ParityMode:      serial.PARITY_NONE,
		StopBits:        1,
		MinimumReadSize: 1,
	})
	if err != nil {
		return errors.Annotatef(err, "failed to open %s", port)
	}
	defer sp.Close()

	ourutil.Reportf("Connected to %s at %d baud. Press Ctrl-C to exit.", port, *flags.BaudRate)
	return readWrite(ctx, sp, sp)
}

func readWrite(ctx context.Context, r io.Reader, w io.Writer) error {
	cctx, cancel := context.WithCancel(ctx)
	go func() { // Serial -> Stdout
		for {
			buf := make([]byte, 1500)
			n, err := r.Read(buf)
			if n > 0 {
				sanitize(buf[:n])
				os.Stdout.Write(buf[:n])
			}
			if err != nil {
				if err != io.EOF {
					ourutil.Reportf("read error: %v", err)
				}
				cancel()
				return
			}
		}
	}()
	go func() { // Stdin -> Serial
		for {
			buf := make([]byte, 1)
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				w.Write(buf[:n])
			}
			if err != nil {
				cancel()
				return
			}
		}
	}()
	<-cctx.Done()
	return nil
}

// sanitize blanks control bytes that would mangle the terminal,
// keeping newlines, CR and Esc so ANSI output still renders.
func sanitize(data []byte) {
	for i, c := range data {
		if c < 0x20 && c != 0x0a && c != 0x0d && c != 0x1b {
			data[i] = 0x20
		}
	}
}
