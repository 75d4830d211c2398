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
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"
)

type CmdOutMode int

const (
	CmdOutNever CmdOutMode = iota
	CmdOutAlways
	CmdOutOnError
)

// RunCmd executes an external tool with stdout/stderr handled per
// outMode. A zero timeout means no deadline beyond ctx.
func RunCmd(ctx context.Context, timeout time.Duration, outMode CmdOutMode, args ...string) error {
	glog.V(1).Infof("Running %s", strings.Join(args, " "))
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var buf bytes.Buffer
	switch outMode {
	case CmdOutNever:
		// Nothing.
	case CmdOutAlways:
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	case CmdOutOnError:
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	err := cmd.Run()
	if err != nil && outMode == CmdOutOnError {
		os.Stderr.Write(buf.Bytes())
	}
	if ctx.Err() == context.DeadlineExceeded {
		return errors.Errorf("%s timed out after %s", args[0], timeout)
	}
	return errors.Trace(err)
}

// GetCommandOutput executes an external tool and returns its stdout.
// On a non-zero exit the captured stderr is included in the error.
func GetCommandOutput(ctx context.Context, timeout time.Duration, command string, args ...string) (string, error) {
	glog.V(1).Infof("Running %s %s", command, strings.Join(args, " "))
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	out, err := exec.CommandContext(ctx, command, args...).Output()
	if ctx.Err() == context.DeadlineExceeded {
		return string(out), errors.Errorf("%s timed out after %s", command, timeout)
	}
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && len(ee.Stderr) > 0 {
			return string(out), errors.Annotatef(err, "%s: %s", command, strings.TrimSpace(string(ee.Stderr)))
		}
		return string(out), errors.Annotatef(err, "failed to run %s", command)
	}
	return string(out), nil
}
