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
	"strings"

	"github.com/juju/errors"
	flag "github.com/spf13/pflag"

	"github.com/esp32-micropython/esp32/cli/config"
	"github.com/esp32-micropython/esp32/cli/devutil"
	"github.com/esp32-micropython/esp32/cli/flags"
	"github.com/esp32-micropython/esp32/cli/mpremote"
	"github.com/esp32-micropython/esp32/cli/ourutil"
	"github.com/esp32-micropython/esp32/cli/transfer"
	"github.com/esp32-micropython/esp32/common/multierror"
)

// Delete implements the "delete" command. With no argument (or "/") it
// wipes the contents of the device root, which requires confirmation.
func Delete(ctx context.Context, cfg *config.Config) error {
	args := flag.Args()
	target := ""
	if len(args) >= 2 {
		target = strings.TrimSpace(args[1])
	}

	port, err := devutil.GetPort(cfg)
	if err != nil {
		return errors.Trace(err)
	}
	client := mpremote.NewClient(port)

	norm := strings.Trim(target, "/")
	if norm == "" {
		return errors.Trace(deleteRootContents(ctx, client))
	}

	kind, err := client.Kind(ctx, norm)
	if err != nil {
		return errors.Trace(err)
	}
	if kind == transfer.KindMissing {
		return errors.Errorf("remote path %q does not exist on device", ":/"+norm)
	}
	ourutil.Reportf("Deleting :/%s (%s)...", norm, kind)
	if err := client.RemoveRecursive(ctx, norm); err != nil {
		return errors.Annotatef(err, "failed to delete %q", ":/"+norm)
	}
	ourutil.Reportf("Deleted :/%s.", norm)
	return nil
}

func deleteRootContents(ctx context.Context, client *mpremote.Client) error {
	if !*flags.Force {
		ourutil.Reportf("WARNING: you are about to delete all files and directories from the root of the device.")
		if !ourutil.Confirm("Are you sure?") {
			ourutil.Reportf("Operation cancelled.")
			return nil
		}
	}

	ourutil.Reportf("Fetching root directory contents for deletion...")
	items, err := client.ListTop(ctx, "/")
	if err != nil {
		return errors.Annotatef(err, "failed to list root directory")
	}
	if len(items) == 0 {
		ourutil.Reportf("Root directory is already empty.")
		return nil
	}

	var errs error
	for _, item := range items {
		ourutil.Reportf("Deleting :/%s...", item.Rel)
		if err := client.RemoveRecursive(ctx, item.Rel); err != nil {
			ourutil.Reportf("  Error deleting :/%s: %v", item.Rel, err)
			errs = multierror.Append(errs, errors.Annotatef(err, "%s", item.Rel))
		}
	}
	if errs != nil {
		return errors.Annotatef(errs, "deletion of root contents finished with errors")
	}
	ourutil.Reportf("Deletion of root contents complete.")
	return nil
}
