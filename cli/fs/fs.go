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

// Package fs implements the device filesystem commands: upload,
// download, list, tree, delete and run.
package fs

import (
	"context"
	"os"
	"strings"

	"github.com/juju/errors"
	flag "github.com/spf13/pflag"

	"github.com/esp32-micropython/esp32/cli/config"
	"github.com/esp32-micropython/esp32/cli/devutil"
	"github.com/esp32-micropython/esp32/cli/localfs"
	"github.com/esp32-micropython/esp32/cli/mpremote"
	"github.com/esp32-micropython/esp32/cli/ourutil"
	"github.com/esp32-micropython/esp32/cli/transfer"
	"github.com/esp32-micropython/esp32/common/multierror"
)

// uploader copies host files onto the device.
type uploader struct {
	c *mpremote.Client
}

func (u uploader) CopyFile(ctx context.Context, src, dst string) error {
	ourutil.Reportf("  Uploading %s -> %s...", src, mpremote.Target(dst))
	return u.c.Cp(ctx, src, mpremote.Target(dst))
}

// downloader copies device files onto the host.
type downloader struct {
	c *mpremote.Client
}

func (d downloader) CopyFile(ctx context.Context, src, dst string) error {
	ourutil.Reportf("  Downloading %s -> %s...", mpremote.Target(src), dst)
	return d.c.Cp(ctx, mpremote.Target(src), dst)
}

// Upload implements the "upload" command.
func Upload(ctx context.Context, cfg *config.Config) error {
	args := flag.Args()
	if len(args) < 2 {
		return errors.Errorf("local source is required")
	}
	if len(args) > 3 {
		return errors.Errorf("extra arguments")
	}
	dest := ""
	if len(args) == 3 {
		dest = args[2]
	}
	port, err := devutil.GetPort(cfg)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(uploadOne(ctx, mpremote.NewClient(port), args[1], dest))
}

func uploadOne(ctx context.Context, client *mpremote.Client, source, dest string) error {
	src := transfer.NewPathSpec(source)
	var lfs localfs.FS

	kind, err := lfs.Kind(ctx, src.Clean())
	if err != nil {
		return errors.Trace(err)
	}
	if kind == transfer.KindFile && src.TrailingSep() {
		return errors.Errorf("source path %q ends with '/' but is not a directory", source)
	}

	plan, err := transfer.Resolve(ctx, transfer.Request{
		Direction:  transfer.Upload,
		Source:     src,
		Dest:       transfer.NewPathSpec(dest),
		SourceKind: kind,
	}, lfs, client)
	if err != nil {
		return errors.Trace(err)
	}
	if len(plan.Ops) == 0 {
		ourutil.Reportf("Local directory %q is empty. Nothing to upload.", source)
		return nil
	}
	if err := transfer.Execute(ctx, plan, client, uploader{client}); err != nil {
		return errors.Trace(err)
	}
	ourutil.Reportf("Upload complete. %d file(s) transferred.", len(plan.Ops))
	return nil
}

// Download implements the "download" command.
func Download(ctx context.Context, cfg *config.Config) error {
	args := flag.Args()
	if len(args) < 2 {
		return errors.Errorf("remote source is required")
	}
	if len(args) > 3 {
		return errors.Errorf("extra arguments")
	}
	source := args[1]
	if source == "/" {
		return errors.Errorf("ambiguous source '/': use '//' to download the contents of the "+
			"root directory, or '/%s' for a specific item", "<name>")
	}
	dest := ""
	if len(args) == 3 {
		dest = args[2]
	}

	port, err := devutil.GetPort(cfg)
	if err != nil {
		return errors.Trace(err)
	}
	client := mpremote.NewClient(port)
	src := transfer.NewPathSpec(source)
	var lfs localfs.FS

	kind, err := client.Kind(ctx, src.Clean())
	if err != nil {
		return errors.Trace(err)
	}
	plan, err := transfer.Resolve(ctx, transfer.Request{
		Direction:  transfer.Download,
		Source:     src,
		Dest:       transfer.NewPathSpec(dest),
		SourceKind: kind,
	}, client, lfs)
	if err != nil {
		return errors.Trace(err)
	}
	if len(plan.Ops) == 0 {
		ourutil.Reportf("Remote directory %q is empty. Nothing to download.", source)
		return nil
	}
	if err := transfer.Execute(ctx, plan, lfs, downloader{client}); err != nil {
		return errors.Trace(err)
	}
	ourutil.Reportf("Download complete. %d file(s) transferred.", len(plan.Ops))
	return nil
}

// UploadAllCwd implements the "upload_all_cwd" command: every eligible
// top-level entry of the working directory goes to the device root.
func UploadAllCwd(ctx context.Context, cfg *config.Config) error {
	port, err := devutil.GetPort(cfg)
	if err != nil {
		return errors.Trace(err)
	}
	client := mpremote.NewClient(port)

	dirEntries, err := os.ReadDir(".")
	if err != nil {
		return errors.Trace(err)
	}
	var items []string
	for _, e := range dirEntries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || name == "__pycache__" ||
			strings.HasSuffix(name, ".egg-info") || name == config.FileName {
			continue
		}
		items = append(items, name)
	}
	if len(items) == 0 {
		ourutil.Reportf("No items to upload in current directory (after filtering).")
		return nil
	}

	ourutil.Reportf("Uploading %d item(s) from current directory to device root...", len(items))
	var errs error
	for _, name := range items {
		if err := uploadOne(ctx, client, name, ""); err != nil {
			ourutil.Reportf("  Failed to upload %q: %v", name, err)
			errs = multierror.Append(errs, errors.Annotatef(err, "%s", name))
		}
	}
	return errs
}
