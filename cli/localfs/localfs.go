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

// Package localfs is the host-side transfer oracle.
package localfs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/juju/errors"

	"github.com/esp32-micropython/esp32/cli/transfer"
)

type FS struct{}

func (FS) Kind(_ context.Context, path string) (transfer.EntryKind, error) {
	fi, err := os.Stat(filepath.FromSlash(path))
	if err != nil {
		if os.IsNotExist(err) {
			return transfer.KindMissing, nil
		}
		return transfer.KindMissing, errors.Trace(err)
	}
	if fi.IsDir() {
		return transfer.KindDir, nil
	}
	return transfer.KindFile, nil
}

func (FS) ListRecursive(_ context.Context, dir string) ([]transfer.Entry, error) {
	root := filepath.FromSlash(dir)
	var entries []transfer.Entry
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		entries = append(entries, transfer.Entry{Rel: filepath.ToSlash(rel), Dir: d.IsDir()})
		return nil
	})
	if err != nil {
		return nil, errors.Annotatef(err, "failed to walk %q", dir)
	}
	return entries, nil
}

func (FS) MkdirAll(_ context.Context, dir string) error {
	return errors.Trace(os.MkdirAll(filepath.FromSlash(dir), 0755))
}
