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
package transfer

import (
	"context"

	"github.com/juju/errors"
)

// DirMaker creates a directory and any missing parents on the
// destination side. Creating an existing directory is not an error.
type DirMaker interface {
	MkdirAll(ctx context.Context, dir string) error
}

// Copier performs a single planned file copy.
type Copier interface {
	CopyFile(ctx context.Context, src, dst string) error
}

// Execute runs the plan: all destination directories are created first,
// then the file operations in order. The first failing copy aborts the
// remaining operations and is reported as a TransferError; transfers
// completed before it are left in place.
func Execute(ctx context.Context, p *Plan, mk DirMaker, cp Copier) error {
	for _, dir := range p.Dirs {
		if err := mk.MkdirAll(ctx, dir); err != nil {
			return errors.Annotatef(err, "failed to create directory %q", dir)
		}
	}
	for _, op := range p.Ops {
		if err := cp.CopyFile(ctx, op.Source, op.Dest); err != nil {
			return &TransferError{Op: op, Err: err}
		}
	}
	return nil
}
