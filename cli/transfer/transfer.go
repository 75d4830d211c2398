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

// Package transfer plans and executes file transfers between the host
// and the device filesystem. Both directions share one algorithm,
// parameterized by a pair of filesystem oracles; the trailing separator
// on the source path selects between copying a directory itself and
// copying its contents.
package transfer

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// EntryKind classifies a path on either side of a transfer.
type EntryKind int

const (
	KindMissing EntryKind = iota
	KindFile
	KindDir
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	default:
		return "missing"
	}
}

// Direction of a transfer. Upload is host to device, download is
// device to host.
type Direction int

const (
	Upload Direction = iota
	Download
)

// PathSpec is a user-supplied path on either side of a transfer.
// The trailing separator is significant for directories and is
// preserved separately from the cleaned path.
type PathSpec struct {
	raw      string
	clean    string
	trailing bool
}

// NewPathSpec parses raw into a PathSpec. Backslashes are treated as
// separators too so that Windows-style local paths behave. The special
// form "//" cleans to "/" with the trailing flag set, denoting the
// contents of the remote root.
func NewPathSpec(raw string) PathSpec {
	s := strings.ReplaceAll(raw, "\\", "/")
	trailing := strings.HasSuffix(s, "/") && s != "/"
	clean := strings.TrimRight(s, "/")
	if clean == "" {
		if strings.HasPrefix(s, "/") {
			clean = "/"
		} else {
			clean = "."
		}
	}
	return PathSpec{raw: raw, clean: path.Clean(clean), trailing: trailing}
}

// Raw returns the path as the user typed it.
func (p PathSpec) Raw() string { return p.raw }

// Clean returns the normalized path: forward slashes, no trailing
// separator ("/" and "." excepted).
func (p PathSpec) Clean() string { return p.clean }

// TrailingSep reports whether the raw path ended in a separator.
func (p PathSpec) TrailingSep() bool { return p.trailing }

// IsZero reports whether the spec was omitted entirely.
func (p PathSpec) IsZero() bool { return p.raw == "" }

// Base returns the final path component of the cleaned path.
func (p PathSpec) Base() string { return path.Base(p.clean) }

// Entry is one item found by a recursive listing, relative to the
// listed directory.
type Entry struct {
	Rel string
	Dir bool
}

// Oracle answers existence and listing queries for one side of a
// transfer. ListRecursive returns forward-slash paths relative to dir.
type Oracle interface {
	Kind(ctx context.Context, path string) (EntryKind, error)
	ListRecursive(ctx context.Context, dir string) ([]Entry, error)
}

// Op is a single planned file copy.
type Op struct {
	Source string
	Dest   string
}

// Plan is the result of resolving a transfer request: the ordered file
// copies to perform and the destination directories that must exist
// before any of them run, parents before children. A plan is computed
// fresh per invocation and not modified afterwards.
type Plan struct {
	Ops  []Op
	Dirs []string
}

// InvalidSourceError means the transfer source does not exist.
type InvalidSourceError struct {
	Path string
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("source path %q does not exist", e.Path)
}

// TransferError reports the specific operation that failed mid-plan.
// Operations planned after it were not attempted; completed ones are
// left in place.
type TransferError struct {
	Op  Op
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("failed to copy %q to %q: %v", e.Op.Source, e.Op.Dest, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
