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
	"path"
	"sort"

	"github.com/juju/errors"
)

// Request describes one transfer to resolve. SourceKind is the kind of
// Source on the source side, looked up by the caller.
type Request struct {
	Direction  Direction
	Source     PathSpec
	Dest       PathSpec
	SourceKind EntryKind
}

// destRoot is where files land when the destination is omitted: the
// device root for uploads, the current directory for downloads.
func (r Request) destRoot() string {
	if r.Direction == Upload {
		return "/"
	}
	return "."
}

// Resolve computes the transfer plan for req. src and dst are the
// oracles for the source and destination sides (local filesystem and
// device, or vice versa, depending on direction).
//
// A file source yields a single operation. A directory source with a
// trailing separator copies its contents; without one it copies the
// directory itself, adding one extra path segment. "//" as a source
// denotes the contents of the remote root. A missing source fails with
// InvalidSourceError and no plan is produced.
func Resolve(ctx context.Context, req Request, src, dst Oracle) (*Plan, error) {
	switch req.SourceKind {
	case KindFile:
		return resolveFile(ctx, req, dst)
	case KindDir:
		return resolveDir(ctx, req, src)
	default:
		return nil, &InvalidSourceError{Path: req.Source.Raw()}
	}
}

func resolveFile(ctx context.Context, req Request, dst Oracle) (*Plan, error) {
	srcPath := req.Source.Clean()
	if req.Dest.IsZero() {
		return &Plan{
			Ops: []Op{{Source: srcPath, Dest: path.Join(req.destRoot(), req.Source.Base())}},
		}, nil
	}

	destClean := req.Dest.Clean()
	dirs := map[string]struct{}{}

	// A download with an explicit destination that is not marked as and
	// does not resolve to a directory is a direct rename. Everything
	// else treats the destination as the target directory.
	rename := false
	if req.Direction == Download && !req.Dest.TrailingSep() {
		kind, err := dst.Kind(ctx, destClean)
		if err != nil {
			return nil, errors.Trace(err)
		}
		rename = kind != KindDir
	}

	var final string
	if rename {
		final = destClean
		addDirChain(dirs, path.Dir(destClean))
	} else {
		final = path.Join(destClean, req.Source.Base())
		addDirChain(dirs, destClean)
	}
	return &Plan{
		Ops:  []Op{{Source: srcPath, Dest: final}},
		Dirs: sortedDirs(dirs),
	}, nil
}

func resolveDir(ctx context.Context, req Request, src Oracle) (*Plan, error) {
	srcDir := req.Source.Clean()
	if srcDir == "/" && !req.Source.TrailingSep() {
		return nil, errors.Errorf("cannot copy the root directory itself; use a trailing separator to copy its contents")
	}

	destBase := req.destRoot()
	if !req.Dest.IsZero() {
		destBase = req.Dest.Clean()
	}
	if !req.Source.TrailingSep() {
		destBase = path.Join(destBase, req.Source.Base())
	}

	entries, err := src.ListRecursive(ctx, srcDir)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to list %q", req.Source.Raw())
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Rel < entries[j].Rel })

	dirs := map[string]struct{}{}
	addDirChain(dirs, destBase)

	var ops []Op
	for _, e := range entries {
		target := path.Join(destBase, e.Rel)
		if e.Dir {
			addDirChain(dirs, target)
			continue
		}
		addDirChain(dirs, path.Dir(target))
		ops = append(ops, Op{Source: path.Join(srcDir, e.Rel), Dest: target})
	}
	return &Plan{Ops: ops, Dirs: sortedDirs(dirs)}, nil
}

// addDirChain records dir and all of its ancestors, stopping at the
// root of either side.
func addDirChain(set map[string]struct{}, dir string) {
	for d := dir; d != "/" && d != "." && d != ""; d = path.Dir(d) {
		set[d] = struct{}{}
	}
}

// sortedDirs flattens the set in lexicographic order, which puts every
// parent before any of its children.
func sortedDirs(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	dirs := make([]string, 0, len(set))
	for d := range set {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}
