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
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/juju/errors"
	flag "github.com/spf13/pflag"

	"github.com/esp32-micropython/esp32/cli/config"
	"github.com/esp32-micropython/esp32/cli/devutil"
	"github.com/esp32-micropython/esp32/cli/mpremote"
	"github.com/esp32-micropython/esp32/cli/ourutil"
	"github.com/esp32-micropython/esp32/cli/transfer"
)

// remoteDirListing stats the optional directory argument and fetches
// its recursive listing. dir is "" for the root.
func remoteDirListing(ctx context.Context, cfg *config.Config) (string, []transfer.Entry, error) {
	args := flag.Args()
	dir := ""
	if len(args) >= 2 {
		dir = strings.Trim(args[1], "/")
	}

	port, err := devutil.GetPort(cfg)
	if err != nil {
		return "", nil, errors.Trace(err)
	}
	client := mpremote.NewClient(port)

	if dir != "" {
		kind, err := client.Kind(ctx, dir)
		if err != nil {
			return "", nil, errors.Trace(err)
		}
		switch kind {
		case transfer.KindMissing:
			return "", nil, errors.Errorf("remote path %q not found", ":/"+dir)
		case transfer.KindFile:
			return "", nil, errors.Errorf("%q is a file, not a directory; use 'download' for files", ":/"+dir)
		}
	}

	entries, err := client.ListRecursive(ctx, dir)
	if err != nil {
		return "", nil, errors.Trace(err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Rel < entries[j].Rel })
	return dir, entries, nil
}

// Ls implements the "list" command (recursive, like the listing the
// transfers are planned from).
func Ls(ctx context.Context, cfg *config.Config) error {
	dir, entries, err := remoteDirListing(ctx, cfg)
	if err != nil {
		return errors.Trace(err)
	}
	if len(entries) == 0 {
		ourutil.Reportf("Directory %q is empty.", ":/"+dir)
		return nil
	}
	for _, e := range entries {
		if e.Dir {
			fmt.Printf("%s/\n", e.Rel)
		} else {
			fmt.Printf("%s\n", e.Rel)
		}
	}
	return nil
}

// Tree implements the "tree" command.
func Tree(ctx context.Context, cfg *config.Config) error {
	dir, entries, err := remoteDirListing(ctx, cfg)
	if err != nil {
		return errors.Trace(err)
	}
	if len(entries) == 0 {
		ourutil.Reportf("Directory %q is empty.", ":/"+dir)
		return nil
	}
	root := "."
	if dir != "" {
		root = path.Base(dir)
	}
	renderTree(os.Stdout, root, entries)
	return nil
}

type treeNode struct {
	children map[string]*treeNode
}

func (n *treeNode) child(name string) *treeNode {
	if n.children == nil {
		n.children = map[string]*treeNode{}
	}
	c, ok := n.children[name]
	if !ok {
		c = &treeNode{}
		n.children[name] = c
	}
	return c
}

// renderTree prints the entries as an indented tree rooted at root.
func renderTree(w io.Writer, root string, entries []transfer.Entry) {
	top := &treeNode{}
	for _, e := range entries {
		n := top
		for _, part := range strings.Split(e.Rel, "/") {
			if part == "" {
				continue
			}
			n = n.child(part)
		}
	}
	fmt.Fprintln(w, root)
	printNodes(w, top, "")
}

func printNodes(w io.Writer, n *treeNode, prefix string) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(names)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, name)
		printNodes(w, n.children[name], childPrefix)
	}
}
