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
	"reflect"
	"strings"
	"testing"
)

type fakeOracle struct {
	kinds map[string]EntryKind
	lists map[string][]Entry
}

func (f *fakeOracle) Kind(_ context.Context, p string) (EntryKind, error) {
	return f.kinds[p], nil
}

func (f *fakeOracle) ListRecursive(_ context.Context, dir string) ([]Entry, error) {
	return f.lists[dir], nil
}

func TestNewPathSpec(t *testing.T) {
	cases := []struct {
		raw      string
		clean    string
		trailing bool
	}{
		{"main.py", "main.py", false},
		{"lib/", "lib", true},
		{"lib", "lib", false},
		{"/logs/", "/logs", true},
		{"//", "/", true},
		{"/", "/", false},
		{"./", ".", true},
		{"a\\b\\", "a/b", true},
		{"a/b//", "a/b", true},
	}
	for _, c := range cases {
		p := NewPathSpec(c.raw)
		if p.Clean() != c.clean || p.TrailingSep() != c.trailing {
			t.Errorf("NewPathSpec(%q) = (%q, %v), want (%q, %v)",
				c.raw, p.Clean(), p.TrailingSep(), c.clean, c.trailing)
		}
	}
}

func TestResolveFileOmittedDest(t *testing.T) {
	ctx := context.Background()
	src := &fakeOracle{kinds: map[string]EntryKind{"src/app.py": KindFile}}
	dst := &fakeOracle{kinds: map[string]EntryKind{}}

	for _, c := range []struct {
		dir  Direction
		want string
	}{
		{Upload, "/app.py"},
		{Download, "app.py"},
	} {
		plan, err := Resolve(ctx, Request{
			Direction:  c.dir,
			Source:     NewPathSpec("src/app.py"),
			SourceKind: KindFile,
		}, src, dst)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		want := &Plan{Ops: []Op{{Source: "src/app.py", Dest: c.want}}}
		if !reflect.DeepEqual(plan, want) {
			t.Errorf("direction %v: got %+v, want %+v", c.dir, plan, want)
		}
	}
}

func TestResolveFileDestDirectory(t *testing.T) {
	ctx := context.Background()
	src := &fakeOracle{}
	dst := &fakeOracle{kinds: map[string]EntryKind{"backups": KindDir}}

	cases := []struct {
		name     string
		dir      Direction
		dest     string
		wantDest string
		wantDirs []string
	}{
		{"upload into nested dir", Upload, "lib/util", "lib/util/app.py", []string{"lib", "lib/util"}},
		{"download into existing dir", Download, "backups", "backups/app.py", []string{"backups"}},
		{"download trailing slash dest", Download, "out/", "out/app.py", []string{"out"}},
		{"download rename target", Download, "copy.py", "copy.py", nil},
		{"download rename into subdir", Download, "out/copy.py", "out/copy.py", []string{"out"}},
	}
	for _, c := range cases {
		plan, err := Resolve(ctx, Request{
			Direction:  c.dir,
			Source:     NewPathSpec("app.py"),
			Dest:       NewPathSpec(c.dest),
			SourceKind: KindFile,
		}, src, dst)
		if err != nil {
			t.Fatalf("%s: Resolve: %v", c.name, err)
		}
		if len(plan.Ops) != 1 || plan.Ops[0].Dest != c.wantDest {
			t.Errorf("%s: ops = %+v, want single op to %q", c.name, plan.Ops, c.wantDest)
		}
		if !reflect.DeepEqual(plan.Dirs, c.wantDirs) {
			t.Errorf("%s: dirs = %v, want %v", c.name, plan.Dirs, c.wantDirs)
		}
	}
}

func TestResolveDirTrailingSeparator(t *testing.T) {
	ctx := context.Background()
	entries := []Entry{
		{Rel: "file1.py", Dir: false},
		{Rel: "subdir", Dir: true},
		{Rel: "subdir/file2.py", Dir: false},
	}
	src := &fakeOracle{
		kinds: map[string]EntryKind{"local_project": KindDir},
		lists: map[string][]Entry{"local_project": entries},
	}
	dst := &fakeOracle{}

	// Trailing separator: contents are re-rooted with no extra segment.
	plan, err := Resolve(ctx, Request{
		Direction:  Upload,
		Source:     NewPathSpec("local_project/"),
		SourceKind: KindDir,
	}, src, dst)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := &Plan{
		Ops: []Op{
			{Source: "local_project/file1.py", Dest: "/file1.py"},
			{Source: "local_project/subdir/file2.py", Dest: "/subdir/file2.py"},
		},
		Dirs: []string{"/subdir"},
	}
	if !reflect.DeepEqual(plan, want) {
		t.Errorf("contents upload: got %+v, want %+v", plan, want)
	}

	// No trailing separator: the directory's own name is prepended.
	plan, err = Resolve(ctx, Request{
		Direction:  Upload,
		Source:     NewPathSpec("local_project"),
		SourceKind: KindDir,
	}, src, dst)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for _, op := range plan.Ops {
		if !strings.HasPrefix(op.Dest, "/local_project/") {
			t.Errorf("dest %q not rooted under /local_project", op.Dest)
		}
	}
	wantDirs := []string{"/local_project", "/local_project/subdir"}
	if !reflect.DeepEqual(plan.Dirs, wantDirs) {
		t.Errorf("dirs = %v, want %v", plan.Dirs, wantDirs)
	}
}

func TestResolveRootContentsDownload(t *testing.T) {
	ctx := context.Background()
	src := &fakeOracle{
		kinds: map[string]EntryKind{"/": KindDir},
		lists: map[string][]Entry{"/": {
			{Rel: "boot.py", Dir: false},
			{Rel: "main.py", Dir: false},
		}},
	}
	plan, err := Resolve(ctx, Request{
		Direction:  Download,
		Source:     NewPathSpec("//"),
		Dest:       NewPathSpec("full_backup"),
		SourceKind: KindDir,
	}, src, &fakeOracle{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := &Plan{
		Ops: []Op{
			{Source: "/boot.py", Dest: "full_backup/boot.py"},
			{Source: "/main.py", Dest: "full_backup/main.py"},
		},
		Dirs: []string{"full_backup"},
	}
	if !reflect.DeepEqual(plan, want) {
		t.Errorf("got %+v, want %+v", plan, want)
	}
}

func TestResolveMissingSource(t *testing.T) {
	plan, err := Resolve(context.Background(), Request{
		Direction:  Upload,
		Source:     NewPathSpec("nope.py"),
		SourceKind: KindMissing,
	}, &fakeOracle{}, &fakeOracle{})
	if plan != nil {
		t.Errorf("expected no plan, got %+v", plan)
	}
	if _, ok := err.(*InvalidSourceError); !ok {
		t.Errorf("expected InvalidSourceError, got %T: %v", err, err)
	}
}

func TestResolveRootSourceWithoutSeparator(t *testing.T) {
	_, err := Resolve(context.Background(), Request{
		Direction:  Download,
		Source:     NewPathSpec("/"),
		SourceKind: KindDir,
	}, &fakeOracle{}, &fakeOracle{})
	if err == nil {
		t.Error("expected error for bare root source")
	}
}

func TestDirOrderingParentsFirst(t *testing.T) {
	ctx := context.Background()
	src := &fakeOracle{
		lists: map[string][]Entry{"proj": {
			{Rel: "a/b/c/deep.py", Dir: false},
			{Rel: "a/b/c", Dir: true},
			{Rel: "a/b", Dir: true},
			{Rel: "a", Dir: true},
			{Rel: "z.py", Dir: false},
		}},
	}
	plan, err := Resolve(ctx, Request{
		Direction:  Upload,
		Source:     NewPathSpec("proj"),
		Dest:       NewPathSpec("lib"),
		SourceKind: KindDir,
	}, src, &fakeOracle{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	seen := map[string]int{}
	for i, d := range plan.Dirs {
		seen[d] = i
	}
	for _, op := range plan.Ops {
		parent := op.Dest[:strings.LastIndex(op.Dest, "/")]
		if _, ok := seen[parent]; !ok {
			t.Errorf("parent %q of op dest %q missing from dirs %v", parent, op.Dest, plan.Dirs)
		}
	}
	for d, i := range seen {
		for j := 0; j < i; j++ {
			if strings.HasPrefix(plan.Dirs[j], d+"/") {
				t.Errorf("child %q ordered before parent %q", plan.Dirs[j], d)
			}
		}
	}
}
