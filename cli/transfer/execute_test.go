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
	"testing"

	"github.com/juju/errors"
)

type recorder struct {
	events  []string
	failOn  string
	copied  []Op
	created []string
}

func (r *recorder) MkdirAll(_ context.Context, dir string) error {
	r.events = append(r.events, "mkdir "+dir)
	r.created = append(r.created, dir)
	return nil
}

func (r *recorder) CopyFile(_ context.Context, src, dst string) error {
	if src == r.failOn {
		return errors.Errorf("device went away")
	}
	r.events = append(r.events, "copy "+src)
	r.copied = append(r.copied, Op{Source: src, Dest: dst})
	return nil
}

func TestExecuteDirsBeforeCopies(t *testing.T) {
	plan := &Plan{
		Ops: []Op{
			{Source: "p/a.py", Dest: "/a.py"},
			{Source: "p/sub/b.py", Dest: "/sub/b.py"},
		},
		Dirs: []string{"/sub"},
	}
	r := &recorder{}
	if err := Execute(context.Background(), plan, r, r); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []string{"mkdir /sub", "copy p/a.py", "copy p/sub/b.py"}
	if !reflect.DeepEqual(r.events, want) {
		t.Errorf("events = %v, want %v", r.events, want)
	}
}

func TestExecuteAbandonsAfterFailure(t *testing.T) {
	plan := &Plan{
		Ops: []Op{
			{Source: "one.py", Dest: "/one.py"},
			{Source: "two.py", Dest: "/two.py"},
			{Source: "three.py", Dest: "/three.py"},
		},
	}
	r := &recorder{failOn: "two.py"}
	err := Execute(context.Background(), plan, r, r)
	te, ok := err.(*TransferError)
	if !ok {
		t.Fatalf("expected TransferError, got %T: %v", err, err)
	}
	if te.Op.Source != "two.py" {
		t.Errorf("failing op = %+v, want source two.py", te.Op)
	}
	// The first transfer stays in place, the third is never attempted.
	if len(r.copied) != 1 || r.copied[0].Source != "one.py" {
		t.Errorf("copied = %+v, want only one.py", r.copied)
	}
}
