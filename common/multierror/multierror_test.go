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
package multierror

import (
	"testing"

	"github.com/juju/errors"
)

func TestAppend(t *testing.T) {
	var err error
	err = Append(err, errors.Errorf("upload lib failed"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if got, want := err.Error(), `1 error(s) occurred:
  upload lib failed`; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}

	err = Append(err, errors.Errorf("upload main.py failed"))
	if got, want := err.Error(), `2 error(s) occurred:
  upload lib failed
  upload main.py failed`; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}

	err = errors.Errorf("old error")
	err = Append(err, errors.Errorf("new error"))
	if got, want := err.Error(), `2 error(s) occurred:
  old error
  new error`; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}

	me, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if got, want := len(me.Errors()), 2; got != want {
		t.Errorf("got %d errors, want %d", got, want)
	}
}
