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
	"fmt"
	"strings"
)

// Error collects several errors behind a single error value. Commands
// that process many items (deleting root entries, uploading a whole
// directory) keep going after individual failures and report them all.
type Error struct {
	errs []error
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s) occurred:", len(e.errs))
	for _, err := range e.errs {
		fmt.Fprintf(&sb, "\n  %s", err.Error())
	}
	return sb.String()
}

// Errors returns the individual collected errors.
func (e *Error) Errors() []error {
	return e.errs
}

// Append adds errs to err. err may be nil, an *Error, or any other
// error; the result is always an *Error.
func Append(err error, errs ...error) error {
	if err == nil {
		return &Error{errs: errs}
	}
	if me, ok := err.(*Error); ok {
		me.errs = append(me.errs, errs...)
		return me
	}
	return &Error{errs: append([]error{err}, errs...)}
}
