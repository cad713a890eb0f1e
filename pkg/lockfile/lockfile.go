// Copyright 2025 walteh LLC
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

// Package lockfile provides a pid lock file guarding against overlapping
// runs over the same manifest. The engine itself does not enforce
// at-most-one instance; this is the optional hardening for schedulers
// that might fire a run while the previous one is still in flight.
package lockfile

import (
	"fmt"
	"os"

	"gitlab.com/tozd/go/errors"
)

// 🔒 ErrHeld means another process already holds the lock.
var ErrHeld = errors.New("lock file already held")

// 🔑 Lock is an acquired lock file.
type Lock struct {
	path string
}

// 🔒 Acquire creates the lock file exclusively and writes the pid into it.
// A pre-existing file yields ErrHeld.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.Errorf("acquiring %s: %w", path, ErrHeld)
		}
		return nil, errors.Errorf("acquiring %s: %w", path, err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, errors.Errorf("writing %s: %w", path, err)
	}
	return &Lock{path: path}, nil
}

// 🔓 Release removes the lock file.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil {
		return errors.Errorf("releasing %s: %w", l.path, err)
	}
	return nil
}
