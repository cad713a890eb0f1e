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

// Package eraser destroys file content before removal so a deleted file
// never leaves recoverable bytes behind.
package eraser

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ⚠️ ErrZeroedNotRemoved reports that the overwrite succeeded but the
// directory entry could not be removed: the content is gone but the name
// still occupies the directory. Callers surface this distinctly because
// the file is unrecoverable yet still present.
var ErrZeroedNotRemoved = errors.New("file zeroed but not removed")

// zeroChunk is the write granularity for the overwrite pass.
const zeroChunk = 64 * 1024

// 🔥 Eraser overwrites then removes files.
type Eraser struct {
	// remove unlinks the directory entry after the overwrite. Swappable
	// in tests; defaults to os.Remove.
	remove func(path string) error
}

// 🏭 New creates an eraser.
func New() *Eraser {
	return &Eraser{remove: os.Remove}
}

// 🗑️ Erase overwrites the file's full current length with zeros, flushes
// to stable storage, then removes the directory entry. If the overwrite
// fails the file is left untouched and NOT removed.
func (e *Eraser) Erase(ctx context.Context, path string) error {
	logger := zerolog.Ctx(ctx)

	if err := e.zeroFill(path); err != nil {
		return errors.Errorf("overwriting %s: %w", path, err)
	}

	remove := e.remove
	if remove == nil {
		remove = os.Remove
	}
	if err := remove(path); err != nil {
		return errors.Errorf("removing %s: %w: %w", path, ErrZeroedNotRemoved, err)
	}

	logger.Debug().Str("file", path).Msg("securely erased")
	return nil
}

// zeroFill overwrites the file's existing content in place. The length is
// read under the same handle used for writing so the overwrite always
// covers the file as it currently exists.
func (e *Eraser) zeroFill(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return errors.Errorf("opening for overwrite: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return errors.Errorf("stating: %w", err)
	}

	zeros := make([]byte, zeroChunk)
	remaining := fi.Size()
	for remaining > 0 {
		n := int64(len(zeros))
		if remaining < n {
			n = remaining
		}
		if _, err := f.Write(zeros[:n]); err != nil {
			return errors.Errorf("writing zeros: %w", err)
		}
		remaining -= n
	}

	if err := f.Sync(); err != nil {
		return errors.Errorf("syncing: %w", err)
	}

	return nil
}
