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

// Package selector walks a file tree and yields files that match a rule's
// name filter and age threshold.
package selector

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🚫 ErrNotFound is returned when the rule's root does not exist or is not
// a directory.
var ErrNotFound = errors.New("root is not an existing directory")

// 🛑 ErrStop may be returned by a Visitor to end selection early without
// Select reporting an error.
var ErrStop = errors.New("selection stopped")

// 📦 Candidate is one file that matched a rule. Candidates are yielded one
// at a time and never retained by the selector.
type Candidate struct {
	Path    string    // absolute path
	ModTime time.Time // last modification time
	Size    int64     // size in bytes
}

// 🔍 Query describes one rule's selection criteria.
type Query struct {
	Root    string // directory to walk, recursively
	Pattern string // base-name glob; "*" matches everything
	AgeDays int    // exclude files modified within this many days; 0 disables the age check

	// Exclude, if set, names a subtree under Root that is skipped
	// entirely. Used when a rule's output directory lies inside the tree
	// being walked.
	Exclude string

	// OnError, if set, receives entries that could not be read. The entry
	// is excluded and the walk continues.
	OnError func(path string, err error)
}

// 📬 Visitor receives candidates one at a time. Returning an error stops
// the walk; returning ErrStop stops it without failing Select.
type Visitor func(c Candidate) error

// 🎯 Selector yields matching files lazily so a single unreadable entry
// never aborts the whole scan.
type Selector struct {
	// Now is the clock used for age cutoffs. Defaults to time.Now.
	Now func() time.Time

	// walkDir performs the tree walk. Swappable in tests to exercise
	// entries the real filesystem cannot produce on demand.
	walkDir func(root string, fn fs.WalkDirFunc) error
}

// 🏭 New creates a selector with the real clock.
func New() *Selector {
	return &Selector{Now: time.Now, walkDir: filepath.WalkDir}
}

// 🔍 Select walks the subtree rooted at q.Root and calls visit for every
// file whose base name matches q.Pattern and whose modification time is
// strictly earlier than now minus q.AgeDays days.
func (s *Selector) Select(ctx context.Context, q Query, visit Visitor) error {
	info, err := os.Stat(q.Root)
	if err != nil || !info.IsDir() {
		return errors.Errorf("selecting in %s: %w", q.Root, ErrNotFound)
	}

	pattern := q.Pattern
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return errors.Errorf("invalid filter pattern %q", pattern)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	cutoff := now().AddDate(0, 0, -q.AgeDays)

	logger := zerolog.Ctx(ctx)

	exclude := ""
	if q.Exclude != "" {
		exclude = filepath.Clean(q.Exclude)
	}

	walk := s.walkDir
	if walk == nil {
		walk = filepath.WalkDir
	}

	err = walk(q.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			q.reportError(path, walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if exclude != "" && filepath.Clean(path) == exclude {
				return fs.SkipDir
			}
			return nil
		}

		matched, _ := doublestar.Match(pattern, d.Name())
		if !matched {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			q.reportError(path, err)
			return nil
		}

		// AgeDays of zero matches every file regardless of modification
		// time; otherwise the cutoff comparison is strict.
		if q.AgeDays > 0 && !fi.ModTime().Before(cutoff) {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			q.reportError(path, err)
			return nil
		}

		logger.Debug().Str("file", abs).Time("mtime", fi.ModTime()).Msg("candidate selected")

		return visit(Candidate{Path: abs, ModTime: fi.ModTime(), Size: fi.Size()})
	})
	if errors.Is(err, ErrStop) {
		return nil
	}
	if err != nil {
		return errors.Errorf("walking %s: %w", q.Root, err)
	}
	return nil
}

func (q Query) reportError(path string, err error) {
	if q.OnError != nil {
		q.OnError(path, err)
	}
}
