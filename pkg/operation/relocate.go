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

package operation

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/reaprc/pkg/manifest"
	"github.com/walteh/reaprc/pkg/selector"
	"gitlab.com/tozd/go/errors"
)

// 📦 relocate copies each candidate into the destination directory,
// verifies the copy byte-for-byte, and only then erases the source. The
// source survives every step that does not explicitly complete with a
// verified match, so no crash or mismatch can lose data.
//
// Failure policy: a copy failure moves on to the next candidate with the
// source untouched; a hash or erase failure, or a verification mismatch,
// aborts the remainder of the rule. A mismatch is treated as a systemic
// corruption signal, not a per-file fluke, and the destination copy is
// left in place for manual inspection.
func (e *Engine) relocate(ctx context.Context, rule manifest.Rule, res *RunResult) {
	if rule.Destination == "" {
		res.record(Outcome{
			Rule:   rule,
			Path:   rule.Source,
			Result: ResultIOFailure,
			Detail: "destination missing",
		})
		return
	}

	// The destination existing is a hard gate for the whole rule: no copy
	// is attempted into a directory that is not there.
	fi, err := os.Stat(rule.Destination)
	if err != nil || !fi.IsDir() {
		res.record(Outcome{
			Rule:   rule,
			Path:   rule.Destination,
			Result: ResultIOFailure,
			Detail: "destination missing",
		})
		return
	}

	// A destination that overlaps the source tree would let the walk
	// visit the rule's own output: copying a file onto itself truncates
	// it, and the verified erase would then destroy the only copy.
	exclude := ""
	rel, relErr := filepath.Rel(rule.Source, rule.Destination)
	switch {
	case relErr == nil && rel == ".":
		res.record(Outcome{
			Rule:   rule,
			Path:   rule.Destination,
			Result: ResultIOFailure,
			Detail: "destination equals source",
		})
		return
	case relErr == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)):
		exclude = rule.Destination
	}

	matched := 0
	q := selector.Query{
		Root:    rule.Source,
		Pattern: rule.Filter,
		AgeDays: rule.AgeDays,
		Exclude: exclude,
		OnError: func(path string, err error) {
			res.record(Outcome{
				Rule:   rule,
				Path:   path,
				Result: ResultIOFailure,
				Detail: "reading entry: " + err.Error(),
			})
		},
	}

	err = e.selector.Select(ctx, q, func(c selector.Candidate) error {
		matched++
		outcome, abort := e.relocateOne(ctx, rule, c)
		res.record(outcome)
		if abort {
			return selector.ErrStop
		}
		return nil
	})
	if err != nil {
		res.record(Outcome{
			Rule:   rule,
			Path:   rule.Source,
			Result: ResultIOFailure,
			Detail: err.Error(),
		})
		return
	}

	if matched == 0 {
		res.record(Outcome{Rule: rule, Path: rule.Source, Result: ResultSkipped, Detail: "no files matched"})
	}
}

// 📄 relocateOne runs the copy → verify → erase protocol for one file.
// The returned abort flag tells the caller to stop processing the rest of
// the rule's candidates.
func (e *Engine) relocateOne(ctx context.Context, rule manifest.Rule, c selector.Candidate) (Outcome, bool) {
	logger := zerolog.Ctx(ctx)
	dest := filepath.Join(rule.Destination, filepath.Base(c.Path))

	// Refuse paths that alias the candidate itself, such as a symlink in
	// the destination pointing back at the source. os.Create on such a
	// path would truncate the file being relocated.
	if dfi, err := os.Stat(dest); err == nil {
		if sfi, serr := os.Stat(c.Path); serr == nil && os.SameFile(dfi, sfi) {
			return Outcome{
				Rule:   rule,
				Path:   c.Path,
				Result: ResultIOFailure,
				Detail: "destination resolves to the source file",
			}, false
		}
	}

	// Step 1: copy, overwriting any pre-existing file of the same name.
	if err := copyFile(c.Path, dest); err != nil {
		return Outcome{
			Rule:   rule,
			Path:   c.Path,
			Result: ResultIOFailure,
			Detail: "copying to " + dest + ": " + err.Error(),
		}, false
	}

	// Step 2: verify. The source hash is computed only now, after the
	// copy, to keep the window for concurrent external modification as
	// small as possible. Both hashes are fresh reads from disk.
	srcHash, err := e.hasher.Hash(ctx, c.Path)
	if err != nil {
		return Outcome{
			Rule:   rule,
			Path:   c.Path,
			Result: ResultIOFailure,
			Detail: "hashing source: " + err.Error(),
		}, true
	}
	destHash, err := e.hasher.Hash(ctx, dest)
	if err != nil {
		return Outcome{
			Rule:   rule,
			Path:   c.Path,
			Result: ResultIOFailure,
			Detail: "hashing destination: " + err.Error(),
		}, true
	}
	if srcHash != destHash {
		logger.Error().
			Str("source", c.Path).
			Str("destination", dest).
			Str("source_hash", srcHash).
			Str("destination_hash", destHash).
			Msg("verification mismatch")
		return Outcome{
			Rule:   rule,
			Path:   c.Path,
			Result: ResultVerificationMismatch,
			Detail: "destination copy left in place for inspection",
		}, true
	}

	// Step 3: erase the source. Only reachable after a verified match.
	if err := e.eraser.Erase(ctx, c.Path); err != nil {
		return Outcome{
			Rule:   rule,
			Path:   c.Path,
			Result: ResultIOFailure,
			Detail: eraseDetail(err),
		}, true
	}

	logger.Debug().Str("source", c.Path).Str("destination", dest).Msg("relocated")
	return Outcome{Rule: rule, Path: c.Path, Result: ResultSuccess, Detail: "relocated to " + dest}, false
}

// copyFile copies src to dst, truncating dst if it exists, and flushes the
// copy to stable storage before returning.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying content: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return errors.Errorf("syncing destination: %w", err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing destination: %w", err)
	}

	return nil
}
