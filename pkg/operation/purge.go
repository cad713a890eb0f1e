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

	"github.com/rs/zerolog"
	"github.com/walteh/reaprc/pkg/eraser"
	"github.com/walteh/reaprc/pkg/manifest"
	"github.com/walteh/reaprc/pkg/selector"
	"gitlab.com/tozd/go/errors"
)

// 🗑️ purge securely erases every candidate file independently. One file's
// failure never stops the rest: a purge destroys nothing that existed only
// in one place, so a partial purge is always safe to resume on a later run.
func (e *Engine) purge(ctx context.Context, rule manifest.Rule, res *RunResult) {
	logger := zerolog.Ctx(ctx)

	matched := 0
	q := selector.Query{
		Root:    rule.Source,
		Pattern: rule.Filter,
		AgeDays: rule.AgeDays,
		OnError: func(path string, err error) {
			res.record(Outcome{
				Rule:   rule,
				Path:   path,
				Result: ResultIOFailure,
				Detail: "reading entry: " + err.Error(),
			})
		},
	}

	err := e.selector.Select(ctx, q, func(c selector.Candidate) error {
		matched++
		if err := e.eraser.Erase(ctx, c.Path); err != nil {
			res.record(Outcome{
				Rule:   rule,
				Path:   c.Path,
				Result: ResultIOFailure,
				Detail: eraseDetail(err),
			})
			return nil
		}
		res.record(Outcome{Rule: rule, Path: c.Path, Result: ResultSuccess, Detail: "erased"})
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
		logger.Debug().Str("source", rule.Source).Msg("no files matched")
		res.record(Outcome{Rule: rule, Path: rule.Source, Result: ResultSkipped, Detail: "no files matched"})
	}
}

// eraseDetail distinguishes the zeroed-but-present hazard from ordinary
// erase failures, since the file is unrecoverable yet still occupies the
// name.
func eraseDetail(err error) string {
	if errors.Is(err, eraser.ErrZeroedNotRemoved) {
		return "zeroed but not removed: " + err.Error()
	}
	return "erasing: " + err.Error()
}
