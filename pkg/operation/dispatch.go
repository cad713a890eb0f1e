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
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/reaprc/pkg/manifest"
)

// 🏃 Run dispatches every rule in manifest order and aggregates their
// outcomes. One rule's failure never blocks dispatch of the next: rules
// are isolated from each other, and the run always executes the full
// manifest.
func (e *Engine) Run(ctx context.Context, rules []manifest.Rule) *RunResult {
	res := &RunResult{}
	start := e.now()

	for i, rule := range rules {
		logger := zerolog.Ctx(ctx).With().
			Int("rule", i+1).
			Str("name", rule.Name()).
			Str("operation", rule.Op.String()).
			Logger()
		ruleCtx := logger.WithContext(ctx)

		logger.Debug().Str("source", rule.Source).Msg("dispatching rule")

		switch rule.Op {
		case manifest.OpPurge:
			e.purge(ruleCtx, rule, res)
		case manifest.OpRelocate:
			e.relocate(ruleCtx, rule, res)
		case manifest.OpNoOp:
			res.record(Outcome{Rule: rule, Path: rule.Source, Result: ResultSkipped, Detail: "rule disabled"})
		default:
			res.record(Outcome{
				Rule:   rule,
				Path:   rule.Source,
				Result: ResultIOFailure,
				Detail: fmt.Sprintf("operation %q not defined", rule.RawOperation),
			})
		}
	}

	zerolog.Ctx(ctx).Debug().
		Dur("elapsed", e.now().Sub(start)).
		Int("rules", len(rules)).
		Int("outcomes", len(res.Outcomes)).
		Bool("ok", res.OK()).
		Msg("run complete")

	return res
}
