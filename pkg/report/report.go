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

// Package report renders a run's outcomes for humans and raises the
// completion notification. The engine never prints anything itself; it
// returns outcome values and this package consumes them.
package report

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/reaprc/pkg/operation"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent outcome entries
	pathWidth   = 45 // base width for file paths
	resultWidth = 22 // width for result text
)

// 🎯 Renderer prints one line per outcome plus a summary, mirroring each
// line to zerolog for machine consumption.
type Renderer struct {
	console io.Writer
	mu      sync.Mutex
}

// 🏭 NewRenderer creates a renderer writing to the given console.
func NewRenderer(console io.Writer) *Renderer {
	return &Renderer{console: console}
}

// 📝 formatOutcome formats a single outcome for display
func (r *Renderer) formatOutcome(o operation.Outcome) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch o.Result {
	case operation.ResultSuccess:
		symbol = '✓'
		symbolColor = color.FgGreen
	case operation.ResultSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
	case operation.ResultVerificationMismatch:
		symbol = '✗'
		symbolColor = color.FgRed
	default:
		symbol = '✗'
		symbolColor = color.FgRed
	}

	// Build the line
	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", pathWidth, o.Path),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", resultWidth, o.Result.String())),
		o.Detail)
}

// 📝 Render prints every outcome in order, grouped under rule headers,
// followed by a summary line.
func (r *Renderer) Render(ctx context.Context, res *operation.RunResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := zerolog.Ctx(ctx)

	// Outcomes arrive in manifest order, so a header is due whenever the
	// rule itself changes. Rules are compared by value rather than by
	// name: adjacent rules may share a description.
	for i, o := range res.Outcomes {
		if i == 0 || o.Rule != res.Outcomes[i-1].Rule {
			fmt.Fprintf(r.console, "[%s]\n", color.New(color.FgCyan).Sprint(o.Rule.Name()))
		}
		fmt.Fprintln(r.console, r.formatOutcome(o))

		logger.Info().
			Str("rule", o.Rule.Name()).
			Str("file", o.Path).
			Str("result", o.Result.String()).
			Str("detail", o.Detail).
			Msg("file operation")
	}

	counts := res.Counts()
	summary := fmt.Sprintf("%d succeeded, %d skipped, %d failed, %d mismatched",
		counts[operation.ResultSuccess],
		counts[operation.ResultSkipped],
		counts[operation.ResultIOFailure],
		counts[operation.ResultVerificationMismatch])

	fmt.Fprintln(r.console)
	if res.OK() {
		fmt.Fprintf(r.console, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), summary)
	} else {
		fmt.Fprintf(r.console, "%s %s\n", color.New(color.FgRed).Sprint("✗"), summary)
	}

	logger.Info().
		Bool("ok", res.OK()).
		Int("outcomes", len(res.Outcomes)).
		Msg(summary)
}
