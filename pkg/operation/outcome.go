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
	"github.com/walteh/reaprc/pkg/manifest"
)

// 🏷️ Result classifies the outcome of one file operation.
type Result int

const (
	// ResultSuccess means the operation completed, including any erase step.
	ResultSuccess Result = iota
	// ResultSkipped means nothing needed doing (no matches, or a noop rule).
	ResultSkipped
	// ResultIOFailure means a read, write, copy, hash or erase step failed.
	ResultIOFailure
	// ResultVerificationMismatch means the copied file's content hash did
	// not equal the source's. The source is never erased in this case.
	ResultVerificationMismatch
)

// 📝 String returns the result name used in reports.
func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultSkipped:
		return "skipped"
	case ResultIOFailure:
		return "io-failure"
	case ResultVerificationMismatch:
		return "verification-mismatch"
	default:
		return "unknown"
	}
}

// 📦 Outcome records what happened to one file, or to one rule when the
// rule produced no per-file work.
type Outcome struct {
	Rule   manifest.Rule // the rule that produced this outcome
	Path   string        // the file (or directory) the outcome is about
	Result Result
	Detail string // free-text explanation for reports
}

// 📊 RunResult is the ordered, append-only aggregation of every outcome in
// a single engine run.
type RunResult struct {
	Outcomes []Outcome
}

// record appends an outcome. Outcomes are never removed or rewritten.
func (r *RunResult) record(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// ✅ OK reports overall success: no outcome signalled an I/O failure or a
// verification mismatch. Unknown operations surface as I/O failures, so
// they fail the run too.
func (r *RunResult) OK() bool {
	for _, o := range r.Outcomes {
		if o.Result == ResultIOFailure || o.Result == ResultVerificationMismatch {
			return false
		}
	}
	return true
}

// 📊 Counts returns the number of outcomes per result kind.
func (r *RunResult) Counts() map[Result]int {
	counts := make(map[Result]int)
	for _, o := range r.Outcomes {
		counts[o.Result]++
	}
	return counts
}
