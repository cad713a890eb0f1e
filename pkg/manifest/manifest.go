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

// Package manifest defines the rule model and loads rule manifests from disk.
package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ OperationKind is the closed set of maintenance operations a rule can name.
// The raw manifest text is resolved into this variant exactly once, when the
// rule is constructed; nothing downstream re-interprets strings.
type OperationKind int

const (
	// OpUnknown marks an operation string the loader did not recognize.
	// Unknown rules are kept (not dropped) so the run can report them.
	OpUnknown OperationKind = iota
	// OpPurge securely erases matching files in place.
	OpPurge
	// OpRelocate copies matching files to a destination, verifies the copy,
	// then securely erases the originals.
	OpRelocate
	// OpNoOp is an explicitly disabled rule.
	OpNoOp
)

// 📝 String returns the canonical name of the operation kind.
func (k OperationKind) String() string {
	switch k {
	case OpPurge:
		return "purge"
	case OpRelocate:
		return "relocate"
	case OpNoOp:
		return "noop"
	default:
		return "unknown"
	}
}

// 🔍 ParseOperationKind resolves raw manifest text into an OperationKind.
// Matching is case-insensitive and accepts the common aliases that show up
// in hand-maintained manifests.
func ParseOperationKind(raw string) OperationKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "purge", "delete":
		return OpPurge
	case "relocate", "move", "archive":
		return OpRelocate
	case "noop", "none", "skip":
		return OpNoOp
	default:
		return OpUnknown
	}
}

// 📦 Rule is one manifest row: a single maintenance rule over one file tree.
// Rules are immutable once loaded; the engine never mutates them.
type Rule struct {
	Op           OperationKind // resolved operation variant
	RawOperation string        // manifest text, preserved for reporting
	Description  string        // free text, logging only
	Source       string        // root of the tree the rule applies to
	Destination  string        // target directory, relocate only
	AgeDays      int           // files newer than now-AgeDays are excluded; 0 matches all
	Filter       string        // base-name glob; empty means "*"
}

// 📝 Name returns a short human label for the rule, preferring the description.
func (r Rule) Name() string {
	if r.Description != "" {
		return r.Description
	}
	return fmt.Sprintf("%s %s", r.Op, r.Source)
}

// 🏭 NewRule builds a Rule from raw manifest fields, resolving the operation
// kind and normalizing paths. An unrecognized operation is NOT an error here:
// the rule is kept with OpUnknown so the dispatcher can report it.
func NewRule(operation, description, source, destination string, ageDays int, filter string) (Rule, error) {
	if ageDays < 0 {
		return Rule{}, errors.Errorf("rule %q: ndays must be non-negative, got %d", description, ageDays)
	}
	if source == "" {
		return Rule{}, errors.Errorf("rule %q: source is required", description)
	}
	if filter == "" {
		filter = "*"
	}
	r := Rule{
		Op:           ParseOperationKind(operation),
		RawOperation: strings.TrimSpace(operation),
		Description:  description,
		Source:       filepath.Clean(source),
		AgeDays:      ageDays,
		Filter:       filter,
	}
	if destination != "" {
		r.Destination = filepath.Clean(destination)
	}
	return r, nil
}

// 🔍 Problems returns human-readable issues with the loaded rules that the
// engine would surface as failures at run time. Used by `reaprc validate`.
func Problems(rules []Rule) []string {
	var out []string
	for i, r := range rules {
		switch r.Op {
		case OpUnknown:
			out = append(out, fmt.Sprintf("rule %d (%s): operation %q is not defined", i+1, r.Name(), r.RawOperation))
		case OpRelocate:
			if r.Destination == "" {
				out = append(out, fmt.Sprintf("rule %d (%s): relocate requires a destination", i+1, r.Name()))
			}
		}
	}
	return out
}
