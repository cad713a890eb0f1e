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

package manifest

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📂 Load reads a manifest file from the given path and returns its rules.
// The format is determined by the file extension:
// - .csv for the classic row format
// - .yaml or .yml for YAML
// - .hcl for HCL
func Load(ctx context.Context, path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading manifest file: %w", err)
	}

	parser := GetParser(path)
	if parser == nil {
		return nil, errors.Errorf("no parser registered for %q", path)
	}

	rules, err := parser.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing manifest %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("manifest", path).
		Int("rules", len(rules)).
		Msg("manifest loaded")

	return rules, nil
}
