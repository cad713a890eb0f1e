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
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(&YAMLParser{})
}

// 🔧 YAMLParser implements the Parser interface for YAML manifests
type YAMLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

// 📝 Parse parses rules from YAML
func (p *YAMLParser) Parse(ctx context.Context, data []byte) ([]Rule, error) {
	// Define YAML schema
	type yamlRule struct {
		Operation   string `yaml:"operation"`
		Description string `yaml:"description,omitempty"`
		Source      string `yaml:"source"`
		Destination string `yaml:"destination,omitempty"`
		NDays       int    `yaml:"ndays,omitempty"`
		Filter      string `yaml:"filter,omitempty"`
	}
	type yamlManifest struct {
		Rules []yamlRule `yaml:"rules"`
	}

	// Parse YAML
	var m yamlManifest
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	// Convert to model
	var rules []Rule
	for i, r := range m.Rules {
		rule, err := NewRule(r.Operation, r.Description, r.Source, r.Destination, r.NDays, r.Filter)
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i+1, err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}
