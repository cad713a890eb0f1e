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

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL manifests
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses rules from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) ([]Rule, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "manifest.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclRule struct {
		Operation   string `hcl:"operation,label"`
		Description string `hcl:"description,optional"`
		Source      string `hcl:"source"`
		Destination string `hcl:"destination,optional"`
		NDays       int    `hcl:"ndays,optional"`
		Filter      string `hcl:"filter,optional"`
	}
	type hclManifest struct {
		Rules []hclRule `hcl:"rule,block"`
	}

	// Decode HCL
	var m hclManifest
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &m)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
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
