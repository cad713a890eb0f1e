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
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&CSVParser{})
}

// 🔧 CSVParser implements the Parser interface for the classic row manifest:
// one rule per line, columns operation, description, source, destination,
// ndays, filter. Lines starting with # are comments.
type CSVParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *CSVParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".csv")
}

// 📝 Parse parses rules from CSV rows
func (p *CSVParser) Parse(ctx context.Context, data []byte) ([]Rule, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 6

	var rules []Rule
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading CSV row: %w", err)
		}
		line++

		// Skip a header row that names the columns.
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "operation") {
			continue
		}

		ndaysField := strings.TrimSpace(record[4])
		ndays, err := strconv.Atoi(ndaysField)
		if err != nil {
			return nil, errors.Errorf("row %d: parsing ndays %q: %w", line, ndaysField, err)
		}

		rule, err := NewRule(
			record[0],
			strings.TrimSpace(record[1]),
			strings.TrimSpace(record[2]),
			strings.TrimSpace(record[3]),
			ndays,
			strings.TrimSpace(record[5]),
		)
		if err != nil {
			return nil, errors.Errorf("row %d: %w", line, err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}
