// Copyright 2025 Poiesic Systems
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


package core

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// Column declares the constraints for a single record field: required
// presence, expected kind, and an optional pattern for text fields.
type Column struct {
	Name    string
	Kind    FieldKind
	Pattern *regexp2.Regexp
}

// Col constructs a column constrained by kind only.
func Col(name string, kind FieldKind) Column {
	return Column{Name: name, Kind: kind}
}

// PatternCol constructs a text column whose values must match pattern.
// Panics if the pattern does not compile, so schemas fail at startup
// rather than at validation time.
func PatternCol(name, pattern string) Column {
	return Column{
		Name:    name,
		Kind:    KindString,
		Pattern: regexp2.MustCompile(pattern, regexp2.None),
	}
}

// Schema is a named, immutable set of per-column validation
// constraints. One schema exists per data source; it is constructed
// once and shared by value reference between parser and validator.
type Schema struct {
	Name    string
	Columns []Column
}

// NewSchema constructs a schema from its column constraints.
func NewSchema(name string, cols ...Column) *Schema {
	return &Schema{Name: name, Columns: cols}
}

// Validate checks every record of the batch against the schema and
// returns the first violation found, or nil if the batch conforms.
//
// Validation is all-or-nothing: a batch with any invalid record is
// rejected wholesale. A nil batch is a violation; an empty batch is
// not.
func (s *Schema) Validate(batch Batch) error {
	if batch == nil {
		return fmt.Errorf("%w: batch is nil", ErrSchemaViolation)
	}
	for i, rec := range batch {
		for _, col := range s.Columns {
			v, ok := rec[col.Name]
			if !ok {
				return fmt.Errorf("%w: record %d is missing column %q",
					ErrSchemaViolation, i, col.Name)
			}
			if v.Kind != col.Kind {
				return fmt.Errorf("%w: record %d column %q is %s, want %s",
					ErrSchemaViolation, i, col.Name, v.Kind, col.Kind)
			}
			if col.Pattern != nil {
				matched, err := col.Pattern.MatchString(v.Str)
				if err != nil {
					return fmt.Errorf("%w: record %d column %q: %v",
						ErrSchemaViolation, i, col.Name, err)
				}
				if !matched {
					return fmt.Errorf("%w: record %d column %q value %q does not match %q",
						ErrSchemaViolation, i, col.Name, v.Str, col.Pattern.String())
				}
			}
		}
	}
	return nil
}

// Valid reports whether the batch conforms to the schema. It is a
// pure function of (batch, schema) with no side effects.
func (s *Schema) Valid(batch Batch) bool {
	return s.Validate(batch) == nil
}
