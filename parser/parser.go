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


package parser

import (
	"fmt"
	"sort"
	"sync"

	"github.com/poiesic/genie/core"
)

// DataKind selects how a parser interprets its raw input.
type DataKind int

const (
	// DataDefault uses the source's native interpretation.
	DataDefault DataKind = iota + 1
	// DataDelimited interprets the input as delimited text.
	DataDelimited
	// DataString interprets the input as a plain string payload.
	DataString
)

// Parser converts raw source data into validated record batches. Each
// data source supplies one Parser variant carrying its own schema.
type Parser interface {
	// Schema returns the immutable schema this parser produces.
	Schema() *core.Schema

	// Parse converts raw data into a batch. A nil batch with a nil
	// error means the input held nothing to persist; a non-nil error
	// wraps core.ErrParseFailed.
	Parse(data []byte, kind DataKind) (core.Batch, error)

	// IsValid reports whether the batch conforms to the parser's schema.
	IsValid(batch core.Batch) bool
}

// validator provides the schema-bound half of the Parser contract.
// Concrete parsers embed it so validation behaves identically across
// all source variants.
type validator struct {
	schema *core.Schema
}

func (v validator) Schema() *core.Schema { return v.schema }

func (v validator) IsValid(batch core.Batch) bool { return v.schema.Valid(batch) }

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Parser)
)

// Register makes a parser variant available under the given source
// name. It is intended to be called from package init functions, so
// new sources plug in without modifying calling code. Panics if the
// name is already taken.
func Register(source string, factory func() Parser) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		panic("parser: Register factory is nil")
	}
	if _, dup := registry[source]; dup {
		panic("parser: Register called twice for source " + source)
	}
	registry[source] = factory
}

// New returns a parser for the named source.
func New(source string) (Parser, error) {
	registryMu.RLock()
	factory, ok := registry[source]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("parser: unknown source %q", source)
	}
	return factory(), nil
}

// Sources returns the registered source names, sorted.
func Sources() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
