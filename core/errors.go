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

import "errors"

// Domain errors
var (
	// ErrSchemaViolation indicates a batch failed schema validation.
	// Nothing from the batch is persisted when this is returned.
	ErrSchemaViolation = errors.New("batch does not conform to schema")

	// ErrParseFailed indicates source data could not be converted to the
	// schema's record shape.
	ErrParseFailed = errors.New("cannot parse source data")

	// ErrNotImplemented indicates a capability is not supported by a
	// particular data source variant.
	ErrNotImplemented = errors.New("not implemented")
)
