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


package storage

import (
	"fmt"
	"sort"

	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/genie/core"
)

// MUS serializers for persisted records. Hand-written rather than
// generated: the Value tagged union is not expressible to the struct
// generator, so the encoding is composed from mus-go primitives.

// ValueMUS serializes a single typed field value.
var ValueMUS = valueMUS{}

type valueMUS struct{}

func (valueMUS) Size(v core.Value) (size int) {
	size = varint.Int.Size(int(v.Kind))
	switch v.Kind {
	case core.KindInt:
		size += varint.Int64.Size(v.Int)
	case core.KindStringList:
		size += varint.Int.Size(len(v.StrList))
		for _, s := range v.StrList {
			size += sizeString(s)
		}
	case core.KindIntList:
		size += varint.Int.Size(len(v.IntList))
		for _, i := range v.IntList {
			size += varint.Int64.Size(i)
		}
	default:
		size += sizeString(v.Str)
	}
	return size
}

func (valueMUS) Marshal(v core.Value, bs []byte) (n int) {
	n = varint.Int.Marshal(int(v.Kind), bs)
	switch v.Kind {
	case core.KindInt:
		n += varint.Int64.Marshal(v.Int, bs[n:])
	case core.KindStringList:
		n += varint.Int.Marshal(len(v.StrList), bs[n:])
		for _, s := range v.StrList {
			n += marshalString(s, bs[n:])
		}
	case core.KindIntList:
		n += varint.Int.Marshal(len(v.IntList), bs[n:])
		for _, i := range v.IntList {
			n += varint.Int64.Marshal(i, bs[n:])
		}
	default:
		n += marshalString(v.Str, bs[n:])
	}
	return n
}

func (valueMUS) Unmarshal(bs []byte) (v core.Value, n int, err error) {
	kind, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	v.Kind = core.FieldKind(kind)
	switch v.Kind {
	case core.KindInt:
		var n1 int
		v.Int, n1, err = varint.Int64.Unmarshal(bs[n:])
		n += n1
	case core.KindStringList:
		var count, n1 int
		count, n1, err = varint.Int.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return v, n, err
		}
		if count < 0 {
			return v, n, ErrTruncatedData
		}
		v.StrList = make([]string, 0, count)
		for i := 0; i < count; i++ {
			var s string
			s, n1, err = unmarshalString(bs[n:])
			n += n1
			if err != nil {
				return v, n, err
			}
			v.StrList = append(v.StrList, s)
		}
	case core.KindIntList:
		var count, n1 int
		count, n1, err = varint.Int.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return v, n, err
		}
		if count < 0 {
			return v, n, ErrTruncatedData
		}
		v.IntList = make([]int64, 0, count)
		for i := 0; i < count; i++ {
			var x int64
			x, n1, err = varint.Int64.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return v, n, err
			}
			v.IntList = append(v.IntList, x)
		}
	case core.KindString:
		var n1 int
		v.Str, n1, err = unmarshalString(bs[n:])
		n += n1
	default:
		return v, n, fmt.Errorf("%w: unknown field kind %d", ErrSerializationFailed, kind)
	}
	return v, n, err
}

// RecordMUS serializes a record as a count followed by name/value
// pairs in sorted column order, so equal records produce equal bytes.
var RecordMUS = recordMUS{}

type recordMUS struct{}

func (recordMUS) Size(rec core.Record) (size int) {
	size = varint.Int.Size(len(rec))
	for _, name := range sortedColumns(rec) {
		size += sizeString(name)
		size += ValueMUS.Size(rec[name])
	}
	return size
}

func (recordMUS) Marshal(rec core.Record, bs []byte) (n int) {
	n = varint.Int.Marshal(len(rec), bs)
	for _, name := range sortedColumns(rec) {
		n += marshalString(name, bs[n:])
		n += ValueMUS.Marshal(rec[name], bs[n:])
	}
	return n
}

func (recordMUS) Unmarshal(bs []byte) (rec core.Record, n int, err error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if count < 0 {
		return nil, n, ErrTruncatedData
	}
	rec = make(core.Record, count)
	for i := 0; i < count; i++ {
		var (
			name string
			v    core.Value
			n1   int
		)
		name, n1, err = unmarshalString(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		v, n1, err = ValueMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		rec[name] = v
	}
	return rec, n, nil
}

// MarshalRecord serializes a record to bytes.
func MarshalRecord(rec core.Record) []byte {
	buf := make([]byte, RecordMUS.Size(rec))
	RecordMUS.Marshal(rec, buf)
	return buf
}

// UnmarshalRecord deserializes a record from bytes.
func UnmarshalRecord(data []byte) (core.Record, error) {
	rec, _, err := RecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return rec, nil
}

func sortedColumns(rec core.Record) []string {
	names := make([]string, 0, len(rec))
	for name := range rec {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Strings are encoded as a varint length followed by raw bytes.

func sizeString(s string) int {
	return varint.Int.Size(len(s)) + len(s)
}

func marshalString(s string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(s), bs)
	n += copy(bs[n:], s)
	return n
}

func unmarshalString(bs []byte) (string, int, error) {
	l, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return "", n, err
	}
	if l < 0 || n+l > len(bs) {
		return "", n, ErrTruncatedData
	}
	return string(bs[n : n+l]), n + l, nil
}
