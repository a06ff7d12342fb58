package core

import (
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/go-crypt/x/blake2b"
)

// DigestColumn is the column holding a record's content-derived digest.
// The digest is the record's persistence key and is assigned by the
// producer (parser) before the record reaches storage.
const DigestColumn = "Digest"

// FieldKind enumerates the value types a record field can hold.
type FieldKind int

const (
	// KindString is a plain text field.
	KindString FieldKind = iota + 1
	// KindInt is a 64-bit integer field.
	KindInt
	// KindStringList is a list of text values.
	KindStringList
	// KindIntList is a list of 64-bit integer values.
	KindIntList
)

// String returns the kind name for logs and error messages.
func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindStringList:
		return "string list"
	case KindIntList:
		return "int list"
	default:
		return "unknown"
	}
}

// Value is a single typed field of a record. Exactly one payload field
// is meaningful, selected by Kind.
type Value struct {
	Kind    FieldKind
	Str     string
	Int     int64
	StrList []string
	IntList []int64
}

// String constructs a text value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Int constructs an integer value.
func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

// Strings constructs a text list value.
func Strings(ss ...string) Value { return Value{Kind: KindStringList, StrList: ss} }

// Ints constructs an integer list value.
func Ints(is ...int64) Value { return Value{Kind: KindIntList, IntList: is} }

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v.Kind == o.Kind &&
		v.Str == o.Str &&
		v.Int == o.Int &&
		slices.Equal(v.StrList, o.StrList) &&
		slices.Equal(v.IntList, o.IntList)
}

// MarshalJSON emits the underlying payload without the kind tag, so
// records serialize to natural-looking interchange JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInt:
		return json.Marshal(v.Int)
	case KindStringList:
		if v.StrList == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.StrList)
	case KindIntList:
		if v.IntList == nil {
			return json.Marshal([]int64{})
		}
		return json.Marshal(v.IntList)
	default:
		return json.Marshal(v.Str)
	}
}

// Record is one row of typed fields keyed by column name.
type Record map[string]Value

// Digest returns the record's persistence key, or "" if unset.
func (r Record) Digest() string {
	return r[DigestColumn].Str
}

// Equal reports whether two records have identical columns and values.
func (r Record) Equal(o Record) bool {
	if len(r) != len(o) {
		return false
	}
	for name, v := range r {
		ov, ok := o[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Batch is an ordered collection of records sharing one schema. It is
// the unit of validation and persistence.
type Batch []Record

// Digests returns the digest of every record in batch order.
func (b Batch) Digests() []string {
	out := make([]string, len(b))
	for i, rec := range b {
		out[i] = rec.Digest()
	}
	return out
}

// DigestFromContent derives a stable digest from text content using
// BLAKE2b. Identical content always produces the same digest.
func DigestFromContent(text string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
