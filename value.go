// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

// Value is the polymorphic decoded-value tree produced by the schema
// decoder (§3 "Decoded value", §9 "Dynamic duck-typed record tree").
// It is a closed sum type rather than an open map[string]interface{}:
// downstream stages type-switch on the concrete implementation.
type Value interface {
	isValue()
}

// Primitive wraps a scalar decoded field: bool, a signed or unsigned
// integer up to 64 bits, a 32-bit float, or a UTF-8 string.
type Primitive struct {
	Bool    bool
	Int     int64
	Uint    uint64
	Float32 float32
	Str     string
	kind    primitiveKind
}

type primitiveKind uint8

const (
	primBool primitiveKind = iota
	primInt
	primUint
	primFloat32
	primString
)

func (Primitive) isValue() {}

// AsInt64 returns the primitive's value normalized to int64, covering
// both signed and unsigned integer fields; callers that don't know
// which one they decoded (e.g. generic record traversal) can use this
// instead of branching on Kind.
func (p Primitive) AsInt64() int64 {
	switch p.kind {
	case primUint:
		return int64(p.Uint)
	default:
		return p.Int
	}
}

// Bytes wraps a length-prefixed raw byte field (e.g. an override key,
// a blob reference payload).
type Bytes struct {
	Data []byte
}

func (Bytes) isValue() {}

// Sequence wraps an array field (§3: "array-flag").
type Sequence struct {
	Items []Value
}

func (Sequence) isValue() {}

// Record wraps a STRUCT or MESSAGE field, string-keyed by field name.
// A field absent from the wire form of a MESSAGE resolves to the
// field type's zero default when looked up via the typed accessors
// (String, Int, Float, Bool, Seq, Rec, Raw), never a missing-key panic
// or a nil dereference (§9); Field instead reports it as absent.
type Record struct {
	TypeName string
	Fields   map[string]Value
	// fieldOrder preserves declaration order for deterministic
	// re-traversal (e.g. stable warning messages), though lookups are
	// keyed by name.
	fieldOrder []string
}

func (Record) isValue() {}

// Field looks up a field by name, returning ok=false (not a zero
// Value) when the field is genuinely absent so callers can
// distinguish "absent, use schema default" from "present and zero".
func (r Record) Field(name string) (Value, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// String returns the record's string field, or "" when absent,
// matching the schema's zero-default-on-missing-field rule.
func (r Record) String(name string) string {
	if v, ok := r.Fields[name]; ok {
		if p, ok := v.(Primitive); ok {
			return p.Str
		}
	}
	return ""
}

// Int returns the record's integer field normalized to int64, or 0
// when absent.
func (r Record) Int(name string) int64 {
	if v, ok := r.Fields[name]; ok {
		if p, ok := v.(Primitive); ok {
			return p.AsInt64()
		}
	}
	return 0
}

// Float returns the record's float32 field, or 0 when absent.
func (r Record) Float(name string) float32 {
	if v, ok := r.Fields[name]; ok {
		if p, ok := v.(Primitive); ok {
			return p.Float32
		}
	}
	return 0
}

// Bool returns the record's bool field, or false when absent.
func (r Record) Bool(name string) bool {
	if v, ok := r.Fields[name]; ok {
		if p, ok := v.(Primitive); ok {
			return p.Bool
		}
	}
	return false
}

// Seq returns the record's sequence field, or an empty Sequence when
// absent.
func (r Record) Seq(name string) Sequence {
	if v, ok := r.Fields[name]; ok {
		if s, ok := v.(Sequence); ok {
			return s
		}
	}
	return Sequence{}
}

// Rec returns the record's nested record field, or a zero-value
// Record (all field lookups on it return defaults) when absent.
func (r Record) Rec(name string) Record {
	if v, ok := r.Fields[name]; ok {
		if rec, ok := v.(Record); ok {
			return rec
		}
	}
	return Record{}
}

// Raw returns the record's raw byte field, or nil when absent.
func (r Record) Raw(name string) []byte {
	if v, ok := r.Fields[name]; ok {
		if b, ok := v.(Bytes); ok {
			return b.Data
		}
	}
	return nil
}
