// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import "testing"

func writeVarint(n uint64) []byte {
	var out []byte
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			return out
		}
	}
}

func writeSignedVarint(n int64) []byte {
	zz := uint64((n << 1) ^ (n >> 63))
	return writeVarint(zz)
}

func writeLenPrefixedString(s string) []byte {
	out := writeVarint(uint64(len(s)))
	return append(out, []byte(s)...)
}

func writeField(name string, tag int64, typeCode TypeCode, isArray bool) []byte {
	var out []byte
	out = append(out, writeLenPrefixedString(name)...)
	out = append(out, writeVarint(uint64(tag))...)
	out = append(out, writeSignedVarint(int64(typeCode))...)
	if isArray {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	return out
}

// buildSimpleSchema encodes one MESSAGE definition "Msg" with two
// scalar fields: an int32 tagged 1 named "a", and a string tagged 2
// named "b".
func buildSimpleSchema() []byte {
	var out []byte
	out = append(out, writeVarint(1)...) // definition count
	out = append(out, writeLenPrefixedString("Msg")...)
	out = append(out, byte(DefMessage))
	out = append(out, writeVarint(2)...) // field count
	out = append(out, writeField("a", 1, TypeInt32, false)...)
	out = append(out, writeField("b", 2, TypeString, false)...)
	return out
}

func buildSimplePayload(a int64, b string) []byte {
	var out []byte
	out = append(out, writeVarint(1)...)
	out = append(out, writeSignedVarint(a)...)
	out = append(out, writeVarint(2)...)
	out = append(out, writeLenPrefixedString(b)...)
	out = append(out, writeVarint(0)...) // terminator
	return out
}

func TestDecodeSchema(t *testing.T) {
	schema, err := decodeSchema(buildSimpleSchema())
	if err != nil {
		t.Fatalf("decodeSchema: %v", err)
	}
	if len(schema.Definitions) != 1 {
		t.Fatalf("got %d definitions, want 1", len(schema.Definitions))
	}
	def := schema.Definitions[0]
	if def.Name != "Msg" || def.Kind != DefMessage || len(def.Fields) != 2 {
		t.Fatalf("unexpected definition: %+v", def)
	}
	if def.Fields[0].Name != "a" || def.Fields[0].TypeCode != TypeInt32 {
		t.Fatalf("unexpected field 0: %+v", def.Fields[0])
	}
}

func TestSchemaRootDefinitionFallsBackToFirstMessage(t *testing.T) {
	schema, err := decodeSchema(buildSimpleSchema())
	if err != nil {
		t.Fatalf("decodeSchema: %v", err)
	}
	root, err := schema.RootDefinition()
	if err != nil {
		t.Fatalf("RootDefinition: %v", err)
	}
	if root.Name != "Msg" {
		t.Fatalf("RootDefinition picked %q, want Msg (no priority name matches, so the first message)", root.Name)
	}
}

func TestCompileAndDecodePayload(t *testing.T) {
	schema, err := decodeSchema(buildSimpleSchema())
	if err != nil {
		t.Fatalf("decodeSchema: %v", err)
	}
	cs, err := compileSchema(schema)
	if err != nil {
		t.Fatalf("compileSchema: %v", err)
	}
	rec, err := decodePayload(cs, buildSimplePayload(42, "hi"))
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if rec.Int("a") != 42 {
		t.Fatalf("rec.Int(a) = %d, want 42", rec.Int("a"))
	}
	if rec.String("b") != "hi" {
		t.Fatalf("rec.String(b) = %q, want hi", rec.String("b"))
	}
}

func TestDecodePayloadSkipsUnknownTag(t *testing.T) {
	schema, err := decodeSchema(buildSimpleSchema())
	if err != nil {
		t.Fatalf("decodeSchema: %v", err)
	}
	cs, err := compileSchema(schema)
	if err != nil {
		t.Fatalf("compileSchema: %v", err)
	}

	var payload []byte
	payload = append(payload, writeVarint(99)...)         // unknown tag
	payload = append(payload, writeVarint(3)...)           // 3-byte skip
	payload = append(payload, []byte{1, 2, 3}...)
	payload = append(payload, writeVarint(1)...)
	payload = append(payload, writeSignedVarint(7)...)
	payload = append(payload, writeVarint(0)...)

	rec, err := decodePayload(cs, payload)
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if rec.Int("a") != 7 {
		t.Fatalf("rec.Int(a) = %d, want 7 (decode should continue past the unknown tag)", rec.Int("a"))
	}
}

func TestRecordFieldDefaultsWhenAbsent(t *testing.T) {
	rec := Record{Fields: map[string]Value{}}
	if rec.Int("missing") != 0 {
		t.Fatal("missing int field should default to 0")
	}
	if rec.String("missing") != "" {
		t.Fatal("missing string field should default to empty string")
	}
	if rec.Bool("missing") != false {
		t.Fatal("missing bool field should default to false")
	}
	if _, ok := rec.Field("missing"); ok {
		t.Fatal("Field should report ok=false for a genuinely absent field")
	}
}
