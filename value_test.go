// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import "testing"

func TestPrimitiveAsInt64(t *testing.T) {
	signed := Primitive{kind: primInt, Int: -7}
	if signed.AsInt64() != -7 {
		t.Fatalf("AsInt64() of signed primitive = %d, want -7", signed.AsInt64())
	}

	unsigned := Primitive{kind: primUint, Uint: 1 << 40}
	if unsigned.AsInt64() != int64(1<<40) {
		t.Fatalf("AsInt64() of unsigned primitive = %d, want %d", unsigned.AsInt64(), int64(1<<40))
	}
}

func TestRecordFieldPresentVsAbsent(t *testing.T) {
	rec := Record{
		TypeName: "Msg",
		Fields: map[string]Value{
			"name":  Primitive{kind: primString, Str: "hello"},
			"count": Primitive{kind: primInt, Int: 3},
			"ok":    Primitive{kind: primBool, Bool: true},
			"ratio": Primitive{kind: primFloat32, Float32: 1.5},
			"items": Sequence{Items: []Value{Primitive{kind: primInt, Int: 1}}},
			"child": Record{TypeName: "Nested", Fields: map[string]Value{}},
			"blob":  Bytes{Data: []byte{1, 2, 3}},
		},
	}

	if rec.String("name") != "hello" {
		t.Fatalf("String(name) = %q, want hello", rec.String("name"))
	}
	if rec.Int("count") != 3 {
		t.Fatalf("Int(count) = %d, want 3", rec.Int("count"))
	}
	if !rec.Bool("ok") {
		t.Fatal("Bool(ok) = false, want true")
	}
	if rec.Float("ratio") != 1.5 {
		t.Fatalf("Float(ratio) = %v, want 1.5", rec.Float("ratio"))
	}
	if len(rec.Seq("items").Items) != 1 {
		t.Fatalf("Seq(items) has %d items, want 1", len(rec.Seq("items").Items))
	}
	if rec.Rec("child").TypeName != "Nested" {
		t.Fatalf("Rec(child).TypeName = %q, want Nested", rec.Rec("child").TypeName)
	}
	if len(rec.Raw("blob")) != 3 {
		t.Fatalf("Raw(blob) has %d bytes, want 3", len(rec.Raw("blob")))
	}

	if v, ok := rec.Field("name"); !ok {
		t.Fatal("Field(name) reported absent for a present field")
	} else if _, isPrim := v.(Primitive); !isPrim {
		t.Fatal("Field(name) did not return a Primitive")
	}
	if _, ok := rec.Field("nonexistent"); ok {
		t.Fatal("Field(nonexistent) should report ok=false")
	}
}

func TestRecordWrongTypeFieldFallsBackToZero(t *testing.T) {
	rec := Record{Fields: map[string]Value{
		"name": Sequence{}, // not a Primitive
	}}
	if rec.String("name") != "" {
		t.Fatal("String() on a field whose Value is the wrong concrete type should return the zero default, not panic")
	}
}
