// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import "testing"

func TestComposeIdentity(t *testing.T) {
	m := Matrix2x3{A: 2, B: 0, C: 0, D: 3, Tx: 5, Ty: 7}
	got := Compose(Identity(), m)
	if got != m {
		t.Fatalf("Compose(Identity, m) = %+v, want %+v", got, m)
	}
}

func TestComposeTranslation(t *testing.T) {
	parent := Translation(10, 20)
	child := Translation(1, 2)
	got := Compose(parent, child)
	want := Vec2{X: 11, Y: 22}
	p := got.Apply(Vec2{})
	if p != want {
		t.Fatalf("Compose(parent, child).Apply(0,0) = %+v, want %+v", p, want)
	}
}

func TestIsAxisAligned(t *testing.T) {
	if !Identity().IsAxisAligned(1e-2) {
		t.Fatal("identity should be axis-aligned")
	}
	rotated := Matrix2x3{A: 0.7071, B: 0.7071, C: -0.7071, D: 0.7071}
	if rotated.IsAxisAligned(1e-2) {
		t.Fatal("45-degree rotation should not be axis-aligned")
	}
}

func TestAABBUnionAndContains(t *testing.T) {
	var outer AABB
	outer.Union(Vec2{0, 0})
	outer.Union(Vec2{100, 100})

	var inner AABB
	inner.Union(Vec2{10, 10})
	inner.Union(Vec2{20, 20})

	if !outer.Contains(inner, 0) {
		t.Fatal("outer should contain inner")
	}
	if outer.Contains(AABB{MinX: -1, MaxX: 1, MinY: 0, MaxY: 1}, 0) {
		t.Fatal("outer should not contain a box extending past its left edge")
	}
}

func TestAABBEmpty(t *testing.T) {
	var b AABB
	if !b.Empty() {
		t.Fatal("zero-value AABB should be empty")
	}
	if b.Width() != 0 || b.Height() != 0 {
		t.Fatal("empty AABB should report zero width/height")
	}
}
