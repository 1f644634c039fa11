// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

// Matrix2x3 is a 2x3 affine transform:
//
//	[ A C Tx ]
//	[ B D Ty ]
//
// applied to a column vector (x, y, 1). Composition is a pure
// (M, M) -> M function and the render walk threads the world
// transform by value (§9 "Transform composition").
type Matrix2x3 struct {
	A, B, C, D, Tx, Ty float32
}

// Identity returns the identity transform.
func Identity() Matrix2x3 {
	return Matrix2x3{A: 1, D: 1}
}

// Translation returns a pure translation transform, the default local
// transform for a node that carries no explicit matrix (§3 invariants).
func Translation(x, y float32) Matrix2x3 {
	return Matrix2x3{A: 1, D: 1, Tx: x, Ty: y}
}

// Compose returns parent * child: applying the result to a point is
// equivalent to applying child then parent.
func Compose(parent, child Matrix2x3) Matrix2x3 {
	return Matrix2x3{
		A:  parent.A*child.A + parent.C*child.B,
		B:  parent.B*child.A + parent.D*child.B,
		C:  parent.A*child.C + parent.C*child.D,
		D:  parent.B*child.C + parent.D*child.D,
		Tx: parent.A*child.Tx + parent.C*child.Ty + parent.Tx,
		Ty: parent.B*child.Tx + parent.D*child.Ty + parent.Ty,
	}
}

// Apply transforms a point by m.
func (m Matrix2x3) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.C*p.Y + m.Tx,
		Y: m.B*p.X + m.D*p.Y + m.Ty,
	}
}

// IsAxisAligned reports whether m maps axis-aligned rectangles to
// axis-aligned rectangles, within tolerance (§4.5: "if the transformed
// corners are axis-aligned (within 1e-2 on the tested edges)").
func (m Matrix2x3) IsAxisAligned(tolerance float32) bool {
	return (absf(m.B) <= tolerance && absf(m.C) <= tolerance) ||
		(absf(m.A) <= tolerance && absf(m.D) <= tolerance)
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	MinX, MinY, MaxX, MaxY float32
	initialized            bool
}

// Union folds p into the box, initializing it on the first point.
func (b *AABB) Union(p Vec2) {
	if !b.initialized {
		b.MinX, b.MaxX = p.X, p.X
		b.MinY, b.MaxY = p.Y, p.Y
		b.initialized = true
		return
	}
	if p.X < b.MinX {
		b.MinX = p.X
	}
	if p.X > b.MaxX {
		b.MaxX = p.X
	}
	if p.Y < b.MinY {
		b.MinY = p.Y
	}
	if p.Y > b.MaxY {
		b.MaxY = p.Y
	}
}

// Empty reports whether the box never received a point.
func (b *AABB) Empty() bool { return !b.initialized }

// Width and Height return the box's dimensions; zero for an empty box.
func (b *AABB) Width() float32 {
	if b.Empty() {
		return 0
	}
	return b.MaxX - b.MinX
}

func (b *AABB) Height() float32 {
	if b.Empty() {
		return 0
	}
	return b.MaxY - b.MinY
}

// Contains reports whether other is fully inside b, within tolerance,
// used by property test P4.
func (b AABB) Contains(other AABB, tolerance float32) bool {
	if other.Empty() {
		return true
	}
	if b.Empty() {
		return false
	}
	return other.MinX >= b.MinX-tolerance && other.MaxX <= b.MaxX+tolerance &&
		other.MinY >= b.MinY-tolerance && other.MaxY <= b.MaxY+tolerance
}

// corners returns the four corners of a width x height rectangle at
// the local origin, in draw order.
func rectCorners(w, h float32) [4]Vec2 {
	return [4]Vec2{{0, 0}, {w, 0}, {w, h}, {0, h}}
}
