// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import "math"

// defaultVertexCeiling bounds vertex/segment counts accepted by the
// vector-network decoder (§4.4, configurable, default 1000).
const defaultVertexCeiling = 1000

// networkTolerance is the out-of-bounds tolerance applied to vertex
// coordinates against the normalized size (§4.4).
const networkTolerance = 2.0

// Vertex is one vector-network vertex.
type Vertex struct {
	Style uint32
	X, Y  float32
}

// Segment is one vector-network segment, with cubic control handles
// expressed as offsets from its endpoints.
type Segment struct {
	Style       uint32
	StartVertex uint32
	StartDX     float32
	StartDY     float32
	EndVertex   uint32
	EndDX       float32
	EndDY       float32
}

// VectorNetwork is the vertex+segment+region graph form of a vector
// node's geometry (glossary). Regions are read only to advance the
// cursor correctly; the region table itself is not decoded (§9 Open
// Questions).
type VectorNetwork struct {
	Vertices []Vertex
	Segments []Segment
}

// decodeVectorNetwork decodes the binary layout of §4.4: three u32LE
// counts, then stride-12 vertices and stride-28 segments. The region
// table (stride-16, per node) is skipped by count only, per the
// documented Open Question.
func decodeVectorNetwork(data []byte, ceiling int) (*VectorNetwork, error) {
	if ceiling <= 0 {
		ceiling = defaultVertexCeiling
	}
	c := newCursor(data)

	vertexCount, err := c.readFixedUint(4)
	if err != nil {
		return nil, err
	}
	segmentCount, err := c.readFixedUint(4)
	if err != nil {
		return nil, err
	}
	regionCount, err := c.readFixedUint(4)
	if err != nil {
		return nil, err
	}
	_ = regionCount // region table intentionally not decoded

	if int(vertexCount) > ceiling || int(segmentCount) > ceiling {
		return nil, corruptf(c.pos, "vector network exceeds ceiling %d (vertices=%d segments=%d)", ceiling, vertexCount, segmentCount)
	}

	vertices := make([]Vertex, vertexCount)
	for i := range vertices {
		style, err := c.readFixedUint(4)
		if err != nil {
			return nil, err
		}
		x, err := c.readFloat32()
		if err != nil {
			return nil, err
		}
		y, err := c.readFloat32()
		if err != nil {
			return nil, err
		}
		vertices[i] = Vertex{Style: uint32(style), X: x, Y: y}
	}

	segments := make([]Segment, segmentCount)
	for i := range segments {
		style, err := c.readFixedUint(4)
		if err != nil {
			return nil, err
		}
		startV, err := c.readFixedUint(4)
		if err != nil {
			return nil, err
		}
		startDX, err := c.readFloat32()
		if err != nil {
			return nil, err
		}
		startDY, err := c.readFloat32()
		if err != nil {
			return nil, err
		}
		endV, err := c.readFixedUint(4)
		if err != nil {
			return nil, err
		}
		endDX, err := c.readFloat32()
		if err != nil {
			return nil, err
		}
		endDY, err := c.readFloat32()
		if err != nil {
			return nil, err
		}
		segments[i] = Segment{
			Style: uint32(style), StartVertex: uint32(startV),
			StartDX: startDX, StartDY: startDY,
			EndVertex: uint32(endV), EndDX: endDX, EndDY: endDY,
		}
	}

	return &VectorNetwork{Vertices: vertices, Segments: segments}, nil
}

// ValidateBounds rejects the network if any vertex lies outside
// [-tolerance, normalizedSize + tolerance] (§4.4, P3).
func (n *VectorNetwork) ValidateBounds(normalizedSize Vec2) bool {
	for _, v := range n.Vertices {
		if v.X < -networkTolerance || v.X > normalizedSize.X+networkTolerance {
			return false
		}
		if v.Y < -networkTolerance || v.Y > normalizedSize.Y+networkTolerance {
			return false
		}
	}
	return true
}

// ReconstructCenterline walks the network's segments, following
// end->next.start matches, emitting a line-to for straight segments
// and a cubic Bezier for segments with nonzero handles, starting a
// new subpath with a move-to whenever the chain breaks (§4.4
// "Centerline reconstruction"). Segments whose start and end vertex
// are identical are dropped first.
func (n *VectorNetwork) ReconstructCenterline() *PathCommands {
	segments := make([]Segment, 0, len(n.Segments))
	for _, s := range n.Segments {
		if s.StartVertex == s.EndVertex {
			continue
		}
		segments = append(segments, s)
	}
	if len(segments) == 0 {
		return &PathCommands{}
	}

	used := make([]bool, len(segments))
	var cmds []PathCommand
	first := true

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx < 0 {
			break
		}

		cur := segments[startIdx]
		used[startIdx] = true
		startV := n.vertex(cur.StartVertex)
		if first {
			cmds = append(cmds, PathCommand{Op: OpMoveTo, Args: []float32{startV.X, startV.Y}})
			first = false
		} else {
			cmds = append(cmds, PathCommand{Op: OpMoveTo, Args: []float32{startV.X, startV.Y}})
		}
		appendSegmentCommand(&cmds, n, cur)
		subpathStart := startV
		lastEndVertex := cur.EndVertex

		for {
			nextIdx := -1
			for i, u := range used {
				if u {
					continue
				}
				if segments[i].StartVertex == lastEndVertex {
					nextIdx = i
					break
				}
			}
			if nextIdx < 0 {
				break
			}
			next := segments[nextIdx]
			used[nextIdx] = true
			appendSegmentCommand(&cmds, n, next)
			lastEndVertex = next.EndVertex
		}

		endV := n.vertex(lastEndVertex)
		if closeEnough(endV, subpathStart, 1e-2) {
			cmds = append(cmds, PathCommand{Op: OpClose})
		}
	}

	return &PathCommands{Commands: cmds}
}

func (n *VectorNetwork) vertex(idx uint32) Vec2 {
	if int(idx) >= len(n.Vertices) {
		return Vec2{}
	}
	v := n.Vertices[idx]
	return Vec2{X: v.X, Y: v.Y}
}

func appendSegmentCommand(cmds *[]PathCommand, n *VectorNetwork, s Segment) {
	v0 := n.vertex(s.StartVertex)
	v1 := n.vertex(s.EndVertex)
	if s.StartDX != 0 || s.StartDY != 0 || s.EndDX != 0 || s.EndDY != 0 {
		c1 := Vec2{X: v0.X + s.StartDX, Y: v0.Y + s.StartDY}
		c2 := Vec2{X: v1.X + s.EndDX, Y: v1.Y + s.EndDY}
		*cmds = append(*cmds, PathCommand{Op: OpCubic, Args: []float32{c1.X, c1.Y, c2.X, c2.Y, v1.X, v1.Y}})
	} else {
		*cmds = append(*cmds, PathCommand{Op: OpLineTo, Args: []float32{v1.X, v1.Y}})
	}
}

func closeEnough(a, b Vec2, tol float64) bool {
	return math.Abs(float64(a.X-b.X)) <= tol && math.Abs(float64(a.Y-b.Y)) <= tol
}

// FallbackDiagonal returns the single-line fallback geometry used when
// all decodes fail but geometry is still needed (§4.4).
func FallbackDiagonal(normalizedSize Vec2) *PathCommands {
	return &PathCommands{Commands: []PathCommand{
		{Op: OpMoveTo, Args: []float32{0, 0}},
		{Op: OpLineTo, Args: []float32{normalizedSize.X, normalizedSize.Y}},
	}}
}
