// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"fmt"
	"strings"
)

// emitPrimitive implements §4.5 "Primitive emission" for the node's
// own shape, dispatching by type.
func emitPrimitive(ctx *renderCtx, n *Node, world Matrix2x3, out *strings.Builder) {
	switch n.Type {
	case NodeDocument, NodeCanvas, NodeGroup, NodeInstance, NodeComponent, NodeComponentSet:
		// Containers contribute no primitive of their own.
		return
	case NodeText:
		if ctx.opts.IncludeText {
			emitText(ctx, n, world, out)
		}
		return
	}

	emitFilledOrStroked(ctx, n, world, out)
}

// emitFilledOrStroked handles rectangles/containers-with-fill,
// general filled vector paths, and stroked-without-fill paths
// (§4.5).
func emitFilledOrStroked(ctx *renderCtx, n *Node, world Matrix2x3, out *strings.Builder) {
	hasFill := ctx.opts.IncludeFills && len(visiblePaints(n.Fills)) > 0
	hasStroke := ctx.opts.IncludeStrokes && len(visiblePaints(n.Strokes)) > 0 && n.StrokeWeight > 0

	if hasFill {
		emitFill(ctx, n, world, out)
	}
	if hasStroke && !hasFill {
		emitStroke(ctx, n, world, out)
	} else if hasStroke && hasFill {
		emitStroke(ctx, n, world, out)
	}
}

func visiblePaints(paints []Paint) []Paint {
	var out []Paint
	for _, p := range paints {
		if p.Visible && p.Opacity > 0 {
			out = append(out, p)
		}
	}
	return out
}

// emitFill emits a rectangle (or, when the world transform isn't
// axis-aligned, an equivalent four-point closed path) for
// RECTANGLE/FRAME-like nodes with a plain box, or the node's decoded
// fill geometry for VECTOR-like nodes.
func emitFill(ctx *renderCtx, n *Node, world Matrix2x3, out *strings.Builder) {
	switch n.Type {
	case NodeRectangle, NodeFrame, NodeComponent, NodeComponentSet, NodeInstance, NodeEllipse:
		emitBoxFill(ctx, n, world, out)
	default:
		emitPathFill(ctx, n, world, out)
	}
}

// emitBoxFill implements the rectangle/container-with-solid-fill rule
// (§4.5): axis-aligned corners emit <rect>, otherwise a four-point
// closed <path>. Corner radius is clamped to min(w,h)/2 before
// emission.
func emitBoxFill(ctx *renderCtx, n *Node, world Matrix2x3, out *strings.Builder) {
	paint := firstPaintOrNone(n.Fills)
	if paint == nil {
		return
	}

	if n.Type == NodeEllipse {
		emitEllipseFill(ctx, n, world, *paint, out)
		return
	}

	if world.IsAxisAligned(1e-2) {
		corners := rectCorners(n.Size.X, n.Size.Y)
		p0 := world.Apply(corners[0])
		p2 := world.Apply(corners[2])
		x, y := minf(p0.X, p2.X), minf(p0.Y, p2.Y)
		w, h := absf(p2.X-p0.X), absf(p2.Y-p0.Y)

		r := clampRadius(n.CornerRadius.Scalar(), n.Size.X, n.Size.Y)

		el := newElement("rect").num("x", x).num("y", y).num("width", w).num("height", h)
		if r > 0 {
			el.num("rx", r).num("ry", r)
		}
		if applyPaintAttrs(el, *paint, ctx) {
			el.WriteTo(out)
		}
		return
	}

	corners := rectCorners(n.Size.X, n.Size.Y)
	var d strings.Builder
	for i, c := range corners {
		p := world.Apply(c)
		if i == 0 {
			fmt.Fprintf(&d, "M%s %s", formatFloat(p.X), formatFloat(p.Y))
		} else {
			fmt.Fprintf(&d, " L%s %s", formatFloat(p.X), formatFloat(p.Y))
		}
	}
	d.WriteString(" Z")
	el := newElement("path").attr("d", d.String())
	if applyPaintAttrs(el, *paint, ctx) {
		el.WriteTo(out)
	}
}

func emitEllipseFill(ctx *renderCtx, n *Node, world Matrix2x3, paint Paint, out *strings.Builder) {
	center := world.Apply(Vec2{X: n.Size.X / 2, Y: n.Size.Y / 2})
	edge := world.Apply(Vec2{X: n.Size.X, Y: n.Size.Y / 2})
	rx := absf(edge.X - center.X)
	ry := absf(edge.Y - center.Y)
	el := newElement("ellipse").num("cx", center.X).num("cy", center.Y).num("rx", rx).num("ry", ry)
	if applyPaintAttrs(el, paint, ctx) {
		el.WriteTo(out)
	}
}

// clampRadius implements §4.5: "Corner radius is clamped to
// min(width, height) / 2 before emission so that stadiums remain
// stadium-shaped."
func clampRadius(r, w, h float32) float32 {
	max := minf(w, h) / 2
	if r > max {
		return max
	}
	return r
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func firstPaintOrNone(paints []Paint) *Paint {
	for i := range paints {
		if paints[i].Visible && paints[i].Opacity > 0 {
			return &paints[i]
		}
	}
	return nil
}

// emitPathFill implements "Vector path (filled)" (§4.5): choose the
// first path that successfully decodes, compute its command bounds,
// derive a per-axis scale targetSize/commandBounds, translate by the
// bounds' negation, then compose into the parent world transform.
func emitPathFill(ctx *renderCtx, n *Node, world Matrix2x3, out *strings.Builder) {
	paint := firstPaintOrNone(n.Fills)
	if paint == nil {
		return
	}
	cmds, rule := firstDecodablePath(ctx, n.FillGeometry)
	if cmds == nil || !cmds.HasGeometry() {
		return
	}

	bounds := cmds.Bounds()
	scaleX, scaleY := float32(1), float32(1)
	if bounds.Width() > 0 {
		scaleX = n.Size.X / bounds.Width()
	}
	if bounds.Height() > 0 {
		scaleY = n.Size.Y / bounds.Height()
	}
	local := Matrix2x3{A: scaleX, D: scaleY, Tx: -bounds.MinX * scaleX, Ty: -bounds.MinY * scaleY}
	composed := Compose(world, local)

	d := pathCommandsToSVGPath(cmds, composed)
	el := newElement("path").attr("d", d)
	if rule == "evenodd" {
		el.attr("fill-rule", "evenodd")
	}
	if applyPaintAttrs(el, *paint, ctx) {
		el.WriteTo(out)
	}
}

// emitStroke implements "Vector path (stroked without fill)" (§4.5):
// prefer inline vector network, fall back to blob, fall back to a
// single diagonal line.
func emitStroke(ctx *renderCtx, n *Node, world Matrix2x3, out *strings.Builder) {
	paint := firstPaintOrNone(n.Strokes)
	if paint == nil {
		return
	}

	var cmds *PathCommands
	if n.VectorNetwork != nil && n.VectorNetwork.ValidateBounds(n.Size) {
		cmds = n.VectorNetwork.ReconstructCenterline()
	}
	if cmds == nil {
		blobCmds, _ := firstDecodablePath(ctx, n.StrokeGeometry)
		if blobCmds != nil {
			cmds = blobCmds
		}
	}
	if cmds == nil {
		for _, blob := range blobNetworks(ctx, n) {
			if blob.ValidateBounds(n.Size) {
				cmds = blob.ReconstructCenterline()
				break
			}
		}
	}
	if cmds == nil {
		ctx.warn(WarnGeometryFallback, "node %s: falling back to diagonal stroke", n.ID)
		cmds = FallbackDiagonal(n.Size)
	}

	d := pathCommandsToSVGPath(cmds, world)
	el := newElement("path").attr("d", d).attr("fill", "none")
	el.num("stroke-width", n.StrokeWeight)
	el.attr("stroke", paintColorCSS(*paint))
	if cap := svgLineCap(n.StrokeCap); cap != "" {
		el.attr("stroke-linecap", cap)
	}
	if join := svgLineJoin(n.StrokeJoin); join != "" {
		el.attr("stroke-linejoin", join)
	}
	if len(n.DashPattern) > 0 {
		el.attr("stroke-dasharray", joinFloats(n.DashPattern))
	}

	// strokeAlign=INSIDE clips the stroke to the node's own geometry
	// instead of letting the centered stroke bleed outside it; CENTER
	// and OUTSIDE render unclipped.
	if n.StrokeAlign == AlignInside {
		id := ctx.nextClipID()
		// world already includes n's local transform; buildMaskClip
		// applies the node's local transform itself, so hand it a copy
		// whose local transform is the identity.
		self := *n
		identity := Identity()
		self.Transform = &identity
		out.WriteString(buildMaskClip(ctx, id, &self, world))
		out.WriteString(`<g clip-path="url(#` + id + `)">`)
		el.WriteTo(out)
		out.WriteString("</g>")
		return
	}

	el.WriteTo(out)
}

// blobNetworks decodes every blob entry as a vector network,
// returning those that parse; used as a last resort before the
// diagonal fallback.
func blobNetworks(ctx *renderCtx, n *Node) []*VectorNetwork {
	var out []*VectorNetwork
	for _, ref := range n.StrokeGeometry {
		if ref.BlobIndex < 0 || ref.BlobIndex >= len(ctx.blobs) {
			continue
		}
		vn, err := decodeVectorNetwork(ctx.blobs[ref.BlobIndex], defaultVertexCeiling)
		if err == nil {
			out = append(out, vn)
		}
	}
	return out
}

// firstDecodablePath implements "choose the first path that
// successfully decodes" (§4.5), trying inline commands first then the
// blob array by index (§3 invariants: exactly one form per path).
func firstDecodablePath(ctx *renderCtx, refs []GeometryRef) (*PathCommands, string) {
	for _, ref := range refs {
		if ref.Inline != nil {
			return ref.Inline, ref.FillRule
		}
		if ref.BlobIndex >= 0 && ref.BlobIndex < len(ctx.blobs) {
			cmds, err := decodePathCommandStream(ctx.blobs[ref.BlobIndex])
			if err == nil {
				return cmds, ref.FillRule
			}
		}
	}
	return nil, ""
}

func pathCommandsToSVGPath(cmds *PathCommands, m Matrix2x3) string {
	var d strings.Builder
	for _, cmd := range cmds.Commands {
		switch cmd.Op {
		case OpClose:
			d.WriteString("Z ")
		case OpMoveTo:
			p := m.Apply(Vec2{cmd.Args[0], cmd.Args[1]})
			fmt.Fprintf(&d, "M%s %s ", formatFloat(p.X), formatFloat(p.Y))
		case OpLineTo:
			p := m.Apply(Vec2{cmd.Args[0], cmd.Args[1]})
			fmt.Fprintf(&d, "L%s %s ", formatFloat(p.X), formatFloat(p.Y))
		case OpQuadratic:
			c := m.Apply(Vec2{cmd.Args[0], cmd.Args[1]})
			p := m.Apply(Vec2{cmd.Args[2], cmd.Args[3]})
			fmt.Fprintf(&d, "Q%s %s %s %s ", formatFloat(c.X), formatFloat(c.Y), formatFloat(p.X), formatFloat(p.Y))
		case OpCubic:
			c1 := m.Apply(Vec2{cmd.Args[0], cmd.Args[1]})
			c2 := m.Apply(Vec2{cmd.Args[2], cmd.Args[3]})
			p := m.Apply(Vec2{cmd.Args[4], cmd.Args[5]})
			fmt.Fprintf(&d, "C%s %s %s %s %s %s ", formatFloat(c1.X), formatFloat(c1.Y), formatFloat(c2.X), formatFloat(c2.Y), formatFloat(p.X), formatFloat(p.Y))
		case OpArc:
			p := m.Apply(Vec2{cmd.Args[2], cmd.Args[3]})
			fmt.Fprintf(&d, "L%s %s ", formatFloat(p.X), formatFloat(p.Y))
		}
	}
	return strings.TrimSpace(d.String())
}

func svgLineCap(c StrokeCap) string {
	switch c {
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	default:
		return "butt"
	}
}

func svgLineJoin(j StrokeJoin) string {
	switch j {
	case JoinRound:
		return "round"
	case JoinBevel:
		return "bevel"
	default:
		return "miter"
	}
}

func joinFloats(vals []float32) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, ",")
}

// buildRectClip emits a <clipPath> with a single rectangle matching a
// container's own size (§4.5 "Independent clipsContent on a container
// wraps its rendered children in a rectangular clip").
func buildRectClip(id string, w, h float32) string {
	el := newElement("clipPath").attr("id", id)
	el.child(newElement("rect").num("width", w).num("height", h))
	return el.String()
}

// buildMaskClip implements §4.5 step 5's mask handling: the mask
// node's fill-geometry if present, else its axis-aligned bounds
// (recolored white), becomes a clip region for subsequent siblings.
func buildMaskClip(ctx *renderCtx, id string, mask *Node, world Matrix2x3) string {
	maskWorld := Compose(world, localTransform(mask))
	el := newElement("clipPath").attr("id", id)

	cmds, _ := firstDecodablePath(ctx, mask.FillGeometry)
	if cmds != nil && cmds.HasGeometry() {
		d := pathCommandsToSVGPath(cmds, maskWorld)
		el.child(newElement("path").attr("d", d))
		return el.String()
	}

	// Degrade to a rectangular clip of its own bounds (§8 boundary
	// case: "Mask with no rendered geometry degrades to a rectangular
	// clip of its own bounds").
	corners := rectCorners(mask.Size.X, mask.Size.Y)
	p0 := maskWorld.Apply(corners[0])
	p2 := maskWorld.Apply(corners[2])
	rect := newElement("rect").num("x", minf(p0.X, p2.X)).num("y", minf(p0.Y, p2.Y)).
		num("width", absf(p2.X-p0.X)).num("height", absf(p2.Y-p0.Y))
	el.child(rect)
	return el.String()
}
