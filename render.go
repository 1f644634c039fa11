// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import "strings"

// RenderResult is C5's output (§6): the vector-markup string, its
// content bounds, and any non-fatal warnings collected along the way.
type RenderResult struct {
	Output   string
	Width    float32
	Height   float32
	Warnings []Warning
}

// renderCtx carries per-call mutable state: monotonic id counters for
// filters/clips/masks (reset to zero at the top of each call so two
// renders of the same input are byte-identical, §4.5 "Determinism"),
// the images and blobs the document supplies, the options, and the
// warnings collected along the way. No renderCtx outlives one Render
// call, and no field is shared across calls (§5 concurrency model).
type renderCtx struct {
	opts       RenderOptions
	images     map[string][]byte
	blobs      [][]byte
	filterID   int
	clipID     int
	maskID     int
	warnings   []Warning
	origin     Vec2
}

func (ctx *renderCtx) nextFilterID() string {
	ctx.filterID++
	return "filter" + itoa(ctx.filterID)
}

func (ctx *renderCtx) nextClipID() string {
	ctx.clipID++
	return "clip" + itoa(ctx.clipID)
}

func (ctx *renderCtx) nextMaskID() string {
	ctx.maskID++
	return "mask" + itoa(ctx.maskID)
}

func (ctx *renderCtx) warn(kind WarningKind, format string, args ...any) {
	ctx.warnings = append(ctx.warnings, warnf(kind, format, args...))
}

func itoa(n int) string {
	return formatFloat(float32(n))
}

// Render implements C5: a bounds pass establishing the output
// viewport, then a render pass emitting vector markup for root and
// its descendants (§4.5).
func Render(root *Node, images map[string][]byte, blobs [][]byte, opts RenderOptions) (*RenderResult, error) {
	if root == nil {
		return &RenderResult{Warnings: []Warning{warnf(WarnNoBounds, "no bounds")}}, nil
	}

	bounds := computeBounds(root, Identity())
	if bounds.Empty() {
		return &RenderResult{Warnings: []Warning{warnf(WarnNoBounds, "no bounds")}}, nil
	}

	ctx := &renderCtx{opts: opts, images: images, blobs: blobs, origin: Vec2{X: bounds.MinX, Y: bounds.MinY}}

	width := bounds.Width()
	height := bounds.Height()

	var body strings.Builder
	renderNode(ctx, root, Translation(-bounds.MinX, -bounds.MinY), 0, &body, nil)

	svg := newElement("svg")
	svg.attr("xmlns", "http://www.w3.org/2000/svg")
	svg.num("width", width*opts.Scale)
	svg.num("height", height*opts.Scale)
	svg.attrf("viewBox", "0 0 %s %s", formatFloat(width), formatFloat(height))

	var out strings.Builder
	out.WriteString("<svg")
	for _, a := range svg.attrs {
		out.WriteByte(' ')
		out.WriteString(a.name)
		out.WriteString(`="`)
		out.WriteString(escapeAttr(a.value))
		out.WriteString(`"`)
	}
	out.WriteString(">")
	if opts.Background != "" {
		bg := newElement("rect").attr("x", "0").attr("y", "0").num("width", width).num("height", height).attr("fill", opts.Background)
		bg.WriteTo(&out)
	}
	out.WriteString(body.String())
	out.WriteString("</svg>")

	return &RenderResult{
		Output:   out.String(),
		Width:    width * opts.Scale,
		Height:   height * opts.Scale,
		Warnings: ctx.warnings,
	}, nil
}

// computeBounds implements the bounds pass (§4.5): compose transforms
// top-down, union the transformed corners of every node whose type is
// not DOCUMENT or CANVAS.
func computeBounds(n *Node, world Matrix2x3) AABB {
	var box AABB
	local := localTransform(n)
	world = Compose(world, local)

	if n.Type != NodeDocument && n.Type != NodeCanvas {
		for _, c := range rectCorners(n.Size.X, n.Size.Y) {
			box.Union(world.Apply(c))
		}
	}

	for _, child := range n.Children {
		childBox := computeBounds(child, world)
		if !childBox.Empty() {
			box.Union(Vec2{childBox.MinX, childBox.MinY})
			box.Union(Vec2{childBox.MaxX, childBox.MaxY})
		}
	}
	return box
}

// localTransform returns the node's explicit matrix if present, else
// a pure translation by (x, y) (§3 invariants).
func localTransform(n *Node) Matrix2x3 {
	if n.Transform != nil {
		return *n.Transform
	}
	return Translation(n.Position.X, n.Position.Y)
}

// renderNode implements the render pass (§4.5): skip invisible nodes
// or nodes beyond maxDepth, compose the world transform, wrap
// effect-bearing nodes in a filtered group, emit the node's own
// primitive, then descend children handling mask/clip grouping.
func renderNode(ctx *renderCtx, n *Node, world Matrix2x3, depth int, out *strings.Builder, clipPathID *string) {
	if !n.Visible || depth > ctx.opts.MaxDepth {
		return
	}

	world = Compose(world, localTransform(n))

	if ctx.opts.IncludeShadows {
		warnUnrenderableEffects(ctx, n.Effects)
	}
	wrapFilter := ctx.opts.IncludeShadows && hasRenderableEffects(n.Effects)
	var filterID string
	if wrapFilter {
		filterID = ctx.nextFilterID()
		out.WriteString(buildShadowFilter(ctx, filterID, n.Effects))
		out.WriteString(`<g filter="url(#` + filterID + `)"`)
		if clipPathID != nil {
			out.WriteString(` clip-path="url(#` + *clipPathID + `)"`)
		}
		out.WriteString(">")
	} else if clipPathID != nil {
		out.WriteString(`<g clip-path="url(#` + *clipPathID + `)">`)
	}

	emitPrimitive(ctx, n, world, out)

	renderChildren(ctx, n, world, depth, out)

	if wrapFilter || clipPathID != nil {
		out.WriteString("</g>")
	}
}

// renderChildren implements mask grouping and clipsContent (§4.5 step
// 5): a run of siblings starting with an isMask child clips all
// subsequent siblings up to (not including) the next mask; a
// container with clipsContent wraps its own children in a rectangular
// clip of its size.
func renderChildren(ctx *renderCtx, n *Node, world Matrix2x3, depth int, out *strings.Builder) {
	children := n.Children
	if n.Type == NodeInstance && len(children) == 0 {
		children = resolveInstanceChildren(ctx, n)
	}

	var containerClipID *string
	if n.ClipsContent {
		id := ctx.nextClipID()
		out.WriteString(buildRectClip(id, n.Size.X, n.Size.Y))
		containerClipID = &id
	}

	i := 0
	for i < len(children) {
		child := children[i]
		if child.IsMask {
			maskID := ctx.nextMaskID()
			out.WriteString(buildMaskClip(ctx, maskID, child, world))
			i++
			j := i
			for j < len(children) && !children[j].IsMask {
				j++
			}
			groupClip := maskID
			for ; i < j; i++ {
				renderNode(ctx, children[i], world, depth+1, out, &groupClip)
			}
			continue
		}
		renderNode(ctx, child, world, depth+1, out, containerClipID)
		i++
	}
}

// resolveInstanceChildren implements §4.5 step 6: for INSTANCE nodes
// with no materialized children, resolve via §4.3 on demand using the
// supplied indices, falling back to a stacked-text layout.
func resolveInstanceChildren(ctx *renderCtx, n *Node) []*Node {
	if ctx.opts.NodeIndex != nil {
		tree := &Tree{ByID: ctx.opts.NodeIndex}
		clones, warnings := resolveInstance(tree, n, map[Id]bool{})
		ctx.warnings = append(ctx.warnings, warnings...)
		if len(clones) > 0 {
			return clones
		}
	}
	return stackedTextFallback(n)
}

// defaultLineHeight is the y-advance between stacked fallback text
// lines when no baseline metrics are available (§4.5 step 6).
const defaultLineHeight = 16

// stackedTextFallback draws one text element per textual override
// carried by the instance's symbolOverrides (§4.5 step 6: "one text
// element per textual override"), stacking them by advancing y by a
// default line height. Used when no node index is available or
// resolution yields nothing.
func stackedTextFallback(n *Node) []*Node {
	var out []*Node
	y := float32(0)
	for _, entry := range n.SymbolOverrides {
		chars := Record{Fields: entry.Fields}.String("characters")
		if chars == "" {
			continue
		}
		out = append(out, &Node{
			Type:       NodeText,
			Visible:    true,
			Opacity:    1,
			Characters: chars,
			Position:   Vec2{X: 0, Y: y},
			Size:       n.Size,
			TextStyle:  n.TextStyle,
		})
		y += defaultLineHeight
	}
	return out
}

func hasRenderableEffects(effects []Effect) bool {
	for _, e := range effects {
		if e.Visible && (e.Kind == EffectDropShadow || e.Kind == EffectInnerShadow) {
			return true
		}
	}
	return false
}

// warnUnrenderableEffects reports LAYER_BLUR/BACKGROUND_BLUR (and any
// other effect kind besides the two shadows) as a skipped,
// non-fatal feature (§7 UnrenderableFeature) rather than silently
// dropping them from the filter chain.
func warnUnrenderableEffects(ctx *renderCtx, effects []Effect) {
	for _, e := range effects {
		if !e.Visible {
			continue
		}
		if e.Kind != EffectDropShadow && e.Kind != EffectInnerShadow {
			ctx.warn(WarnUnrenderableFeature, "effect kind %s is not renderable, skipping", e.Kind)
		}
	}
}
