// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"strings"
)

// emitText implements §4.5's "Text emission": one <text> element per
// node, anchored horizontally per textAlignHorizontal, with one
// <tspan> per derivedTextData baseline when baselines are present,
// else a synthesized newline-split fallback (§8 scenario 6).
func emitText(ctx *renderCtx, n *Node, world Matrix2x3, out *strings.Builder) {
	if n.Characters == "" {
		return
	}

	anchorX, anchor := textAnchor(n)

	el := newElement("text")
	origin := world.Apply(Vec2{X: anchorX, Y: 0})
	el.num("x", origin.X)
	if anchor != "" {
		el.attr("text-anchor", anchor)
	}
	if paint := firstPaintOrNone(n.Fills); paint != nil {
		el.attr("fill", paintColorCSS(*paint))
	} else {
		el.attr("fill", "rgba(0,0,0,1)")
	}
	if n.TextStyle.FontFamily != "" {
		el.attr("font-family", n.TextStyle.FontFamily)
	}
	if n.TextStyle.FontSize > 0 {
		el.num("font-size", n.TextStyle.FontSize)
	}

	if len(n.TextStyle.Baselines) > 0 {
		emitBaselineSpans(ctx, n, world, anchorX, anchor, el)
	} else {
		emitFallbackLines(n, world, anchorX, anchor, el)
	}

	el.WriteTo(out)
}

// textAnchor maps textAlignHorizontal onto an SVG text-anchor and the
// node-local x coordinate the anchor is relative to (§4.5).
func textAnchor(n *Node) (x float32, anchor string) {
	switch n.TextStyle.TextAlignHorizontal {
	case AlignCenterH:
		return n.Size.X / 2, "middle"
	case AlignRight:
		return n.Size.X, "end"
	default:
		return 0, "start"
	}
}

// emitBaselineSpans emits one <tspan> per baseline entry, slicing
// Characters[FirstCharacter:EndCharacter] (clamped), trimming trailing
// whitespace, and stacking each span below the previous one by the
// prior baseline's LineHeight (§4.5, §8 scenario 6).
func emitBaselineSpans(ctx *renderCtx, n *Node, world Matrix2x3, anchorX float32, anchor string, el *xmlElement) {
	runes := []rune(n.Characters)
	var y float32
	for i, b := range n.TextStyle.Baselines {
		if i > 0 {
			y += n.TextStyle.Baselines[i-1].LineHeight
		} else {
			y += b.LineHeight
		}

		start, end := b.FirstCharacter, b.EndCharacter
		if start < 0 {
			start = 0
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start > end {
			ctx.warn(WarnBaselineOutOfRange, "node %s: baseline %d out of range [%d,%d)", n.ID, i, b.FirstCharacter, b.EndCharacter)
			continue
		}
		text := strings.TrimRight(string(runes[start:end]), " \t\n\r")
		if text == "" {
			continue
		}

		p := world.Apply(Vec2{X: anchorX, Y: y})
		span := newElement("tspan").num("x", p.X).num("y", p.Y).setText(text)
		el.child(span)
	}
}

// emitFallbackLines synthesizes baselines by splitting on newlines and
// advancing by LineHeightPx, or FontSize*1.2 when no explicit line
// height is present (§4.5 "fallback to newline-split text").
func emitFallbackLines(n *Node, world Matrix2x3, anchorX float32, anchor string, el *xmlElement) {
	lineHeight := n.TextStyle.LineHeightPx
	if lineHeight <= 0 {
		lineHeight = n.TextStyle.FontSize * 1.2
	}
	if lineHeight <= 0 {
		lineHeight = 16
	}

	lines := strings.Split(n.Characters, "\n")
	var y float32
	for _, line := range lines {
		y += lineHeight
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		p := world.Apply(Vec2{X: anchorX, Y: y})
		span := newElement("tspan").num("x", p.X).num("y", p.Y).setText(line)
		el.child(span)
	}
}
