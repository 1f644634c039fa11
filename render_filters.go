// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

// buildShadowFilter implements §4.5's "Shadow filters": the first
// visible DROP_SHADOW and the first visible INNER_SHADOW in effects
// are composited into one SVG filter; any further shadow of either
// kind is reported as a non-fatal warning rather than rendered
// (§7 UnrenderableFeature-style degrade, tracked as WarnMultipleShadows).
func buildShadowFilter(ctx *renderCtx, filterID string, effects []Effect) string {
	var drop, inner *Effect
	for i := range effects {
		e := &effects[i]
		if !e.Visible {
			continue
		}
		switch e.Kind {
		case EffectDropShadow:
			if drop == nil {
				drop = e
			} else {
				ctx.warn(WarnMultipleShadows, "extra drop shadow ignored")
			}
		case EffectInnerShadow:
			if inner == nil {
				inner = e
			} else {
				ctx.warn(WarnMultipleShadows, "extra inner shadow ignored")
			}
		}
	}

	f := newElement("filter").attr("id", filterID).attr("x", "-50%").attr("y", "-50%").
		attr("width", "200%").attr("height", "200%")

	last := "SourceGraphic"
	if drop != nil {
		last = appendDropShadowChain(f, *drop, "drop")
	}
	if inner != nil {
		last = appendInnerShadowChain(f, *inner, "inner", last)
	}
	if drop == nil && inner == nil {
		return ""
	}

	return f.String()
}

// appendDropShadowChain builds: alpha -> dilate/erode by spread ->
// gaussian blur -> offset -> flood -> composite-in -> merge with
// SourceGraphic on top (§4.5). Returns the result name of the merged
// output.
func appendDropShadowChain(f *xmlElement, e Effect, tag string) string {
	cur := "SourceAlpha"

	if e.Spread != 0 {
		op := "dilate"
		r := e.Spread
		if r < 0 {
			op = "erode"
			r = -r
		}
		name := tag + "Spread"
		f.child(newElement("feMorphology").attr("in", cur).attr("operator", op).num("radius", r).attr("result", name))
		cur = name
	}

	blurName := tag + "Blur"
	f.child(newElement("feGaussianBlur").attr("in", cur).num("stdDeviation", e.Radius/2).attr("result", blurName))
	cur = blurName

	offsetName := tag + "Offset"
	f.child(newElement("feOffset").attr("in", cur).num("dx", e.OffsetX).num("dy", e.OffsetY).attr("result", offsetName))
	cur = offsetName

	floodName := tag + "Flood"
	f.child(newElement("feFlood").attr("flood-color", colorCSS(e.Color)).attr("result", floodName))

	shadowName := tag + "Shadow"
	f.child(newElement("feComposite").attr("in", floodName).attr("in2", cur).attr("operator", "in").attr("result", shadowName))

	mergedName := tag + "Merged"
	merge := newElement("feMerge").attr("result", mergedName)
	merge.child(newElement("feMergeNode").attr("in", shadowName))
	merge.child(newElement("feMergeNode").attr("in", "SourceGraphic"))
	f.child(merge)

	return mergedName
}

// appendInnerShadowChain builds the inner-shadow variant: the source
// alpha is inverted (offset, then subtracted from the source) and the
// flooded color is composited into that inverse region, then merged
// beneath the unshadowed source graphic (§4.5: "inner shadow inverts
// source alpha and merges beneath").
func appendInnerShadowChain(f *xmlElement, e Effect, tag, inputResult string) string {
	offsetAlpha := tag + "OffsetAlpha"
	f.child(newElement("feOffset").attr("in", "SourceAlpha").num("dx", -e.OffsetX).num("dy", -e.OffsetY).attr("result", offsetAlpha))

	inverse := tag + "Inverse"
	f.child(newElement("feComposite").attr("in", "SourceGraphic").attr("in2", offsetAlpha).attr("operator", "out").attr("result", inverse))

	blurred := tag + "Blur"
	f.child(newElement("feGaussianBlur").attr("in", inverse).num("stdDeviation", e.Radius/2).attr("result", blurred))

	floodName := tag + "Flood"
	f.child(newElement("feFlood").attr("flood-color", colorCSS(e.Color)).attr("result", floodName))

	shadowName := tag + "Shadow"
	f.child(newElement("feComposite").attr("in", floodName).attr("in2", blurred).attr("operator", "in").attr("result", shadowName))

	result := newElement("feComposite").attr("in", inputResult).attr("in2", shadowName).attr("operator", "over")
	f.child(result)

	return "SourceGraphic"
}

func colorCSS(c RGBA) string {
	return "rgba(" + itoa(clamp255(c.R)) + "," + itoa(clamp255(c.G)) + "," + itoa(clamp255(c.B)) + "," + formatFloat(c.A) + ")"
}
