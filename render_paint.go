// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/webp"

	"github.com/vectorfig/figcore/internal/assets"
)

// applyPaintAttrs sets fill/fill-opacity (or, for IMAGE paints, a
// pattern reference) on el from paint (§4.5 "Paint resolution").
// Reports ok=false for an unrenderable paint kind, meaning the caller
// must skip emitting el entirely rather than write it with no fill.
func applyPaintAttrs(el *xmlElement, paint Paint, ctx *renderCtx) bool {
	switch paint.Kind {
	case PaintImage:
		if ctx != nil && ctx.opts.IncludeImages {
			if ref, ok := buildImagePattern(ctx, paint); ok {
				el.attr("fill", "url(#"+ref+")")
				if paint.Opacity != 1 {
					el.num("fill-opacity", paint.Opacity)
				}
				return true
			}
		}
		// Image fills are opt-in (§4.5 table: includeImages default
		// false); without them or on decode failure, degrade to a
		// neutral gray fill so the shape still reads.
		el.attr("fill", "#808080")
		return true
	case PaintGradientL, PaintGradientR, PaintGradientA, PaintGradientD, PaintVideo, PaintEmoji:
		// Gradients, VIDEO and EMOJI paints are unrenderable (§7
		// taxonomy: UnrenderableFeature is a warning, not a fatal
		// error); the element is skipped and rendering continues
		// rather than approximated.
		if ctx != nil {
			ctx.warn(WarnUnrenderableFeature, "paint kind %s is not renderable, skipping fill", paint.Kind)
		}
		return false
	default:
		el.attr("fill", paintColorCSS(paint))
		if paint.Opacity != 1 {
			el.num("fill-opacity", paint.Opacity)
		}
		return true
	}
}

// paintColorCSS renders a SOLID paint's color as an "rgba(...)" CSS
// function, matching the textual form the rest of the vector-markup
// output uses for attribute values.
func paintColorCSS(p Paint) string {
	c := p.Color
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", clamp255(c.R), clamp255(c.G), clamp255(c.B), formatFloat(c.A))
}

func clamp255(v float32) int {
	n := int(v*255 + 0.5)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

// buildImagePattern decodes the image bytes addressed by paint's hash
// (§4.5: image hash is the lowercase hex of the blob's content,
// looked up in the document's image table), sniffs its format, and
// emits a <pattern> containing a base64 data-URI <image>, returning
// the pattern's id. Decode failures are reported as a warning and the
// caller falls back to a solid color.
func buildImagePattern(ctx *renderCtx, paint Paint) (string, bool) {
	data, ok := ctx.images[paint.ImageHash]
	idSuffix := paint.ImageHash
	if len(idSuffix) > 8 {
		idSuffix = idSuffix[:8]
	}
	if !ok {
		ctx.warn(WarnImageDecodeFailed, "image hash %s not found in image table, using placeholder", paint.ImageHash)
		data = assets.Placeholder()
		idSuffix = "placeholder"
	}

	mime, _, _, ok := sniffImage(data)
	if !ok {
		ctx.warn(WarnImageDecodeFailed, "image hash %s: unrecognized format", paint.ImageHash)
		return "", false
	}

	id := "img" + itoa(len(ctx.images)) + "_" + idSuffix
	pattern := newElement("pattern").attr("id", id).attr("patternContentUnits", "objectBoundingBox").
		num("width", 1).num("height", 1)

	preserve := aspectRatioFor(paint.ScaleMode)
	imgEl := newElement("image").attrf("href", "data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)).
		num("width", 1).num("height", 1).attr("preserveAspectRatio", preserve)
	pattern.child(imgEl)

	return id, true
}

// aspectRatioFor maps a scale mode onto the SVG preserveAspectRatio
// vocabulary (§4.5): FIT letterboxes ("meet"), STRETCH ignores aspect
// ratio entirely ("none"), FILL/TILE crop to cover ("slice").
func aspectRatioFor(mode ImageScaleMode) string {
	switch mode {
	case ScaleFit:
		return "xMidYMid meet"
	case ScaleStretch:
		return "none"
	default:
		return "xMidYMid slice"
	}
}

// sniffImage identifies an image's format by magic bytes (§4.5) and
// returns its pixel dimensions via the matching stdlib/x/image
// decoder, used only to validate the bytes decode before they're
// embedded as a data URI.
func sniffImage(data []byte) (mime string, w, h int, ok bool) {
	switch {
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		if cfg, err := jpeg.DecodeConfig(bytes.NewReader(data)); err == nil {
			return "image/jpeg", cfg.Width, cfg.Height, true
		}
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		if cfg, err := png.DecodeConfig(bytes.NewReader(data)); err == nil {
			return "image/png", cfg.Width, cfg.Height, true
		}
	case len(data) >= 6 && bytes.Equal(data[:3], []byte("GIF")):
		if cfg, err := gif.DecodeConfig(bytes.NewReader(data)); err == nil {
			return "image/gif", cfg.Width, cfg.Height, true
		}
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		if cfg, err := webp.DecodeConfig(bytes.NewReader(data)); err == nil {
			return "image/webp", cfg.Width, cfg.Height, true
		}
	}
	return "", 0, 0, false
}
