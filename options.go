// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import "fmt"

// RenderOptions is the renderer's single options record (§4.5, §9
// "Option surface"). Every field has a documented default; unknown
// keys passed via NewRenderOptionsFromMap are rejected as a
// programmer error (§7), not silently ignored, mirroring the
// teacher's Options defaulting in pe.New/pe.NewBytes.
type RenderOptions struct {
	MaxDepth       int
	IncludeText    bool
	IncludeFills   bool
	IncludeStrokes bool
	IncludeImages  bool
	IncludeShadows bool
	Background     string
	Scale          float32

	// NodeIndex/RawNodeIndex are optional caller-supplied id indices
	// used only for INSTANCE resolution when a node's children aren't
	// already materialized (§4.5).
	NodeIndex    map[Id]*Node
	RawNodeIndex map[Id]Record
}

// DefaultRenderOptions returns the documented defaults (§4.5 table).
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		MaxDepth:       200,
		IncludeText:    true,
		IncludeFills:   true,
		IncludeStrokes: true,
		IncludeImages:  false,
		IncludeShadows: true,
		Background:     "",
		Scale:          1,
	}
}

// recognizedOptionKeys is the closed set accepted by
// NewRenderOptionsFromMap (§4.5 table).
var recognizedOptionKeys = map[string]bool{
	"maxDepth": true, "includeText": true, "includeFills": true,
	"includeStrokes": true, "includeImages": true, "includeShadows": true,
	"background": true, "scale": true, "nodeIndex": true, "rawNodeIndex": true,
}

// NewRenderOptionsFromMap builds RenderOptions from an untyped map
// (the shape a CLI flag layer or an external transport would produce),
// starting from DefaultRenderOptions and overlaying recognized keys.
// An unrecognized key is a fatal ErrUnknownOption (§7: "Unknown option
// keys on the renderer are rejected as programmer errors").
func NewRenderOptionsFromMap(m map[string]any) (RenderOptions, error) {
	opts := DefaultRenderOptions()
	for k, v := range m {
		if !recognizedOptionKeys[k] {
			return RenderOptions{}, fmt.Errorf("%w: %q", ErrUnknownOption, k)
		}
		switch k {
		case "maxDepth":
			if n, ok := v.(int); ok {
				opts.MaxDepth = n
			}
		case "includeText":
			if b, ok := v.(bool); ok {
				opts.IncludeText = b
			}
		case "includeFills":
			if b, ok := v.(bool); ok {
				opts.IncludeFills = b
			}
		case "includeStrokes":
			if b, ok := v.(bool); ok {
				opts.IncludeStrokes = b
			}
		case "includeImages":
			if b, ok := v.(bool); ok {
				opts.IncludeImages = b
			}
		case "includeShadows":
			if b, ok := v.(bool); ok {
				opts.IncludeShadows = b
			}
		case "background":
			if s, ok := v.(string); ok {
				opts.Background = s
			}
		case "scale":
			switch n := v.(type) {
			case float32:
				opts.Scale = n
			case float64:
				opts.Scale = float32(n)
			}
		case "nodeIndex":
			if idx, ok := v.(map[Id]*Node); ok {
				opts.NodeIndex = idx
			}
		case "rawNodeIndex":
			if idx, ok := v.(map[Id]Record); ok {
				opts.RawNodeIndex = idx
			}
		}
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 200
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	return opts, nil
}
