// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"strings"

	"github.com/google/uuid"
)

// guidPathKey joins a stack of override keys with ">" to form a
// candidate path string, matching the wire form of symbolOverrides'
// guidPath entries (§4.3).
func guidPathKey(stack []OverrideKey) string {
	parts := make([]string, len(stack))
	for i, k := range stack {
		parts[i] = uuid.UUID(k).String()
	}
	return strings.Join(parts, ">")
}

// resolveInstance expands an INSTANCE node's symbol subtree with its
// overrides applied (§4.3), returning a fresh clone of the symbol's
// children. visited guards against self-reference cycles across
// nested INSTANCE -> SYMBOL -> INSTANCE expansion (§9 Open Questions).
func resolveInstance(tree *Tree, instance *Node, visited map[Id]bool) ([]*Node, []Warning) {
	var warnings []Warning

	if !instance.HasSymbolID {
		return nil, warnings
	}
	symbol, ok := tree.ByID[instance.SymbolID]
	if !ok {
		warnings = append(warnings, warnf(WarnUnresolvedSymbol, "instance %s references missing symbol %s", instance.ID, instance.SymbolID))
		return nil, warnings
	}
	if visited[instance.SymbolID] {
		return nil, warnings
	}
	visited[instance.SymbolID] = true
	defer delete(visited, instance.SymbolID)

	pathToNodeID := make(map[string]Id)
	walkSymbolPaths(symbol, nil, pathToNodeID)

	overridesByNodeID := make(map[Id]map[string]Value)
	// fieldDepth tracks the deepest guidPath that has set a given
	// (node, field) pair so far in this call, implementing the
	// nested-override precedence rule (§4.3: "a deeper override wins
	// over a shallower one for the same field; ties ... resolve by
	// last-write"). Scoped to this call only -- no shared/global
	// state, so concurrent Render calls on the same graph stay safe
	// per §5.
	fieldDepth := make(map[overrideFieldKey]int)
	for _, entry := range instance.SymbolOverrides {
		path := guidPathKey(entry.GuidPath)
		nodeID, ok := pathToNodeID[path]
		if !ok {
			continue
		}
		dst, ok := overridesByNodeID[nodeID]
		if !ok {
			dst = make(map[string]Value)
			overridesByNodeID[nodeID] = dst
		}
		depth := len(entry.GuidPath)
		for k, v := range entry.Fields {
			if k == "guidPath" {
				continue
			}
			key := overrideFieldKey{nodeID, k}
			prevDepth, hasPrev := fieldDepth[key]
			if !hasPrev || depth >= prevDepth {
				dst[k] = v
				fieldDepth[key] = depth
			}
		}
	}

	applyComponentPropAssignments(symbol, instance.ComponentPropAssignments, overridesByNodeID)

	clones := make([]*Node, 0, len(symbol.Children))
	for _, child := range symbol.Children {
		clone, w := cloneSymbolSubtree(tree, child, overridesByNodeID, visited)
		warnings = append(warnings, w...)
		clones = append(clones, clone)
	}
	return clones, warnings
}

// overrideFieldKey identifies a (node, field) pair for the
// precedence-tracking map built locally inside resolveInstance.
type overrideFieldKey struct {
	node  Id
	field string
}

func walkSymbolPaths(n *Node, stack []OverrideKey, out map[string]Id) {
	var next []OverrideKey
	if n.OverrideKey != ([16]byte{}) {
		next = append(append([]OverrideKey{}, stack...), n.OverrideKey)
		out[guidPathKey(next)] = n.ID
	} else {
		next = stack
	}
	for _, child := range n.Children {
		walkSymbolPaths(child, next, out)
	}
}

// applyComponentPropAssignments implements §4.3's componentPropRefs
// mapping: for each assignment, walk the symbol subtree for nodes
// whose componentPropRefs mention the assignment's defID, and fold
// the value into overridesByNodeID keyed by the node field the ref
// names.
func applyComponentPropAssignments(symbol *Node, assignments []ComponentPropAssignment, overridesByNodeID map[Id]map[string]Value) {
	if len(assignments) == 0 {
		return
	}
	byDefID := make(map[string]Value, len(assignments))
	for _, a := range assignments {
		byDefID[a.DefID] = a.Value
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, ref := range n.ComponentPropRefs {
			val, ok := byDefID[ref.DefID]
			if !ok {
				continue
			}
			dst, ok := overridesByNodeID[n.ID]
			if !ok {
				dst = make(map[string]Value)
				overridesByNodeID[n.ID] = dst
			}
			switch ref.NodeField {
			case PropFieldTextData:
				dst["characters"] = val
			case PropFieldVisible:
				dst["visible"] = val
			case PropFieldOverriddenSymbol:
				dst["overrideSymbolID"] = val
			}
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(symbol)
}

// cloneSymbolSubtree clones one node of the symbol subtree, merging
// any override recorded for it, and recursively expanding nested
// INSTANCE nodes (§4.3: "If a nested INSTANCE is encountered, expand
// it recursively").
func cloneSymbolSubtree(tree *Tree, n *Node, overrides map[Id]map[string]Value, visited map[Id]bool) (*Node, []Warning) {
	clone := *n
	clone.Children = nil
	var warnings []Warning

	if fields, ok := overrides[n.ID]; ok {
		mergeOverrideFields(&clone, fields)
	}

	if clone.Type == NodeInstance && clone.HasSymbolID {
		expanded, w := resolveInstance(tree, &clone, visited)
		warnings = append(warnings, w...)
		clone.Children = expanded
		return &clone, warnings
	}

	for _, child := range n.Children {
		childClone, w := cloneSymbolSubtree(tree, child, overrides, visited)
		warnings = append(warnings, w...)
		clone.Children = append(clone.Children, childClone)
	}
	return &clone, warnings
}

// mergeOverrideFields applies the override field set named in §4.3
// onto clone: characters, fill/stroke paints, corner radius, size,
// transform, font name/size, line height, textAutoResize,
// derivedTextData, fillGeometry, strokeGeometry, visible,
// overrideSymbolId.
func mergeOverrideFields(clone *Node, fields map[string]Value) {
	get := func(name string) (Record, bool) {
		v, ok := fields[name]
		if !ok {
			return Record{}, false
		}
		r, ok := v.(Record)
		return r, ok
	}
	if v, ok := fields["characters"]; ok {
		if p, ok := v.(Primitive); ok {
			clone.Characters = p.Str
		}
	}
	if v, ok := fields["visible"]; ok {
		if p, ok := v.(Primitive); ok {
			clone.Visible = p.Bool
		}
	}
	if v, ok := fields["fillPaints"]; ok {
		if seq, ok := v.(Sequence); ok {
			clone.Fills = decodePaints(seq)
		}
	}
	if v, ok := fields["strokePaints"]; ok {
		if seq, ok := v.(Sequence); ok {
			clone.Strokes = decodePaints(seq)
		}
	}
	if _, ok := fields["cornerRadius"]; ok {
		clone.CornerRadius = decodeCornerRadius(Record{Fields: fields})
	} else if _, ok := fields["rectangleCornerRadii"]; ok {
		clone.CornerRadius = decodeCornerRadius(Record{Fields: fields})
	}
	if v, ok := fields["size"]; ok {
		if rec, ok := v.(Record); ok {
			clone.Size = Vec2{X: rec.Float("x"), Y: rec.Float("y")}
		}
	}
	if v, ok := fields["transform"]; ok {
		if rec, ok := v.(Record); ok {
			m := Matrix2x3{A: rec.Float("m00"), C: rec.Float("m01"), Tx: rec.Float("m02"),
				B: rec.Float("m10"), D: rec.Float("m11"), Ty: rec.Float("m12")}
			clone.Transform = &m
		}
	}
	style, hasStyle := get("style")
	derived, hasDerived := get("derivedTextData")
	if hasStyle || hasDerived {
		clone.TextStyle = decodeTextStyle(style, derived)
	}
	if v, ok := fields["textAutoResize"]; ok {
		if p, ok := v.(Primitive); ok {
			clone.TextAutoResize = p.Str
		}
	}
	if v, ok := fields["fillGeometry"]; ok {
		if seq, ok := v.(Sequence); ok {
			clone.FillGeometry = decodeGeometryRefs(seq)
		}
	}
	if v, ok := fields["strokeGeometry"]; ok {
		if seq, ok := v.(Sequence); ok {
			clone.StrokeGeometry = decodeGeometryRefs(seq)
		}
	}
	if v, ok := fields["overrideSymbolID"]; ok {
		if rec, ok := v.(Record); ok {
			clone.OverrideSymbolID = Id{Session: uint32(rec.Int("sessionID")), Local: uint32(rec.Int("localID"))}
		}
	}
}
