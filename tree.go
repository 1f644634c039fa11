// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"sort"
	"strings"
)

// nodeChange is one flat record from the decoded payload, carrying
// its own Id and a parentIndex (guid, position ordering token) before
// tree wiring (§4.3).
type nodeChange struct {
	node     *Node
	parentID Id
	hasParent bool
	position string
}

// Tree is the resolved scene graph (§3 "Lifecycle": materialized once,
// read-only after build).
type Tree struct {
	Root       *Node
	ByID       map[Id]*Node
	ByIDToPath map[Id]string
	Blobs      [][]byte
	Warnings   []Warning
}

// buildTree implements C3: materializes the flat nodeChanges sequence
// into parented Node values, groups by parent, sorts each group by
// position, and wires children. Grounded on the teacher's two-phase
// "materialize flat records, then resolve relationships" shape (see
// ParseSectionHeader followed by data-directory RVA resolution in
// pe.go).
func buildTree(doc *Document) (*Tree, error) {
	changesSeq := doc.Payload.Seq("nodeChanges")

	changes := make([]*nodeChange, 0, len(changesSeq.Items))
	for _, item := range changesSeq.Items {
		rec, ok := item.(Record)
		if !ok {
			continue
		}
		nc, err := decodeNodeChange(rec)
		if err != nil {
			return nil, err
		}
		changes = append(changes, nc)
	}

	byID := make(map[Id]*Node, len(changes))
	for _, nc := range changes {
		byID[nc.node.ID] = nc.node
	}

	// Group by parent id, preserving the order changes were seen in
	// within each group before the position sort (§4.3 step 2).
	groups := make(map[Id][]*nodeChange)
	order := make(map[Id]int)
	for i, nc := range changes {
		if !nc.hasParent {
			continue
		}
		groups[nc.parentID] = append(groups[nc.parentID], nc)
		order[nc.node.ID] = i
	}
	for parent, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].position < group[j].position
		})
		groups[parent] = group
	}

	tree := &Tree{ByID: byID, ByIDToPath: make(map[Id]string, len(byID)), Blobs: doc.Blobs}

	var root *Node
	for _, nc := range changes {
		if nc.node.Type == NodeDocument {
			root = nc.node
			break
		}
	}

	for parentID, group := range groups {
		parent, ok := byID[parentID]
		if !ok {
			continue
		}
		for _, nc := range group {
			nc.node.ParentID = parentID
			parent.Children = append(parent.Children, nc.node)
		}
	}

	// Orphans: nodes with no parent and type != DOCUMENT (§4.3 step 3).
	for _, nc := range changes {
		if nc.node.Type == NodeDocument {
			continue
		}
		if !nc.hasParent {
			tree.Warnings = append(tree.Warnings, warnf(WarnOrphanNode, "node %s has no parent", nc.node.ID))
			continue
		}
		if _, ok := byID[nc.parentID]; !ok {
			tree.Warnings = append(tree.Warnings, warnf(WarnOrphanNode, "node %s references missing parent %s", nc.node.ID, nc.parentID))
		}
	}

	tree.Root = root

	if root != nil {
		buildPaths(root, "", tree.ByIDToPath)
	}

	return tree, nil
}

func buildPaths(n *Node, prefix string, out map[Id]string) {
	path := n.ID.String()
	if prefix != "" {
		path = prefix + "/" + path
	}
	out[n.ID] = path
	for _, child := range n.Children {
		buildPaths(child, path, out)
	}
}

// decodeNodeChange maps one schema Record into a Node plus its raw
// parentIndex, tolerant of absent fields (every lookup defaults to
// the schema's zero value per §9). Field names follow the public
// fig-kiwi wire vocabulary (guid/parentIndex/type/blendMode/...).
func decodeNodeChange(rec Record) (*nodeChange, error) {
	n := &Node{}

	guid := rec.Rec("guid")
	n.ID = Id{Session: uint32(guid.Int("sessionID")), Local: uint32(guid.Int("localID"))}

	n.Type = NodeType(strings.ToUpper(rec.String("type")))
	n.Name = rec.String("name")
	n.Visible = rec.boolOr("visible", true)
	n.Opacity = rec.floatOr("opacity", 1)
	n.Blend = rec.String("blendMode")

	if t, ok := rec.Field("transform"); ok {
		if trec, ok := t.(Record); ok {
			m := Matrix2x3{
				A: trec.Float("m00"), C: trec.Float("m01"), Tx: trec.Float("m02"),
				B: trec.Float("m10"), D: trec.Float("m11"), Ty: trec.Float("m12"),
			}
			if m.A == 0 && m.D == 0 {
				m.A, m.D = 1, 1
			}
			n.Transform = &m
		}
	}
	pos := rec.Rec("position")
	n.Position = Vec2{X: pos.Float("x"), Y: pos.Float("y")}
	size := rec.Rec("size")
	n.Size = Vec2{X: size.Float("x"), Y: size.Float("y")}

	n.Fills = decodePaints(rec.Seq("fillPaints"))
	n.Strokes = decodePaints(rec.Seq("strokePaints"))

	n.StrokeWeight = rec.Float("strokeWeight")
	n.StrokeCap = StrokeCap(rec.String("strokeCap"))
	n.StrokeJoin = StrokeJoin(rec.String("strokeJoin"))
	n.StrokeAlign = StrokeAlign(rec.String("strokeAlign"))
	for _, v := range rec.Seq("dashPattern").Items {
		if p, ok := v.(Primitive); ok {
			n.DashPattern = append(n.DashPattern, p.Float32)
		}
	}

	n.CornerRadius = decodeCornerRadius(rec)

	n.Effects = decodeEffects(rec.Seq("effects"))

	n.Characters = rec.String("characters")
	n.TextStyle = decodeTextStyle(rec.Rec("style"), rec.Rec("derivedTextData"))
	n.TextAutoResize = rec.String("textAutoResize")

	n.FillGeometry = decodeGeometryRefs(rec.Seq("fillGeometry"))
	n.StrokeGeometry = decodeGeometryRefs(rec.Seq("strokeGeometry"))
	if vn, ok := rec.Field("vectorNetwork"); ok {
		if vrec, ok := vn.(Record); ok {
			n.VectorNetwork = decodeInlineVectorNetwork(vrec)
		}
	}

	n.IsMask = rec.Bool("isMask")
	n.ClipsContent = rec.Bool("clipsContent")

	symbolData := rec.Rec("symbolData")
	if sid, ok := symbolData.Field("symbolID"); ok {
		if sidRec, ok := sid.(Record); ok {
			n.SymbolID = Id{Session: uint32(sidRec.Int("sessionID")), Local: uint32(sidRec.Int("localID"))}
			n.HasSymbolID = true
		}
	}
	n.SymbolOverrides = decodeSymbolOverrides(symbolData.Seq("symbolOverrides"))
	n.ComponentPropAssignments = decodeComponentPropAssignments(rec.Seq("componentPropAssignments"))
	if osid, ok := rec.Field("overrideSymbolID"); ok {
		if osidRec, ok := osid.(Record); ok {
			n.OverrideSymbolID = Id{Session: uint32(osidRec.Int("sessionID")), Local: uint32(osidRec.Int("localID"))}
		}
	}

	if ok := rec.Raw("overrideKey"); len(ok) == 16 {
		copy(n.OverrideKey[:], ok)
	}
	for _, it := range rec.Seq("componentPropRefs").Items {
		prec, ok := it.(Record)
		if !ok {
			continue
		}
		n.ComponentPropRefs = append(n.ComponentPropRefs, ComponentPropRef{
			DefID:     prec.String("defID"),
			NodeField: ComponentPropNodeField(strings.ToUpper(prec.String("componentPropNodeField"))),
		})
	}

	nc := &nodeChange{node: n}
	parentIdx := rec.Rec("parentIndex")
	if pg, ok := parentIdx.Field("guid"); ok {
		if pgRec, ok := pg.(Record); ok {
			nc.parentID = Id{Session: uint32(pgRec.Int("sessionID")), Local: uint32(pgRec.Int("localID"))}
			nc.hasParent = true
		}
	}
	nc.position = parentIdx.String("position")

	return nc, nil
}

func decodeCornerRadius(rec Record) CornerRadius {
	if v, ok := rec.Field("cornerRadius"); ok {
		if p, ok := v.(Primitive); ok {
			return CornerRadius{Uniform: true, TopLeft: p.Float32, TopRight: p.Float32, BottomRight: p.Float32, BottomLeft: p.Float32}
		}
	}
	if rr, ok := rec.Field("rectangleCornerRadii"); ok {
		if seq, ok := rr.(Sequence); ok && len(seq.Items) == 4 {
			vals := [4]float32{}
			for i, it := range seq.Items {
				if p, ok := it.(Primitive); ok {
					vals[i] = p.Float32
				}
			}
			return CornerRadius{TopLeft: vals[0], TopRight: vals[1], BottomRight: vals[2], BottomLeft: vals[3]}
		}
	}
	return CornerRadius{Uniform: true}
}

func decodePaints(seq Sequence) []Paint {
	paints := make([]Paint, 0, len(seq.Items))
	for _, it := range seq.Items {
		rec, ok := it.(Record)
		if !ok {
			continue
		}
		p := Paint{
			Kind:    PaintKind(strings.ToUpper(rec.String("type"))),
			Visible: rec.boolOr("visible", true),
			Opacity: rec.floatOr("opacity", 1),
		}
		color := rec.Rec("color")
		p.Color = RGBA{R: color.Float("r"), G: color.Float("g"), B: color.Float("b"), A: color.Float("a")}
		p.ImageHash = strings.ToLower(rec.String("image"))
		p.ScaleMode = ImageScaleMode(strings.ToUpper(rec.String("scaleMode")))
		paints = append(paints, p)
	}
	return paints
}

func decodeEffects(seq Sequence) []Effect {
	effects := make([]Effect, 0, len(seq.Items))
	for _, it := range seq.Items {
		rec, ok := it.(Record)
		if !ok {
			continue
		}
		color := rec.Rec("color")
		offset := rec.Rec("offset")
		effects = append(effects, Effect{
			Kind:    EffectKind(strings.ToUpper(rec.String("type"))),
			Visible: rec.boolOr("visible", true),
			Radius:  rec.Float("radius"),
			Spread:  rec.Float("spread"),
			Color:   RGBA{R: color.Float("r"), G: color.Float("g"), B: color.Float("b"), A: color.Float("a")},
			OffsetX: offset.Float("x"),
			OffsetY: offset.Float("y"),
		})
	}
	return effects
}

func decodeTextStyle(style, derived Record) TextStyle {
	ts := TextStyle{
		FontFamily:          style.String("fontFamily"),
		FontSize:            style.Float("fontSize"),
		LineHeightPx:        style.Float("lineHeightPx"),
		TextAlignHorizontal: TextAlignHorizontal(strings.ToUpper(style.String("textAlignHorizontal"))),
	}
	for _, it := range derived.Seq("baselines").Items {
		brec, ok := it.(Record)
		if !ok {
			continue
		}
		ts.Baselines = append(ts.Baselines, Baseline{
			FirstCharacter: int(brec.Int("firstCharacter")),
			EndCharacter:   int(brec.Int("endCharacter")),
			LineHeight:     brec.Float("lineHeight"),
		})
	}
	return ts
}

func decodeGeometryRefs(seq Sequence) []GeometryRef {
	refs := make([]GeometryRef, 0, len(seq.Items))
	for _, it := range seq.Items {
		rec, ok := it.(Record)
		if !ok {
			continue
		}
		ref := GeometryRef{BlobIndex: -1, FillRule: strings.ToLower(rec.String("windingRule"))}
		if b, ok := rec.Field("commandsBlob"); ok {
			if p, ok := b.(Primitive); ok {
				ref.BlobIndex = int(p.AsInt64())
			}
		}
		if pathRec, ok := rec.Field("path"); ok {
			if pStr, ok := pathRec.(Primitive); ok && pStr.kind == primString {
				if pc, err := decodePathCommandText(pStr.Str); err == nil {
					ref.Inline = pc
				}
			}
		}
		refs = append(refs, ref)
	}
	return refs
}

func decodeInlineVectorNetwork(rec Record) *VectorNetwork {
	vn := &VectorNetwork{}
	for _, it := range rec.Seq("vertices").Items {
		vrec, ok := it.(Record)
		if !ok {
			continue
		}
		vn.Vertices = append(vn.Vertices, Vertex{X: vrec.Float("x"), Y: vrec.Float("y"), Style: uint32(vrec.Int("styleID"))})
	}
	for _, it := range rec.Seq("segments").Items {
		srec, ok := it.(Record)
		if !ok {
			continue
		}
		start := srec.Rec("start")
		end := srec.Rec("end")
		vn.Segments = append(vn.Segments, Segment{
			StartVertex: uint32(srec.Int("startVertex")),
			EndVertex:   uint32(srec.Int("endVertex")),
			StartDX:     start.Float("x"),
			StartDY:     start.Float("y"),
			EndDX:       end.Float("x"),
			EndDY:       end.Float("y"),
		})
	}
	if len(vn.Vertices) == 0 && len(vn.Segments) == 0 {
		return nil
	}
	return vn
}

func decodeSymbolOverrides(seq Sequence) []SymbolOverrideEntry {
	entries := make([]SymbolOverrideEntry, 0, len(seq.Items))
	for _, it := range seq.Items {
		rec, ok := it.(Record)
		if !ok {
			continue
		}
		entry := SymbolOverrideEntry{Fields: rec.Fields}
		for _, gp := range rec.Seq("guidPath").Items {
			if b, ok := gp.(Bytes); ok && len(b.Data) == 16 {
				var key OverrideKey
				copy(key[:], b.Data)
				entry.GuidPath = append(entry.GuidPath, key)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func decodeComponentPropAssignments(seq Sequence) []ComponentPropAssignment {
	out := make([]ComponentPropAssignment, 0, len(seq.Items))
	for _, it := range seq.Items {
		rec, ok := it.(Record)
		if !ok {
			continue
		}
		v, _ := rec.Field("value")
		out = append(out, ComponentPropAssignment{DefID: rec.String("defID"), Value: v})
	}
	return out
}

// boolOr and floatOr provide a default distinct from the zero value,
// used for fields like `visible` and `opacity` whose schema default
// is true/1 rather than false/0 when absent.
func (r Record) boolOr(name string, def bool) bool {
	if v, ok := r.Fields[name]; ok {
		if p, ok := v.(Primitive); ok {
			return p.Bool
		}
	}
	return def
}

func (r Record) floatOr(name string, def float32) float32 {
	if v, ok := r.Fields[name]; ok {
		if p, ok := v.(Primitive); ok {
			return p.Float32
		}
	}
	return def
}
