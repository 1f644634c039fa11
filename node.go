// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

// NodeType is the closed enumeration of scene-graph node types (§3).
type NodeType string

const (
	NodeDocument        NodeType = "DOCUMENT"
	NodeCanvas          NodeType = "CANVAS"
	NodeFrame           NodeType = "FRAME"
	NodeGroup           NodeType = "GROUP"
	NodeComponent       NodeType = "COMPONENT"
	NodeComponentSet    NodeType = "COMPONENT_SET"
	NodeInstance        NodeType = "INSTANCE"
	NodeVector          NodeType = "VECTOR"
	NodeLine            NodeType = "LINE"
	NodeEllipse         NodeType = "ELLIPSE"
	NodeRectangle       NodeType = "RECTANGLE"
	NodeRegularPolygon  NodeType = "REGULAR_POLYGON"
	NodeStar            NodeType = "STAR"
	NodeBooleanOp       NodeType = "BOOLEAN_OPERATION"
	NodeText            NodeType = "TEXT"
	NodeSlice           NodeType = "SLICE"
)

// PaintKind is the closed set of paint variants (§3).
type PaintKind string

const (
	PaintSolid      PaintKind = "SOLID"
	PaintImage      PaintKind = "IMAGE"
	PaintGradientL  PaintKind = "GRADIENT_LINEAR"
	PaintGradientR  PaintKind = "GRADIENT_RADIAL"
	PaintGradientA  PaintKind = "GRADIENT_ANGULAR"
	PaintGradientD  PaintKind = "GRADIENT_DIAMOND"
	PaintVideo      PaintKind = "VIDEO"
	PaintEmoji      PaintKind = "EMOJI"
)

// ImageScaleMode is the scale mode of an IMAGE paint (§3).
type ImageScaleMode string

const (
	ScaleFill    ImageScaleMode = "FILL"
	ScaleFit     ImageScaleMode = "FIT"
	ScaleTile    ImageScaleMode = "TILE"
	ScaleStretch ImageScaleMode = "STRETCH"
)

// RGBA is a straight (non-premultiplied) color in [0,1] per channel,
// the natural decoding of the schema's float color fields.
type RGBA struct {
	R, G, B, A float32
}

// Paint is one fill or stroke paint entry.
type Paint struct {
	Kind      PaintKind
	Visible   bool
	Opacity   float32
	Color     RGBA           // SOLID
	ImageHash string         // IMAGE, 40 hex chars
	ScaleMode ImageScaleMode // IMAGE
}

// StrokeCap and StrokeJoin are the closed stroke-cap/join vocabularies.
type StrokeCap string
type StrokeJoin string

const (
	CapNone  StrokeCap = "NONE"
	CapRound StrokeCap = "ROUND"
	CapSquare StrokeCap = "SQUARE"
	CapArrowLines StrokeCap = "ARROW_LINES"
	CapArrowEquilateral StrokeCap = "ARROW_EQUILATERAL"

	JoinMiter StrokeJoin = "MITER"
	JoinBevel StrokeJoin = "BEVEL"
	JoinRound StrokeJoin = "ROUND"
)

// StrokeAlign is the closed stroke-alignment vocabulary.
type StrokeAlign string

const (
	AlignCenter StrokeAlign = "CENTER"
	AlignInside StrokeAlign = "INSIDE"
	AlignOutside StrokeAlign = "OUTSIDE"
)

// CornerRadius holds either a single scalar radius or four
// independent per-corner radii (§3 "corner radius (scalar or
// per-corner)").
type CornerRadius struct {
	Uniform                                    bool
	TopLeft, TopRight, BottomRight, BottomLeft float32
}

// Scalar returns a uniform radius, used by callers that don't care
// about per-corner variation (e.g. the stadium clamp in §4.5).
func (c CornerRadius) Scalar() float32 {
	if c.Uniform {
		return c.TopLeft
	}
	m := c.TopLeft
	for _, v := range []float32{c.TopRight, c.BottomRight, c.BottomLeft} {
		if v > m {
			m = v
		}
	}
	return m
}

// EffectKind is the closed set of effect kinds (§3).
type EffectKind string

const (
	EffectDropShadow     EffectKind = "DROP_SHADOW"
	EffectInnerShadow    EffectKind = "INNER_SHADOW"
	EffectLayerBlur      EffectKind = "LAYER_BLUR"
	EffectBackgroundBlur EffectKind = "BACKGROUND_BLUR"
)

// Effect is one entry of a node's effect list.
type Effect struct {
	Kind    EffectKind
	Visible bool
	Radius  float32
	Spread  float32
	Color   RGBA
	OffsetX float32
	OffsetY float32
}

// TextAlignHorizontal is the closed horizontal text-alignment
// vocabulary (§4.5).
type TextAlignHorizontal string

const (
	AlignLeft   TextAlignHorizontal = "LEFT"
	AlignCenterH TextAlignHorizontal = "CENTER"
	AlignRight  TextAlignHorizontal = "RIGHT"
)

// Baseline is one entry of derivedTextData.baselines (§4.5, §8
// scenario 6).
type Baseline struct {
	FirstCharacter int
	EndCharacter   int
	LineHeight     float32
}

// TextStyle holds the subset of text styling the renderer consumes.
type TextStyle struct {
	FontFamily          string
	FontSize            float32
	LineHeightPx         float32
	TextAlignHorizontal TextAlignHorizontal
	Baselines           []Baseline
}

// GeometryRef is a path's geometry source: exactly one of BlobIndex
// (>=0) or Inline is populated (§3 invariants).
type GeometryRef struct {
	BlobIndex int // -1 when not a blob reference
	Inline    *PathCommands
	FillRule  string // "evenodd" or "" (nonzero, the default)
}

// SymbolOverrideEntry is one parsed symbolOverrides list entry (§4.3),
// keyed by a guidPath rather than a node Id.
type SymbolOverrideEntry struct {
	GuidPath  []OverrideKey
	Fields    map[string]Value
}

// OverrideKey is a 16-byte identifier scoped to a symbol's subtree
// (glossary).
type OverrideKey [16]byte

// ComponentPropAssignment is one {defId, value} entry from
// componentPropAssignments (§4.3).
type ComponentPropAssignment struct {
	DefID string
	Value Value
}

// ComponentPropNodeField is the closed set of fields a
// componentPropRef can target (§4.3).
type ComponentPropNodeField string

const (
	PropFieldTextData         ComponentPropNodeField = "TEXT_DATA"
	PropFieldVisible          ComponentPropNodeField = "VISIBLE"
	PropFieldOverriddenSymbol ComponentPropNodeField = "OVERRIDDEN_SYMBOL_ID"
)

// ComponentPropRef binds a node field to a component property
// definition id, so a componentPropAssignment can find which node(s)
// to apply its value to (§4.3).
type ComponentPropRef struct {
	DefID     string
	NodeField ComponentPropNodeField
}

// Node is the scene-graph node (§3): a single struct with the union
// of all possible attributes rather than a type hierarchy, per §9.
type Node struct {
	ID   Id
	Type NodeType
	Name string

	Visible bool
	Opacity float32
	Blend   string

	// Transform is the node's local 2x3 affine transform; Position is
	// used to synthesize a pure-translation Transform when the schema
	// carries no explicit matrix (§3 invariants).
	Transform    *Matrix2x3
	Position     Vec2
	Size         Vec2

	Fills   []Paint
	Strokes []Paint

	StrokeWeight float32
	StrokeCap    StrokeCap
	StrokeJoin   StrokeJoin
	StrokeAlign  StrokeAlign
	DashPattern  []float32

	CornerRadius CornerRadius

	Effects []Effect

	Characters string
	TextStyle  TextStyle
	TextAutoResize string

	FillGeometry   []GeometryRef
	StrokeGeometry []GeometryRef
	VectorNetwork  *VectorNetwork

	IsMask       bool
	ClipsContent bool

	SymbolID           Id
	HasSymbolID        bool
	SymbolOverrides    []SymbolOverrideEntry
	ComponentPropAssignments []ComponentPropAssignment
	OverrideSymbolID   Id

	// OverrideKey scopes this node within its symbol's subtree (§4.3);
	// it is the zero key for any node that isn't part of a symbol.
	OverrideKey      OverrideKey
	ComponentPropRefs []ComponentPropRef

	ParentID Id

	Children []*Node
}

// Vec2 is a 2-D float vector (size, position, offsets).
type Vec2 struct{ X, Y float32 }
