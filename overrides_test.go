// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import "testing"

func overrideKey(b byte) OverrideKey {
	var k OverrideKey
	k[0] = b
	return k
}

// buildInstanceFixture constructs a minimal tree with one symbol
// (COMPONENT id 2) containing a single TEXT child (id 3, OverrideKey
// {1}), and one INSTANCE (id 1) pointing at it with a symbolOverrides
// entry overriding that child's "characters" field.
func buildInstanceFixture(overrideChars string, guidPath []OverrideKey) (*Tree, *Node) {
	child := &Node{ID: Id{Local: 3}, Type: NodeText, Characters: "default", OverrideKey: overrideKey(1)}
	symbol := &Node{ID: Id{Local: 2}, Type: NodeComponent, Children: []*Node{child}}
	instance := &Node{
		ID:          Id{Local: 1},
		Type:        NodeInstance,
		SymbolID:    Id{Local: 2},
		HasSymbolID: true,
		SymbolOverrides: []SymbolOverrideEntry{
			{
				GuidPath: guidPath,
				Fields: map[string]Value{
					"characters": Primitive{kind: primString, Str: overrideChars},
				},
			},
		},
	}
	tree := &Tree{ByID: map[Id]*Node{
		child.ID:    child,
		symbol.ID:   symbol,
		instance.ID: instance,
	}}
	return tree, instance
}

func TestResolveInstanceAppliesOverride(t *testing.T) {
	tree, instance := buildInstanceFixture("overridden", []OverrideKey{overrideKey(1)})
	clones, warnings := resolveInstance(tree, instance, map[Id]bool{})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(clones) != 1 {
		t.Fatalf("got %d clones, want 1", len(clones))
	}
	if clones[0].Characters != "overridden" {
		t.Fatalf("Characters = %q, want overridden", clones[0].Characters)
	}
}

func TestResolveInstanceUnresolvedGuidPathIsIgnored(t *testing.T) {
	tree, instance := buildInstanceFixture("overridden", []OverrideKey{overrideKey(9)})
	clones, warnings := resolveInstance(tree, instance, map[Id]bool{})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if clones[0].Characters != "default" {
		t.Fatalf("Characters = %q, want default (no matching override path)", clones[0].Characters)
	}
}

func TestResolveInstanceUnknownSymbolWarns(t *testing.T) {
	instance := &Node{ID: Id{Local: 1}, Type: NodeInstance, SymbolID: Id{Local: 99}, HasSymbolID: true}
	tree := &Tree{ByID: map[Id]*Node{instance.ID: instance}}
	clones, warnings := resolveInstance(tree, instance, map[Id]bool{})
	if clones != nil {
		t.Fatalf("expected nil clones for unresolved symbol, got %v", clones)
	}
	if len(warnings) != 1 || warnings[0].Kind != WarnUnresolvedSymbol {
		t.Fatalf("expected one WarnUnresolvedSymbol warning, got %v", warnings)
	}
}

func TestResolveInstanceGuardsCycle(t *testing.T) {
	// The symbol's only child is itself an INSTANCE of the same symbol
	// -- the visited set must stop the recursion instead of looping
	// forever (§9).
	inner := &Node{ID: Id{Local: 20}, Type: NodeInstance, SymbolID: Id{Local: 2}, HasSymbolID: true}
	symbol := &Node{ID: Id{Local: 2}, Type: NodeComponent, Children: []*Node{inner}}
	instance := &Node{ID: Id{Local: 1}, Type: NodeInstance, SymbolID: Id{Local: 2}, HasSymbolID: true}
	tree := &Tree{ByID: map[Id]*Node{symbol.ID: symbol, instance.ID: instance}}

	clones, warnings := resolveInstance(tree, instance, map[Id]bool{})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(clones) != 1 || len(clones[0].Children) != 0 {
		t.Fatalf("expected the cyclic nested instance to stop expanding with no children, got %+v", clones)
	}
}

func TestResolveInstanceLastWriteWinsOnTie(t *testing.T) {
	// Two override entries resolve to the same node and the same
	// field at equal guidPath depth; the later entry must win (§4.3:
	// "ties ... resolve by last-write").
	child := &Node{ID: Id{Local: 3}, Type: NodeText, Characters: "default", OverrideKey: overrideKey(1)}
	symbol := &Node{ID: Id{Local: 2}, Type: NodeComponent, Children: []*Node{child}}
	instance := &Node{
		ID:          Id{Local: 1},
		Type:        NodeInstance,
		SymbolID:    Id{Local: 2},
		HasSymbolID: true,
		SymbolOverrides: []SymbolOverrideEntry{
			{
				GuidPath: []OverrideKey{overrideKey(1)},
				Fields:   map[string]Value{"characters": Primitive{kind: primString, Str: "first"}},
			},
			{
				GuidPath: []OverrideKey{overrideKey(1)},
				Fields:   map[string]Value{"characters": Primitive{kind: primString, Str: "second"}},
			},
		},
	}
	tree := &Tree{ByID: map[Id]*Node{child.ID: child, symbol.ID: symbol, instance.ID: instance}}

	clones, warnings := resolveInstance(tree, instance, map[Id]bool{})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if clones[0].Characters != "second" {
		t.Fatalf("Characters = %q, want second (later entry at equal depth should win)", clones[0].Characters)
	}
}

func TestCloneSymbolSubtreeExpandsNestedInstance(t *testing.T) {
	leaf := &Node{ID: Id{Local: 10}, Type: NodeText, Characters: "leaf"}
	innerSymbol := &Node{ID: Id{Local: 11}, Type: NodeComponent, Children: []*Node{leaf}}
	nestedInstance := &Node{ID: Id{Local: 12}, Type: NodeInstance, SymbolID: Id{Local: 11}, HasSymbolID: true}
	outerSymbol := &Node{ID: Id{Local: 2}, Type: NodeComponent, Children: []*Node{nestedInstance}}
	outerInstance := &Node{ID: Id{Local: 1}, Type: NodeInstance, SymbolID: Id{Local: 2}, HasSymbolID: true}

	tree := &Tree{ByID: map[Id]*Node{
		leaf.ID: leaf, innerSymbol.ID: innerSymbol, nestedInstance.ID: nestedInstance,
		outerSymbol.ID: outerSymbol, outerInstance.ID: outerInstance,
	}}

	clones, warnings := resolveInstance(tree, outerInstance, map[Id]bool{})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(clones) != 1 || clones[0].Type != NodeInstance {
		t.Fatalf("expected one cloned nested INSTANCE, got %+v", clones)
	}
	if len(clones[0].Children) != 1 || clones[0].Children[0].Characters != "leaf" {
		t.Fatalf("nested instance was not expanded: %+v", clones[0].Children)
	}
}

func TestMergeOverrideFieldsLeavesUnrelatedCornerRadiusAlone(t *testing.T) {
	n := Node{CornerRadius: CornerRadius{Uniform: true, TopLeft: 8}}
	mergeOverrideFields(&n, map[string]Value{
		"characters": Primitive{kind: primString, Str: "hi"},
	})
	if n.CornerRadius.Scalar() != 8 {
		t.Fatalf("CornerRadius was reset to %v by an override that never named it", n.CornerRadius)
	}
}

func TestMergeOverrideFieldsAppliesCornerRadius(t *testing.T) {
	n := Node{CornerRadius: CornerRadius{Uniform: true, TopLeft: 8}}
	mergeOverrideFields(&n, map[string]Value{
		"cornerRadius": Primitive{kind: primFloat32, Float32: 4},
	})
	if n.CornerRadius.Scalar() != 4 {
		t.Fatalf("CornerRadius.Scalar() = %v, want 4 after an explicit cornerRadius override", n.CornerRadius.Scalar())
	}
}

func TestApplyComponentPropAssignmentsMapsVisible(t *testing.T) {
	child := &Node{ID: Id{Local: 5}, ComponentPropRefs: []ComponentPropRef{{DefID: "prop1", NodeField: PropFieldVisible}}}
	symbol := &Node{ID: Id{Local: 2}, Children: []*Node{child}}
	overridesByNodeID := map[Id]map[string]Value{}
	applyComponentPropAssignments(symbol, []ComponentPropAssignment{
		{DefID: "prop1", Value: Primitive{kind: primBool, Bool: false}},
	}, overridesByNodeID)

	fields, ok := overridesByNodeID[child.ID]
	if !ok {
		t.Fatal("expected an override entry for the referenced child")
	}
	v, ok := fields["visible"].(Primitive)
	if !ok || v.Bool != false {
		t.Fatalf("fields[visible] = %v, want Primitive{Bool:false}", fields["visible"])
	}
}
