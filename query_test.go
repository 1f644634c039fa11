// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import "testing"

func TestFindByTypeCollectsAllMatches(t *testing.T) {
	leaf1 := &Node{Type: NodeRectangle, Name: "r1"}
	leaf2 := &Node{Type: NodeRectangle, Name: "r2"}
	frame := &Node{Type: NodeFrame, Name: "frame", Children: []*Node{leaf1, leaf2}}

	got := FindByType(frame, NodeRectangle)
	if len(got) != 2 {
		t.Fatalf("FindByType = %d matches, want 2", len(got))
	}
}

func TestFindByTypeNilRoot(t *testing.T) {
	if got := FindByType(nil, NodeRectangle); got != nil {
		t.Fatalf("FindByType(nil) = %v, want nil", got)
	}
}

func TestFindByNameMatchesSubstring(t *testing.T) {
	child := &Node{Type: NodeText, Name: "Primary Button Label"}
	root := &Node{Type: NodeFrame, Name: "root", Children: []*Node{child}}

	got := FindByName(root, "Button")
	if len(got) != 1 || got[0] != child {
		t.Fatalf("FindByName substring match = %v, want [child]", got)
	}
}

func TestFindByNameNoMatch(t *testing.T) {
	root := &Node{Type: NodeFrame, Name: "root", Children: []*Node{{Type: NodeText, Name: "Label"}}}
	if got := FindByName(root, "missing"); got != nil {
		t.Fatalf("FindByName no-match = %v, want nil", got)
	}
}
