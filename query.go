// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ResolveID looks up a node by its canonical or alternate string id
// form (§6 "resolve-by-id"), accepting both "session:local" and
// "session-local".
func (t *Tree) ResolveID(s string) (*Node, error) {
	id, err := ParseId(s)
	if err != nil {
		return nil, err
	}
	n, ok := t.ByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: node id %s", ErrNotFound, id)
	}
	return n, nil
}

// Pages returns the tree's CANVAS-typed children of the root, in tree
// order (§6 "list-pages").
func (t *Tree) Pages() []*Node {
	if t.Root == nil {
		return nil
	}
	var pages []*Node
	for _, c := range t.Root.Children {
		if c.Type == NodeCanvas {
			pages = append(pages, c)
		}
	}
	return pages
}

// FindByType returns every descendant of root (inclusive) whose Type
// matches typ, in depth-first pre-order (§6 "find-by-type").
func FindByType(root *Node, typ NodeType) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Type == typ {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// FindByName returns every descendant of root (inclusive) whose Name
// contains name as a substring, in depth-first pre-order (§6
// "find-by-name").
func FindByName(root *Node, name string) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if strings.Contains(n.Name, name) {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// GetImage looks up an image's raw bytes by hash, accepting the hash
// in any case (§6 "get-image").
func (a *Archive) GetImage(hash string) ([]byte, error) {
	key := strings.ToLower(hash)
	if _, err := hex.DecodeString(key); err != nil {
		return nil, fmt.Errorf("%w: malformed image hash %q", ErrNotFound, hash)
	}
	data, ok := a.Images[key]
	if !ok {
		return nil, fmt.Errorf("%w: image hash %s", ErrNotFound, key)
	}
	return data, nil
}

// RenderSubtree resolves id within tree and renders it as the root of
// a standalone vector-markup document (§6 "render-subtree"), reusing
// the same bounds/render passes Render uses for a whole page.
func RenderSubtree(tree *Tree, id string, images map[string][]byte, opts RenderOptions) (*RenderResult, error) {
	n, err := tree.ResolveID(id)
	if err != nil {
		return nil, err
	}
	if opts.NodeIndex == nil {
		opts.NodeIndex = tree.ByID
	}
	return Render(n, images, tree.Blobs, opts)
}
