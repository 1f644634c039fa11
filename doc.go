// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

// Package fig decodes a design-tool document archive (a container with
// a trailing central directory, wrapping a schema-driven binary
// document) into a typed, queryable scene graph, and renders any
// subtree of that graph into a deterministic 2-D vector markup string.
//
// The package is organized the way the archive flows through it:
// archive.go and compress.go open the container (C1); kiwidoc.go,
// schema.go and schema_compile.go decode the embedded schema and the
// payload against it (C2); tree.go and overrides.go turn the flat
// decoded payload into a parent-linked, override-resolved node tree
// (C3); geometry_path.go and geometry_network.go decode path and
// vector-network blobs (C4); and the render_*.go files walk the tree
// to emit vector markup (C5).
package fig
