// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import "bytes"

// kiwiMagic is the fixed 8-byte ASCII header every inner canvas
// document must carry (§4.2, §6 "bit-exact").
var kiwiMagic = []byte("fig-kiwi")

// Document is the fully decoded canvas document: the compiled
// schema, the decoded node-change payload, and the blob array used by
// C4 geometry decoding.
type Document struct {
	Version uint32
	Schema  *Schema
	Payload Record
	Blobs   [][]byte
}

// Decode runs the full archive-to-scene-graph pipeline (C1 through
// C3) over an already-opened Archive's canvas bytes: parsing the
// inner fig-kiwi container, decoding its schema-driven payload, and
// building the override-resolved node tree. It is the single entry
// point most callers need. Open/OpenBytes are exported; parseContainer
// and buildTree are unexported and usable individually only from
// inside this package.
func Decode(arc *Archive) (*Tree, error) {
	doc, err := parseContainer(arc.Canvas)
	if err != nil {
		return nil, err
	}
	tree, err := buildTree(doc)
	if err != nil {
		return nil, err
	}
	tree.Warnings = append(tree.Warnings, arc.Warnings...)
	return tree, nil
}

// parseContainer decodes the canvas.fig layout described in §4.2:
// an 8-byte magic, a version, two length-prefixed compressed chunks
// (schema then data).
func parseContainer(canvas []byte) (*Document, error) {
	c := newCursor(canvas)

	magic, err := c.readBytes(len(kiwiMagic))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, kiwiMagic) {
		return nil, ErrBadMagic
	}

	version, err := c.readFixedUint(4)
	if err != nil {
		return nil, err
	}

	scLen, err := c.readFixedUint(4)
	if err != nil {
		return nil, err
	}
	schemaChunk, err := c.readBytes(int(scLen))
	if err != nil {
		return nil, err
	}

	dLen, err := c.readFixedUint(4)
	if err != nil {
		return nil, err
	}
	dataChunk, err := c.readBytes(int(dLen))
	if err != nil {
		return nil, err
	}

	schemaBytes, err := decompressChunk(schemaChunk)
	if err != nil {
		return nil, err
	}
	dataBytes, err := decompressChunk(dataChunk)
	if err != nil {
		return nil, err
	}

	schema, err := decodeSchema(schemaBytes)
	if err != nil {
		return nil, err
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, err
	}

	payload, err := decodePayload(compiled, dataBytes)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Version: uint32(version),
		Schema:  schema,
		Payload: payload,
		Blobs:   extractBlobs(payload),
	}
	return doc, nil
}

// extractBlobs pulls the top-level "blobs" array out of the decoded
// payload, if the schema defines one, into a plain [][]byte for C4's
// index-based geometry blob references (§3: "A geometry reference may
// point at a binary blob by index into the document's blob array").
func extractBlobs(payload Record) [][]byte {
	seq := payload.Seq("blobs")
	blobs := make([][]byte, 0, len(seq.Items))
	for _, item := range seq.Items {
		if b, ok := item.(Bytes); ok {
			blobs = append(blobs, b.Data)
		} else {
			blobs = append(blobs, nil)
		}
	}
	return blobs
}
