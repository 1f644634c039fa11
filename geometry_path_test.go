// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"math"
	"testing"
)

func f32bytes(v float32) []byte {
	bits := math.Float32bits(v)
	return []byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
}

func TestDecodePathCommandStream(t *testing.T) {
	var data []byte
	data = append(data, byte(OpMoveTo))
	data = append(data, f32bytes(0)...)
	data = append(data, f32bytes(0)...)
	data = append(data, byte(OpLineTo))
	data = append(data, f32bytes(10)...)
	data = append(data, f32bytes(0)...)
	data = append(data, byte(OpClose))

	cmds, err := decodePathCommandStream(data)
	if err != nil {
		t.Fatalf("decodePathCommandStream: %v", err)
	}
	if len(cmds.Commands) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds.Commands))
	}
	if cmds.Commands[1].Op != OpLineTo || cmds.Commands[1].Args[0] != 10 {
		t.Fatalf("unexpected second command: %+v", cmds.Commands[1])
	}
}

func TestDecodePathCommandStreamSoftStopsOnUnknownOp(t *testing.T) {
	data := []byte{byte(OpMoveTo)}
	data = append(data, f32bytes(1)...)
	data = append(data, f32bytes(2)...)
	data = append(data, 0xFF) // unknown opcode

	cmds, err := decodePathCommandStream(data)
	if err != nil {
		t.Fatalf("decodePathCommandStream: %v", err)
	}
	if len(cmds.Commands) != 1 {
		t.Fatalf("got %d commands, want 1 (soft stop)", len(cmds.Commands))
	}
}

func TestDecodePathCommandText(t *testing.T) {
	cmds, err := decodePathCommandText("M 0 0 L 10 0 Z")
	if err != nil {
		t.Fatalf("decodePathCommandText: %v", err)
	}
	if len(cmds.Commands) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds.Commands))
	}
}

func TestPathCommandsHasGeometry(t *testing.T) {
	onlyMove := &PathCommands{Commands: []PathCommand{{Op: OpMoveTo, Args: []float32{0, 0}}}}
	if onlyMove.HasGeometry() {
		t.Fatal("a lone move-to should not be geometry")
	}

	withLine := &PathCommands{Commands: []PathCommand{
		{Op: OpMoveTo, Args: []float32{0, 0}},
		{Op: OpLineTo, Args: []float32{1, 1}},
	}}
	if !withLine.HasGeometry() {
		t.Fatal("move-to followed by line-to should be geometry")
	}
}

func TestPathCommandsBounds(t *testing.T) {
	cmds := &PathCommands{Commands: []PathCommand{
		{Op: OpMoveTo, Args: []float32{0, 0}},
		{Op: OpLineTo, Args: []float32{10, 20}},
	}}
	b := cmds.Bounds()
	if b.MinX != 0 || b.MinY != 0 || b.MaxX != 10 || b.MaxY != 20 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}
