// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"strconv"
	"strings"
)

// PathCommandOp is the closed set of path-command opcodes (§4.4).
type PathCommandOp uint8

const (
	OpClose     PathCommandOp = 0
	OpMoveTo    PathCommandOp = 1
	OpLineTo    PathCommandOp = 2
	OpQuadratic PathCommandOp = 3
	OpCubic     PathCommandOp = 4
	OpArc       PathCommandOp = 5
)

// argCounts gives the fixed argument count per opcode (§4.4 table).
var argCounts = map[PathCommandOp]int{
	OpClose:     0,
	OpMoveTo:    2,
	OpLineTo:    2,
	OpQuadratic: 4,
	OpCubic:     6,
	OpArc:       4,
}

// PathCommand is one (cmd, args) pair of a path-command stream.
type PathCommand struct {
	Op   PathCommandOp
	Args []float32
}

// PathCommands is a decoded path-command sequence. The fill rule is
// not part of it; it is carried by the GeometryRef the path came from.
type PathCommands struct {
	Commands []PathCommand
}

// decodePathCommandStream decodes the binary (cmd u8, args f32...)
// stream (§4.4). Unknown opcodes soft-stop decoding: the commands
// read so far are returned without error.
func decodePathCommandStream(data []byte) (*PathCommands, error) {
	c := newCursor(data)
	var cmds []PathCommand
	for c.remaining() > 0 {
		opByte, err := c.readByte()
		if err != nil {
			return nil, err
		}
		op := PathCommandOp(opByte)
		argc, known := argCounts[op]
		if !known {
			break // soft stop (§4.4)
		}
		args := make([]float32, argc)
		for i := 0; i < argc; i++ {
			v, err := c.readFloat32()
			if err != nil {
				return &PathCommands{Commands: cmds}, nil
			}
			args[i] = v
		}
		cmds = append(cmds, PathCommand{Op: op, Args: args})
	}
	return &PathCommands{Commands: cmds}, nil
}

// decodePathCommandText decodes the alternative textual form: single
// letters M/L/Q/C/Z interleaved with numeric operands, to the same
// structured sequence (§4.4).
func decodePathCommandText(s string) (*PathCommands, error) {
	fields := strings.Fields(s)
	var cmds []PathCommand
	i := 0
	opFor := map[byte]PathCommandOp{
		'M': OpMoveTo, 'L': OpLineTo, 'Q': OpQuadratic, 'C': OpCubic, 'Z': OpClose,
	}
	for i < len(fields) {
		tok := fields[i]
		if len(tok) != 1 {
			break
		}
		op, ok := opFor[tok[0]]
		if !ok {
			break
		}
		i++
		argc := argCounts[op]
		args := make([]float32, 0, argc)
		for j := 0; j < argc && i < len(fields); j++ {
			f, err := strconv.ParseFloat(fields[i], 32)
			if err != nil {
				return &PathCommands{Commands: cmds}, nil
			}
			args = append(args, float32(f))
			i++
		}
		if len(args) != argc {
			break
		}
		cmds = append(cmds, PathCommand{Op: op, Args: args})
	}
	return &PathCommands{Commands: cmds}, nil
}

// Bounds sweeps endpoints and control points, implementing §4.4's
// "Path bounds" used by the renderer to derive a path-local scale.
func (p *PathCommands) Bounds() AABB {
	var box AABB
	for _, cmd := range p.Commands {
		for i := 0; i+1 < len(cmd.Args); i += 2 {
			box.Union(Vec2{X: cmd.Args[i], Y: cmd.Args[i+1]})
		}
	}
	return box
}

// HasGeometry reports whether the path has at least a move-to
// followed by another command, i.e. would emit a visible primitive
// (§8: "Path with only a single move-to emits no primitive").
func (p *PathCommands) HasGeometry() bool {
	if len(p.Commands) < 2 {
		return false
	}
	for _, cmd := range p.Commands[1:] {
		if cmd.Op != OpMoveTo {
			return true
		}
	}
	return false
}
