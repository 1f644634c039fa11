// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"math"
)

// DefKind is the closed set of type-definition kinds a schema
// definition can be (§3).
type DefKind uint8

const (
	DefEnum DefKind = iota
	DefStruct
	DefMessage
)

// Type codes for primitive fields: a field's encoded type is a signed
// varint where a negative value selects one of these primitive
// families and a non-negative value is an index into the schema's
// definition list (§4.2).
type TypeCode int64

const (
	TypeBool    TypeCode = -1
	TypeInt8    TypeCode = -2
	TypeInt16   TypeCode = -3
	TypeInt32   TypeCode = -4
	TypeInt64   TypeCode = -5
	TypeUint8   TypeCode = -6
	TypeUint16  TypeCode = -7
	TypeUint32  TypeCode = -8
	TypeUint64  TypeCode = -9
	TypeFloat32 TypeCode = -10
	TypeString  TypeCode = -11
	TypeBytes   TypeCode = -12
)

func (t TypeCode) isPrimitive() bool { return t < 0 }

// Field is one field of a STRUCT or MESSAGE definition.
type Field struct {
	Name     string
	Tag      int64
	TypeCode TypeCode
	IsArray  bool
}

// Definition is one schema type definition: an ENUM, STRUCT, or
// MESSAGE (§3).
type Definition struct {
	Name   string
	Kind   DefKind
	Fields []Field
}

// Schema is the ordered list of type definitions decoded from the
// embedded binary schema (§3, §4.2).
type Schema struct {
	Definitions []Definition
}

// RootDefinition returns the schema's root message, selected by name
// priority "Message" > "Document" > "Fig" > "Root", else the first
// MESSAGE definition (§3).
func (s *Schema) RootDefinition() (*Definition, error) {
	priority := []string{"Message", "Document", "Fig", "Root"}
	byName := make(map[string]*Definition, len(s.Definitions))
	for i := range s.Definitions {
		d := &s.Definitions[i]
		if d.Kind == DefMessage {
			byName[d.Name] = d
		}
	}
	for _, name := range priority {
		if d, ok := byName[name]; ok {
			return d, nil
		}
	}
	for i := range s.Definitions {
		if s.Definitions[i].Kind == DefMessage {
			return &s.Definitions[i], nil
		}
	}
	return nil, ErrSchemaMismatch
}

// cursor is a bounds-checked byte reader used throughout the binary
// decoders (schema bytes and payload bytes alike), mirroring the
// teacher's ubiquitous pre-read bounds checks before every multi-byte
// field access.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

func (c *cursor) requireByte(n int) error {
	if c.remaining() < n {
		return corruptf(c.pos, "need %d bytes, have %d", n, c.remaining())
	}
	return nil
}

func (c *cursor) readByte() (byte, error) {
	if err := c.requireByte(1); err != nil {
		return 0, err
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) readBool() (bool, error) {
	b, err := c.readByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// readVarint reads an unsigned LEB128 varint.
func (c *cursor) readVarint() (uint64, error) {
	var result uint64
	var shift uint
	for {
		if shift >= 64 {
			return 0, corruptf(c.pos, "varint too long")
		}
		b, err := c.readByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// readSignedVarint reads a zig-zag encoded signed varint.
func (c *cursor) readSignedVarint() (int64, error) {
	u, err := c.readVarint()
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -(int64(u) & 1), nil
}

func (c *cursor) readFloat32() (float32, error) {
	if err := c.requireByte(4); err != nil {
		return 0, err
	}
	bits := uint32(c.data[c.pos]) | uint32(c.data[c.pos+1])<<8 |
		uint32(c.data[c.pos+2])<<16 | uint32(c.data[c.pos+3])<<24
	c.pos += 4
	return math.Float32frombits(bits), nil
}

func (c *cursor) readFixedUint(n int) (uint64, error) {
	if err := c.requireByte(n); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < n; i++ {
		v |= uint64(c.data[c.pos+i]) << (8 * i)
	}
	c.pos += n
	return v, nil
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, corruptf(c.pos, "negative length %d", n)
	}
	if err := c.requireByte(n); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// readLenPrefixedString reads a varint-length-prefixed UTF-8 string.
func (c *cursor) readLenPrefixedString() (string, error) {
	n, err := c.readVarint()
	if err != nil {
		return "", err
	}
	b, err := c.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readLenPrefixedBytes reads a varint-length-prefixed byte array.
func (c *cursor) readLenPrefixedBytes() ([]byte, error) {
	n, err := c.readVarint()
	if err != nil {
		return nil, err
	}
	return c.readBytes(int(n))
}

// decodeSchema decodes the binary schema format (§4.2): a
// varint-prefixed definition count, then that many definition
// records.
func decodeSchema(data []byte) (*Schema, error) {
	c := newCursor(data)
	count, err := c.readVarint()
	if err != nil {
		return nil, err
	}

	schema := &Schema{Definitions: make([]Definition, 0, count)}
	for i := uint64(0); i < count; i++ {
		def, err := decodeDefinition(c)
		if err != nil {
			return nil, err
		}
		schema.Definitions = append(schema.Definitions, def)
	}
	return schema, nil
}

func decodeDefinition(c *cursor) (Definition, error) {
	name, err := c.readLenPrefixedString()
	if err != nil {
		return Definition{}, err
	}
	kindByte, err := c.readByte()
	if err != nil {
		return Definition{}, err
	}
	if kindByte > byte(DefMessage) {
		return Definition{}, corruptf(c.pos, "unknown definition kind %d", kindByte)
	}
	kind := DefKind(kindByte)

	fieldCount, err := c.readVarint()
	if err != nil {
		return Definition{}, err
	}

	fields := make([]Field, 0, fieldCount)
	for i := uint64(0); i < fieldCount; i++ {
		f, err := decodeField(c)
		if err != nil {
			return Definition{}, err
		}
		fields = append(fields, f)
	}

	return Definition{Name: name, Kind: kind, Fields: fields}, nil
}

func decodeField(c *cursor) (Field, error) {
	name, err := c.readLenPrefixedString()
	if err != nil {
		return Field{}, err
	}
	tag, err := c.readVarint()
	if err != nil {
		return Field{}, err
	}
	typeCode, err := c.readSignedVarint()
	if err != nil {
		return Field{}, err
	}
	isArray, err := c.readBool()
	if err != nil {
		return Field{}, err
	}
	return Field{Name: name, Tag: int64(tag), TypeCode: TypeCode(typeCode), IsArray: isArray}, nil
}
