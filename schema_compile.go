// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

// compiledSchema is the in-memory function table produced by
// compileSchema: a pure decoder over a byte cursor, keyed by
// definition name (§4.2 "Compiled schema"). Grounded on the teacher's
// funcMaps dispatch table in ParseDataDirectories (pe.go), which maps
// a discriminant to a handler function rather than branching in a
// long switch.
type compiledSchema struct {
	schema   *Schema
	byName   map[string]*Definition
	decoders map[string]func(*cursor) (Value, error)
}

// compileSchema builds the decoder table. Each STRUCT decoder reads
// its fields in declaration order; each MESSAGE decoder reads
// (tag, value) pairs until tag==0, dispatching by tag, and skips
// unrecognized tags as a varint byte count followed by that many
// bytes (see skipUnknownField).
func compileSchema(schema *Schema) (*compiledSchema, error) {
	cs := &compiledSchema{
		schema:   schema,
		byName:   make(map[string]*Definition, len(schema.Definitions)),
		decoders: make(map[string]func(*cursor) (Value, error), len(schema.Definitions)),
	}
	for i := range schema.Definitions {
		d := &schema.Definitions[i]
		cs.byName[d.Name] = d
	}
	for i := range schema.Definitions {
		d := &schema.Definitions[i]
		switch d.Kind {
		case DefStruct:
			cs.decoders[d.Name] = cs.structDecoder(d)
		case DefMessage:
			cs.decoders[d.Name] = cs.messageDecoder(d)
		case DefEnum:
			cs.decoders[d.Name] = cs.enumDecoder(d)
		}
	}
	return cs, nil
}

func (cs *compiledSchema) structDecoder(d *Definition) func(*cursor) (Value, error) {
	return func(c *cursor) (Value, error) {
		rec := Record{TypeName: d.Name, Fields: make(map[string]Value, len(d.Fields))}
		for _, f := range d.Fields {
			v, err := cs.decodeFieldValue(c, f)
			if err != nil {
				return nil, err
			}
			rec.Fields[f.Name] = v
			rec.fieldOrder = append(rec.fieldOrder, f.Name)
		}
		return rec, nil
	}
}

func (cs *compiledSchema) messageDecoder(d *Definition) func(*cursor) (Value, error) {
	byTag := make(map[int64]Field, len(d.Fields))
	for _, f := range d.Fields {
		byTag[f.Tag] = f
	}
	return func(c *cursor) (Value, error) {
		rec := Record{TypeName: d.Name, Fields: make(map[string]Value, len(d.Fields))}
		for {
			tag, err := c.readVarint()
			if err != nil {
				return nil, err
			}
			if tag == 0 {
				return rec, nil
			}
			f, known := byTag[int64(tag)]
			if !known {
				if err := cs.skipUnknownField(c); err != nil {
					return nil, err
				}
				continue
			}
			v, err := cs.decodeFieldValue(c, f)
			if err != nil {
				return nil, err
			}
			rec.Fields[f.Name] = v
			rec.fieldOrder = append(rec.fieldOrder, f.Name)
		}
	}
}

// enumDecoder decodes an enum instance as a plain varint discriminant
// wrapped in a Primitive; enum member names live in the Definition
// and are resolved by callers that care (node type tag mapping, for
// instance) rather than baked into every decoded value.
func (cs *compiledSchema) enumDecoder(d *Definition) func(*cursor) (Value, error) {
	return func(c *cursor) (Value, error) {
		v, err := c.readVarint()
		if err != nil {
			return nil, err
		}
		return Primitive{kind: primUint, Uint: v}, nil
	}
}

// skipUnknownField skips a field whose tag matched nothing in the
// compiled definition. Since the schema embedded in the same file is
// always the one used to compile this decoder, an unknown tag only
// arises from malformed or forward-produced input; such tags are
// skipped via a length-prefixed blob convention (a varint byte count
// followed by that many bytes), the same "skip what you don't
// recognize, by length" shape the format uses for strings and byte
// arrays. Truncated input here is Corrupt per §4.2.
func (cs *compiledSchema) skipUnknownField(c *cursor) error {
	n, err := c.readVarint()
	if err != nil {
		return err
	}
	_, err = c.readBytes(int(n))
	return err
}

func (cs *compiledSchema) decodeFieldValue(c *cursor, f Field) (Value, error) {
	if f.IsArray {
		count, err := c.readVarint()
		if err != nil {
			return nil, err
		}
		items := make([]Value, 0, count)
		for i := uint64(0); i < count; i++ {
			v, err := cs.decodeScalar(c, f.TypeCode)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return Sequence{Items: items}, nil
	}
	return cs.decodeScalar(c, f.TypeCode)
}

func (cs *compiledSchema) decodeScalar(c *cursor, t TypeCode) (Value, error) {
	if !t.isPrimitive() {
		idx := int64(t)
		if idx < 0 || int(idx) >= len(cs.schema.Definitions) {
			return nil, ErrSchemaMismatch
		}
		def := &cs.schema.Definitions[idx]
		decode, ok := cs.decoders[def.Name]
		if !ok {
			return nil, ErrSchemaMismatch
		}
		return decode(c)
	}

	switch t {
	case TypeBool:
		b, err := c.readBool()
		return Primitive{kind: primBool, Bool: b}, err
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		v, err := c.readSignedVarint()
		return Primitive{kind: primInt, Int: v}, err
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		v, err := c.readVarint()
		return Primitive{kind: primUint, Uint: v}, err
	case TypeFloat32:
		v, err := c.readFloat32()
		return Primitive{kind: primFloat32, Float32: v}, err
	case TypeString:
		v, err := c.readLenPrefixedString()
		return Primitive{kind: primString, Str: v}, err
	case TypeBytes:
		v, err := c.readLenPrefixedBytes()
		return Bytes{Data: v}, err
	default:
		return nil, ErrSchemaMismatch
	}
}

// decodePayload decodes the data_bytes chunk against the schema's
// root definition (§4.2, §3 "exactly one root message").
func decodePayload(cs *compiledSchema, data []byte) (Record, error) {
	root, err := cs.schema.RootDefinition()
	if err != nil {
		return Record{}, err
	}
	decode, ok := cs.decoders[root.Name]
	if !ok {
		return Record{}, ErrSchemaMismatch
	}
	c := newCursor(data)
	v, err := decode(c)
	if err != nil {
		return Record{}, err
	}
	rec, ok := v.(Record)
	if !ok {
		return Record{}, ErrSchemaMismatch
	}
	return rec, nil
}
