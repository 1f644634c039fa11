// Copyright 2024 The figcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package fig

import (
	"fmt"
	"strconv"
	"strings"
)

// attr is one XML attribute in emission order; the renderer always
// builds attrs in a fixed sequence per element kind so two renders of
// the same input produce byte-identical output (§4.5 "Determinism").
type attr struct {
	name  string
	value string
}

// xmlElement is a minimal attribute-ordered element writer. No pack
// example imports a dedicated SVG-writing library (see DESIGN.md), so
// this is a small, narrowly-scoped stdlib-backed writer rather than a
// general-purpose XML encoder.
type xmlElement struct {
	tag      string
	attrs    []attr
	children []*xmlElement
	text     string
	selfClose bool
}

func newElement(tag string) *xmlElement {
	return &xmlElement{tag: tag}
}

func (e *xmlElement) attr(name, value string) *xmlElement {
	e.attrs = append(e.attrs, attr{name, value})
	return e
}

func (e *xmlElement) attrf(name, format string, args ...any) *xmlElement {
	return e.attr(name, fmt.Sprintf(format, args...))
}

func (e *xmlElement) num(name string, v float32) *xmlElement {
	return e.attr(name, formatFloat(v))
}

func (e *xmlElement) child(c *xmlElement) *xmlElement {
	e.children = append(e.children, c)
	return e
}

func (e *xmlElement) setText(s string) *xmlElement {
	e.text = s
	return e
}

// formatFloat renders a float with a fixed, locale-independent
// formatter (§4.5 "Determinism"): shortest round-trippable decimal,
// trimming a trailing ".0" the way hand-rolled numeric formatters in
// the pack's binary-format dumpers do for readability (e.g. the
// teacher's hexDump/prettyPrint helpers favor compact, stable text).
func formatFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	return s
}

func (e *xmlElement) WriteTo(sb *strings.Builder) {
	sb.WriteByte('<')
	sb.WriteString(e.tag)
	for _, a := range e.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.name)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(a.value))
		sb.WriteByte('"')
	}
	if len(e.children) == 0 && e.text == "" {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')
	if e.text != "" {
		sb.WriteString(escapeText(e.text))
	}
	for _, c := range e.children {
		c.WriteTo(sb)
	}
	sb.WriteString("</")
	sb.WriteString(e.tag)
	sb.WriteByte('>')
}

func (e *xmlElement) String() string {
	var sb strings.Builder
	e.WriteTo(&sb)
	return sb.String()
}

func escapeAttr(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")
	return r.Replace(s)
}

func escapeText(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;")
	return r.Replace(s)
}
