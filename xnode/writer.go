package xnode

import "strings"

// DefaultIndent is the indentation unit written once per nesting level.
const DefaultIndent = "  "

// Writer accumulates emitted code and tracks the current indentation depth.
// Node emission routines write into it; composite nodes delegate to their
// children through Build.
type Writer struct {
	Indent int

	unit string
	buf  strings.Builder
}

// NewWriter creates a Writer indenting with DefaultIndent.
func NewWriter() *Writer {
	return &Writer{unit: DefaultIndent}
}

// NewWriterIndent creates a Writer using unit as its per-level indentation.
// An empty unit falls back to DefaultIndent.
func NewWriterIndent(unit string) *Writer {
	if unit == "" {
		unit = DefaultIndent
	}
	return &Writer{unit: unit}
}

// Ident returns the indentation prefix for the current depth.
func (w *Writer) Ident() string {
	if w.Indent <= 0 {
		return ""
	}
	return strings.Repeat(w.unit, w.Indent)
}

// WriteIdent writes the indentation prefix for the current depth.
func (w *Writer) WriteIdent() {
	w.Write(w.Ident())
}

// Write appends s verbatim.
func (w *Writer) Write(s string) {
	if s != "" {
		w.buf.WriteString(s)
	}
}

// WriteLine writes one indented line terminated by a newline.
func (w *Writer) WriteLine(s string) {
	w.WriteIdent()
	w.Write(s)
	w.Write("\n")
}

// Build delegates emission to n. A nil node writes nothing.
func (w *Writer) Build(n Node) {
	if isNil(n) {
		return
	}
	n.Emit(w)
}

// String returns everything written so far.
func (w *Writer) String() string {
	return w.buf.String()
}

// Emit renders n with a fresh Writer and returns the result.
func Emit(n Node) string {
	w := NewWriter()
	w.Build(n)
	return w.String()
}
