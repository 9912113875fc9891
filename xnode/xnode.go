// Package xnode is the intermediate representation the template compiler
// emits: a small tree of tagged nodes, each knowing how to write itself into
// a Writer.
//
// Three kinds are catalogued and need no emission routine: KindRaw (one or
// more literal lines), KindBlock (an ordered list of children) and
// KindFunction (a block wrapped in a named or anonymous function). Any other
// kind is caller-defined and must bring its own routine.
package xnode

import (
	"errors"
	"fmt"
	"strings"
)

// Catalogued node kinds.
const (
	KindRaw      = "raw"
	KindBlock    = "block"
	KindFunction = "function"
)

// ErrNoEmitter is returned by New when a kind has neither a catalogued
// default nor an explicit emission routine.
var ErrNoEmitter = errors.New("xnode: no emission routine")

// Node is a unit of emittable code.
type Node interface {
	Kind() string
	Emit(w *Writer)
}

// EmitFunc writes a caller-defined node.
type EmitFunc func(w *Writer)

// New builds a node of the given kind. A nil emit resolves to the catalogued
// default for raw, block and function kinds and fails for anything else.
func New(kind string, emit EmitFunc) (Node, error) {
	if emit != nil {
		return &Custom{kind: kind, emit: emit}, nil
	}
	switch kind {
	case KindRaw:
		return &Raw{}, nil
	case KindBlock:
		return NewBlock(), nil
	case KindFunction:
		return NewFunction("", nil), nil
	}
	return nil, fmt.Errorf("%w for kind %q", ErrNoEmitter, kind)
}

// MustNew is like New but panics when the node cannot be built. It is meant
// for kinds fixed at compile time.
func MustNew(kind string, emit EmitFunc) Node {
	n, err := New(kind, emit)
	if err != nil {
		panic(err)
	}
	return n
}

// Raw emits its value as one line at the current indentation. Embedded
// newlines are written verbatim so template literals keep their content.
type Raw struct {
	Value string
}

// NewRaw returns a raw node holding value.
func NewRaw(value string) *Raw {
	return &Raw{Value: value}
}

func (*Raw) Kind() string { return KindRaw }

func (r *Raw) Emit(w *Writer) {
	w.WriteLine(r.Value)
}

// Block is an ordered, append-only list of child nodes. When Scope is set the
// children are wrapped in braces.
type Block struct {
	Scope bool

	body []Node
}

// NewBlock returns an empty block.
func NewBlock() *Block {
	return &Block{}
}

func (*Block) Kind() string { return KindBlock }

// Push appends child nodes in order. Nil children are ignored so that
// builders reporting "nothing to emit" can be pushed unconditionally.
func (b *Block) Push(children ...Node) {
	for _, c := range children {
		if isNil(c) {
			continue
		}
		b.body = append(b.body, c)
	}
}

// Line appends a literal line. Empty lines are ignored.
func (b *Block) Line(s string) {
	if s == "" {
		return
	}
	b.body = append(b.body, NewRaw(s))
}

// Linef appends a formatted literal line.
func (b *Block) Linef(format string, args ...any) {
	b.Line(fmt.Sprintf(format, args...))
}

// Empty reports whether nothing has been appended.
func (b *Block) Empty() bool {
	return len(b.body) == 0
}

// Len returns the number of children.
func (b *Block) Len() int {
	return len(b.body)
}

func (b *Block) Emit(w *Writer) {
	if b.Scope {
		w.WriteLine("{")
		w.Indent++
	}
	b.emitBody(w)
	if b.Scope {
		w.Indent--
		w.WriteLine("}")
	}
}

func (b *Block) emitBody(w *Writer) {
	for _, n := range b.body {
		n.Emit(w)
	}
}

// Function is a block rendered as a function. With Inline set the function
// is written in expression position: no leading indentation and no trailing
// newline, so it can be embedded in an argument list.
type Function struct {
	Block
	Name   string
	Args   []string
	Inline bool
}

// NewFunction returns an empty function node. An empty name yields an
// anonymous function.
func NewFunction(name string, args []string) *Function {
	return &Function{Name: name, Args: append([]string(nil), args...)}
}

func (*Function) Kind() string { return KindFunction }

func (f *Function) Emit(w *Writer) {
	if !f.Inline {
		w.WriteIdent()
	}
	w.Write("function")
	if f.Name != "" {
		w.Write(" " + f.Name)
	}
	w.Write("(" + strings.Join(f.Args, ", ") + ") {\n")
	w.Indent++
	f.Block.Emit(w)
	w.Indent--
	if f.Inline {
		w.Write(w.Ident() + "}")
	} else {
		w.WriteLine("}")
	}
}

// Custom is a caller-defined node kind with its own emission routine.
type Custom struct {
	kind string
	emit EmitFunc
}

func (c *Custom) Kind() string { return c.kind }

func (c *Custom) Emit(w *Writer) { c.emit(w) }

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Raw:
		return v == nil
	case *Block:
		return v == nil
	case *Function:
		return v == nil
	case *Custom:
		return v == nil
	}
	return false
}
