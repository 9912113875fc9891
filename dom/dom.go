// Package dom holds the parsed template tree the compiler consumes.
//
// The tree is a closed set of node types. A parser outside this module builds
// it; Compact normalises its whitespace in place; the compiler only reads it.
package dom

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// Type tags every node kind of the document tree.
type Type string

const (
	TypeText      Type = "text"
	TypeNode      Type = "node"
	TypeTemplate  Type = "template"
	TypeComment   Type = "comment"
	TypeEach      Type = "each"
	TypeIf        Type = "if"
	TypeAwait     Type = "await"
	TypeSysTag    Type = "systag"
	TypeFragment  Type = "fragment"
	TypeSlot      Type = "slot"
	TypeComponent Type = "component"
	TypeScript    Type = "script"
	TypeStyle     Type = "style"
)

// Node is implemented by every document tree node. The unexported marker
// keeps the set closed to this package.
type Node interface {
	Type() Type
	node()
}

// Document is the root of one component's template.
type Document struct {
	Body []Node
}

// Text is a run of character data, possibly containing {expressions}.
type Text struct {
	Value string
}

// Attribute is one attribute of an element as written in the source.
type Attribute struct {
	Name    string
	Value   string
	Content string // raw source text of the attribute, e.g. `title={x}`
}

// IsSpread reports whether the attribute is a {...object} spread.
func (a Attribute) IsSpread() bool {
	return strings.HasPrefix(a.Name, "{...")
}

// Element is an HTML element, a nested component (capitalised name or the
// literal "component" tag), a slot outlet or a fragment call.
type Element struct {
	Name       string
	OpenTag    string
	ElArg      string // suffix after ':' in the tag name, e.g. the slot name in <slot:title>
	Attributes []Attribute
	Classes    []string
	Body       []Node
	ClosedTag  bool // no body follows: <br>, <img/>, <div/>
	VoidTag    bool // HTML void element
}

// Type reports TypeComponent for component tags and TypeNode otherwise.
func (e *Element) Type() Type {
	if e.IsComponent() {
		return TypeComponent
	}
	return TypeNode
}

// IsComponent reports whether the element mounts a nested component.
func (e *Element) IsComponent() bool {
	if e.Name == "component" {
		return true
	}
	return e.Name != "" && e.Name[0] >= 'A' && e.Name[0] <= 'Z'
}

// Atom returns the html atom of the tag name, or zero for unknown names.
func (e *Element) Atom() atom.Atom {
	return atom.Lookup([]byte(e.Name))
}

// IsVoid reports whether the tag is an HTML void element.
func (e *Element) IsVoid() bool {
	return voidElements[e.Atom()]
}

// Template is a <template> element copied verbatim into the output.
type Template struct {
	OpenTag string
	Content string
}

// Comment is an HTML comment; Content includes the <!-- --> delimiters.
type Comment struct {
	Content string
}

// Each is an iteration block: {#each items as item}...{/each}.
type Each struct {
	Value string
	Body  []Node
}

// If is a conditional block: {#if cond}Main{:else}Else{/if}.
// Else is nil when there is no alternate branch.
type If struct {
	Value string
	Main  []Node
	Else  []Node
}

// HasElse reports whether an alternate branch was written.
func (n *If) HasElse() bool {
	return n.Else != nil
}

// AwaitParts holds the branches of an await block. ThenValue and CatchValue
// are the raw headers of the {:then v} and {:catch e} clauses.
type AwaitParts struct {
	Main       []Node
	Then       []Node
	Catch      []Node
	ThenValue  string
	CatchValue string
}

// Await is an asynchronous block: {#await p}pending{:then v}ok{:catch e}err{/await}.
type Await struct {
	Value string
	Parts AwaitParts
}

// SysTag is a system directive such as {@html exp}.
type SysTag struct {
	Value string
}

// Fragment declares a reusable fragment: {#fragment:name a, b}...{/fragment}.
type Fragment struct {
	Value string
	Name  string
	Args  []string
	Body  []Node
}

// Slot declares slot content passed to a nested component.
type Slot struct {
	Name string
	Body []Node
}

// Script is the component's <script> section.
type Script struct {
	Content string
}

// Style is the component's <style> section.
type Style struct {
	Content string
}

func (*Text) Type() Type     { return TypeText }
func (*Template) Type() Type { return TypeTemplate }
func (*Comment) Type() Type  { return TypeComment }
func (*Each) Type() Type     { return TypeEach }
func (*If) Type() Type       { return TypeIf }
func (*Await) Type() Type    { return TypeAwait }
func (*SysTag) Type() Type   { return TypeSysTag }
func (*Fragment) Type() Type { return TypeFragment }
func (*Slot) Type() Type     { return TypeSlot }
func (*Script) Type() Type   { return TypeScript }
func (*Style) Type() Type    { return TypeStyle }

func (*Text) node()     {}
func (*Element) node()  {}
func (*Template) node() {}
func (*Comment) node()  {}
func (*Each) node()     {}
func (*If) node()       {}
func (*Await) node()    {}
func (*SysTag) node()   {}
func (*Fragment) node() {}
func (*Slot) node()     {}
func (*Script) node()   {}
func (*Style) node()    {}

var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}
