package compiler

import (
	"github.com/vcrobe/malina/dom"
	"github.com/vcrobe/malina/xnode"
)

// Expressions turns template text into target-language expressions.
type Expressions interface {
	// ParseText converts interpolated text such as "a {b} c" into one
	// expression.
	ParseText(source string) (string, error)
	// Keywords returns the free names an expression reads, sorted.
	Keywords(exp string) ([]string, error)
}

// ElementName returns the address name of the element currently being
// compiled. A negative shift addresses an ancestor instead (-1 is the
// parent). Names are allocated on first use.
type ElementName func(shift int) string

// PropTarget describes the element an attribute belongs to.
type PropTarget struct {
	Element *dom.Element
	Name    ElementName
	// Spread is the spread-object variable of the element, or empty.
	Spread string
}

// PropResult is what one attribute contributes: static markup for the
// opening tag, a runtime binding, or class names merged into class="".
type PropResult struct {
	Prop    string
	Bind    xnode.Node
	Classes []string
}

// EachOptions carries the mount point of an iteration block.
type EachOptions struct {
	ElementName string
	// OnlyChild is set when the block is the sole child of its element and
	// mounts directly into it, with no placeholder comment.
	OnlyChild bool
}

// Builders compiles the constructs the block compiler delegates. Each
// method receives the Compiler so it can allocate names, raise
// requirements and re-enter BuildBlock for nested bodies.
type Builders interface {
	BindProp(c *Compiler, attr dom.Attribute, target PropTarget) (PropResult, error)
	MakeComponent(c *Compiler, n *dom.Element, name ElementName) (xnode.Node, error)
	MakeEachBlock(c *Compiler, n *dom.Each, opts EachOptions) (xnode.Node, error)
	AttachSlot(c *Compiler, slotName, label string, n *dom.Element) (xnode.Node, error)
	AttachFragment(c *Compiler, n *dom.Element, label string) (xnode.Node, error)
	MakeHTMLBlock(c *Compiler, exp, label string) (xnode.Node, error)
	MakeFragment(c *Compiler, n *dom.Fragment) (xnode.Node, error)
}

// Collaborators bundles both collaborator contracts.
type Collaborators interface {
	Expressions
	Builders
}
