package compiler

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vcrobe/malina/dom"
	"github.com/vcrobe/malina/xnode"
)

var sysTagRx = regexp.MustCompile(`^@(\w+)\s+(.*)$`)

// BlockOptions tunes one BuildBlock invocation.
type BlockOptions struct {
	// ExtraArguments are appended to the binder's ($cd, $parentElement).
	ExtraArguments []string
	// ProtectLastTag appends an empty anchor comment when the scope ends
	// with a dynamic construct.
	ProtectLastTag bool
}

// BlockResult is the compiled form of one scope.
type BlockResult struct {
	// Tpl is the static markup, unescaped. Quote it with Q when embedding.
	Tpl string
	// Name is the binder function name, or Noop.
	Name string
	// Source is the binder function, nil when Name is Noop.
	Source *xnode.Function
	// SVG is set when every root element of the scope is an SVG element.
	SVG bool
}

// Fragment returns the expression cloning the scope's template.
func (r *BlockResult) Fragment() string {
	return fmt.Sprintf("%s(`%s`)", fragmentHelper(r.SVG), Q(r.Tpl))
}

// MakeBlock wraps a compiled scope as a runtime block expression,
// $runtime.makeBlock(<fragment>, <binder>), with the binder inline. Call it
// while building, never from an emission routine.
func MakeBlock(r *BlockResult) xnode.Node {
	if r.Source != nil {
		r.Source.Inline = true
	}
	return xnode.MustNew("makeBlock", func(w *xnode.Writer) {
		w.Write("$runtime.makeBlock(" + r.Fragment() + ", ")
		if r.Source == nil {
			w.Write(Noop)
		} else {
			w.Build(r.Source)
		}
		w.Write(")")
	})
}

// address is one node of the address tree, keyed by child index.
type address struct {
	name     string
	children map[int]*address
}

func (a *address) child(k int) *address {
	if a.children == nil {
		a.children = make(map[int]*address)
	}
	d, ok := a.children[k]
	if !ok {
		d = &address{}
		a.children[k] = d
	}
	return d
}

func (a *address) keys() []int {
	keys := make([]int, 0, len(a.children))
	for k := range a.children {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// blockBuilder is the state of one BuildBlock invocation.
type blockBuilder struct {
	c       *Compiler
	tpl     []string
	lvl     []int
	root    address
	binds   *xnode.Block
	lastTag bool
	svg     bool
}

// BuildBlock compiles one scope: the root template, a branch of a
// conditional or async block, a loop body or a fragment.
func (c *Compiler) BuildBlock(body []dom.Node, opts BlockOptions) (*BlockResult, error) {
	b := &blockBuilder{c: c, binds: xnode.NewBlock()}
	if err := b.walk(0, body, nil, true); err != nil {
		return nil, err
	}
	if b.lastTag && opts.ProtectLastTag {
		b.tpl = append(b.tpl, "<!---->")
	}

	result := &BlockResult{Tpl: strings.Join(b.tpl, ""), SVG: b.svg}
	if b.binds.Empty() {
		result.Name = Noop
		return result, nil
	}

	result.Name = c.Uniq("$$build")
	args := append([]string{"$cd", "$parentElement"}, opts.ExtraArguments...)
	source := xnode.NewFunction(result.Name, args)
	b.declare(source, &b.root, "$parentElement")
	source.Push(b.binds)
	result.Source = source
	return result, nil
}

// declare emits the address declarations: every named position is reached
// from its nearest named ancestor through firstChild/childNodes steps.
// Positions with more than one addressed child get a name of their own.
func (b *blockBuilder) declare(fn *xnode.Function, d *address, base string) {
	keys := d.keys()
	if len(keys) > 1 && d.name == "" {
		d.name = b.c.Uniq("el")
	}
	if d.name != "" {
		fn.Linef("let %s = %s;", d.name, base)
		base = d.name
	}
	for _, k := range keys {
		step := "[$runtime.firstChild]"
		if k != 0 {
			step = fmt.Sprintf("[$runtime.childNodes][%d]", k)
		}
		b.declare(fn, d.children[k], base+step)
	}
}

// elementName names the position currently being compiled, or an ancestor
// of it for a negative shift.
func (b *blockBuilder) elementName(shift int) string {
	path := b.lvl
	if shift < 0 {
		path = path[:len(path)+shift]
	}
	d := &b.root
	for _, k := range path {
		d = d.child(k)
	}
	if d.name == "" {
		d.name = b.c.Uniq("el")
	}
	return d.name
}

func (b *blockBuilder) setLvl(level int, index *int) {
	if len(b.lvl) <= level {
		b.lvl = append(b.lvl, *index)
	} else {
		b.lvl[level] = *index
	}
	*index++
}

func (b *blockBuilder) walk(level int, nodes []dom.Node, parent *dom.Element, isRoot bool) error {
	body, err := b.filter(nodes)
	if err != nil {
		return err
	}

	if isRoot {
		svg, other := false, false
		for _, n := range body {
			// components, slots and fragment calls count as non-SVG markup
			e, ok := n.(*dom.Element)
			if !ok {
				continue
			}
			if !svgElements[e.Name] {
				other = true
				break
			}
			svg = true
		}
		b.svg = svg && !other
	}

	body = coalesceText(body)

	index := 0
	for _, n := range body {
		if err := b.bindNode(level, &index, n, parent); err != nil {
			return annotate(err, n)
		}
	}
	b.lvl = b.lvl[:level]
	return nil
}

// filter drops nodes that produce no markup and compiles fragment
// declarations in place.
func (b *blockBuilder) filter(nodes []dom.Node) ([]dom.Node, error) {
	body := make([]dom.Node, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *dom.Script, *dom.Style, *dom.Slot:
			continue
		case *dom.Comment:
			if !b.c.cfg.PreserveComments {
				continue
			}
		case *dom.Fragment:
			bind, err := b.c.builders.MakeFragment(b.c, n)
			if err != nil {
				return nil, annotate(err, n)
			}
			b.binds.Push(bind)
			continue
		}
		body = append(body, n)
	}
	return body, nil
}

// coalesceText merges adjacent text nodes into fresh nodes so a text run
// never spans two addresses. The input tree is left untouched.
func coalesceText(body []dom.Node) []dom.Node {
	out := make([]dom.Node, 0, len(body))
	for _, n := range body {
		t, ok := n.(*dom.Text)
		if !ok {
			out = append(out, n)
			continue
		}
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*dom.Text); ok {
				out[len(out)-1] = &dom.Text{Value: prev.Value + t.Value}
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func (b *blockBuilder) bindNode(level int, index *int, node dom.Node, parent *dom.Element) error {
	c := b.c
	switch n := node.(type) {
	case *dom.Text:
		b.setLvl(level, index)
		if !strings.Contains(n.Value, "{") {
			b.tpl = append(b.tpl, n.Value)
			break
		}
		b.tpl = append(b.tpl, " ")
		exp, err := c.exprs.ParseText(n.Value)
		if err != nil {
			return err
		}
		if err := c.DetectDependency(exp); err != nil {
			return err
		}
		b.binds.Push(c.bindText(b.elementName(0), exp))

	case *dom.Template:
		b.setLvl(level, index)
		b.tpl = append(b.tpl, n.OpenTag, n.Content, "</template>")

	case *dom.Element:
		b.setLvl(level, index)
		switch {
		case n.IsComponent():
			b.tpl = append(b.tpl, c.Label(n.Name))
			bind, err := c.builders.MakeComponent(c, n, b.elementName)
			if err != nil {
				return err
			}
			b.binds.Push(bind)
			b.lastTag = true
			return nil
		case n.Name == "slot":
			slotName := n.ElArg
			if slotName == "" {
				slotName = "default"
			}
			b.tpl = append(b.tpl, c.Label("Slot "+slotName))
			bind, err := c.builders.AttachSlot(c, slotName, b.elementName(0), n)
			if err != nil {
				return err
			}
			b.binds.Push(bind)
			b.lastTag = true
			return nil
		case n.Name == "fragment":
			b.tpl = append(b.tpl, c.Label("Fragment "+n.ElArg))
			bind, err := c.builders.AttachFragment(c, n, b.elementName(0))
			if err != nil {
				return err
			}
			b.binds.Push(bind)
			b.lastTag = true
			return nil
		}
		if err := b.bindElement(level, n); err != nil {
			return err
		}

	case *dom.Each:
		b.setLvl(level, index)
		if parent != nil && len(parent.Body) == 1 {
			bind, err := c.builders.MakeEachBlock(c, n, EachOptions{ElementName: b.elementName(-1), OnlyChild: true})
			if err != nil {
				return err
			}
			b.binds.Push(bind)
			return nil
		}
		b.tpl = append(b.tpl, c.Label(n.Value))
		bind, err := c.builders.MakeEachBlock(c, n, EachOptions{ElementName: b.elementName(0)})
		if err != nil {
			return err
		}
		b.binds.Push(bind)
		b.lastTag = true
		return nil

	case *dom.If:
		b.setLvl(level, index)
		b.tpl = append(b.tpl, c.Label(n.Value))
		bind, err := c.makeIfBlock(n, b.elementName(0))
		if err != nil {
			return err
		}
		b.binds.Push(bind)
		b.lastTag = true
		return nil

	case *dom.SysTag:
		m := sysTagRx.FindStringSubmatch(n.Value)
		if m == nil {
			return GrammarError("wrong system tag %q", n.Value)
		}
		if m[1] != "html" {
			return UnknownError("Wrong tag: @%s", m[1])
		}
		b.setLvl(level, index)
		b.tpl = append(b.tpl, c.Label("html"))
		bind, err := c.builders.MakeHTMLBlock(c, m[2], b.elementName(0))
		if err != nil {
			return err
		}
		b.binds.Push(bind)
		b.lastTag = true
		return nil

	case *dom.Await:
		b.setLvl(level, index)
		b.tpl = append(b.tpl, c.Label(n.Value))
		bind, err := c.makeAwaitBlock(n, func() Label { return Label{Name: b.elementName(0)} })
		if err != nil {
			return err
		}
		b.binds.Push(bind)
		b.lastTag = true
		return nil

	case *dom.Comment:
		b.setLvl(level, index)
		b.tpl = append(b.tpl, n.Content)

	default:
		return UnknownError("unexpected %s node", node.Type())
	}
	b.lastTag = false
	return nil
}

// bindElement writes the opening tag, binds its attributes and recurses
// into the body.
func (b *blockBuilder) bindElement(level int, n *dom.Element) error {
	c := b.c
	tag := []string{"<" + n.Name}
	classes := append([]string(nil), n.Classes...)

	var spread string
	for _, a := range n.Attributes {
		if !a.IsSpread() {
			continue
		}
		spread = c.Uniq("spread")
		cssID := "null"
		if c.css != nil {
			cssID = "'" + c.css.ID + "'"
			classes = appendClass(classes, c.css.ID)
		}
		c.Require("apply")
		b.binds.Linef("let %s = $runtime.$$makeSpreadObject($cd, %s, %s);", spread, b.elementName(0), cssID)
		break
	}

	target := PropTarget{Element: n, Name: b.elementName, Spread: spread}
	for _, a := range n.Attributes {
		r, err := c.builders.BindProp(c, a, target)
		if err != nil {
			return err
		}
		if r.Prop != "" {
			tag = append(tag, r.Prop)
		}
		for _, cl := range r.Classes {
			classes = appendClass(classes, cl)
		}
		b.binds.Push(r.Bind)
	}
	if len(classes) > 0 {
		tag = append(tag, fmt.Sprintf(`class="%s"`, strings.Join(classes, " ")))
	}

	open := strings.Join(tag, " ")
	if n.ClosedTag {
		if n.VoidTag || n.IsVoid() {
			open += "/>"
		} else {
			open += "></" + n.Name + ">"
		}
		b.tpl = append(b.tpl, open)
		return nil
	}
	b.tpl = append(b.tpl, open+">")
	if err := b.walk(level+1, n.Body, n, false); err != nil {
		return err
	}
	b.tpl = append(b.tpl, "</"+n.Name+">")
	return nil
}

func appendClass(classes []string, name string) []string {
	for _, c := range classes {
		if c == name {
			return classes
		}
	}
	return append(classes, name)
}

// bindText updates a text node. Change detection is only wired when the
// component requires it; the decision is taken at emission time.
func (c *Compiler) bindText(el, exp string) xnode.Node {
	return xnode.MustNew("bindText", func(w *xnode.Writer) {
		if c.Uses("apply") {
			w.WriteLine(fmt.Sprintf("$runtime.bindText($cd, %s, () => %s);", el, exp))
		} else {
			w.WriteLine(fmt.Sprintf("%s.textContent = %s;", el, exp))
		}
	})
}
