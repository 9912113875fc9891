package parts

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vcrobe/malina/compiler"
	"github.com/vcrobe/malina/dom"
	"github.com/vcrobe/malina/xnode"
)

var eachRx = regexp.MustCompile(`(?s)^#each\s+(.+?)\s+as\s+(.+)$`)

// MakeEachBlock compiles {#each list as item, index}. The body is built as
// its own scope whose binder receives the item and the index.
func (Builders) MakeEachBlock(c *compiler.Compiler, n *dom.Each, opts compiler.EachOptions) (xnode.Node, error) {
	m := eachRx.FindStringSubmatch(strings.TrimSpace(n.Value))
	if m == nil {
		return nil, compiler.GrammarError("invalid {#each} directive %q\n"+
			"  Correct syntax: {#each items as item} or {#each items as item, index}", n.Value)
	}
	list := strings.TrimSpace(m[1])

	names := strings.Split(m[2], ",")
	if len(names) > 2 {
		return nil, compiler.GrammarError("invalid {#each} directive %q: at most an item and an index may be named", n.Value)
	}
	item, index := strings.TrimSpace(names[0]), "$index"
	if len(names) == 2 {
		index = strings.TrimSpace(names[1])
	}
	for _, name := range []string{item, index} {
		if !compiler.IsSimpleName(name) || strings.Contains(name, ".") {
			return nil, compiler.SemanticError("wrong name %q in %q", name, n.Value)
		}
	}

	body, err := c.BuildBlock(n.Body, compiler.BlockOptions{ExtraArguments: []string{item, index}})
	if err != nil {
		return nil, err
	}
	if err := c.DetectDependency(list); err != nil {
		return nil, err
	}
	c.Require("apply")

	onlyChild := 0
	if opts.OnlyChild {
		onlyChild = 1
	}

	block := xnode.NewBlock()
	block.Scope = true
	block.Linef("let eachfr = %s;", body.Fragment())
	block.Push(body.Source)
	block.Line(fmt.Sprintf("$runtime.$$eachBlock($cd, %s, %d, () => (%s), eachfr, %s);",
		opts.ElementName, onlyChild, list, body.Name))
	return block, nil
}
