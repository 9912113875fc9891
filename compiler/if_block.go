package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vcrobe/malina/dom"
	"github.com/vcrobe/malina/xnode"
)

var ifRx = regexp.MustCompile(`(?s)^#if\s+(.*)$`)

// makeIfBlock compiles {#if exp}...{:else}...{/if}. Each branch is built as
// its own scope with its own fragment; the emitted procedure is declared
// and then called on the mount point el.
func (c *Compiler) makeIfBlock(n *dom.If, el string) (xnode.Node, error) {
	m := ifRx.FindStringSubmatch(n.Value)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return nil, GrammarError("wrong #if directive %q", n.Value)
	}
	exp := strings.TrimSpace(m[1])

	name := c.Uniq("ifBlock")
	fn := xnode.NewFunction(name, []string{"$cd", "$parentElement"})

	main, err := c.BuildBlock(n.Main, BlockOptions{ProtectLastTag: true})
	if err != nil {
		return nil, err
	}
	fn.Linef("let mainfr = %s;", main.Fragment())
	fn.Push(main.Source)

	call := fmt.Sprintf("$runtime.$$ifBlock($cd, $parentElement, () => !!(%s), mainfr, %s", exp, main.Name)
	if n.HasElse() {
		alt, err := c.BuildBlock(n.Else, BlockOptions{ProtectLastTag: true})
		if err != nil {
			return nil, err
		}
		fn.Linef("let elsefr = %s;", alt.Fragment())
		fn.Push(alt.Source)
		call += fmt.Sprintf(", elsefr, %s", alt.Name)
	}
	fn.Line(call + ");")

	if err := c.DetectDependency(exp); err != nil {
		return nil, err
	}
	c.Require("apply")

	block := xnode.NewBlock()
	block.Push(fn)
	block.Linef("%s($cd, %s);", name, el)
	return block, nil
}
