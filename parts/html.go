package parts

import (
	"strings"

	"github.com/vcrobe/malina/compiler"
	"github.com/vcrobe/malina/xnode"
)

// MakeHTMLBlock injects the raw HTML of {@html exp} after label.
func (Builders) MakeHTMLBlock(c *compiler.Compiler, exp, label string) (xnode.Node, error) {
	exp = strings.TrimSpace(exp)
	if exp == "" {
		return nil, compiler.GrammarError("{@html} requires an expression")
	}
	if err := c.DetectDependency(exp); err != nil {
		return nil, err
	}
	c.Require("apply")

	b := xnode.NewBlock()
	b.Linef("$runtime.$$htmlBlock($cd, %s, () => (%s));", label, exp)
	return b, nil
}
