package parts

import (
	"fmt"
	"strings"

	"github.com/vcrobe/malina/compiler"
	"github.com/vcrobe/malina/dom"
	"github.com/vcrobe/malina/xnode"
)

// AttachSlot renders the slot content the parent passed in, falling back
// to the element's own body.
func (Builders) AttachSlot(c *compiler.Compiler, slotName, label string, n *dom.Element) (xnode.Node, error) {
	propList, err := props(c, n.Attributes, nil)
	if err != nil {
		return nil, err
	}

	var placeholder xnode.Node
	if !blank(n.Body) {
		block, err := c.BuildBlock(n.Body, compiler.BlockOptions{ProtectLastTag: true})
		if err != nil {
			return nil, err
		}
		placeholder = compiler.MakeBlock(block)
	}
	c.Require("$component")

	return xnode.MustNew("attachSlot", func(w *xnode.Writer) {
		w.WriteIdent()
		w.Write(fmt.Sprintf("$runtime.attachSlot($component, %s, $cd, %s, {%s}, ",
			quote(slotName), label, strings.Join(propList, ", ")))
		if placeholder == nil {
			w.Write("null")
		} else {
			w.Build(placeholder)
		}
		w.Write(");\n")
	}), nil
}
