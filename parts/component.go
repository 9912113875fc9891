package parts

import (
	"fmt"
	"strings"

	"github.com/vcrobe/malina/compiler"
	"github.com/vcrobe/malina/dom"
	"github.com/vcrobe/malina/xnode"
)

// MakeComponent mounts a nested component at its placeholder. Attributes
// become props, on:event attributes become listeners, and the body is
// passed as slots: <slot:name> declarations by name, everything else as
// the default slot. <component this={Ctor}> mounts a dynamic constructor.
func (Builders) MakeComponent(c *compiler.Compiler, n *dom.Element, name compiler.ElementName) (xnode.Node, error) {
	ctor := n.Name
	if n.Name == "component" {
		ctor = ""
		for _, a := range n.Attributes {
			if a.Name == "this" {
				ctor, _ = unwrap(a.Value)
			}
		}
		if ctor == "" {
			return nil, compiler.GrammarError("<component> requires this={Constructor}")
		}
	}

	isEvent := func(attr string) bool {
		return strings.HasPrefix(attr, "on:") || strings.HasPrefix(attr, "@")
	}
	propList, err := props(c, n.Attributes, func(attr string) bool {
		return (attr == "this" && n.Name == "component") || isEvent(attr)
	})
	if err != nil {
		return nil, err
	}

	var events []string
	for _, a := range n.Attributes {
		if !isEvent(a.Name) {
			continue
		}
		event := strings.TrimPrefix(strings.TrimPrefix(a.Name, "on:"), "@")
		handler, ok := unwrap(a.Value)
		if !ok {
			return nil, compiler.GrammarError("event handler for %q must be an expression", event)
		}
		events = append(events, quote(event)+": "+handler)
	}

	slots, err := buildSlots(c, n.Body)
	if err != nil {
		return nil, err
	}

	c.Require("apply", "$component")
	el := name(0)

	return xnode.MustNew("component", func(w *xnode.Writer) {
		w.WriteIdent()
		w.Write(fmt.Sprintf("$runtime.callComponent($cd, $component, %s, %s, {%s}, {%s}, {",
			ctor, el, strings.Join(propList, ", "), strings.Join(events, ", ")))
		if len(slots) == 0 {
			w.Write("});\n")
			return
		}
		w.Indent++
		for i, s := range slots {
			if i > 0 {
				w.Write(",")
			}
			w.Write("\n")
			w.WriteIdent()
			w.Write(quote(s.name) + ": ")
			w.Build(s.block)
		}
		w.Indent--
		w.Write("\n")
		w.WriteLine("});")
	}), nil
}

type slotBlock struct {
	name  string
	block xnode.Node
}

// buildSlots compiles the slot content passed to a component.
func buildSlots(c *compiler.Compiler, body []dom.Node) ([]slotBlock, error) {
	var (
		slots    []slotBlock
		defaults []dom.Node
	)
	for _, n := range body {
		if s, ok := n.(*dom.Slot); ok {
			block, err := c.BuildBlock(s.Body, compiler.BlockOptions{ProtectLastTag: true})
			if err != nil {
				return nil, err
			}
			slots = append(slots, slotBlock{name: s.Name, block: compiler.MakeBlock(block)})
			continue
		}
		defaults = append(defaults, n)
	}
	if blank(defaults) {
		return slots, nil
	}
	block, err := c.BuildBlock(defaults, compiler.BlockOptions{ProtectLastTag: true})
	if err != nil {
		return nil, err
	}
	return append([]slotBlock{{name: "default", block: compiler.MakeBlock(block)}}, slots...), nil
}

// blank reports whether nodes hold nothing but whitespace text.
func blank(nodes []dom.Node) bool {
	for _, n := range nodes {
		t, ok := n.(*dom.Text)
		if !ok || strings.TrimSpace(t.Value) != "" {
			return false
		}
	}
	return true
}
