package parts

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vcrobe/malina/compiler"
	"github.com/vcrobe/malina/dom"
	"github.com/vcrobe/malina/xnode"
)

var fragmentRx = regexp.MustCompile(`(?s)^#fragment:(\S+)(?:\s+(.*))?$`)

// MakeFragment declares {#fragment:name a, b} as a function that renders
// the body after a label.
func (Builders) MakeFragment(c *compiler.Compiler, n *dom.Fragment) (xnode.Node, error) {
	name, args := n.Name, n.Args
	if name == "" {
		m := fragmentRx.FindStringSubmatch(strings.TrimSpace(n.Value))
		if m == nil {
			return nil, compiler.GrammarError("invalid {#fragment} directive %q\n"+
				"  Correct syntax: {#fragment:name} or {#fragment:name arg1, arg2}", n.Value)
		}
		name = m[1]
		for _, a := range strings.Split(m[2], ",") {
			if a = strings.TrimSpace(a); a != "" {
				args = append(args, a)
			}
		}
	}
	if !compiler.IsSimpleName(name) || strings.Contains(name, ".") {
		return nil, compiler.SemanticError("wrong fragment name %q", name)
	}
	for _, a := range args {
		if !compiler.IsSimpleName(a) || strings.Contains(a, ".") {
			return nil, compiler.SemanticError("wrong fragment argument %q", a)
		}
	}

	body, err := c.BuildBlock(n.Body, compiler.BlockOptions{ExtraArguments: args})
	if err != nil {
		return nil, err
	}

	fn := xnode.NewFunction("$fragment_"+name, append([]string{"$cd", "label"}, args...))
	fn.Linef("let $$fr = %s;", body.Fragment())
	fn.Push(body.Source)
	fn.Line(fmt.Sprintf("%s(%s);", body.Name, strings.Join(append([]string{"$cd", "$$fr"}, args...), ", ")))
	fn.Line("$runtime.insertAfter(label, $$fr);")
	return fn, nil
}

// AttachFragment calls a declared fragment at <fragment:name a={x}>.
func (Builders) AttachFragment(c *compiler.Compiler, n *dom.Element, label string) (xnode.Node, error) {
	if n.ElArg == "" {
		return nil, compiler.GrammarError("fragment name is missing\n" +
			"  Correct syntax: <fragment:name arg={value}/>")
	}
	args := []string{"$cd", label}
	for _, a := range n.Attributes {
		exp, dynamic, err := attrValue(c, shorthand(a).Value)
		if err != nil {
			return nil, err
		}
		if dynamic {
			if err := c.DetectDependency(exp); err != nil {
				return nil, err
			}
		}
		args = append(args, exp)
	}

	b := xnode.NewBlock()
	b.Linef("$fragment_%s(%s);", n.ElArg, strings.Join(args, ", "))
	return b, nil
}
