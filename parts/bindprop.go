package parts

import (
	"fmt"
	"strings"

	"github.com/vcrobe/malina/compiler"
	"github.com/vcrobe/malina/dom"
	"github.com/vcrobe/malina/xnode"
)

// BindProp compiles one attribute of a plain element.
//
// Supported forms:
//
//	title="text"        static markup
//	class="a b"         merged into the element's class attribute
//	class="{exp}"       resolved through $$resolveClass
//	class:name={cond}   toggles one class
//	on:click={h}        event listener, also @click={h}
//	#ref                assigns the element to ref
//	{...obj}            spread object
//	title={exp}         attribute binding
func (Builders) BindProp(c *compiler.Compiler, attr dom.Attribute, target compiler.PropTarget) (compiler.PropResult, error) {
	if attr.IsSpread() {
		exp, _ := unwrap(attr.Name)
		exp = strings.TrimPrefix(exp, "...")
		if target.Spread == "" || exp == "" {
			return compiler.PropResult{}, compiler.GrammarError("wrong spread attribute %q", attr.Name)
		}
		if err := c.DetectDependency(exp); err != nil {
			return compiler.PropResult{}, err
		}
		return bind(fmt.Sprintf("%s.spread(() => %s);", target.Spread, exp)), nil
	}

	attr = shorthand(attr)
	name := attr.Name

	switch {
	case strings.HasPrefix(name, "#"):
		ref := name[1:]
		if !compiler.IsSimpleName(ref) {
			return compiler.PropResult{}, compiler.SemanticError("wrong ref name %q", name)
		}
		c.CheckRootName(ref)
		return bind(fmt.Sprintf("%s = %s;", ref, target.Name(0))), nil

	case strings.HasPrefix(name, "on:") || strings.HasPrefix(name, "@"):
		event := strings.TrimPrefix(strings.TrimPrefix(name, "on:"), "@")
		return bindEvent(c, event, attr.Value, target)

	case strings.HasPrefix(name, "class:"):
		class := strings.TrimPrefix(name, "class:")
		exp, ok := unwrap(attr.Value)
		if !ok {
			exp = class
		}
		if err := c.DetectDependency(exp); err != nil {
			return compiler.PropResult{}, err
		}
		c.Require("apply")
		return bind(fmt.Sprintf("$runtime.bindClass($cd, %s, () => !!(%s), %s);", target.Name(0), exp, quote(class))), nil
	}

	if !strings.Contains(attr.Value, "{") {
		if name == "class" {
			return compiler.PropResult{Classes: strings.Fields(attr.Value)}, nil
		}
		if attr.Value == "" && !strings.Contains(attr.Content, "=") {
			return compiler.PropResult{Prop: name}, nil
		}
		return compiler.PropResult{Prop: fmt.Sprintf(`%s="%s"`, name, strings.ReplaceAll(attr.Value, `"`, "&quot;"))}, nil
	}

	exp, _, err := attrValue(c, attr.Value)
	if err != nil {
		return compiler.PropResult{}, err
	}
	if err := c.DetectDependency(exp); err != nil {
		return compiler.PropResult{}, err
	}
	c.Require("apply")

	if name == "class" {
		c.Require("resolveClass")
		exp = "$$resolveClass(" + exp + ")"
	}
	if target.Spread != "" {
		return bind(fmt.Sprintf("%s.attr(%s, () => %s);", target.Spread, quote(name), exp)), nil
	}
	return bind(fmt.Sprintf("$runtime.bindAttribute($cd, %s, %s, () => %s);", target.Name(0), quote(name), exp)), nil
}

func bindEvent(c *compiler.Compiler, event, value string, target compiler.PropTarget) (compiler.PropResult, error) {
	if event == "" {
		return compiler.PropResult{}, compiler.GrammarError("event name is missing")
	}
	exp, ok := unwrap(value)
	if !ok {
		return compiler.PropResult{}, compiler.GrammarError("event handler for %q must be an expression\n"+
			"  Correct syntax: on:%s={handler} or @%s={count++}", event, event, event)
	}
	handler := exp
	if compiler.IsSimpleName(exp) {
		c.CheckRootName(exp)
	} else if !strings.Contains(exp, "=>") {
		handler = "($event) => { " + exp + "; }"
	}
	c.Require("apply")
	return bind(fmt.Sprintf("$runtime.addEvent($cd, %s, %s, %s);", target.Name(0), quote(event), handler)), nil
}

func bind(line string) compiler.PropResult {
	b := xnode.NewBlock()
	b.Line(line)
	return compiler.PropResult{Bind: b}
}
