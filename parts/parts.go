// Package parts provides the default collaborators of the compiler: the
// expression parser and the builders for attributes, loops, nested
// components, slots, fragments and raw HTML.
package parts

import (
	"strings"

	"github.com/vcrobe/malina/compiler"
	"github.com/vcrobe/malina/dom"
)

// Default bundles Expressions and Builders into compiler.Collaborators.
type Default struct {
	Expressions
	Builders
}

// New returns the default collaborators.
func New() *Default {
	return &Default{}
}

var _ compiler.Collaborators = (*Default)(nil)

// Builders implements compiler.Builders.
type Builders struct{}

// unwrap returns the expression of a "{exp}" value.
func unwrap(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if len(v) < 2 || v[0] != '{' || v[len(v)-1] != '}' {
		return "", false
	}
	exp := strings.TrimSpace(v[1 : len(v)-1])
	return exp, exp != ""
}

// quote renders s as a single-quoted JS string.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}

// attrValue turns an attribute value into an expression: "{exp}" yields
// exp, interpolated text a template literal, plain text a string literal.
func attrValue(c *compiler.Compiler, value string) (string, bool, error) {
	if exp, ok := unwrap(value); ok {
		return exp, true, nil
	}
	if strings.Contains(value, "{") {
		exp, err := c.Expressions().ParseText(value)
		if err != nil {
			return "", false, err
		}
		return exp, true, nil
	}
	return quote(value), false, nil
}

// shorthand expands {name} attributes to name={name}.
func shorthand(a dom.Attribute) dom.Attribute {
	if a.IsSpread() {
		return a
	}
	if exp, ok := unwrap(a.Name); ok && a.Value == "" {
		return dom.Attribute{Name: exp, Value: "{" + exp + "}", Content: a.Content}
	}
	return a
}

// props renders attributes as the entries of a JS object literal. Dynamic
// values become thunks.
func props(c *compiler.Compiler, attrs []dom.Attribute, skip func(name string) bool) ([]string, error) {
	var out []string
	for _, a := range attrs {
		if a.IsSpread() {
			exp, _ := unwrap(a.Name)
			out = append(out, exp)
			continue
		}
		a = shorthand(a)
		if skip != nil && skip(a.Name) {
			continue
		}
		exp, dynamic, err := attrValue(c, a.Value)
		if err != nil {
			return nil, err
		}
		if dynamic {
			if err := c.DetectDependency(exp); err != nil {
				return nil, err
			}
			exp = "() => (" + exp + ")"
		}
		out = append(out, quote(a.Name)+": "+exp)
	}
	return out, nil
}
