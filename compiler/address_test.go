package compiler_test

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vcrobe/malina/compiler"
	"github.com/vcrobe/malina/dom"
	"github.com/vcrobe/malina/xnode"
)

var (
	declRx   = regexp.MustCompile(`^\s*let (\w+) = (\$parentElement|\w+)((?:\[\$runtime\.[a-zA-Z]+\](?:\[\d+\])?)*);$`)
	stepRx   = regexp.MustCompile(`\[\$runtime\.firstChild\]|\[\$runtime\.childNodes\]\[(\d+)\]`)
	textRx   = regexp.MustCompile(`^\s*(\w+)\.textContent = (.*);$`)
	bindRx   = regexp.MustCompile(`^\s*\$runtime\.bindText\(\$cd, (\w+), \(\) => (.*)\);$`)
	ifCallRx = regexp.MustCompile(`^\s*ifBlock\d+\(\$cd, (\w+)\);$`)
)

// resolveAddresses evaluates the emitted declarations against the parsed
// template and returns the node every name points at.
func resolveAddresses(t *testing.T, tpl, code string) map[string]*html.Node {
	t.Helper()
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(tpl), context)
	if err != nil {
		t.Fatalf("failed to parse template: %v", err)
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	names := map[string]*html.Node{"$parentElement": root}
	for _, line := range strings.Split(code, "\n") {
		m := declRx.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, ok := names[m[2]]
		if !ok {
			t.Fatalf("declaration %q uses undeclared base %q", line, m[2])
		}
		for _, step := range stepRx.FindAllStringSubmatch(m[3], -1) {
			k := 0
			if step[1] != "" {
				k, _ = strconv.Atoi(step[1])
			}
			n = childAt(n, k)
			if n == nil {
				t.Fatalf("declaration %q walks past the end of the template %q", line, tpl)
			}
		}
		names[m[1]] = n
	}
	return names
}

func childAt(n *html.Node, k int) *html.Node {
	c := n.FirstChild
	for ; c != nil && k > 0; k-- {
		c = c.NextSibling
	}
	return c
}

func TestAddresses_ResolveAgainstTemplate(t *testing.T) {
	body := []dom.Node{
		el("div",
			el("p", text("a")),
			&dom.If{Value: "#if x", Main: []dom.Node{text("shown")}},
			el("span", text("{x}")),
			text(" "),
			el("b", text("{y}")),
			el("ul",
				el("li", text("one")),
				el("li", text("{z}")),
			),
		),
		el("footer", text("{w}")),
	}

	c, _ := newCompiler(t, nil)
	res, err := c.BuildBlock(body, compiler.BlockOptions{})
	if err != nil {
		t.Fatalf("BuildBlock() failed: %v", err)
	}
	code := xnode.Emit(res.Source)
	names := resolveAddresses(t, res.Tpl, code)

	wantParent := map[string]string{"(x)": "span", "(y)": "b", "(z)": "li", "(w)": "footer"}
	bound := 0
	for _, line := range strings.Split(code, "\n") {
		if m := textRx.FindStringSubmatch(line); m != nil {
			n := names[m[1]]
			if n == nil {
				t.Fatalf("binding %q targets an undeclared name", line)
			}
			if n.Type != html.TextNode || n.Data != " " {
				t.Errorf("binding %q targets %v %q, want a placeholder text node", line, n.Type, n.Data)
				continue
			}
			if got := n.Parent.Data; got != wantParent[m[2]] {
				t.Errorf("binding %q lands in <%s>, want <%s>", line, got, wantParent[m[2]])
			}
			bound++
		}
		if m := ifCallRx.FindStringSubmatch(line); m != nil {
			n := names[m[1]]
			if n == nil || n.Type != html.CommentNode || n.Data != " #if x " {
				t.Errorf("conditional %q is not mounted on its label comment", line)
			}
			bound++
		}
	}
	if bound != 5 {
		t.Errorf("Expected 5 resolved bindings, got %d:\n%s", bound, code)
	}

	if li := names[firstBinding(t, code, "(z)")].Parent; li.PrevSibling == nil || li.PrevSibling.FirstChild.Data != "one" {
		t.Error("Expected {z} to be addressed in the second list item")
	}
}

func firstBinding(t *testing.T, code, exp string) string {
	t.Helper()
	for _, line := range strings.Split(code, "\n") {
		if m := textRx.FindStringSubmatch(line); m != nil && m[2] == exp {
			return m[1]
		}
	}
	t.Fatalf("no binding for %s", exp)
	return ""
}

// textBinding matches both the one-shot and the change-detected text
// update; the submatches are the element name and the expression.
func textBinding(line string) []string {
	if m := textRx.FindStringSubmatch(line); m != nil {
		return m
	}
	return bindRx.FindStringSubmatch(line)
}
