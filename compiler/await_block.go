package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vcrobe/malina/dom"
	"github.com/vcrobe/malina/xnode"
)

var (
	awaitThenRx = regexp.MustCompile(`(?s)^#await\s+(.+)\s+then\s+(\S+)\s*$`)
	awaitRx     = regexp.MustCompile(`(?s)^#await\s+(.+)\s*$`)
	clauseRx    = regexp.MustCompile(`(?s)^[^ ]+\s+(.*)$`)
)

// Label is the mount point handed to a runtime dispatcher.
type Label struct {
	Name string
	// Node is set when the mount point is an existing element rather than
	// a placeholder comment.
	Node bool
}

// awaitBlock is the IR node of one await dispatcher.
type awaitBlock struct {
	label    Label
	exp      string
	keywords []string
	parts    [3]xnode.Node // makeBlock nodes, nil for an absent branch
}

func (*awaitBlock) Kind() string { return "await" }

func (n *awaitBlock) Emit(w *xnode.Writer) {
	flag := 1
	if n.label.Node {
		flag = 0
	}
	w.WriteIdent()
	w.Write(fmt.Sprintf("$runtime.awaitBlock(%s, %d, () => [%s], () => %s,",
		n.label.Name, flag, strings.Join(n.keywords, ", "), n.exp))
	w.Indent++
	for i, part := range n.parts {
		if i > 0 {
			w.Write(",")
		}
		w.Write("\n")
		w.WriteIdent()
		if part == nil {
			w.Write("null")
			continue
		}
		w.Build(part)
	}
	w.Indent--
	w.Write(");\n")
}

// makeAwaitBlock compiles {#await p}...{:then v}...{:catch e}...{/await}
// into one dispatcher call with pending, resolved and rejected branches in
// that order. It returns a nil node when the script is read-only, in which
// case label is never called and no mount point gets named.
func (c *Compiler) makeAwaitBlock(n *dom.Await, label func() Label) (xnode.Node, error) {
	main, then, catch := n.Parts.Main, n.Parts.Then, n.Parts.Catch

	var exp, thenName string
	if m := awaitThenRx.FindStringSubmatch(n.Value); m != nil {
		if len(then) > 0 {
			return nil, GrammarError("%q conflicts with a {:then} clause", n.Value)
		}
		then, main = main, nil
		exp = strings.TrimSpace(m[1])
		thenName = m[2]
	} else if m := awaitRx.FindStringSubmatch(n.Value); m != nil {
		exp = strings.TrimSpace(m[1])
	}
	if exp == "" {
		return nil, GrammarError("wrong #await directive %q", n.Value)
	}

	if c.script.ReadOnly {
		c.Warn("script read-only conflicts with await", excerpt(n))
		return nil, nil
	}

	keywords, err := c.exprs.Keywords(exp)
	if err != nil {
		return nil, err
	}

	node := &awaitBlock{label: label(), exp: exp, keywords: keywords}
	if len(main) > 0 {
		r, err := c.BuildBlock(main, BlockOptions{})
		if err != nil {
			return nil, err
		}
		node.parts[0] = MakeBlock(r)
	}
	if len(then) > 0 {
		var args []string
		if thenName != "" {
			if !IsSimpleName(thenName) {
				return nil, SemanticError("wrong name %q in {:then}", thenName)
			}
			args = append(args, thenName)
		} else if name, ok, err := clauseName(n.Parts.ThenValue); err != nil {
			return nil, err
		} else if ok {
			args = append(args, name)
		}
		r, err := c.BuildBlock(then, BlockOptions{ExtraArguments: args})
		if err != nil {
			return nil, err
		}
		node.parts[1] = MakeBlock(r)
	}
	if len(catch) > 0 {
		var args []string
		name, ok, err := clauseName(n.Parts.CatchValue)
		if err != nil {
			return nil, err
		}
		if ok {
			args = append(args, name)
		}
		r, err := c.BuildBlock(catch, BlockOptions{ExtraArguments: args})
		if err != nil {
			return nil, err
		}
		node.parts[2] = MakeBlock(r)
	}

	if err := c.DetectDependency(exp); err != nil {
		return nil, err
	}
	c.Require("apply")
	return node, nil
}

// clauseName extracts the bound name from a ":then value" or ":catch err"
// header.
func clauseName(header string) (string, bool, error) {
	m := clauseRx.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return "", false, nil
	}
	name := strings.TrimSpace(m[1])
	if !IsSimpleName(name) {
		return "", false, SemanticError("wrong name %q in %q", name, header)
	}
	return name, true, nil
}
