package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vcrobe/malina/dom"
	"github.com/vcrobe/malina/xnode"
)

// Module is the generated code of one component: declarations hoisted to
// the module head and the component body.
type Module struct {
	Head *xnode.Block
	Body *xnode.Block

	indent string
}

// String renders the head followed by the body.
func (m *Module) String() string {
	w := xnode.NewWriterIndent(m.indent)
	w.Build(m.Head)
	w.Build(m.Body)
	return w.String()
}

// BuildRuntime compiles the document into the component's top-level
// procedure: the root scope, its initial render, lifecycle hooks and style
// registration.
func (c *Compiler) BuildRuntime(doc *dom.Document) (*Module, error) {
	if doc == nil {
		doc = &dom.Document{}
	}
	m := &Module{Head: xnode.NewBlock(), Body: xnode.NewBlock(), indent: c.cfg.Indent}

	runtime := xnode.NewFunction("", nil)
	runtime.Inline = true
	runtime.Push(xnode.MustNew("raw", func(w *xnode.Writer) {
		if c.Uses("apply") {
			w.WriteLine("let $cd = $component.$cd;")
		}
	}))

	root, err := c.BuildBlock(doc.Body, BlockOptions{})
	if err != nil {
		return nil, err
	}
	runtime.Push(root.Source)
	runtime.Linef("const rootTemplate = %s;", root.Fragment())
	runtime.Push(xnode.MustNew("raw:template", func(w *xnode.Writer) {
		if c.Uses("apply") {
			w.WriteLine(fmt.Sprintf("%s($cd, rootTemplate);", root.Name))
		} else {
			w.WriteLine(fmt.Sprintf("%s(null, rootTemplate);", root.Name))
		}
		w.WriteLine("$component.$$render(rootTemplate);")
	}))

	if c.script.OnMount {
		runtime.Line("if($option.noMount) $component.onMount = onMount;")
		runtime.Line("else $tick(onMount);")
	}
	if c.script.OnDestroy {
		runtime.Line("$runtime.cd_onDestroy($cd, onDestroy);")
	}
	for _, watcher := range c.script.Watchers {
		runtime.Line(watcher)
	}

	runtime.Push(xnode.MustNew("addStyle", func(w *xnode.Writer) {
		if c.css == nil {
			return
		}
		w.WriteLine(fmt.Sprintf("$runtime.addStyles('%s', `%s`);", c.css.ID, Q(c.css.Content)))
	}))
	runtime.Push(xnode.MustNew("raw:apply", func(w *xnode.Writer) {
		if c.Uses("apply") {
			w.WriteLine("$$apply();")
		}
	}))
	runtime.Line("return $component;")

	m.Body.Push(xnode.MustNew("raw", func(w *xnode.Writer) {
		w.WriteIdent()
		w.Write("return (")
		w.Build(runtime)
		w.Write(")();\n")
	}))
	m.Head.Push(xnode.MustNew("resolveClass", c.emitResolveClass))
	return m, nil
}

func (c *Compiler) emitResolveClass(w *xnode.Writer) {
	if !c.Uses("resolveClass") {
		return
	}
	if c.css == nil {
		w.WriteLine("const $$resolveClass = $runtime.noop;")
		return
	}

	main := "null"
	if c.css.Main != "" {
		main = "'" + c.css.Main + "'"
	}
	classMap := make([]string, 0, len(c.css.ClassMap))
	for _, k := range sortedKeys(c.css.ClassMap) {
		classMap = append(classMap, fmt.Sprintf("'%s': '%s'", k, c.css.ClassMap[k]))
	}
	metaClass := make([]string, 0, len(c.css.MetaClass))
	for _, k := range sortedKeys(c.css.MetaClass) {
		value := "true"
		if v := c.css.MetaClass[k]; v != "" {
			value = "'" + v + "'"
		}
		metaClass = append(metaClass, fmt.Sprintf("'%s': %s", k, value))
	}

	w.WriteLine("const $$resolveClass = $runtime.makeClassResolver(")
	w.Indent++
	w.WriteLine(fmt.Sprintf("$option, {%s}, {%s}, %s", strings.Join(classMap, ", "), strings.Join(metaClass, ", "), main))
	w.Indent--
	w.WriteLine(");")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
