package dom

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// htmlSpace is the HTML definition of inter-element whitespace.
const htmlSpace = " \t\n\f\r"

// Pairs of identical siblings whose separating whitespace is never rendered.
var siblingPairs = map[atom.Atom]bool{
	atom.Td:  true,
	atom.Th:  true,
	atom.Tr:  true,
	atom.Li:  true,
	atom.Div: true,
}

// Children a table accepts directly; whitespace around them is dropped.
var tableChildren = map[atom.Atom]bool{
	atom.Tbody:    true,
	atom.Thead:    true,
	atom.Tfoot:    true,
	atom.Tr:       true,
	atom.Caption:  true,
	atom.Colgroup: true,
}

// Compact normalises the document in place before compilation:
//   - adjacent text nodes are merged;
//   - leading and trailing whitespace of every text run collapses to a single
//     space, and whitespace-only text becomes a single space;
//   - whitespace-only text between structural siblings (table rows and
//     cells, list items, block containers, loop blocks) is removed.
//
// Bodies of <pre> and <textarea> are left untouched.
func Compact(doc *Document) {
	if doc == nil {
		return
	}
	compactBody(&doc.Body, nil)
}

func compactBody(body *[]Node, parent Node) {
	list := *body

	for i := 0; i < len(list); i++ {
		switch n := list[i].(type) {
		case *Text:
			for i+1 < len(list) {
				next, ok := list[i+1].(*Text)
				if !ok {
					break
				}
				n.Value += next.Value
				list = append(list[:i+1], list[i+2:]...)
			}
			n.Value = collapseText(n.Value)
		case *Element:
			if a := n.Atom(); a == atom.Pre || a == atom.Textarea {
				continue
			}
			compactChildren(n)
		default:
			compactChildren(n)
		}
	}

	i := 0
	for i < len(list) {
		if t, ok := list[i].(*Text); ok && strings.Trim(t.Value, htmlSpace) == "" {
			var prev, next Node
			if i > 0 {
				prev = list[i-1]
			}
			if i+1 < len(list) {
				next = list[i+1]
			}
			if insignificant(prev, next, parent) {
				list = append(list[:i], list[i+1:]...)
				continue
			}
		}
		i++
	}

	*body = list
}

func compactChildren(n Node) {
	for _, b := range bodies(n) {
		if len(*b) > 0 {
			compactBody(b, n)
		}
	}
}

// bodies returns the nested node lists a node owns.
func bodies(n Node) []*[]Node {
	switch n := n.(type) {
	case *Element:
		return []*[]Node{&n.Body}
	case *Each:
		return []*[]Node{&n.Body}
	case *Slot:
		return []*[]Node{&n.Body}
	case *Fragment:
		return []*[]Node{&n.Body}
	case *If:
		return []*[]Node{&n.Main, &n.Else}
	case *Await:
		return []*[]Node{&n.Parts.Main, &n.Parts.Then, &n.Parts.Catch}
	}
	return nil
}

func collapseText(v string) string {
	if v == "" {
		return v
	}
	core := strings.Trim(v, htmlSpace)
	if core == "" {
		return " "
	}
	var b strings.Builder
	if core[0] != v[0] {
		b.WriteByte(' ')
	}
	b.WriteString(core)
	if core[len(core)-1] != v[len(v)-1] {
		b.WriteByte(' ')
	}
	return b.String()
}

// insignificant decides whether a whitespace-only text node between prev and
// next (either may be nil) inside parent can be dropped.
func insignificant(prev, next, parent Node) bool {
	p, n := elementAtom(prev), elementAtom(next)

	if prev != nil && next != nil {
		return p != 0 && p == n && siblingPairs[p]
	}
	if parent == nil {
		return false
	}

	var container atom.Atom
	pe, parentIsElement := parent.(*Element)
	if parentIsElement {
		container = pe.Atom()
	}
	_, parentIsEach := parent.(*Each)

	isCell := func(a atom.Atom) bool { return a == atom.Td || a == atom.Th }
	switch {
	case (isCell(p) || isCell(n)) && (container == atom.Tr || parentIsEach):
		return true
	case container == atom.Table && (tableChildren[p] || tableChildren[n]):
		return true
	case (p == atom.Li || n == atom.Li) && (container == atom.Ul || container == atom.Ol):
		return true
	case container == atom.Div:
		return true
	case parentIsElement && (isEach(prev) || isEach(next)):
		return true
	}
	return false
}

func elementAtom(n Node) atom.Atom {
	if e, ok := n.(*Element); ok {
		return e.Atom()
	}
	return 0
}

func isEach(n Node) bool {
	_, ok := n.(*Each)
	return ok
}
