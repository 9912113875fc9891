package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func el(name string, body ...Node) *Element {
	return &Element{Name: name, OpenTag: "<" + name + ">", Body: body}
}

func text(v string) *Text {
	return &Text{Value: v}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		name string
		in   []Node
		want []Node
	}{
		{
			name: "whitespace inside div is dropped",
			in:   []Node{el("div", text("  "), el("span", text("x")), text("  "))},
			want: []Node{el("div", el("span", text("x")))},
		},
		{
			name: "whitespace directly inside table is dropped",
			in:   []Node{el("table", text(" "), el("tr", el("td", text("a"))), text(" "))},
			want: []Node{el("table", el("tr", el("td", text("a"))))},
		},
		{
			name: "whitespace between cells is dropped",
			in:   []Node{el("tr", text("\n  "), el("td", text("a")), text("\n  "), el("td", text("b")), text("\n"))},
			want: []Node{el("tr", el("td", text("a")), el("td", text("b")))},
		},
		{
			name: "whitespace between list items is dropped",
			in:   []Node{el("ul", text(" "), el("li"), text("\n"), el("li"), text(" "))},
			want: []Node{el("ul", el("li"), el("li"))},
		},
		{
			name: "whitespace between inline siblings collapses to one space",
			in:   []Node{el("p", el("b", text("a")), text("\n    "), el("i", text("b")))},
			want: []Node{el("p", el("b", text("a")), text(" "), el("i", text("b")))},
		},
		{
			name: "adjacent text is merged and its edges collapsed",
			in:   []Node{text("\n  Hello "), text(" {name}  \n")},
			want: []Node{text(" Hello  {name} ")},
		},
		{
			name: "pre keeps its whitespace",
			in:   []Node{el("pre", text("  a\n  b  "))},
			want: []Node{el("pre", text("  a\n  b  "))},
		},
		{
			name: "whitespace between sibling divs at the root is dropped",
			in:   []Node{el("div"), text("\n"), el("div")},
			want: []Node{el("div"), el("div")},
		},
		{
			name: "leading whitespace at the root is kept as one space",
			in:   []Node{text("\n\t"), el("div")},
			want: []Node{text(" "), el("div")},
		},
		{
			name: "whitespace around a loop inside an element is dropped",
			in:   []Node{el("section", text(" "), &Each{Value: "#each items as item", Body: []Node{text(" {item} ")}}, text(" "))},
			want: []Node{el("section", &Each{Value: "#each items as item", Body: []Node{text(" {item} ")}})},
		},
		{
			name: "cells inside a loop body lose their whitespace",
			in:   []Node{&Each{Value: "#each rows as row", Body: []Node{text(" "), el("td"), text(" ")}}},
			want: []Node{&Each{Value: "#each rows as row", Body: []Node{el("td")}}},
		},
		{
			name: "branches of conditional and await blocks are compacted",
			in: []Node{
				&If{Value: "#if x", Main: []Node{text("  yes  ")}, Else: []Node{text("\nno\n")}},
				&Await{Value: "#await p", Parts: AwaitParts{Main: []Node{text("  wait")}, Then: []Node{text("ok  ")}}},
			},
			want: []Node{
				&If{Value: "#if x", Main: []Node{text(" yes ")}, Else: []Node{text(" no ")}},
				&Await{Value: "#await p", Parts: AwaitParts{Main: []Node{text(" wait")}, Then: []Node{text("ok ")}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Body: tt.in}
			Compact(doc)
			if diff := cmp.Diff(tt.want, doc.Body); diff != "" {
				t.Errorf("Compact() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompact_NilDocument(t *testing.T) {
	Compact(nil)
}

func TestElement_Classification(t *testing.T) {
	tests := []struct {
		name      string
		component bool
		void      bool
	}{
		{name: "div"},
		{name: "br", void: true},
		{name: "img", void: true},
		{name: "Button", component: true},
		{name: "component", component: true},
		{name: "my-widget"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Element{Name: tt.name}
			if e.IsComponent() != tt.component {
				t.Errorf("IsComponent() = %v, want %v", e.IsComponent(), tt.component)
			}
			if e.IsVoid() != tt.void {
				t.Errorf("IsVoid() = %v, want %v", e.IsVoid(), tt.void)
			}
			wantType := TypeNode
			if tt.component {
				wantType = TypeComponent
			}
			if e.Type() != wantType {
				t.Errorf("Type() = %v, want %v", e.Type(), wantType)
			}
		})
	}
}

func TestAttribute_IsSpread(t *testing.T) {
	if !(Attribute{Name: "{...props}"}).IsSpread() {
		t.Error("Expected {...props} to be a spread attribute")
	}
	if (Attribute{Name: "title"}).IsSpread() {
		t.Error("Expected title not to be a spread attribute")
	}
}
