package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/vcrobe/malina/config"
	"github.com/vcrobe/malina/dom"
	"github.com/vcrobe/malina/xnode"
)

// stubCollaborators treats every identifier as a keyword and never
// compiles delegated constructs.
type stubCollaborators struct{}

var identRx = regexp.MustCompile(`[A-Za-z_$][\w$]*`)

func (stubCollaborators) ParseText(s string) (string, error) { return "`" + s + "`", nil }
func (stubCollaborators) Keywords(exp string) ([]string, error) {
	return identRx.FindAllString(exp, -1), nil
}
func (stubCollaborators) BindProp(*Compiler, dom.Attribute, PropTarget) (PropResult, error) {
	return PropResult{}, nil
}
func (stubCollaborators) MakeComponent(*Compiler, *dom.Element, ElementName) (xnode.Node, error) {
	return nil, nil
}
func (stubCollaborators) MakeEachBlock(*Compiler, *dom.Each, EachOptions) (xnode.Node, error) {
	return nil, nil
}
func (stubCollaborators) AttachSlot(*Compiler, string, string, *dom.Element) (xnode.Node, error) {
	return nil, nil
}
func (stubCollaborators) AttachFragment(*Compiler, *dom.Element, string) (xnode.Node, error) {
	return nil, nil
}
func (stubCollaborators) MakeHTMLBlock(*Compiler, string, string) (xnode.Node, error) {
	return nil, nil
}
func (stubCollaborators) MakeFragment(*Compiler, *dom.Fragment) (xnode.Node, error) {
	return nil, errors.New("fragments are not supported")
}

func newTestCompiler(script Script) (*Compiler, *[]Warning) {
	var warnings []Warning
	c := New(config.Default(), stubCollaborators{}, WithScript(script), WithWarningHandler(func(w Warning) {
		warnings = append(warnings, w)
	}))
	return c, &warnings
}

func TestError_Format(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{GrammarError("wrong #if directive %q", "#if"), `grammar error: wrong #if directive "#if"`},
		{&Error{Kind: KindSemantic, Message: "wrong name", Details: "{:then 1}"}, "semantic error: wrong name (at: {:then 1})"},
		{UnknownError("Wrong tag: @x"), "unknown error: Wrong tag: @x"},
		{&Error{Kind: KindInternal, Message: "boom"}, "internal error: boom"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestAnnotate_FirstFaultWins(t *testing.T) {
	err := error(GrammarError("unclosed '{'"))
	err = annotate(err, &dom.Text{Value: "  {a  "})
	err = annotate(err, &dom.Element{Name: "div", OpenTag: "<div id=x> "})
	err = annotate(fmt.Errorf("in block: %w", err), &dom.If{Value: "#if y"})

	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("Expected a compiler error, got %v", err)
	}
	if ce.Details != "{a" {
		t.Errorf("Expected the innermost excerpt, got %q", ce.Details)
	}
}

func TestAnnotate_UnknownIsNeverAnnotated(t *testing.T) {
	err := annotate(UnknownError("Wrong tag"), &dom.SysTag{Value: "@x y"})
	var ce *Error
	if !errors.As(err, &ce) || ce.Details != "" {
		t.Errorf("Expected no details on an unknown-construct error, got %v", err)
	}
}

func TestAnnotate_WrapsForeignErrors(t *testing.T) {
	cause := errors.New("collaborator failed")
	err := annotate(cause, &dom.Each{Value: " #each xs as x "})

	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("Expected a compiler error, got %v", err)
	}
	if ce.Kind != KindInternal || ce.Details != "#each xs as x" {
		t.Errorf("Unexpected wrapping: kind %v details %q", ce.Kind, ce.Details)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected the cause to stay reachable through errors.Is")
	}
	if annotate(nil, &dom.Text{}) != nil {
		t.Error("Expected annotate(nil) to be nil")
	}
}

func TestBuildBlock_FragmentErrorIsAnnotated(t *testing.T) {
	c, _ := newTestCompiler(Script{})
	_, err := c.BuildBlock([]dom.Node{&dom.Fragment{Value: "#fragment:card a"}}, BlockOptions{})

	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("Expected a compiler error, got %v", err)
	}
	if ce.Kind != KindInternal || ce.Details != "#fragment:card a" {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestQuoting(t *testing.T) {
	tests := []struct {
		in, q, q2 string
	}{
		{"plain", "plain", "plain"},
		{"a `b`", "a \\`b\\`", "a \\`b\\`"},
		{"${x}", "\\${x}", "\\${x}"},
		{`c:\dir`, `c:\\dir`, `c:\\dir`},
		{"line\nnext", "line\nnext", `line\nnext`},
		{"$ {x}", "$ {x}", "$ {x}"},
	}
	for _, tt := range tests {
		if got := Q(tt.in); got != tt.q {
			t.Errorf("Q(%q) = %q, want %q", tt.in, got, tt.q)
		}
		if got := Q2(tt.in); got != tt.q2 {
			t.Errorf("Q2(%q) = %q, want %q", tt.in, got, tt.q2)
		}
	}
}

func TestIsSimpleName(t *testing.T) {
	tests := map[string]bool{
		"value":     true,
		"$index":    true,
		"user.name": true,
		"_x1":       true,
		"":          false,
		"user.":     false,
		"a-b":       false,
		"{a}":       false,
		"a b":       false,
	}
	for name, want := range tests {
		if got := IsSimpleName(name); got != want {
			t.Errorf("IsSimpleName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestLabel(t *testing.T) {
	c, _ := newTestCompiler(Script{})
	if got := c.Label("#if a --> b"); got != "<!-- #if a - -> b -->" {
		t.Errorf("Label() = %q", got)
	}

	cfg := config.Default()
	cfg.HideLabel = true
	hidden := New(cfg, stubCollaborators{})
	if got := hidden.Label("#if a"); got != "<!---->" {
		t.Errorf("Label() with hidden labels = %q", got)
	}
}

func TestUniq(t *testing.T) {
	c, _ := newTestCompiler(Script{})
	got := []string{c.Uniq("el"), c.Uniq("$$build"), c.Uniq("el")}
	want := []string{"el0", "$$build1", "el2"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Uniq() #%d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDetectDependency(t *testing.T) {
	script := Script{RootVariables: map[string]bool{"count": true}}

	c, _ := newTestCompiler(script)
	if err := c.DetectDependency("count + step"); err != nil {
		t.Fatalf("DetectDependency() failed: %v", err)
	}
	if !c.Uses("apply") {
		t.Error("Expected a root variable to require change detection")
	}
	deps := c.Dependencies()
	if len(deps) != 2 || deps[0] != "count" || deps[1] != "step" {
		t.Errorf("Dependencies() = %v", deps)
	}

	c, _ = newTestCompiler(Script{ReadOnly: true, RootVariables: script.RootVariables})
	if err := c.DetectDependency("count"); err != nil {
		t.Fatalf("DetectDependency() failed: %v", err)
	}
	if c.Uses("apply") {
		t.Error("Expected a read-only script not to require change detection")
	}
}

func TestCheckRootName(t *testing.T) {
	c, warnings := newTestCompiler(Script{
		RootVariables: map[string]bool{"user": true},
		RootFunctions: map[string]bool{"save": true},
	})

	if !c.CheckRootName("user.name") || !c.CheckRootName("save") {
		t.Error("Expected declared names to pass")
	}
	if c.CheckRootName("other") {
		t.Error("Expected an undeclared name to fail")
	}
	if c.CheckRootName(".x") {
		t.Error("Expected a malformed name to fail")
	}

	want := []Warning{{Message: "No name: other"}, {Message: "Error name: .x"}}
	if len(*warnings) != len(want) {
		t.Fatalf("Expected %d warnings, got %v", len(want), *warnings)
	}
	for i, w := range want {
		if (*warnings)[i] != w {
			t.Errorf("warning #%d = %v, want %v", i, (*warnings)[i], w)
		}
	}
	if len(c.Warnings()) != 2 {
		t.Errorf("Expected the compiler to retain 2 warnings, got %d", len(c.Warnings()))
	}
}

func TestCheckRootName_Suggestions(t *testing.T) {
	c, warnings := newTestCompiler(Script{
		RootVariables: map[string]bool{"count": true, "counts": true, "title": true},
		RootFunctions: map[string]bool{"mount": true},
	})
	c.CheckRootName("coun.value")

	if len(*warnings) != 1 {
		t.Fatalf("Expected one warning, got %v", *warnings)
	}
	want := Warning{Message: "No name: coun.value", Details: "Did you mean one of these? count, counts, mount"}
	if got := (*warnings)[0]; got != want {
		t.Errorf("warning = %v, want %v", got, want)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"count", "count", 0},
		{"cuont", "count", 2},
		{"kitten", "sitting", 3},
		{"naïve", "naive", 1},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
