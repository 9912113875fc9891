// Package compiler turns a parsed component template into a static markup
// string and the binder procedures that attach runtime behavior to it.
package compiler

import (
	"log"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vcrobe/malina/config"
)

// Noop is the binder name reported by a scope with no runtime bindings.
const Noop = "$runtime.noop"

var (
	simpleNameRx = regexp.MustCompile(`^[\w$][\w\d$.]*$`)
	rootNameRx   = regexp.MustCompile(`^[\w$][\w\d$]*`)
)

// Script describes the component's <script> section as far as code
// generation needs it.
type Script struct {
	ReadOnly      bool
	OnMount       bool
	OnDestroy     bool
	Watchers      []string
	RootVariables map[string]bool
	RootFunctions map[string]bool
}

// CSS describes the component's scoped styles.
type CSS struct {
	ID        string
	Content   string
	Main      string
	ClassMap  map[string]string
	MetaClass map[string]string // an empty value means true
}

// Warning is a non-fatal diagnostic.
type Warning struct {
	Message string
	Details string
}

func (w Warning) String() string {
	if w.Details == "" {
		return w.Message
	}
	return w.Message + "\n  " + w.Details
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithScript sets the script descriptor of the component.
func WithScript(s Script) Option {
	return func(c *Compiler) { c.script = s }
}

// WithCSS sets the scoped styles of the component.
func WithCSS(css *CSS) Option {
	return func(c *Compiler) { c.css = css }
}

// WithWarningHandler replaces the default stderr warning sink.
func WithWarningHandler(h func(Warning)) Option {
	return func(c *Compiler) { c.onWarning = h }
}

// Compiler holds the state of one component compilation: the unique-name
// counter, raised runtime requirements, reactive dependencies and the
// warnings reported so far. A Compiler is not safe for concurrent use.
type Compiler struct {
	cfg      *config.Config
	exprs    Expressions
	builders Builders
	script   Script
	css      *CSS

	uniq      int
	inuse     map[string]bool
	deps      map[string]bool
	warnings  []Warning
	onWarning func(Warning)
}

// New creates a Compiler. A nil cfg uses config.Default().
func New(cfg *config.Config, ext Collaborators, opts ...Option) *Compiler {
	if cfg == nil {
		cfg = config.Default()
	}
	c := &Compiler{
		cfg:      cfg,
		exprs:    ext,
		builders: ext,
		inuse:    make(map[string]bool),
		deps:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.onWarning == nil {
		logger := log.New(os.Stderr, "malina: ", 0)
		c.onWarning = func(w Warning) {
			logger.Printf("Warning: %s", w)
		}
	}
	return c
}

// Config returns the configuration in use.
func (c *Compiler) Config() *config.Config { return c.cfg }

// Script returns the script descriptor.
func (c *Compiler) Script() Script { return c.script }

// CSS returns the scoped styles, or nil.
func (c *Compiler) CSS() *CSS { return c.css }

// Expressions returns the expression collaborator.
func (c *Compiler) Expressions() Expressions { return c.exprs }

// Uniq returns prefix followed by the next value of the per-component
// counter.
func (c *Compiler) Uniq(prefix string) string {
	id := prefix + strconv.Itoa(c.uniq)
	c.uniq++
	return id
}

// Require records runtime requirements such as "apply" or "resolveClass".
func (c *Compiler) Require(names ...string) {
	for _, name := range names {
		c.inuse[name] = true
	}
}

// Uses reports whether a requirement was raised.
func (c *Compiler) Uses(name string) bool {
	return c.inuse[name]
}

// Warn reports a non-fatal diagnostic.
func (c *Compiler) Warn(message, details string) {
	w := Warning{Message: message, Details: details}
	c.warnings = append(c.warnings, w)
	c.onWarning(w)
}

// Warnings returns every warning reported so far.
func (c *Compiler) Warnings() []Warning {
	return c.warnings
}

// DetectDependency records the names exp reads as reactive dependencies.
// Reading a root variable of a writable script requires change detection.
func (c *Compiler) DetectDependency(exp string) error {
	keywords, err := c.exprs.Keywords(exp)
	if err != nil {
		return err
	}
	for _, kw := range keywords {
		c.deps[kw] = true
		if !c.script.ReadOnly && c.script.RootVariables[kw] {
			c.Require("apply")
		}
	}
	return nil
}

// Dependencies returns the recorded dependencies, sorted.
func (c *Compiler) Dependencies() []string {
	deps := make([]string, 0, len(c.deps))
	for d := range c.deps {
		deps = append(deps, d)
	}
	sort.Strings(deps)
	return deps
}

// CheckRootName warns unless the root of a dotted name is declared by the
// script.
func (c *Compiler) CheckRootName(name string) bool {
	root := rootNameRx.FindString(name)
	if root == "" {
		c.Warn("Error name: "+name, "")
		return false
	}
	if c.script.RootVariables[root] || c.script.RootFunctions[root] {
		return true
	}
	c.Warn("No name: "+name, c.suggestion(root))
	return false
}

// Label returns the comment marking a dynamic mount point.
func (c *Compiler) Label(text string) string {
	if c.cfg.HideLabel {
		return "<!---->"
	}
	for strings.Contains(text, "--") {
		text = strings.ReplaceAll(text, "--", "- -")
	}
	return "<!-- " + text + " -->"
}

// IsSimpleName reports whether name is an identifier or a dotted path.
func IsSimpleName(name string) bool {
	return simpleNameRx.MatchString(name) && !strings.HasSuffix(name, ".")
}

var (
	quoter  = strings.NewReplacer(`\`, `\\`, "`", "\\`", "${", "\\${")
	quoter2 = strings.NewReplacer(`\`, `\\`, "`", "\\`", "${", "\\${", "\n", `\n`)
)

// Q escapes s for a template literal.
func Q(s string) string {
	return quoter.Replace(s)
}

// Q2 escapes s for a single-line template literal.
func Q2(s string) string {
	return quoter2.Replace(s)
}
