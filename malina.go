// Package malina compiles parsed component templates into a static markup
// skeleton and the binder code that attaches reactive behavior to it.
package malina

import (
	"fmt"

	"github.com/vcrobe/malina/compiler"
	"github.com/vcrobe/malina/config"
	"github.com/vcrobe/malina/dom"
	"github.com/vcrobe/malina/parts"
)

// Result is the output of one component compilation.
type Result struct {
	// Code is the rendered module: hoisted declarations then the component body.
	Code         string
	Module       *compiler.Module
	Warnings     []compiler.Warning
	Dependencies []string
}

// Compile is the main entry point of the compiler. It normalises the
// document's whitespace (unless disabled), compiles it with the default
// collaborators and renders the module.
//
// The document is modified in place by the normaliser.
func Compile(doc *dom.Document, cfg *config.Config, opts ...compiler.Option) (*Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Step 1: Normalise whitespace.
	if cfg.Compact() {
		dom.Compact(doc)
	}

	// Step 2: Compile the root scope and assemble the runtime.
	c := compiler.New(cfg, parts.New(), opts...)
	m, err := c.BuildRuntime(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", cfg.Name, err)
	}

	return &Result{
		Code:         m.String(),
		Module:       m,
		Warnings:     c.Warnings(),
		Dependencies: c.Dependencies(),
	}, nil
}
