package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vcrobe/malina/dom"
)

// Kind classifies a compilation error.
type Kind int

const (
	// KindInternal wraps a failure that is not a compiler error, typically
	// one returned by a collaborator.
	KindInternal Kind = iota
	// KindGrammar: directive text does not match its required pattern.
	KindGrammar
	// KindSemantic: a name that must be a simple identifier is not.
	KindSemantic
	// KindUnknown: a directive the compiler does not recognise. Never annotated.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindGrammar:
		return "grammar"
	case KindSemantic:
		return "semantic"
	case KindUnknown:
		return "unknown"
	default:
		return "internal"
	}
}

// Error is a compilation failure. Details holds an excerpt of the source
// construct that caused it; the innermost construct wins.
type Error struct {
	Kind    Kind
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	if e.Details != "" {
		msg += fmt.Sprintf(" (at: %s)", e.Details)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// GrammarError reports directive text that does not match its pattern.
func GrammarError(format string, args ...any) *Error {
	return &Error{Kind: KindGrammar, Message: fmt.Sprintf(format, args...)}
}

// SemanticError reports a malformed bound name.
func SemanticError(format string, args ...any) *Error {
	return &Error{Kind: KindSemantic, Message: fmt.Sprintf(format, args...)}
}

// UnknownError reports an unrecognised directive.
func UnknownError(format string, args ...any) *Error {
	return &Error{Kind: KindUnknown, Message: fmt.Sprintf(format, args...)}
}

// annotate attaches the excerpt of n to err unless an inner frame already
// did. Foreign errors are wrapped into KindInternal.
func annotate(err error, n dom.Node) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if !errors.As(err, &ce) {
		return &Error{Kind: KindInternal, Message: err.Error(), Details: excerpt(n), Err: err}
	}
	if ce.Kind == KindUnknown || ce.Details != "" {
		return err
	}
	ce.Details = excerpt(n)
	return err
}

// excerpt returns the human-readable source text identifying n.
func excerpt(n dom.Node) string {
	switch n := n.(type) {
	case *dom.Text:
		return strings.TrimSpace(n.Value)
	case *dom.Element:
		return strings.TrimSpace(n.OpenTag)
	case *dom.Each:
		return strings.TrimSpace(n.Value)
	case *dom.If:
		return strings.TrimSpace(n.Value)
	case *dom.Await:
		return strings.TrimSpace(n.Value)
	case *dom.SysTag:
		return strings.TrimSpace(n.Value)
	case *dom.Fragment:
		return strings.TrimSpace(n.Value)
	}
	return ""
}
