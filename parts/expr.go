package parts

import (
	"sort"
	"strings"

	"github.com/vcrobe/malina/compiler"
)

// Reserved words and global literals that never name a reactive value.
var reserved = map[string]bool{
	"true": true, "false": true, "null": true, "undefined": true, "this": true,
	"typeof": true, "instanceof": true, "new": true, "in": true, "of": true,
	"void": true, "delete": true, "return": true, "if": true, "else": true,
	"for": true, "while": true, "do": true, "switch": true, "case": true,
	"break": true, "continue": true, "function": true, "var": true, "let": true,
	"const": true, "class": true, "extends": true, "super": true,
	"import": true, "export": true, "default": true, "try": true, "catch": true,
	"finally": true, "throw": true, "yield": true, "await": true, "async": true,
	"NaN": true, "Infinity": true,
}

// Expressions is the default text and expression parser.
type Expressions struct{}

// ParseText converts interpolated text into one expression. "a {b} c"
// becomes a template literal `a ${b} c`; text made of a single {exp}
// becomes (exp).
func (Expressions) ParseText(source string) (string, error) {
	var (
		out    strings.Builder
		static strings.Builder
		exps   int
		whole  string
	)
	out.WriteByte('`')
	for i := 0; i < len(source); {
		if source[i] == '}' {
			return "", compiler.GrammarError("unexpected '}' in %q", source)
		}
		if source[i] != '{' {
			static.WriteByte(source[i])
			i++
			continue
		}
		end, err := matchBrace(source, i)
		if err != nil {
			return "", err
		}
		exp := strings.TrimSpace(source[i+1 : end])
		if exp == "" {
			return "", compiler.GrammarError("empty expression in %q", source)
		}
		out.WriteString(compiler.Q(static.String()))
		static.Reset()
		out.WriteString("${" + exp + "}")
		exps++
		if i == 0 && end == len(source)-1 {
			whole = exp
		}
		i = end + 1
	}
	out.WriteString(compiler.Q(static.String()))
	out.WriteByte('`')

	if exps == 1 && whole != "" {
		return "(" + whole + ")", nil
	}
	return out.String(), nil
}

// matchBrace returns the index of the '}' closing the '{' at open,
// skipping nested braces and string literals.
func matchBrace(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '"', '`':
			end, err := skipString(s, i)
			if err != nil {
				return 0, err
			}
			i = end
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, compiler.GrammarError("unclosed '{' in %q\n"+
		"  Expressions must be wrapped in braces: {name} or {a + b}", s)
}

// skipString returns the index of the quote closing the literal at i.
func skipString(s string, i int) (int, error) {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j, nil
		case '$':
			if q == '`' && j+1 < len(s) && s[j+1] == '{' {
				end, err := matchBrace(s, j+1)
				if err != nil {
					return 0, err
				}
				j = end
			}
		}
	}
	return 0, compiler.GrammarError("unterminated string in %q", s)
}

// Keywords returns the root names exp reads: property names, object
// literal keys, arrow parameters, string contents and reserved words are
// excluded. The result is sorted and free of duplicates.
func (Expressions) Keywords(exp string) ([]string, error) {
	seen := make(map[string]bool)
	if err := scanKeywords(exp, seen, nil); err != nil {
		return nil, err
	}
	keywords := make([]string, 0, len(seen))
	for k := range seen {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords, nil
}

// arrowScope holds the parameters of an arrow function while its body is
// scanned. The body ends when the bracket depth drops below depth or a
// ',' or ';' appears at depth.
type arrowScope struct {
	depth  int
	params map[string]bool
}

// scanKeywords records the free names of s in seen. outer reports names
// bound by an enclosing arrow function and may be nil.
func scanKeywords(s string, seen map[string]bool, outer func(string) bool) error {
	var (
		braces []byte
		scopes []arrowScope
	)
	closeScopes := func(depth int) {
		for len(scopes) > 0 && scopes[len(scopes)-1].depth > depth {
			scopes = scopes[:len(scopes)-1]
		}
	}
	bound := func(name string) bool {
		for _, sc := range scopes {
			if sc.params[name] {
				return true
			}
		}
		return outer != nil && outer(name)
	}

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return compiler.GrammarError("unterminated comment in %q", s)
			}
			i += end + 4
		case c == '\'' || c == '"':
			end, err := skipString(s, i)
			if err != nil {
				return err
			}
			i = end + 1
		case c == '`':
			end, err := scanTemplate(s, i, seen, bound)
			if err != nil {
				return err
			}
			i = end + 1
		case c == '(':
			if end, ok := closingParen(s, i); ok {
				if arrow := arrowAt(s, end+1); arrow >= 0 {
					scopes = append(scopes, arrowScope{depth: len(braces), params: arrowParams(s[i+1 : end])})
					i = arrow + 2
					continue
				}
			}
			braces = append(braces, c)
			i++
		case c == '{' || c == '[':
			braces = append(braces, c)
			i++
		case c == '}' || c == ')' || c == ']':
			if len(braces) > 0 {
				braces = braces[:len(braces)-1]
			}
			closeScopes(len(braces))
			i++
		case c == ',' || c == ';':
			closeScopes(len(braces) - 1)
			i++
		case isDigit(c):
			for i < len(s) && (isIdentPart(s[i]) || s[i] == '.') {
				i++
			}
		case isIdentStart(c):
			start := i
			for i < len(s) && isIdentPart(s[i]) {
				i++
			}
			name := s[start:i]
			prev, next := prevSignificant(s, start), nextSignificant(s, i)
			inObject := len(braces) > 0 && braces[len(braces)-1] == '{'
			switch {
			case reserved[name]:
			case prev == '.' && !isSpread(s, start):
			case inObject && (prev == '{' || prev == ',') && next == ':':
			case arrowAt(s, i) >= 0:
				scopes = append(scopes, arrowScope{depth: len(braces), params: map[string]bool{name: true}})
				i = arrowAt(s, i) + 2
			case bound(name):
			default:
				seen[name] = true
			}
		default:
			i++
		}
	}
	return nil
}

// arrowAt returns the index of the "=>" that follows i after optional
// whitespace, or -1.
func arrowAt(s string, i int) int {
	for ; i < len(s) && isSpace(s[i]); i++ {
	}
	if strings.HasPrefix(s[i:], "=>") {
		return i
	}
	return -1
}

// closingParen returns the index of the ')' matching the '(' at open.
func closingParen(s string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\'', '"', '`':
			end, err := skipString(s, i)
			if err != nil {
				return 0, false
			}
			i = end
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// arrowParams returns the names bound by an arrow parameter list such as
// "a, b = 1, ...rest" or "{x, y: z}". Default values are not scanned.
func arrowParams(list string) map[string]bool {
	params := make(map[string]bool)
	for _, p := range strings.Split(list, ",") {
		if eq := strings.IndexByte(p, '='); eq >= 0 {
			p = p[:eq]
		}
		if colon := strings.LastIndexByte(p, ':'); colon >= 0 {
			p = p[colon+1:]
		}
		p = strings.Trim(p, " \t\n\r.{}[]")
		if p != "" && isIdentStart(p[0]) {
			params[p] = true
		}
	}
	return params
}

// scanTemplate scans the ${...} parts of the template literal at i and
// returns the index of its closing backtick.
func scanTemplate(s string, i int, seen map[string]bool, bound func(string) bool) (int, error) {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '`':
			return j, nil
		case '$':
			if j+1 < len(s) && s[j+1] == '{' {
				end, err := matchBrace(s, j+1)
				if err != nil {
					return 0, err
				}
				if err := scanKeywords(s[j+2:end], seen, bound); err != nil {
					return 0, err
				}
				j = end
			}
		}
	}
	return 0, compiler.GrammarError("unterminated template literal in %q", s)
}

func prevSignificant(s string, i int) byte {
	for i--; i >= 0; i-- {
		if !isSpace(s[i]) {
			return s[i]
		}
	}
	return 0
}

func nextSignificant(s string, i int) byte {
	for ; i < len(s); i++ {
		if !isSpace(s[i]) {
			return s[i]
		}
	}
	return 0
}

// isSpread reports whether the name at i follows a ... spread.
func isSpread(s string, i int) bool {
	return strings.HasSuffix(strings.TrimRight(s[:i], " \t\n"), "...")
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
