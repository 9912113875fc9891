package compiler

import (
	"sort"
	"strings"
)

// maxSuggestions caps the names offered for an undeclared reference.
const maxSuggestions = 3

// levenshteinDistance counts the rune insertions, deletions and
// substitutions needed to turn a into b.
func levenshteinDistance(a, b string) int {
	src, dst := []rune(a), []rune(b)
	if len(src) < len(dst) {
		src, dst = dst, src
	}
	// dist[j] is the distance between the consumed prefix of src and dst[:j].
	dist := make([]int, len(dst)+1)
	for j := range dist {
		dist[j] = j
	}
	for _, r := range src {
		diag := dist[0]
		dist[0]++
		for j, q := range dst {
			up := dist[j+1]
			if r == q {
				dist[j+1] = diag
			} else {
				dist[j+1] = 1 + min(diag, up, dist[j])
			}
			diag = up
		}
	}
	return dist[len(dst)]
}

// similarNames returns the script names within two edits of name, closest
// first, ties in alphabetical order.
func (c *Compiler) similarNames(name string) []string {
	const threshold = 2

	type suggestion struct {
		name     string
		distance int
	}
	var suggestions []suggestion
	for _, declared := range []map[string]bool{c.script.RootVariables, c.script.RootFunctions} {
		for candidate := range declared {
			if d := levenshteinDistance(strings.ToLower(name), strings.ToLower(candidate)); d <= threshold {
				suggestions = append(suggestions, suggestion{candidate, d})
			}
		}
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].distance != suggestions[j].distance {
			return suggestions[i].distance < suggestions[j].distance
		}
		return suggestions[i].name < suggestions[j].name
	})

	var result []string
	for i := 0; i < len(suggestions) && i < maxSuggestions; i++ {
		result = append(result, suggestions[i].name)
	}
	return result
}

// suggestion renders the "did you mean" hint for an undeclared root name,
// or "" when nothing is close enough.
func (c *Compiler) suggestion(root string) string {
	similar := c.similarNames(root)
	if len(similar) == 0 {
		return ""
	}
	return "Did you mean one of these? " + strings.Join(similar, ", ")
}
