package components

import (
	"strings"

	"github.com/loculus-project/seqsearch/internal/models"
)

// FieldQuery is a parsed quick-filter query over the field list
type FieldQuery struct {
	Pattern string // The search pattern (after removing prefix/scope)
	Negate  bool   // True if query starts with !
	Scope   string // Normalized scope (e.g., "filtered", "hidden")
}

type scopePrefix struct {
	prefix string
	scope  string
}

// Checked in order; long prefixes first so "filtered:" is not read as "f:".
var scopePrefixes = []scopePrefix{
	{"filtered:", "filtered"},
	{"visible:", "visible"},
	{"hidden:", "hidden"},
	{"column:", "column"},
	{"range:", "range"},
	{"multi:", "multiselect"},
	{"bool:", "boolean"},
	{"f:", "filtered"},
	{"v:", "visible"},
	{"h:", "hidden"},
	{"c:", "column"},
	{"r:", "range"},
	{"m:", "multiselect"},
	{"b:", "boolean"},
}

// ParseFieldQuery parses a quick-filter string
// Examples:
//   - "date" → {Pattern: "date"}
//   - "!host" → {Pattern: "host", Negate: true}
//   - "f:" → {Scope: "filtered"}
//   - "!h:lin" → {Pattern: "lin", Negate: true, Scope: "hidden"}
func ParseFieldQuery(query string) FieldQuery {
	q := FieldQuery{}

	if strings.HasPrefix(query, "!") {
		q.Negate = true
		query = query[1:]
	}

	queryLower := strings.ToLower(query)
	for _, p := range scopePrefixes {
		if strings.HasPrefix(queryLower, p.prefix) {
			q.Scope = p.scope
			query = query[len(p.prefix):]
			break
		}
	}

	q.Pattern = query
	return q
}

// FuzzyMatch performs fuzzy subsequence matching
// Returns whether the pattern matches and the positions of matched characters
// Matching is case-insensitive
func FuzzyMatch(pattern, target string) (bool, []int) {
	if pattern == "" {
		return true, []int{}
	}

	patternLower := strings.ToLower(pattern)
	targetLower := strings.ToLower(target)

	positions := make([]int, 0, len(pattern))
	patternIdx := 0

	for i := 0; i < len(targetLower) && patternIdx < len(patternLower); i++ {
		if targetLower[i] == patternLower[patternIdx] {
			positions = append(positions, i)
			patternIdx++
		}
	}

	if patternIdx == len(patternLower) {
		return true, positions
	}
	return false, nil
}

// RowMatchesScope checks a row against a scope. Empty scope matches all rows.
func RowMatchesScope(row FieldRow, scope string) bool {
	switch scope {
	case "":
		return true
	case "filtered":
		return row.Filtered
	case "visible":
		return row.SearchVisible
	case "hidden":
		return !row.SearchVisible
	case "column":
		return row.ColumnVisible
	case "range":
		return row.Kind == models.KindRange
	case "multiselect":
		return row.Kind == models.KindMultiSelect
	case "boolean":
		return row.Kind == models.KindBoolean
	default:
		return false
	}
}

// FilterRows returns the rows matching query, in their original order. The
// pattern is matched against both the field name and its label.
func FilterRows(rows []FieldRow, query FieldQuery) []FieldRow {
	var matches []FieldRow
	for _, row := range rows {
		patternMatches := true
		if query.Pattern != "" {
			byName, _ := FuzzyMatch(query.Pattern, row.Name)
			byLabel, _ := FuzzyMatch(query.Pattern, row.Label)
			patternMatches = byName || byLabel
		}
		matched := RowMatchesScope(row, query.Scope) && patternMatches
		if matched != query.Negate {
			matches = append(matches, row)
		}
	}
	return matches
}
