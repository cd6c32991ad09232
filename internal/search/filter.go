package search

import (
	"fmt"
	"strings"

	"docsearch/internal/model"
)

// escapeFilterValue quotes backslashes and double quotes so a filter value can
// never break out of its quoted literal or change the filter's semantics.
func escapeFilterValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}

// buildFilter renders the conjunctive filter expression for the engine: one
// exact-match clause per scalar filter, tag filters expanded to a disjunction,
// all AND-joined. Empty filters produce an empty expression.
func buildFilter(f model.SearchFilters) string {
	var parts []string

	if f.FileType != "" {
		parts = append(parts, fmt.Sprintf(`fileType = "%s"`, escapeFilterValue(f.FileType)))
	}
	if f.CategoryID != "" {
		parts = append(parts, fmt.Sprintf(`categoryId = "%s"`, escapeFilterValue(f.CategoryID)))
	}
	if len(f.Tags) > 0 {
		clauses := make([]string, 0, len(f.Tags))
		for _, tag := range f.Tags {
			clauses = append(clauses, fmt.Sprintf(`tags = "%s"`, escapeFilterValue(tag)))
		}
		parts = append(parts, "("+strings.Join(clauses, " OR ")+")")
	}

	return strings.Join(parts, " AND ")
}
