package browse

import (
	"strings"

	"github.com/colonyops/dmview/internal/core/csdb"
)

// ParseLabels splits comma-separated label text into trimmed, non-empty labels.
func ParseLabels(s string) []string {
	var labels []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}

// Matches reports whether doc matches the free-text query. The query is
// matched case-insensitively against the code, title and path.
func Matches(doc csdb.DocumentSummary, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(doc.DMCode), q) ||
		strings.Contains(strings.ToLower(doc.DMTitle), q) ||
		strings.Contains(strings.ToLower(doc.Path), q)
}

// Filter returns the documents that match query and, when applicable is not
// nil, belong to the applicable set. Catalog order is kept.
func Filter(docs []csdb.DocumentSummary, query string, applicable map[string]struct{}) []csdb.DocumentSummary {
	out := make([]csdb.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		if applicable != nil {
			if _, ok := applicable[d.Path]; !ok {
				continue
			}
		}
		if !Matches(d, query) {
			continue
		}
		out = append(out, d)
	}
	return out
}
