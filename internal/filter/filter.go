// Package filter applies the in-memory substring filter over cached
// searchable blobs.
package filter

import (
	"strings"

	"github.com/samber/lo"
)

// Apply keeps exactly the files whose blob contains every whitespace-
// separated token of filterStr. Matching is case-insensitive. An empty
// or all-whitespace filter returns files unchanged (no copy, no
// mutation). The result preserves the order of files, so it is always
// an order-preserving subsequence of the input.
func Apply(files []string, filterStr string, blob func(string) string) []string {
	tokens := strings.Fields(strings.ToLower(filterStr))
	if len(tokens) == 0 {
		return files
	}

	return lo.Filter(files, func(path string, _ int) bool {
		haystack := strings.ToLower(blob(path))
		for _, token := range tokens {
			if !strings.Contains(haystack, token) {
				return false
			}
		}
		return true
	})
}
