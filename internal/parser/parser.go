// Package parser extracts title, summary, and keywords from raw note text
// via a single line-classification scan.
package parser

import (
	"strings"
)

// Result holds the fields extracted from a note. An empty string means
// the field is absent; condensation guarantees no all-whitespace values
// survive.
type Result struct {
	Title    string
	Summary  string
	Keywords string
}

const (
	titleDirective = "#+TITLE:"
	commentPrefix  = "# "
)

// keywordDirectives are the accepted spellings of the keywords/tags
// directive. First occurrence wins.
var keywordDirectives = []string{"#+FILETAGS:", "#+KEYWORDS:"}

// Parse classifies lines from the start of content. The first occurrence
// of a title directive claims the title; the first keywords directive
// claims the keywords; comment lines are skipped. The first line that is
// none of those and not blank becomes the title when no directive set
// one, and everything after that point to end of input becomes the
// summary. When a directive already set the title, the summary begins at
// that first free-text line itself.
func Parse(content []byte) Result {
	var res Result
	text := string(content)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}

		if isComment(trimmed) {
			continue
		}

		if value, ok := directiveValue(trimmed, titleDirective); ok {
			if res.Title == "" {
				res.Title = condense(value)
			}
			continue
		}

		if value, ok := keywordValue(trimmed); ok {
			if res.Keywords == "" {
				res.Keywords = condense(value)
			}
			continue
		}

		if isDirective(trimmed) {
			continue
		}

		// First free-text line. It claims the title when unset, and the
		// remainder of the input becomes the summary.
		if res.Title == "" {
			res.Title = condense(trimmed)
			res.Summary = condense(strings.Join(lines[i+1:], "\n"))
		} else {
			res.Summary = condense(strings.Join(lines[i:], "\n"))
		}
		return res
	}

	return res
}

// isComment reports whether a trimmed line is an org comment line, which
// never contributes to title or summary.
func isComment(line string) bool {
	return line == "#" || strings.HasPrefix(line, commentPrefix)
}

// isDirective reports whether a trimmed line is a directive of any kind.
// Unrecognized directives are skipped without claiming the summary.
func isDirective(line string) bool {
	return strings.HasPrefix(line, "#+")
}

func directiveValue(line, marker string) (string, bool) {
	if len(line) < len(marker) {
		return "", false
	}
	if !strings.EqualFold(line[:len(marker)], marker) {
		return "", false
	}
	return line[len(marker):], true
}

func keywordValue(line string) (string, bool) {
	for _, marker := range keywordDirectives {
		if value, ok := directiveValue(line, marker); ok {
			return value, true
		}
	}
	return "", false
}

// condense collapses runs of whitespace (including newlines) into single
// spaces and trims the result. An all-whitespace input condenses to the
// empty string, which callers treat as absent.
func condense(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
