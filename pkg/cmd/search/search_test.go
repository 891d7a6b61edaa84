package search

import (
	"strings"
	"testing"
)

func TestFormatEntryWithTitleAndKeywords(t *testing.T) {
	got := FormatEntry("/notes/a.org", "Trip Plan", "travel 2026")
	if !strings.Contains(got, "Trip Plan [travel 2026]") {
		t.Errorf("missing title and keywords: %q", got)
	}
	if !strings.Contains(got, "/notes/a.org") {
		t.Errorf("missing path: %q", got)
	}
}

func TestFormatEntryWithoutTitle(t *testing.T) {
	got := FormatEntry("/notes/a.org", "", "")
	if got != "/notes/a.org" {
		t.Errorf("untitled entry should be the bare path, got %q", got)
	}
}

func TestFormatEntryTitleOnly(t *testing.T) {
	got := FormatEntry("/notes/a.org", "Trip Plan", "")
	if strings.Contains(got, "[") {
		t.Errorf("no keywords should mean no brackets: %q", got)
	}
}
