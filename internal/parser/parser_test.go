package parser

import "testing"

func TestParseFirstLineClaimsTitleAndSummary(t *testing.T) {
	res := Parse([]byte("Meeting Notes\n\nDiscussed budget."))

	if res.Title != "Meeting Notes" {
		t.Fatalf("title = %q, want %q", res.Title, "Meeting Notes")
	}
	if res.Summary != "Discussed budget." {
		t.Fatalf("summary = %q, want %q", res.Summary, "Discussed budget.")
	}
}

func TestParseTitleDirective(t *testing.T) {
	res := Parse([]byte("#+TITLE: Project Plan\nIntro text here."))

	if res.Title != "Project Plan" {
		t.Fatalf("title = %q, want %q", res.Title, "Project Plan")
	}
	if res.Summary != "Intro text here." {
		t.Fatalf("summary = %q, want %q", res.Summary, "Intro text here.")
	}
}

func TestParseWhitespaceOnly(t *testing.T) {
	res := Parse([]byte("   \n\t\n  \n"))

	if res.Title != "" || res.Summary != "" || res.Keywords != "" {
		t.Fatalf("expected all fields absent, got %+v", res)
	}
}

func TestParseFirstTitleDirectiveWins(t *testing.T) {
	res := Parse([]byte("#+TITLE: First\n#+TITLE: Second\nbody"))

	if res.Title != "First" {
		t.Fatalf("title = %q, want %q", res.Title, "First")
	}
	if res.Summary != "body" {
		t.Fatalf("summary = %q, want %q", res.Summary, "body")
	}
}

func TestParseKeywordsDirectives(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"filetags", "#+FILETAGS: :work:planning:\nbody", ":work:planning:"},
		{"keywords", "#+KEYWORDS: budget finance\nbody", "budget finance"},
		{"first wins", "#+FILETAGS: one\n#+KEYWORDS: two\nbody", "one"},
		{"case insensitive", "#+filetags: lower\nbody", "lower"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Parse([]byte(tc.input))
			if res.Keywords != tc.want {
				t.Fatalf("keywords = %q, want %q", res.Keywords, tc.want)
			}
		})
	}
}

func TestParseCommentLinesSkipped(t *testing.T) {
	res := Parse([]byte("# private remark\nReal Title\nsummary line"))

	if res.Title != "Real Title" {
		t.Fatalf("title = %q, want %q", res.Title, "Real Title")
	}
	if res.Summary != "summary line" {
		t.Fatalf("summary = %q, want %q", res.Summary, "summary line")
	}
}

func TestParseSummaryCondensesWhitespace(t *testing.T) {
	res := Parse([]byte("Title\nline one\n\n   line   two\t\nline three\n"))

	want := "line one line two line three"
	if res.Summary != want {
		t.Fatalf("summary = %q, want %q", res.Summary, want)
	}
}

// A directive block followed by blank lines and then free text: the
// summary starts at the first free-text line even though the directives
// sit above it. This mirrors the greedy first-content-line rule.
func TestParseInterleavedDirectivesAndBlanks(t *testing.T) {
	input := "#+TITLE: Deliberate\n\n#+FILETAGS: :x:\n\nOpening paragraph.\nMore text."
	res := Parse([]byte(input))

	if res.Title != "Deliberate" {
		t.Fatalf("title = %q, want %q", res.Title, "Deliberate")
	}
	if res.Summary != "Opening paragraph. More text." {
		t.Fatalf("summary = %q, want %q", res.Summary, "Opening paragraph. More text.")
	}
	if res.Keywords != ":x:" {
		t.Fatalf("keywords = %q, want %q", res.Keywords, ":x:")
	}
}

func TestParseUnrecognizedDirectiveSkipped(t *testing.T) {
	res := Parse([]byte("#+STARTUP: overview\nActual Title\nrest"))

	if res.Title != "Actual Title" {
		t.Fatalf("title = %q, want %q", res.Title, "Actual Title")
	}
}

func TestParseTitleOnlyNoSummary(t *testing.T) {
	res := Parse([]byte("Just a title\n   \n"))

	if res.Title != "Just a title" {
		t.Fatalf("title = %q, want %q", res.Title, "Just a title")
	}
	if res.Summary != "" {
		t.Fatalf("summary = %q, want absent", res.Summary)
	}
}
