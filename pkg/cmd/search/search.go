package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/rmarchant/nv/internal/state"
)

func NewCmdSearch(s *state.State) *cobra.Command {
	var filterFlag string
	var sinceFlag string
	var pathsOnly bool

	cmd := &cobra.Command{
		Use:     "search [expression]",
		Aliases: []string{"s"},
		Short:   "Search notes and print the matches.",
		Long: heredoc.Doc(`
			Runs the search engine over every configured root and prints the
			matching notes, most relevant first. Without an expression all
			notes are listed by recency.

			The --filter flag narrows the result with space-separated
			substrings that must all appear in a note's path, title,
			keywords, or summary. The --since flag keeps only notes
			modified at or after the given date; most common formats are
			accepted.
		`),
		Example: heredoc.Doc(`
			nv search "project plan"
			nv search trip --filter "2026 itinerary"
			nv search --since "last tuesday"
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(s, cmd, args, filterFlag, sinceFlag, pathsOnly)
		},
	}

	cmd.Flags().StringVarP(&filterFlag, "filter", "f", "", "Substring filter applied after the search")
	cmd.Flags().StringVar(&sinceFlag, "since", "", "Only notes modified at or after this date")
	cmd.Flags().BoolVarP(&pathsOnly, "paths", "p", false, "Print bare paths only")
	return cmd
}

func run(s *state.State, cmd *cobra.Command, args []string, filterFlag, sinceFlag string, pathsOnly bool) error {
	var since time.Time
	if sinceFlag != "" {
		parsed, err := dateparse.ParseLocal(sinceFlag)
		if err != nil {
			return fmt.Errorf("cannot parse --since value %q: %w", sinceFlag, err)
		}
		since = parsed
	}

	if len(args) > 0 {
		query := strings.Join(args, " ")
		s.Session.SetQuery(&query)
	}
	s.Session.SetFilter(filterFlag)

	if err := s.Session.Recompute(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, path := range s.Session.CurrentFiles() {
		entry, ok := s.Session.Cache().Get(path)
		if !since.IsZero() && ok && entry.ModTime.Before(since) {
			continue
		}

		if pathsOnly {
			fmt.Fprintln(out, path)
			continue
		}
		fmt.Fprintln(out, FormatEntry(path, entry.Title, entry.Keywords))
	}
	return nil
}

// FormatEntry renders one result line: the title when known, the path
// always, keywords when present.
func FormatEntry(path, title, keywords string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		if keywords != "" {
			b.WriteString(" [")
			b.WriteString(keywords)
			b.WriteString("]")
		}
		b.WriteString("\n    ")
	}
	b.WriteString(path)
	return b.String()
}
