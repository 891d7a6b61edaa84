package notes

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rmarchant/nv/internal/state"
	"github.com/rmarchant/nv/tui/notes"
)

func NewCmdNotes(s *state.State) *cobra.Command {
	var filterFlag string
	var queryFlag string

	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"n"},
		Short:   "Browse the note repository interactively.",
		Long: heredoc.Doc(`
			Opens the live note list. The list stays synchronized with the
			configured roots while it is visible: file changes, searches,
			and filters all funnel into one coalesced update per cycle.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if filterFlag != "" {
				s.Session.SetFilter(filterFlag)
			}
			if queryFlag != "" {
				s.Session.SetQuery(&queryFlag)
			}
			return notes.Run(s)
		},
	}

	cmd.Flags().StringVarP(&filterFlag, "filter", "f", "", "Initial substring filter")
	cmd.Flags().StringVarP(&queryFlag, "query", "q", "", "Initial search expression")
	return cmd
}
