package find

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rmarchant/nv/internal/fzf"
	"github.com/rmarchant/nv/internal/state"
)

func NewCmdFind(s *state.State) *cobra.Command {
	var execute bool

	cmd := &cobra.Command{
		Use:     "find [query]",
		Aliases: []string{"f"},
		Short:   "Fuzzy-select a note by title.",
		Long: heredoc.Doc(`
			Opens a fuzzy finder over every note in the repository,
			displaying cached titles and keywords. The selected path is
			printed, or opened in the configured editor with --execute.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.Session.Recompute(); err != nil {
				return err
			}

			finder := fzf.NewFuzzyFinder(s.Session.Cache(), s.Session.Roots(), "Notes")

			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			selected, err := finder.RunWithQuery(s.Session.CurrentFiles(), query, execute)
			if err != nil {
				return err
			}
			if !execute {
				fmt.Fprintln(cmd.OutOrStdout(), selected)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&execute, "execute", "e", false, "Open the selection in the configured editor")
	return cmd
}
