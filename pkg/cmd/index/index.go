package index

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rmarchant/nv/internal/state"
)

func NewCmdIndex(s *state.State) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Update the search index.",
		Long: heredoc.Doc(`
			Indexes every configured root. By default only notes added,
			removed, or modified since the last run are touched; --force
			rebuilds the index from scratch.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots := s.Session.Roots()
			if err := s.Indexer.IndexDirectories(roots, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d root(s)\n", len(roots))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "F", false, "Rebuild the index from scratch")
	return cmd
}
