package rm

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rmarchant/nv/internal/state"
	cmdpkg "github.com/rmarchant/nv/pkg/cmd"
)

func NewCmdRm(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm [path]",
		Short: "Delete a note.",
		Long: heredoc.Doc(`
			Removes a note from disk. The deletion is permanent; use
			archive to set a note aside instead.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				_ = cmd.Help()
				return fmt.Errorf("path argument is required")
			}
			path, err := cmdpkg.ResolveNotePath(cmd, s, args[0])
			if err != nil {
				return err
			}
			return s.Handler.Delete(path)
		},
	}

	return cmd
}
