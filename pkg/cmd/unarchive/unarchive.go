package unarchive

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rmarchant/nv/internal/pathutil"
	"github.com/rmarchant/nv/internal/state"
	cmdpkg "github.com/rmarchant/nv/pkg/cmd"
)

func NewCmdUnarchive(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unarchive [path]",
		Short: "Restore an archived note.",
		Long: heredoc.Doc(`
			Moves a note out of the archive subdirectory back to its
			original location under its root.

			Example:
			  nv unarchive projects/old-plan.org
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
			root := pathutil.RootFor(s.Session.Roots(), path)
			if root == "" {
				return fmt.Errorf("note %q is outside every configured root", path)
			}
			return s.Handler.Unarchive(path, root)
		},
	}

	return cmd
}
