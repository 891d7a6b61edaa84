package archive

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rmarchant/nv/internal/pathutil"
	"github.com/rmarchant/nv/internal/state"
	cmdpkg "github.com/rmarchant/nv/pkg/cmd"
)

func NewCmdArchive(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive [path]",
		Short: "Archive a note.",
		Long: heredoc.Doc(`
			Moves a note into the archive subdirectory of its root,
			preserving its relative location.

			Example:
			  nv archive projects/old-plan.org
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
			return s.Handler.Archive(path, root)
		},
	}

	return cmd
}
