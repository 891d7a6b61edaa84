package mv

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rmarchant/nv/internal/state"
	cmdpkg "github.com/rmarchant/nv/pkg/cmd"
)

func NewCmdMv(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mv [source] [destination]",
		Short: "Rename or move a note.",
		Long: heredoc.Doc(`
			Renames a note, or moves it into a directory when the
			destination is an existing directory. The destination must not
			collide with an existing note.

			Examples:
			  nv mv drafts/idea.org drafts/better-name.org
			  nv mv drafts/idea.org published/
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := cmdpkg.ResolveNotePath(cmd, s, args[0])
			if err != nil {
				return err
			}

			dest := args[1]
			if !filepath.IsAbs(dest) {
				dest = filepath.Join(filepath.Dir(src), dest)
			}

			if info, err := os.Stat(dest); err == nil && info.IsDir() {
				return s.Handler.Move(src, dest)
			}

			if !s.Handler.MatchesExtension(filepath.Base(dest)) {
				return fmt.Errorf("destination %q does not carry a note extension", dest)
			}
			return s.Handler.Rename(src, dest)
		},
	}

	return cmd
}
