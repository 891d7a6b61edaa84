package root

import (
	"github.com/spf13/cobra"

	"github.com/rmarchant/nv/internal/state"
	"github.com/rmarchant/nv/pkg/cmd/archive"
	"github.com/rmarchant/nv/pkg/cmd/find"
	"github.com/rmarchant/nv/pkg/cmd/index"
	"github.com/rmarchant/nv/pkg/cmd/initialize"
	"github.com/rmarchant/nv/pkg/cmd/mv"
	"github.com/rmarchant/nv/pkg/cmd/notes"
	"github.com/rmarchant/nv/pkg/cmd/rm"
	"github.com/rmarchant/nv/pkg/cmd/search"
	"github.com/rmarchant/nv/pkg/cmd/unarchive"
)

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "nv",
		Short: "A synchronized, searchable view over your plain-text notes.",
		Long: `nv keeps a live view over one or more directories of plain-text
notes. Notes are searched with a full-text engine, narrowed with
substring filters, and managed without leaving the terminal.`,
		// Browsing is the default action.
		RunE: notes.NewCmdNotes(s).RunE,
	}

	cmd.AddCommand(
		initialize.NewCmdInit(s.Home),
		notes.NewCmdNotes(s),
		search.NewCmdSearch(s),
		index.NewCmdIndex(s),
		find.NewCmdFind(s),
		archive.NewCmdArchive(s),
		unarchive.NewCmdUnarchive(s),
		mv.NewCmdMv(s),
		rm.NewCmdRm(s),
	)

	return cmd, nil
}
