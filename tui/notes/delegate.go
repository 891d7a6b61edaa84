package notes

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rmarchant/nv/internal/pathutil"
	"github.com/rmarchant/nv/internal/state"
)

// newItemDelegate routes per-item actions through the file handler so
// the session observes every mutation and schedules its recompute.
func newItemDelegate(keys *delegateKeyMap, s *state.State) list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.Styles.SelectedTitle = selectedItemStyle
	d.Styles.SelectedDesc = selectedItemStyle

	d.UpdateFunc = func(msg tea.Msg, m *list.Model) tea.Cmd {
		var path, name string

		if i, ok := m.SelectedItem().(ListItem); ok {
			path = i.path
			name = i.relPath
		} else {
			return nil
		}

		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch {
			case key.Matches(msg, keys.archive):
				root := pathutil.RootFor(s.Session.Roots(), path)
				if root == "" {
					return m.NewStatusMessage(statusMessageStyle("No root for " + name))
				}
				if err := s.Handler.Archive(path, root); err != nil {
					return m.NewStatusMessage(statusMessageStyle("Failed to archive " + name))
				}
				m.RemoveItem(m.Index())
				return m.NewStatusMessage(statusMessageStyle("Archived " + name))

			case key.Matches(msg, keys.delete):
				if err := s.Handler.Delete(path); err != nil {
					return m.NewStatusMessage(statusMessageStyle("Failed to delete " + name))
				}
				m.RemoveItem(m.Index())
				return m.NewStatusMessage(statusMessageStyle("Deleted " + name))
			}
		}

		return nil
	}

	shortHelp := []key.Binding{keys.archive, keys.delete}
	longHelp := [][]key.Binding{{keys.archive, keys.delete}}

	d.ShortHelpFunc = func() []key.Binding {
		return shortHelp
	}

	d.FullHelpFunc = func() [][]key.Binding {
		return longHelp
	}
	return d
}

type delegateKeyMap struct {
	archive key.Binding
	delete  key.Binding
}

func newDelegateKeyMap() *delegateKeyMap {
	return &delegateKeyMap{
		archive: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "archive"),
		),
		delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete"),
		),
	}
}
