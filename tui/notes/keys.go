package notes

import "github.com/charmbracelet/bubbles/key"

type listKeyMap struct {
	toggleTitleBar   key.Binding
	toggleStatusBar  key.Binding
	togglePagination key.Binding
	toggleHelpMenu   key.Binding
	openNote         key.Binding
	yankPath         key.Binding
	editFilter       key.Binding
	editQuery        key.Binding
	clearNarrowing   key.Binding
	reindex          key.Binding
	toggleDisplay    key.Binding
	submitInput      key.Binding
	exitInput        key.Binding
}

func newListKeyMap() *listKeyMap {
	return &listKeyMap{
		toggleTitleBar: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "toggle title"),
		),
		toggleStatusBar: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "toggle status"),
		),
		togglePagination: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "toggle pagination"),
		),
		toggleHelpMenu: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "toggle help"),
		),
		toggleDisplay: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "display"),
		),
		openNote: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "open"),
		),
		yankPath: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yank path"),
		),
		editFilter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		editQuery: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "search"),
		),
		clearNarrowing: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear search and filter"),
		),
		reindex: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "reindex"),
		),
		submitInput: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "submit"),
		),
		exitInput: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

func (m listKeyMap) fullHelp() []key.Binding {
	return []key.Binding{
		m.toggleTitleBar,
		m.toggleStatusBar,
		m.togglePagination,
		m.toggleHelpMenu,
		m.toggleDisplay,
		m.openNote,
		m.yankPath,
		m.editFilter,
		m.editQuery,
		m.clearNarrowing,
		m.reindex,
	}
}
