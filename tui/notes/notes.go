package notes

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/rmarchant/nv/internal/pathutil"
	"github.com/rmarchant/nv/internal/state"
)

// visibility is shared between the session's visibility predicate and
// the model so that editor excursions suppress flushes.
type visibility struct {
	on bool
}

type editorFinishedMsg struct {
	path string
	err  error
}

type initialLoadMsg struct{}

type NoteListModel struct {
	list           list.Model
	keys           *listKeyMap
	delegateKeys   *delegateKeyMap
	state          *state.State
	input          textInputState
	previewContent string
	width          int
	height         int
	showFullPath   bool
	visible        *visibility
}

type textInputState struct {
	model textinput.Model
	mode  inputKind
}

func NewNoteListModel(s *state.State) NoteListModel {
	delegateKeys := newDelegateKeyMap()
	listKeys := newListKeyMap()

	delegate := newItemDelegate(delegateKeys, s)
	noteList := list.New(nil, delegate, 0, 0)
	noteList.Title = "Notes"
	noteList.Styles.Title = titleStyle
	// The session's filter engine narrows the list; the built-in
	// fuzzy filter would fight it over the "/" key.
	noteList.SetFilteringEnabled(false)

	noteList.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			listKeys.openNote,
			listKeys.editFilter,
			listKeys.editQuery,
		}
	}
	noteList.AdditionalFullHelpKeys = listKeys.fullHelp

	vis := &visibility{on: true}
	// Rendering happens when Update returns; the callback has nothing
	// extra to do.
	s.Session.SetCallbacks(func() bool { return vis.on }, func() {})

	return NoteListModel{
		list:         noteList,
		keys:         listKeys,
		delegateKeys: delegateKeys,
		state:        s,
		input:        textInputState{model: newTextInput()},
		visible:      vis,
	}
}

func (m NoteListModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		func() tea.Msg { return initialLoadMsg{} },
	}
	if m.state.Watcher != nil {
		cmds = append(cmds, m.state.Watcher.Start())
	}
	return tea.Batch(cmds...)
}

func (m NoteListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		m.list.SetSize(msg.Width/2-h, msg.Height-v)
		m.state.Session.Resized()
		cmds = append(cmds, m.flush())

	case initialLoadMsg:
		cmds = append(cmds, m.flush())

	case state.NoteChangedMsg:
		m.state.Session.NotifyFilesChanged(msg.Path)
		cmds = append(cmds, m.flush(), m.state.Watcher.Start())

	case state.DirChangedMsg:
		m.notifyDirChanged(msg.Path)
		cmds = append(cmds, m.flush(), m.state.Watcher.Start())

	case state.WatcherErrMsg:
		cmds = append(cmds,
			m.list.NewStatusMessage(statusMessageStyle(fmt.Sprintf("Watch error: %s", msg.Err))),
			m.state.Watcher.Start(),
		)

	case editorFinishedMsg:
		m.visible.on = true
		if msg.err != nil {
			cmds = append(cmds, m.list.NewStatusMessage(statusMessageStyle(fmt.Sprintf("Editor error: %s", msg.err))))
		}
		m.state.Session.NotifyFilesChanged(msg.path)
		cmds = append(cmds, m.flush())

	case tea.KeyMsg:
		if m.input.mode != inputNone {
			return m.updateInput(msg)
		}
		if model, cmd, handled := m.handleKey(msg); handled {
			return model, cmd
		}
	}

	newListModel, cmd := m.list.Update(msg)
	m.list = newListModel
	cmds = append(cmds, cmd)

	m.handlePreview()
	return m, tea.Batch(cmds...)
}

func (m NoteListModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.openNote):
		return m, m.openNote(), true

	case key.Matches(msg, m.keys.yankPath):
		return m, m.yankPath(), true

	case key.Matches(msg, m.keys.editFilter):
		m.input.mode = inputFilter
		m.input.model.Prompt = m.input.mode.prompt()
		m.input.model.SetValue(m.state.Session.Filter())
		m.input.model.Focus()
		return m, nil, true

	case key.Matches(msg, m.keys.editQuery):
		m.input.mode = inputQuery
		m.input.model.Prompt = m.input.mode.prompt()
		if q := m.state.Session.Query(); q != nil {
			m.input.model.SetValue(*q)
		} else {
			m.input.model.SetValue("")
		}
		m.input.model.Focus()
		return m, nil, true

	case key.Matches(msg, m.keys.clearNarrowing):
		m.state.Session.SetQuery(nil)
		m.state.Session.SetFilter("")
		return m, m.flush(), true

	case key.Matches(msg, m.keys.reindex):
		if err := m.state.Indexer.IndexDirectories(m.state.Session.Roots(), true); err != nil {
			return m, m.list.NewStatusMessage(statusMessageStyle(fmt.Sprintf("Reindex error: %s", err))), true
		}
		if err := m.state.Session.RefreshRoots(); err != nil {
			return m, m.list.NewStatusMessage(statusMessageStyle(fmt.Sprintf("Reindex error: %s", err))), true
		}
		return m, m.flush(), true

	case key.Matches(msg, m.keys.toggleDisplay):
		m.showFullPath = !m.showFullPath
		return m, m.syncItems(), true

	case key.Matches(msg, m.keys.toggleTitleBar):
		v := !m.list.ShowTitle()
		m.list.SetShowTitle(v)
		return m, nil, true

	case key.Matches(msg, m.keys.toggleStatusBar):
		m.list.SetShowStatusBar(!m.list.ShowStatusBar())
		return m, nil, true

	case key.Matches(msg, m.keys.togglePagination):
		m.list.SetShowPagination(!m.list.ShowPagination())
		return m, nil, true

	case key.Matches(msg, m.keys.toggleHelpMenu):
		m.list.SetShowHelp(!m.list.ShowHelp())
		return m, nil, true
	}

	return m, nil, false
}

func (m NoteListModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.exitInput):
		m.input.mode = inputNone
		m.input.model.Blur()
		return m, nil

	case key.Matches(msg, m.keys.submitInput):
		value := m.input.model.Value()
		switch m.input.mode {
		case inputFilter:
			m.state.Session.SetFilter(value)
		case inputQuery:
			if value == "" {
				m.state.Session.SetQuery(nil)
			} else {
				m.state.Session.SetQuery(&value)
			}
		}
		m.input.mode = inputNone
		m.input.model.Blur()
		return m, m.flush()
	}

	var cmd tea.Cmd
	m.input.model, cmd = m.input.model.Update(msg)
	return m, cmd
}

func (m NoteListModel) View() string {
	listSection := listStyle.Render(m.list.View())
	previewSection := previewStyle.Render(
		lipgloss.NewStyle().
			Height(m.list.Height()).
			MaxHeight(m.list.Height()).
			Render(fmt.Sprintf("%s\n%s", titleStyle.Render("Preview"), m.previewContent)),
	)

	layout := lipgloss.JoinHorizontal(lipgloss.Top, listSection, previewSection)

	if m.input.mode != inputNone {
		layout = lipgloss.JoinVertical(
			lipgloss.Left,
			layout,
			inputStyle.Width(m.width-4).Render(m.input.model.View()),
		)
	}

	return appStyle.Render(layout)
}

func Run(s *state.State) error {
	originalState, err := term.GetState(int(os.Stdin.Fd()))
	if err != nil {
		log.Fatalf("Failed to get original terminal state: %v", err)
	}

	defer func() {
		if err := term.Restore(int(os.Stdin.Fd()), originalState); err != nil {
			log.Fatalf("Failed to restore original terminal state: %v", err)
		}
	}()

	if _, err := tea.NewProgram(NewNoteListModel(s), tea.WithInput(os.Stdin), tea.WithAltScreen()).Run(); err != nil {
		// Some editors hand stdin back late; exit quietly in that case.
		if strings.Contains(err.Error(), "resource temporarily unavailable") {
			os.Exit(0)
		} else {
			log.Fatalf("Error running program: %v", err)
		}
	}

	return nil
}

// flush lets the session act on its pending level and resynchronizes
// the list rows when a flush actually happened.
func (m *NoteListModel) flush() tea.Cmd {
	flushed, err := m.state.Session.FlushVisible()
	if err != nil {
		return m.list.NewStatusMessage(statusMessageStyle(fmt.Sprintf("Update error: %s", err)))
	}
	if !flushed {
		return nil
	}
	return m.syncItems()
}

func (m *NoteListModel) syncItems() tea.Cmd {
	sess := m.state.Session
	items := buildItems(sess.CurrentFiles(), sess.Roots(), sess.Cache(), m.showFullPath)
	return m.list.SetItems(items)
}

func (m *NoteListModel) notifyDirChanged(dir string) {
	sess := m.state.Session
	root := pathutil.RootFor(sess.Roots(), dir)
	if root == "" {
		return
	}
	rel, err := pathutil.RootRelative(root, dir)
	if err != nil {
		return
	}
	sess.NotifyDirsChanged(rel)
}

func (m *NoteListModel) handlePreview() {
	selectedItem, ok := m.list.SelectedItem().(ListItem)
	if !ok {
		m.previewContent = ""
		return
	}

	content, err := os.ReadFile(selectedItem.path)
	if err != nil {
		m.previewContent = "Error reading file"
		return
	}

	lines := strings.Split(string(content), "\n")
	if h := m.list.Height(); h > 0 && len(lines) > h {
		lines = lines[:h]
	}
	m.previewContent = strings.Join(lines, "\n")
}

func (m *NoteListModel) openNote() tea.Cmd {
	i, ok := m.list.SelectedItem().(ListItem)
	if !ok {
		return nil
	}

	editor := viper.GetString("editor")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		return m.list.NewStatusMessage(statusMessageStyle("No editor configured"))
	}

	path := i.path
	m.visible.on = false
	cmd := exec.Command(editor, path)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{path: path, err: err}
	})
}

func (m *NoteListModel) yankPath() tea.Cmd {
	i, ok := m.list.SelectedItem().(ListItem)
	if !ok {
		return nil
	}

	if err := clipboard.WriteAll(i.path); err != nil {
		return m.list.NewStatusMessage(statusMessageStyle(fmt.Sprintf("Yank error: %s", err)))
	}
	return m.list.NewStatusMessage(statusMessageStyle("Yanked " + filepath.Base(i.path)))
}
