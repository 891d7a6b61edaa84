package notes

import (
	"github.com/charmbracelet/bubbles/textinput"
)

type inputKind int

const (
	inputNone inputKind = iota
	inputFilter
	inputQuery
)

func (k inputKind) prompt() string {
	switch k {
	case inputFilter:
		return "Filter: "
	case inputQuery:
		return "Search: "
	default:
		return ""
	}
}

func newTextInput() textinput.Model {
	t := textinput.New()
	t.Cursor.Style = cursorStyle
	t.PromptStyle = focusedStyle
	return t
}
