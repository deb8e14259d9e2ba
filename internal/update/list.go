package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
	case m.Keys.Preview:
		m.PreviewVisible = !m.PreviewVisible
	case m.Keys.Palette:
		m.Palette = CommandPaletteState{Active: true}
		m.Status = StatusBar{Text: "command palette active", IsError: false}
	case m.Keys.Edit, "tab", "enter":
		m.Focus = FocusInput
	case m.Keys.Add, "ctrl+a":
		m.commitDraft()
	case m.Keys.Remove, "ctrl+d", "delete", "x":
		m.removeAt(m.Cursor)
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < m.Todos.Len()-1 {
			m.Cursor++
		}
	case "home", "g":
		m.Cursor = 0
	case "end", "G":
		m.Cursor = m.Todos.Len() - 1
		m.clampCursor(m.Todos.Len())
	}
	return m, nil
}

// removeAt removes by position against the list the view last rendered.
func (m *Model) removeAt(index int) {
	items := m.Todos.Items()
	removed, err := m.Todos.RemoveAt(index)
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	if !removed {
		return
	}
	m.clampCursor(m.Todos.Len())
	m.Status = StatusBar{Text: fmt.Sprintf("removed: %s", items[index]), IsError: false}
}
