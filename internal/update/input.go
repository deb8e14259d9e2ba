package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "ctrl+a":
		m.commitDraft()
		return m, nil
	case "tab", "esc":
		m.Focus = FocusList
		return m, nil
	}

	var cmd tea.Cmd
	m.draftInput, cmd = m.draftInput.Update(msg)
	if v := m.draftInput.Value(); v != m.Todos.Draft() {
		m.Todos.SetDraft(v)
	}
	return m, cmd
}

func (m *Model) commitDraft() {
	added, err := m.Todos.CommitDraft()
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	if !added {
		return
	}
	items := m.Todos.Items()
	m.Cursor = len(items) - 1
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", items[len(items)-1]), IsError: false}
}
