package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette = CommandPaletteState{}
		m.commandInput.SetValue("")
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	cmd, err := commands.Parse(m.Palette.Input)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette = CommandPaletteState{}
		return m
	}

	res, err := commands.Execute(cmd, commands.ListHandlers(m.Todos))
	if err != nil {
		m.logger.Warn("command failed", "command", cmd.Raw, "err", err)
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
		if cmd.Type == commands.TypeAdd {
			m.Cursor = m.Todos.Len() - 1
		}
	}

	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	return m
}
