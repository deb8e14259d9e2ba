package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/todo/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Focus:    string(m.Focus),
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "tab", Action: "switch input/list"},
		{Key: "ctrl+c", Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.Focus {
	case FocusInput:
		return []KeyBinding{
			{Key: "enter", Action: "add item"},
			{Key: "esc", Action: "leave input"},
		}
	default:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: m.Keys.Add, Action: "add draft"},
			{Key: m.Keys.Remove, Action: "remove selected item"},
			{Key: m.Keys.Edit, Action: "edit draft"},
			{Key: m.Keys.Preview, Action: "toggle markdown preview"},
			{Key: m.Keys.Palette, Action: "open command palette"},
			{Key: m.Keys.Help, Action: "toggle help panel"},
			{Key: m.Keys.Quit, Action: "quit app"},
		}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
