package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/controller"
	"github.com/sandeepkv93/todo/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChangeCmd(m.changes))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Todos == nil {
			return m.handleDetachedKey(typed)
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		if m.Focus == FocusInput {
			return m.handleInputKey(typed)
		}
		return m.handleListKey(typed)
	case ListChangedMsg:
		// Queued snapshots can predate the current list; clamp against
		// the controller, not the message.
		m.clampCursor(len(m.items()))
		return m, waitForChangeCmd(m.changes)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	items := m.items()
	leftPane := views.RenderInputPanel(views.InputPanelData{
		InputView: m.draftInput.View(),
		Focused:   m.Focus == FocusInput && !m.Palette.Active,
	}) + "\n\n" + views.RenderListPanel(views.ListPanelData{
		Items:   items,
		Cursor:  m.Cursor,
		Focused: m.Focus == FocusList && !m.Palette.Active,
	})
	if m.Palette.Active {
		leftPane += "\n\n" + views.RenderCommandPalette(true, m.commandInput.Value())
	}

	rightPane := ""
	if m.PreviewVisible {
		rightPane = views.RenderPreviewPanel(items)
	}
	if m.HelpVisible {
		if rightPane != "" {
			rightPane += "\n\n"
		}
		rightPane += m.renderHelpView()
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("todo | items: %d | focus: %s", len(items), m.Focus),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		IsError:    m.Status.IsError,
		Footer:     m.footer(),
	})
}

func (m Model) footer() string {
	if m.Focus == FocusInput {
		return "keys: enter add | tab list | ctrl+c quit"
	}
	return fmt.Sprintf("keys: %s add | %s remove | %s edit | %s cmd | %s help | %s quit",
		m.Keys.Add, m.Keys.Remove, m.Keys.Edit, m.Keys.Palette, m.Keys.Help, m.Keys.Quit)
}

func (m Model) items() []string {
	if m.Todos == nil {
		return nil
	}
	return m.Todos.Snapshot().Items
}

// handleDetachedKey serves a model built without a controller: it can
// only be quit.
func (m Model) handleDetachedKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == m.Keys.Quit || msg.String() == "esc" {
		m.Quitting = true
		return m, tea.Quit
	}
	m.Status = StatusBar{Text: "no todo list loaded", IsError: true}
	return m, nil
}

func waitForChangeCmd(ch <-chan controller.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return ListChangedMsg{Snapshot: snap}
	}
}
