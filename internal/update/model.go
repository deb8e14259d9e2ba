package update

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todo/internal/controller"
	"github.com/sandeepkv93/todo/internal/logging"
)

type FocusArea string

const (
	FocusInput FocusArea = "input"
	FocusList  FocusArea = "list"
)

type StatusBar struct {
	Text    string
	IsError bool
}

// GlobalKeyMap holds the single-key bindings active while the list has focus.
// While the input has focus every printable key is text.
type GlobalKeyMap struct {
	Add     string
	Remove  string
	Edit    string
	Preview string
	Palette string
	Help    string
	Quit    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	Todos          *controller.Controller
	Focus          FocusArea
	Cursor         int
	Palette        CommandPaletteState
	HelpVisible    bool
	PreviewVisible bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	// Bubble components used for rich TUI controls
	draftInput   textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
	changes      <-chan controller.Snapshot
	logger       *log.Logger
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// ListChangedMsg carries a controller snapshot published after a change.
type ListChangedMsg struct {
	Snapshot controller.Snapshot
}

func NewModel(todos *controller.Controller, logger *log.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	m := Model{
		Todos: todos,
		Focus: FocusInput,
		Keys: GlobalKeyMap{
			Add:     "a",
			Remove:  "d",
			Edit:    "i",
			Preview: "p",
			Palette: "/",
			Help:    "?",
			Quit:    "q",
		},
		logger: logger,
	}
	m.changes = subscribeChanges(todos)
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.draftInput = textinput.New()
	m.draftInput.Prompt = "add> "
	m.draftInput.Placeholder = "What needs doing?"
	m.draftInput.Width = 48
	m.draftInput.Focus()

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
	m.helpModel.ShowAll = true
}

// syncBubbleData pushes controller state into the widgets. Values are only
// reset when they differ so the input cursor survives ordinary typing.
func (m *Model) syncBubbleData() {
	if m.Todos != nil {
		if draft := m.Todos.Draft(); m.draftInput.Value() != draft {
			m.draftInput.SetValue(draft)
		}
		m.clampCursor(m.Todos.Len())
	}
	if m.commandInput.Value() != m.Palette.Input {
		m.commandInput.SetValue(m.Palette.Input)
	}

	switch {
	case m.Palette.Active:
		m.draftInput.Blur()
		m.commandInput.Focus()
	case m.Focus == FocusInput:
		m.commandInput.Blur()
		m.draftInput.Focus()
	default:
		m.commandInput.Blur()
		m.draftInput.Blur()
	}
}

func (m *Model) clampCursor(n int) {
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// subscribeChanges bridges controller notifications into the Bubble Tea
// message loop. Notifications that arrive while the buffer is full are
// dropped; the view re-reads the controller on every render anyway.
func subscribeChanges(todos *controller.Controller) <-chan controller.Snapshot {
	if todos == nil {
		return nil
	}
	ch := make(chan controller.Snapshot, 16)
	todos.Subscribe(func(s controller.Snapshot) {
		select {
		case ch <- s:
		default:
		}
	})
	return ch
}
