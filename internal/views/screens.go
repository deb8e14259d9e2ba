package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type InputPanelData struct {
	InputView string
	Focused   bool
}

type ListPanelData struct {
	Items   []string
	Cursor  int
	Focused bool
}

type HelpPanelData struct {
	Focus    string
	Bindings []string
	HelpView string
}

var (
	selectedRowStyle = lipgloss.NewStyle().Bold(true)
	removeHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderInputPanel(data InputPanelData) string {
	var b strings.Builder
	b.WriteString("new item:\n")
	b.WriteString(data.InputView + "\n")
	if data.Focused {
		b.WriteString("actions: [enter]add [tab]list")
	} else {
		b.WriteString("actions: [i]edit")
	}
	return b.String()
}

// RenderListPanel draws one row per item in list order. Each row carries its
// 1-based number and a remove hint bound to that position.
func RenderListPanel(data ListPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("todos (%d):\n", len(data.Items)))
	if len(data.Items) == 0 {
		b.WriteString("(nothing to do)")
		return b.String()
	}
	for i, item := range data.Items {
		cursor := " "
		row := fmt.Sprintf("%d. %s", i+1, item)
		if data.Focused && i == data.Cursor {
			cursor = ">"
			row = selectedRowStyle.Render(row) + " " + removeHintStyle.Render("[d]remove")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", cursor, row))
	}
	if data.Focused {
		b.WriteString("actions: [j/k]move [d]remove [i]edit [p]preview")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n\n%s",
		strings.ToLower(data.Focus),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

// MarkdownChecklist renders items as a markdown task list.
func MarkdownChecklist(items []string) string {
	var b strings.Builder
	b.WriteString("# To-do\n\n")
	if len(items) == 0 {
		b.WriteString("_Nothing to do._\n")
		return b.String()
	}
	for _, item := range items {
		b.WriteString("- [ ] " + escapeMarkdown(item) + "\n")
	}
	return b.String()
}

func RenderPreviewPanel(items []string) string {
	return "preview:\n" + RenderMarkdown(MarkdownChecklist(items))
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"<", `\<`,
	"\n", " ",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
