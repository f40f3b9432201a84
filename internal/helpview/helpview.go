// Package helpview renders the full help text of one tool in a scrolling
// viewport. It is the screen the tool list opens on selection.
package helpview

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wresch/gosr/internal/logging"
	"github.com/wresch/gosr/internal/messages"
	"github.com/wresch/gosr/internal/registry"
	"github.com/wresch/gosr/internal/styles"
)

type Model struct {
	name string
	vp   viewport.Model
}

func New(t registry.Tool) Model {
	vp := viewport.New(80, 20)
	vp.SetContent(renderHelp(t))
	return Model{name: t.Name, vp: vp}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width - 4
		m.vp.Height = msg.Height - 4
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "b":
			return m, func() tea.Msg { return messages.BackMsg{} }
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	content := styles.Title.Render(m.name) + "\n\n"
	content += m.vp.View() + "\n\n"
	content += styles.Help.Render("↑↓/jk scroll  esc back  q back")
	return content
}

// renderHelp assembles the same text cobra would print for the tool's
// help, without running the command.
func renderHelp(t registry.Tool) string {
	cmd := t.Command(logging.Named(t.Name))

	var b strings.Builder
	b.WriteString(t.Short)
	b.WriteString("\n\n")
	if cmd.Long != "" {
		b.WriteString(cmd.Long)
		b.WriteString("\n\n")
	}
	b.WriteString("Usage:\n  gosr ")
	b.WriteString(cmd.Use)
	b.WriteString("\n")
	if flags := cmd.Flags().FlagUsages(); flags != "" {
		b.WriteString("\nFlags:\n")
		b.WriteString(flags)
	}
	return b.String()
}
