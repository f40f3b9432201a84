package home

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wresch/gosr/internal/messages"
	"github.com/wresch/gosr/internal/registry"
	"github.com/wresch/gosr/internal/styles"
)

type item struct {
	name  string
	short string
}

// Model is the tool list screen shown when gosr is started without a
// subcommand on a terminal.
type Model struct {
	cursor  int
	items   []item
	version string
}

func New(version string) Model {
	var items []item
	for _, t := range registry.All() {
		items = append(items, item{name: t.Name, short: t.Short})
	}
	return Model{items: items, version: version}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter", " ":
			if len(m.items) == 0 {
				return m, nil
			}
			selected := m.items[m.cursor]
			return m, func() tea.Msg {
				return messages.ToolSelectedMsg{Name: selected.name}
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	content := styles.Title.Render("gosr") + "\n"
	content += styles.Subtitle.Render("short read tools "+m.version) + "\n\n"

	for i, t := range m.items {
		cursor := "  "
		nameStyle := lipgloss.NewStyle()
		descStyle := styles.Dimmed

		if i == m.cursor {
			cursor = styles.Selected.Render("> ")
			nameStyle = styles.Selected
			descStyle = styles.Subtitle
		}

		content += fmt.Sprintf("%s%-18s %s\n",
			cursor,
			nameStyle.Render(t.name),
			descStyle.Render(t.short),
		)
	}

	content += "\n" + styles.Help.Render("↑↓/jk navigate  enter view help  q quit")

	return styles.Box.Render(content)
}
