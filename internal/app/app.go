package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wresch/gosr/internal/helpview"
	"github.com/wresch/gosr/internal/home"
	"github.com/wresch/gosr/internal/messages"
	"github.com/wresch/gosr/internal/registry"
)

// Model is the top-level browser model that manages screen transitions.
type Model struct {
	current    tea.Model
	version    string
	windowSize tea.WindowSizeMsg
}

func New(version string) Model {
	return Model{
		current: home.New(version),
		version: version,
	}
}

func (m Model) Init() tea.Cmd {
	return m.current.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.windowSize = ws
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case messages.BackMsg:
		h := home.New(m.version)
		m.current = h
		return m, tea.Batch(h.Init(), func() tea.Msg { return m.windowSize })

	case messages.ToolSelectedMsg:
		if t, ok := registry.Get(msg.Name); ok {
			hv := helpview.New(t)
			m.current = hv
			return m, tea.Batch(hv.Init(), func() tea.Msg { return m.windowSize })
		}
	}

	updated, cmd := m.current.Update(msg)
	m.current = updated
	return m, cmd
}

func (m Model) View() string {
	return m.current.View()
}
