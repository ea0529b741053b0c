package terminal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type frameMsg struct {
	view    string
	caption string
}

type model struct {
	device  *Device
	frame   string
	caption string
}

func newModel(device *Device) model {
	return model{device: device}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.device.keyPressed(msg.String())
	case frameMsg:
		m.frame = msg.view
		m.caption = msg.caption
	}

	return m, nil
}

func (m model) View() string {
	if m.frame == "" {
		return infoStyle.Render("starting...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(m.frame),
		lipgloss.JoinHorizontal(lipgloss.Top,
			captionStyle.Render(m.caption),
			helpStyle.Render(strings.ReplaceAll(m.device.keys.Help(), "\n", "  "))))
}
