package options

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/eternalglow/internal/models"
)

type EditOptionsMsg struct{}

type StartTrialMsg struct{}

type TogglePremiumMsg struct{}

type Model struct {
	state  models.State
	width  int
	height int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)
)

func New(state models.State, width, height int) Model {
	return Model{state: state, width: width, height: height}
}

func (m *Model) SetState(state models.State) {
	m.state = state
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "e":
			return m, func() tea.Msg { return EditOptionsMsg{} }
		case "t":
			return m, func() tea.Msg { return StartTrialMsg{} }
		case "p":
			return m, func() tea.Msg { return TogglePremiumMsg{} }
		}
	}
	return m, nil
}

func row(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(label), valueStyle.Render(value))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	s := m.state

	profile := lipgloss.JoinVertical(lipgloss.Left,
		row("Names:", s.Partner1Name+" & "+s.Partner2Name),
		row("Wedding date:", models.Deref(s.WeddingDate)),
		row("Style:", s.StyleOrDefault("none")),
		row("Language:", s.Language),
	)

	display := lipgloss.JoinVertical(lipgloss.Left,
		row("Countdown position:", fmt.Sprintf("%d%%", s.CountdownPosition)),
		row("Daily tips:", onOff(s.DailySentenceEnabled)),
	)

	plan := "free"
	switch {
	case s.IsPremium:
		plan = "premium"
	case s.IsTrialActive:
		plan = "trial"
	}
	access := lipgloss.JoinVertical(lipgloss.Left,
		row("Plan:", plan),
		row("Trial started:", models.Deref(s.TrialStartDate)),
	)

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true).
		MarginTop(1).
		Render("e edit options • t start free trial • p toggle premium")

	content := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render(titleStyle.Render("Profile")+"\n"+profile),
		sectionStyle.Render(titleStyle.Render("Display")+"\n"+display),
		sectionStyle.Render(titleStyle.Render("Access")+"\n"+access),
		help,
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, content)
}
