package countdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/eternalglow/internal/models"
	"github.com/julianstephens/eternalglow/internal/share"
	"github.com/julianstephens/eternalglow/internal/tips"
)

// Content is everything the countdown screen shows.
type Content struct {
	Card       share.Card
	ImageURL   string
	ImageLabel string
	Tips       []tips.Item
	Hint       string
}

var (
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	tipTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)
)

type Model struct {
	viewport viewport.Model
	content  *Content
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.content == nil {
		return "Loading countdown..."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetContent(c Content) {
	m.content = &c
	m.Render()
}

// palette returns accent and ink colors for the card's style.
func palette(style string) (lipgloss.Color, lipgloss.Color) {
	if info, ok := models.Theme(style).Info(); ok {
		return lipgloss.Color(info.Accent), lipgloss.Color(info.Ink)
	}
	return lipgloss.Color("205"), lipgloss.Color("252")
}

// Headline is the large countdown line.
func Headline(c share.Card) string {
	switch {
	case c.WeddingDate == nil:
		return "Set your wedding date"
	case c.DaysLeft == 0:
		return "Today is the day!"
	case c.DaysLeft == 1:
		return "1 day to go"
	default:
		return fmt.Sprintf("%d days to go", c.DaysLeft)
	}
}

// Placement maps a countdown position (percent from the bottom) to a
// lipgloss vertical position (0 top, 1 bottom).
func Placement(percent int) lipgloss.Position {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return lipgloss.Position(1 - float64(percent)/100)
}

func (m *Model) Render() {
	if m.content == nil {
		m.viewport.SetContent("")
		return
	}
	c := m.content
	accent, ink := palette(c.Card.Style)

	var lines []string
	if c.Hint != "" {
		lines = append(lines, hintStyle.Render(c.Hint), "")
	}

	names := strings.TrimSpace(c.Card.Partner1 + " & " + c.Card.Partner2)
	if names != "&" {
		lines = append(lines, lipgloss.NewStyle().Foreground(ink).Italic(true).Render(names))
	}
	lines = append(lines, lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Render(Headline(c.Card)))

	if c.Card.WeddingDate != nil {
		lines = append(lines, mutedStyle.Render(
			fmt.Sprintf("%s · %s", c.Card.FormattedDate(), humanize.Time(*c.Card.WeddingDate))))
	}
	if c.Card.Style != "" {
		lines = append(lines, mutedStyle.Render(c.Card.Style))
	}
	if c.ImageURL != "" {
		lines = append(lines, "", mutedStyle.Render(c.ImageLabel+": "+c.ImageURL))
	}

	if len(c.Tips) > 0 {
		lines = append(lines, "")
		width := m.width - 8
		if width < 20 {
			width = 20
		}
		for _, item := range c.Tips {
			lines = append(lines,
				tipTitleStyle.Render(item.Emoji+" "+item.Title),
				lipgloss.NewStyle().Width(width).Render(item.Content),
			)
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if m.width > 0 && m.height > 0 && lipgloss.Height(body) < m.height {
		body = lipgloss.Place(m.width, m.height, lipgloss.Center, Placement(c.Card.CountdownPosition), body)
	}
	m.viewport.SetContent(body)
}
