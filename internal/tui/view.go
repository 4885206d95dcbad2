package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateCountdown:
		content = m.viewCountdown()
	case StateChecklist:
		content = m.viewChecklist()
	case StateOptions:
		content = m.viewOptions()
	case StateOnboarding, StateAddTask, StateEditOptions, StateShareTarget:
		content = m.viewForm()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	case StateConfirmFallback:
		content = m.viewConfirmFallback()
	}

	if m.state == StateOnboarding {
		return content
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	active := m.state
	if active >= tabCount {
		active = m.previousState
	}
	for i, title := range []string{"Countdown", "Checklist", "Options"} {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewCountdown() string {
	return m.countdown.View()
}

func (m Model) viewChecklist() string {
	done, total := m.checklist.Progress()
	header := inactiveTabStyle.Render(fmt.Sprintf("%d of %d done", done, total))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.checklist.View()))
}

func (m Model) viewOptions() string {
	return m.options.View()
}

func (m Model) viewForm() string {
	view := m.form.View()
	if m.formError != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, dangerStyle.Render(m.formError))
	}
	return docStyle.Render(view)
}

func (m Model) viewStatus() string {
	switch {
	case m.busy != "":
		return busyStyle.Render(m.busy)
	case m.deps.Store.PersistErr() != nil:
		return errorStyle.Render(fmt.Sprintf("Changes not saved: %v", m.deps.Store.PersistErr()))
	case m.status == "":
		return ""
	case m.statusErr:
		return errorStyle.Render(m.status)
	default:
		return statusStyle.Render(m.status)
	}
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-chromeHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q from the checklist?", m.taskToDeleteTitle)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewConfirmFallback() string {
	return lipgloss.Place(m.width, m.height-chromeHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			"Share with the generic option instead?",
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
