package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/eternalglow/internal/logger"
	"github.com/julianstephens/eternalglow/internal/state"
	"github.com/julianstephens/eternalglow/internal/tui/components/checklist"
	"github.com/julianstephens/eternalglow/internal/tui/components/options"
)

// chromeHeight is the tab bar, status line and help line.
const chromeHeight = 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()

	case refreshDoneMsg:
		if msg.err != nil {
			// The base photo stays on screen; a failed refresh is not surfaced.
			logger.Warn("Automatic daily image refresh failed", "error", msg.err)
		}
		m.reload()
		return m, nil

	case recreateDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.setError(recreateMessage(msg.err))
		} else {
			m.setStatus("Here's a fresh image for today ✨")
		}
		m.reload()
		return m, nil

	case shareDoneMsg:
		m.busy = ""
		if msg.err == nil {
			m.setStatus(describeOutcome(msg.out))
			return m, nil
		}
		text, offer := shareFailure(msg)
		m.setError(text)
		if offer && m.state < tabCount {
			card := msg.card
			m.fallbackCard = &card
			m.previousState = m.state
			m.state = StateConfirmFallback
		}
		return m, nil

	case fallbackDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.setError(fmt.Sprintf("Share failed: %v", msg.err))
		} else {
			m.setStatus(describeOutcome(msg.out))
		}
		return m, nil
	}

	switch m.state {
	case StateOnboarding, StateAddTask, StateEditOptions, StateShareTarget:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case StateConfirmFallback:
		return m.updateConfirmFallback(msg)
	}

	switch msg := msg.(type) {
	case checklist.AddTaskMsg:
		return m, m.startAddTask()

	case checklist.ToggleTaskMsg:
		if err := m.deps.Store.ToggleTask(msg.ID); err != nil {
			m.setError(err.Error())
		}
		m.reload()
		return m, nil

	case checklist.DeleteTaskMsg:
		m.taskToDeleteID = msg.ID
		m.taskToDeleteTitle = msg.Title
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil

	case options.EditOptionsMsg:
		return m, m.startEditOptions()

	case options.StartTrialMsg:
		switch err := m.deps.Store.StartFreeTrial(); {
		case err == nil:
			m.setStatus("Your free trial has started. Enjoy your daily images!")
			m.reload()
			return m, m.refreshCmd()
		case errors.Is(err, state.ErrTrialAlreadyStarted):
			m.setStatus("The free trial has already been used.")
		default:
			m.setError(err.Error())
		}
		return m, nil

	case options.TogglePremiumMsg:
		premium := !m.deps.Store.Snapshot().IsPremium
		if err := m.deps.Store.SetIsPremium(premium); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.reload()
		if premium {
			m.setStatus("Premium is on")
			return m, m.refreshCmd()
		}
		m.setStatus("Premium is off")
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		}

		if m.state == StateCountdown {
			m.dismissHint()
			switch {
			case key.Matches(msg, m.keys.Recreate):
				if m.busy != "" {
					return m, nil
				}
				if m.deps.Gate == nil {
					m.setError("Daily images are not available.")
					return m, nil
				}
				m.busy = "Creating a new image..."
				return m, m.recreateCmd()
			case key.Matches(msg, m.keys.Share):
				if m.busy != "" {
					return m, nil
				}
				if m.deps.Pipeline == nil {
					m.setError("Sharing is not available.")
					return m, nil
				}
				return m, m.startShare()
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateCountdown:
		m.countdown, cmd = m.countdown.Update(msg)
	case StateChecklist:
		m.checklist, cmd = m.checklist.Update(msg)
	case StateOptions:
		m.options, cmd = m.options.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize() {
	h, v := docStyle.GetFrameSize()
	height := m.height - chromeHeight
	m.countdown.SetSize(m.width, height)
	m.checklist.SetSize(m.width-h, height-v)
	m.options.SetSize(m.width, height)
	if m.form != nil {
		m.form = m.form.WithWidth(m.width - h)
	}
}

// leaveForm returns to the tab the form was opened from. Aborting onboarding
// quits, since there is nothing to show without it.
func (m Model) leaveForm() (tea.Model, tea.Cmd) {
	m.formError = ""
	if m.state == StateOnboarding {
		m.quitting = true
		return m, tea.Quit
	}
	m.state = m.previousState
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return m.leaveForm()
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		switch m.state {
		case StateOnboarding:
			if err := m.applyOnboarding(); err != nil {
				m.formError = err.Error()
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			m.showHint = !m.deps.Store.Snapshot().FirstTimeHintShown
			m.state = StateCountdown
			m.reload()
			cmds = append(cmds, m.refreshCmd())

		case StateAddTask:
			if err := m.applyAddTask(); err != nil {
				m.formError = err.Error()
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			m.setStatus(fmt.Sprintf("Added %q", m.taskForm.Title))
			m.state = m.previousState
			m.reload()

		case StateEditOptions:
			if err := m.applyOptions(); err != nil {
				m.formError = err.Error()
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			m.setStatus("Options saved")
			m.state = m.previousState
			m.reload()

		case StateShareTarget:
			m.state = m.previousState
			m.busy = "Preparing your card..."
			cmds = append(cmds, m.shareCmd(m.shareForm.Target))
		}
		m.formError = ""
	case huh.StateAborted:
		return m.leaveForm()
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Confirm):
		if err := m.deps.Store.DeleteTask(m.taskToDeleteID); err != nil {
			m.setError(err.Error())
		} else {
			m.setStatus(fmt.Sprintf("Deleted %q", m.taskToDeleteTitle))
		}
		m.reload()
	case key.Matches(k, m.keys.Cancel):
	default:
		return m, nil
	}
	m.taskToDeleteID = ""
	m.taskToDeleteTitle = ""
	m.state = m.previousState
	return m, nil
}

func (m Model) updateConfirmFallback(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	switch {
	case key.Matches(k, m.keys.Confirm):
		m.busy = "Sharing..."
		cmd = m.fallbackCmd(*m.fallbackCard)
	case key.Matches(k, m.keys.Cancel):
	default:
		return m, nil
	}
	m.fallbackCard = nil
	m.state = m.previousState
	return m, cmd
}
