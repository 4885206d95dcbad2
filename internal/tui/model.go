package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/eternalglow/internal/gate"
	"github.com/julianstephens/eternalglow/internal/models"
	"github.com/julianstephens/eternalglow/internal/share"
	"github.com/julianstephens/eternalglow/internal/state"
	"github.com/julianstephens/eternalglow/internal/tips"
	"github.com/julianstephens/eternalglow/internal/tui/components/checklist"
	"github.com/julianstephens/eternalglow/internal/tui/components/countdown"
	"github.com/julianstephens/eternalglow/internal/tui/components/options"
	"github.com/julianstephens/eternalglow/internal/utils"
)

type SessionState int

const (
	StateCountdown SessionState = iota
	StateChecklist
	StateOptions
	StateOnboarding
	StateAddTask
	StateEditOptions
	StateShareTarget
	StateConfirmDelete
	StateConfirmFallback
)

const tabCount = 3

const hintText = "Press s to share your countdown card"

// Deps are the services the TUI drives. Gate and Pipeline may be nil, which
// disables image refresh and sharing.
type Deps struct {
	Store    *state.Store
	Gate     *gate.Gate
	Pipeline *share.Pipeline
	Location *time.Location
	Timeout  time.Duration
	Now      func() time.Time
}

type OnboardingFormModel struct {
	Partner1 string
	Partner2 string
	Date     string
	Style    models.Theme
	Position int
	Photo    string
}

type TaskFormModel struct {
	Title    string
	Date     string
	Priority bool
}

type OptionsFormModel struct {
	Style         models.Theme
	Position      int
	DailySentence bool
	Language      string
}

type ShareFormModel struct {
	Target share.TargetKind
}

type Model struct {
	deps          Deps
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	countdown     countdown.Model
	checklist     checklist.Model
	options       options.Model
	form          *huh.Form
	onboardForm   *OnboardingFormModel
	taskForm      *TaskFormModel
	optionsForm   *OptionsFormModel
	shareForm     *ShareFormModel
	formError     string
	status        string
	statusErr     bool
	busy          string
	showHint      bool
	quitting      bool
	width         int
	height        int

	taskToDeleteID    string
	taskToDeleteTitle string
	fallbackCard      *share.Card
}

func NewModel(deps Deps) Model {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Timeout <= 0 {
		deps.Timeout = time.Minute
	}

	snap := deps.Store.Snapshot()
	m := Model{
		deps:      deps,
		state:     StateCountdown,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		countdown: countdown.New(0, 0),
		checklist: checklist.New(snap.Tasks, 0, 0),
		options:   options.New(snap, 0, 0),
		showHint:  snap.IsOnboardingCompleted && !snap.FirstTimeHintShown,
	}

	if !snap.IsOnboardingCompleted {
		m.startOnboarding(snap)
	}
	m.reload()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateCountdown:
		keys = append(keys, m.keys.Recreate, m.keys.Share)
	case StateChecklist:
		keys = append(keys, m.keys.Add, m.keys.Toggle, m.keys.Delete)
	case StateOptions:
		keys = append(keys, m.keys.Edit, m.keys.Trial, m.keys.Premium)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}

	var actions []key.Binding
	switch m.state {
	case StateCountdown:
		actions = []key.Binding{m.keys.Recreate, m.keys.Share}
	case StateChecklist:
		actions = []key.Binding{m.keys.Add, m.keys.Toggle, m.keys.Delete}
	case StateOptions:
		actions = []key.Binding{m.keys.Edit, m.keys.Trial, m.keys.Premium}
	}
	return [][]key.Binding{global, actions}
}

// Init runs the automatic daily refresh, or starts the onboarding form.
func (m Model) Init() tea.Cmd {
	if m.state == StateOnboarding {
		return m.form.Init()
	}
	return m.refreshCmd()
}

func (m Model) today() string {
	if m.deps.Gate != nil {
		return m.deps.Gate.Today()
	}
	return utils.DayString(m.deps.Now(), m.deps.Location)
}

func (m Model) card() share.Card {
	return share.CardFromState(m.deps.Store.Snapshot(), m.deps.Now(), m.deps.Location)
}

// reload pushes the latest snapshot into every component.
func (m *Model) reload() {
	snap := m.deps.Store.Snapshot()
	today := m.today()
	card := share.CardFromState(snap, m.deps.Now(), m.deps.Location)

	content := countdown.Content{Card: card}
	if img := gate.ImageURL(snap, today); img != "" {
		content.ImageURL = img
		content.ImageLabel = "Photo"
		if gate.HasAccess(snap) && utils.IsSameLocalDay(models.Deref(snap.LastDailyImageDate), today) {
			content.ImageLabel = "Today's image"
		}
	}
	if snap.DailySentenceEnabled {
		content.Tips = tips.ForDay(card.Today)
	}
	if m.showHint {
		content.Hint = hintText
	}

	m.countdown.SetContent(content)
	m.checklist.SetTasks(snap.Tasks)
	m.options.SetState(snap)
}

// dismissHint hides the one-time hint and remembers that it was shown.
func (m *Model) dismissHint() {
	if !m.showHint {
		return
	}
	m.showHint = false
	if err := m.deps.Store.SetFirstTimeHintShown(true); err != nil {
		m.setError(err.Error())
	}
	m.reload()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}
