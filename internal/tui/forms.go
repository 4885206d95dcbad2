package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/eternalglow/internal/cli/profile"
	"github.com/julianstephens/eternalglow/internal/constants"
	"github.com/julianstephens/eternalglow/internal/models"
	"github.com/julianstephens/eternalglow/internal/share"
	"github.com/julianstephens/eternalglow/internal/utils"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func styleOptions() []huh.Option[models.Theme] {
	opts := make([]huh.Option[models.Theme], 0, 4)
	for _, info := range models.Themes() {
		opts = append(opts, huh.NewOption(info.Label+" - "+info.Description, info.ID))
	}
	return opts
}

func positionOptions() []huh.Option[int] {
	return []huh.Option[int]{
		huh.NewOption("Low", constants.CountdownPositionLow),
		huh.NewOption("Middle", constants.CountdownPositionMiddle),
		huh.NewOption("High", constants.CountdownPositionHigh),
	}
}

func (m *Model) startOnboarding(snap models.State) {
	f := &OnboardingFormModel{
		Partner1: snap.Partner1Name,
		Partner2: snap.Partner2Name,
		Date:     models.Deref(snap.WeddingDate),
		Style:    models.Theme(snap.StyleOrDefault(string(models.ThemeModernMinimal))),
		Position: snap.CountdownPosition,
		Photo:    models.Deref(snap.BaseImage),
	}
	m.onboardForm = f
	loc := m.deps.Location
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("Welcome to Eternal Glow").Description("Let's set up your countdown."),
			huh.NewInput().Title("Your name").Value(&f.Partner1).Validate(required("name")),
			huh.NewInput().Title("Your partner's name").Value(&f.Partner2).Validate(required("name")),
			huh.NewInput().
				Title("Wedding date").
				Placeholder("YYYY-MM-DD").
				Value(&f.Date).
				Validate(func(s string) error {
					_, err := utils.ParseWeddingDate(s, loc)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[models.Theme]().Title("Choose your style").Options(styleOptions()...).Value(&f.Style),
			huh.NewSelect[int]().Title("Countdown position").Options(positionOptions()...).Value(&f.Position),
			huh.NewInput().
				Title("Base photo (optional)").
				Description("Path or URL to a photo of the two of you").
				Value(&f.Photo).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, err := profile.ResolvePhoto(s)
					return err
				}),
		),
	)
	m.state = StateOnboarding
}

// applyOnboarding stores the answers. Onboarding is only marked complete
// once every answer was accepted.
func (m *Model) applyOnboarding() error {
	f := m.onboardForm
	store := m.deps.Store
	if err := store.SetNames(f.Partner1, f.Partner2); err != nil {
		return err
	}
	if err := store.SetWeddingDate(f.Date); err != nil {
		return err
	}
	if err := store.SetStyle(f.Style); err != nil {
		return err
	}
	if err := store.SetCountdownPosition(f.Position); err != nil {
		return err
	}
	if f.Photo != "" {
		ref, err := profile.ResolvePhoto(f.Photo)
		if err != nil {
			return err
		}
		if err := store.SetBaseImage(ref); err != nil {
			return err
		}
	}
	return store.CompleteOnboarding()
}

func (m *Model) startAddTask() tea.Cmd {
	f := &TaskFormModel{}
	m.taskForm = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Checklist item").Value(&f.Title).Validate(required("title")),
			huh.NewInput().
				Title("Due date (optional)").
				Placeholder("YYYY-MM-DD").
				Value(&f.Date).
				Validate(func(s string) error {
					if s != "" && !utils.ValidateDayString(s) {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewConfirm().Title("Star this item?").Value(&f.Priority),
		),
	)
	m.formError = ""
	m.previousState = m.state
	m.state = StateAddTask
	return m.form.Init()
}

func (m *Model) applyAddTask() error {
	f := m.taskForm
	var date *string
	if f.Date != "" {
		date = models.StringPtr(f.Date)
	}
	var priority *bool
	if f.Priority {
		p := true
		priority = &p
	}
	_, err := m.deps.Store.AddTask(f.Title, date, priority)
	return err
}

func (m *Model) startEditOptions() tea.Cmd {
	snap := m.deps.Store.Snapshot()
	f := &OptionsFormModel{
		Style:         models.Theme(snap.StyleOrDefault(string(models.ThemeModernMinimal))),
		Position:      snap.CountdownPosition,
		DailySentence: snap.DailySentenceEnabled,
		Language:      snap.Language,
	}
	m.optionsForm = f

	langs := make([]huh.Option[string], 0, len(constants.Languages))
	for _, l := range constants.Languages {
		langs = append(langs, huh.NewOption(l, l))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.Theme]().Title("Style").Options(styleOptions()...).Value(&f.Style),
			huh.NewSelect[int]().Title("Countdown position").Options(positionOptions()...).Value(&f.Position),
			huh.NewConfirm().Title("Show daily tips?").Value(&f.DailySentence),
			huh.NewSelect[string]().Title("Language").Options(langs...).Value(&f.Language),
		),
	)
	m.formError = ""
	m.previousState = m.state
	m.state = StateEditOptions
	return m.form.Init()
}

func (m *Model) applyOptions() error {
	f := m.optionsForm
	store := m.deps.Store
	if err := store.SetStyle(f.Style); err != nil {
		return err
	}
	if err := store.SetCountdownPosition(f.Position); err != nil {
		return err
	}
	if err := store.SetDailySentenceEnabled(f.DailySentence); err != nil {
		return err
	}
	return store.SetLanguage(f.Language)
}

func (m *Model) startShare() tea.Cmd {
	f := &ShareFormModel{Target: share.TargetGeneric}
	m.shareForm = f

	labels := map[share.TargetKind]string{
		share.TargetStory:   "Story",
		share.TargetMessage: "Message",
		share.TargetLibrary: "Save to pictures",
		share.TargetGeneric: "Copy to clipboard",
	}
	opts := make([]huh.Option[share.TargetKind], 0, len(share.TargetKinds))
	for _, kind := range share.TargetKinds {
		opts = append(opts, huh.NewOption(labels[kind], kind))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[share.TargetKind]().Title("Share your countdown").Options(opts...).Value(&f.Target),
		),
	)
	m.previousState = m.state
	m.state = StateShareTarget
	return m.form.Init()
}
