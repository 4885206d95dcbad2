package profile

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/constants"
	"github.com/julianstephens/eternalglow/internal/models"
	"github.com/julianstephens/eternalglow/internal/utils"
)

// OnboardCmd walks through the first-run questions. Every answer can also be
// given as a flag; the form only asks for what is missing.
type OnboardCmd struct {
	Partner1 string `help:"First partner's name."`
	Partner2 string `help:"Second partner's name."`
	Date     string `help:"Wedding date (YYYY-MM-DD)."`
	Style    string `help:"Theme name."`
	Photo    string `help:"Base photo path or URL."`
	Position string `help:"Countdown position (low, middle, high)." default:"low"`
}

// Answers holds the onboarding inputs before they are applied.
type Answers struct {
	Partner1 string
	Partner2 string
	Date     string
	Style    models.Theme
	Photo    string
	Position int
}

func (c *OnboardCmd) complete() bool {
	return c.Partner1 != "" && c.Partner2 != "" && c.Date != "" && c.Style != ""
}

func (c *OnboardCmd) Run(ctx *cli.Context) error {
	if ctx.Store.Snapshot().IsOnboardingCompleted {
		fmt.Println("Onboarding already completed. Use `eternalglow profile` to change details.")
		return nil
	}

	answers := Answers{
		Partner1: c.Partner1,
		Partner2: c.Partner2,
		Date:     c.Date,
		Photo:    c.Photo,
	}
	pos, err := ParsePosition(c.Position)
	if err != nil {
		return err
	}
	answers.Position = pos
	if c.Style != "" {
		theme, err := models.ParseTheme(c.Style)
		if err != nil {
			return err
		}
		answers.Style = theme
	}

	if !c.complete() {
		if err := askOnboarding(&answers, ctx); err != nil {
			return err
		}
	}

	if err := Apply(ctx, answers); err != nil {
		return err
	}
	fmt.Printf("✓ Welcome, %s & %s! %d days to go.\n", answers.Partner1, answers.Partner2, ctx.Card().DaysLeft)
	return nil
}

// Apply stores the answers and marks onboarding complete. Nothing is marked
// complete if any answer is rejected.
func Apply(ctx *cli.Context, a Answers) error {
	if err := ctx.Store.SetNames(a.Partner1, a.Partner2); err != nil {
		return err
	}
	if err := ctx.Store.SetWeddingDate(a.Date); err != nil {
		return err
	}
	if err := ctx.Store.SetStyle(a.Style); err != nil {
		return err
	}
	if a.Photo != "" {
		ref, err := ResolvePhoto(a.Photo)
		if err != nil {
			return err
		}
		if err := ctx.Store.SetBaseImage(ref); err != nil {
			return err
		}
	}
	if a.Position != 0 {
		if err := ctx.Store.SetCountdownPosition(a.Position); err != nil {
			return err
		}
	}
	return ctx.Store.CompleteOnboarding()
}

func askOnboarding(a *Answers, ctx *cli.Context) error {
	styleOpts := make([]huh.Option[models.Theme], 0, 4)
	for _, info := range models.Themes() {
		styleOpts = append(styleOpts, huh.NewOption(info.Label+" - "+info.Description, info.ID))
	}
	if a.Style == "" {
		a.Style = models.ThemeModernMinimal
	}

	positionOpts := []huh.Option[int]{
		huh.NewOption("Low", constants.CountdownPositionLow),
		huh.NewOption("Middle", constants.CountdownPositionMiddle),
		huh.NewOption("High", constants.CountdownPositionHigh),
	}

	required := func(field string) func(string) error {
		return func(s string) error {
			if s == "" {
				return fmt.Errorf("%s is required", field)
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Your name").Value(&a.Partner1).Validate(required("name")),
			huh.NewInput().Title("Your partner's name").Value(&a.Partner2).Validate(required("name")),
			huh.NewInput().
				Title("Wedding date").
				Placeholder("YYYY-MM-DD").
				Value(&a.Date).
				Validate(func(s string) error {
					_, err := utils.ParseWeddingDate(s, ctx.Location())
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[models.Theme]().Title("Choose your style").Options(styleOpts...).Value(&a.Style),
			huh.NewSelect[int]().Title("Countdown position").Options(positionOpts...).Value(&a.Position),
			huh.NewInput().
				Title("Base photo (optional)").
				Description("Path or URL to a photo of the two of you").
				Value(&a.Photo).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, err := ResolvePhoto(s)
					return err
				}),
		),
	)
	return form.Run()
}

// PositionLabel names a countdown position for display.
func PositionLabel(p int) string {
	switch p {
	case constants.CountdownPositionLow:
		return "low"
	case constants.CountdownPositionMiddle:
		return "middle"
	case constants.CountdownPositionHigh:
		return "high"
	}
	return strconv.Itoa(p) + "%"
}
