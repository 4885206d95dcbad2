package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/models"
)

type ProfileCmd struct {
	Names    NamesCmd    `cmd:"" help:"Set the partners' names."`
	Date     DateCmd     `cmd:"" help:"Set the wedding date."`
	Photo    PhotoCmd    `cmd:"" help:"Set the base photo."`
	Style    StyleCmd    `cmd:"" help:"Choose the visual theme."`
	Story    StoryCmd    `cmd:"" help:"Set your story and adjectives for love letters."`
	Language LanguageCmd `cmd:"" help:"Set the UI language."`
}

type NamesCmd struct {
	Partner1 string `arg:"" help:"First partner's name."`
	Partner2 string `arg:"" help:"Second partner's name."`
}

func (c *NamesCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.SetNames(c.Partner1, c.Partner2); err != nil {
		return err
	}
	fmt.Printf("✓ Names set: %s & %s\n", strings.TrimSpace(c.Partner1), strings.TrimSpace(c.Partner2))
	return nil
}

type DateCmd struct {
	Date string `arg:"" help:"Wedding date (YYYY-MM-DD or RFC3339)."`
}

func (c *DateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.SetWeddingDate(c.Date); err != nil {
		return err
	}
	card := ctx.Card()
	fmt.Printf("✓ Wedding date set: %s (%d days to go)\n", card.FormattedDate(), card.DaysLeft)
	return nil
}

type PhotoCmd struct {
	Source string `arg:"" help:"Image file path or URL."`
}

func (c *PhotoCmd) Run(ctx *cli.Context) error {
	ref, err := ResolvePhoto(c.Source)
	if err != nil {
		return err
	}
	if err := ctx.Store.SetBaseImage(ref); err != nil {
		return err
	}
	fmt.Printf("✓ Photo set: %s\n", ref)
	return nil
}

// ResolvePhoto turns a local path into an absolute one after checking that
// it exists. URLs and data URIs pass through untouched.
func ResolvePhoto(src string) (string, error) {
	src = strings.TrimSpace(src)
	for _, prefix := range []string{"http://", "https://", "data:", "file://"} {
		if strings.HasPrefix(src, prefix) {
			return src, nil
		}
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("photo not found: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("photo %s is a directory", abs)
	}
	return abs, nil
}

type StyleCmd struct {
	Theme string `arg:"" optional:"" help:"Theme name. Omit to list themes."`
}

func (c *StyleCmd) Run(ctx *cli.Context) error {
	if c.Theme == "" {
		current := ctx.Store.Snapshot().StyleOrDefault("")
		for _, info := range models.Themes() {
			marker := " "
			if string(info.ID) == current {
				marker = "*"
			}
			fmt.Printf("%s %-15s %s\n", marker, info.Label, info.Description)
		}
		return nil
	}

	theme, err := models.ParseTheme(c.Theme)
	if err != nil {
		return err
	}
	if err := ctx.Store.SetStyle(theme); err != nil {
		return err
	}
	fmt.Printf("✓ Style set: %s\n", theme)
	return nil
}

type StoryCmd struct {
	Story      string `arg:"" help:"How you met, in a sentence or two."`
	Adjectives string `short:"a" help:"Words that describe your relationship."`
}

func (c *StoryCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.SetStoryDetails(c.Story, c.Adjectives); err != nil {
		return err
	}
	fmt.Println("✓ Story saved")
	return nil
}

type LanguageCmd struct {
	Language string `arg:"" help:"Language code (en, es, fr, de, it, pt)."`
}

func (c *LanguageCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.SetLanguage(c.Language); err != nil {
		return err
	}
	fmt.Printf("✓ Language set: %s\n", c.Language)
	return nil
}
