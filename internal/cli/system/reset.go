package system

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/eternalglow/internal/cli"
)

type ResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title("Reset everything?").
			Description("Names, date, photo, checklist and entitlements will be cleared.").
			Affirmative("Reset").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Reset cancelled")
			return nil
		}
	}

	if err := ctx.Store.Reset(); err != nil {
		return err
	}
	fmt.Println("✓ All data reset to defaults")
	return nil
}
