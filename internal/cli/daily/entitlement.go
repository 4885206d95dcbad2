package daily

import (
	"errors"
	"fmt"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/state"
)

// PremiumCmd toggles premium. Purchases are mocked: this just flips the flag.
type PremiumCmd struct {
	State string `arg:"" enum:"on,off" default:"on" help:"on or off."`
}

func (c *PremiumCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.SetIsPremium(c.State == "on"); err != nil {
		return err
	}
	if c.State == "on" {
		fmt.Println("✓ Premium unlocked")
	} else {
		fmt.Println("✓ Premium turned off")
	}
	return nil
}

type TrialCmd struct{}

func (c *TrialCmd) Run(ctx *cli.Context) error {
	err := ctx.Store.StartFreeTrial()
	if errors.Is(err, state.ErrTrialAlreadyStarted) {
		fmt.Println("Your free trial has already been used.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println("✓ Free trial started. Daily images are now unlocked.")
	return nil
}
