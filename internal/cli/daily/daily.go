package daily

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/gate"
	"github.com/julianstephens/eternalglow/internal/logger"
)

// DailyCmd runs the automatic refresh and prints today's picture.
type DailyCmd struct{}

func (c *DailyCmd) Run(ctx *cli.Context) error {
	rctx, cancel := ctx.WithTimeout(context.Background())
	defer cancel()

	g := ctx.Gate()
	res, err := g.AutoRefresh(rctx)
	if err != nil {
		// Automatic refresh failures are not user errors; show the fallback.
		logger.Warn("Automatic daily image refresh failed", "error", err)
	}

	switch res.Skipped {
	case gate.ReasonNoAccess:
		fmt.Println("Daily images are a premium feature. Start a free trial with `eternalglow trial`.")
	case gate.ReasonCached:
		fmt.Println("Today's image is ready.")
	}

	img := gate.ImageURL(ctx.Store.Snapshot(), g.Today())
	if img == "" {
		fmt.Println("No image yet. Add a photo with `eternalglow profile photo`.")
		return nil
	}
	fmt.Println(img)
	return nil
}

// RecreateCmd asks for a fresh image, once per day.
type RecreateCmd struct{}

func (c *RecreateCmd) Run(ctx *cli.Context) error {
	rctx, cancel := ctx.WithTimeout(context.Background())
	defer cancel()

	res, err := ctx.Gate().Recreate(rctx)
	switch {
	case errors.Is(err, gate.ErrRecreateLimit):
		fmt.Println("You've already recreated today's image. Come back tomorrow!")
		return nil
	case errors.Is(err, gate.ErrNoAccess):
		return fmt.Errorf("%w: start a free trial with `eternalglow trial`", err)
	case err != nil:
		return fmt.Errorf("could not recreate today's image, please try again: %w", err)
	}

	fmt.Println("✓ New image for today:")
	fmt.Println(res.ImageURL)
	return nil
}
