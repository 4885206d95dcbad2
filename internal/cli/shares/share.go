package shares

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/share"
)

// ShareCmd exports today's countdown card.
type ShareCmd struct {
	Target      string `arg:"" optional:"" enum:"story,message,library,generic" default:"generic" help:"Where to share (story, message, library, generic)."`
	Fallback    bool   `help:"Fall back to the generic share without asking when the target fails."`
	NoFallback  bool   `help:"Never offer the generic fallback."`
	SaveTheDate bool   `name:"save-the-date" help:"Print the save-the-date message instead of sharing."`
	List        bool   `help:"List cached cards."`

	confirm func(title string) (bool, error)
}

func (c *ShareCmd) Run(ctx *cli.Context) error {
	if c.SaveTheDate {
		fmt.Println(share.SaveTheDateMessage(ctx.Card()))
		return nil
	}

	if c.List {
		return listCards(ctx)
	}

	bg := context.Background()
	pipeline, err := ctx.Pipeline(bg)
	if err != nil {
		return err
	}

	kind, err := share.ParseTargetKind(c.Target)
	if err != nil {
		return err
	}

	rctx, cancel := ctx.WithTimeout(bg)
	defer cancel()

	card := ctx.Card()
	out, err := pipeline.Export(rctx, card, kind)
	if err == nil {
		printOutcome(out)
		return nil
	}

	var dispatchErr *share.DispatchError
	switch {
	case errors.As(err, &dispatchErr):
		fmt.Printf("Couldn't share to %s: %v\n", dispatchErr.Target, dispatchErr.Err)
	case errors.Is(err, share.ErrRender):
		fmt.Printf("Couldn't create the share card: %v\n", err)
		fmt.Println("You can try again, or share the caption instead.")
	default:
		return err
	}

	if kind == share.TargetGeneric || c.NoFallback {
		return err
	}
	ok, askErr := c.askFallback()
	if askErr != nil {
		return askErr
	}
	if !ok {
		return err
	}

	out, err = pipeline.Fallback(rctx, card)
	if err != nil {
		return err
	}
	printOutcome(out)
	return nil
}

func (c *ShareCmd) askFallback() (bool, error) {
	if c.Fallback {
		return true, nil
	}
	confirm := c.confirm
	if confirm == nil {
		confirm = func(title string) (bool, error) {
			ok := true
			err := huh.NewConfirm().Title(title).Affirmative("Share").Negative("Cancel").Value(&ok).Run()
			return ok, err
		}
	}
	return confirm("Use the generic share instead?")
}

func printOutcome(out share.Outcome) {
	switch out.Target {
	case share.TargetStory, share.TargetMessage:
		fmt.Printf("✓ Shared to %s: %s\n", out.Target, out.Link)
	case share.TargetLibrary:
		fmt.Printf("✓ Saved to %s\n", out.Path)
	default:
		if out.Copied {
			fmt.Println("✓ Caption copied to clipboard")
		} else {
			fmt.Println(out.Caption)
		}
		if out.Path != "" {
			fmt.Printf("Card: %s\n", out.Path)
		}
	}
}

func listCards(ctx *cli.Context) error {
	cache := share.NewCache(ctx.Config.Share.CacheDir, ctx.Config.Share.MaxCachedCards)
	cards, err := cache.List()
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Println("No cached cards")
		return nil
	}
	for _, card := range cards {
		fmt.Printf("  %s  %8s  %s\n", card.Key, humanize.Bytes(uint64(card.Size)), humanize.Time(card.ModTime))
	}
	return nil
}
