package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/gate"
	"github.com/julianstephens/eternalglow/internal/logger"
	"github.com/julianstephens/eternalglow/internal/models"
	"github.com/julianstephens/eternalglow/internal/share"
	"github.com/julianstephens/eternalglow/internal/tips"
	"github.com/julianstephens/eternalglow/internal/utils"
)

// StatusCmd prints the countdown screen. Like opening the app, it triggers
// the automatic daily image refresh; refresh failures stay silent.
type StatusCmd struct {
	NoRefresh bool `help:"Skip the automatic daily image refresh."`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	if !c.NoRefresh {
		rctx, cancel := ctx.WithTimeout(context.Background())
		if _, err := ctx.Gate().AutoRefresh(rctx); err != nil {
			logger.Warn("Automatic daily image refresh failed", "error", err)
		}
		cancel()
	}

	snap := ctx.Store.Snapshot()
	fmt.Print(RenderStatus(snap, ctx.Card(), ctx.Gate().Today()))

	if showsHint(snap) {
		return ctx.Store.SetFirstTimeHintShown(true)
	}
	return nil
}

// RenderStatus formats the countdown summary for the terminal.
func RenderStatus(snap models.State, card share.Card, today string) string {
	var b strings.Builder

	if !snap.IsOnboardingCompleted {
		b.WriteString("Onboarding not completed. Run `eternalglow onboard` to get started.\n\n")
	}

	names := strings.TrimSpace(card.Partner1 + " & " + card.Partner2)
	if names != "&" {
		fmt.Fprintf(&b, "%s\n", names)
	}

	if card.WeddingDate != nil {
		fmt.Fprintf(&b, "%d days to go (%s, %s)\n",
			card.DaysLeft, card.FormattedDate(), humanize.Time(*card.WeddingDate))
	} else {
		b.WriteString("No wedding date set\n")
	}

	if snap.Style != nil {
		fmt.Fprintf(&b, "Style: %s\n", *snap.Style)
	}

	switch {
	case snap.IsPremium:
		b.WriteString("Plan: premium\n")
	case snap.IsTrialActive:
		fmt.Fprintf(&b, "Plan: free trial (since %s)\n", models.Deref(snap.TrialStartDate))
	default:
		b.WriteString("Plan: free\n")
	}

	if img := gate.ImageURL(snap, today); img != "" {
		label := "Photo"
		if gate.HasAccess(snap) && utils.IsSameLocalDay(models.Deref(snap.LastDailyImageDate), today) {
			label = "Today's image"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, img)
	}
	if gate.RecreatedOn(snap, today) {
		b.WriteString("Recreate used today\n")
	}

	done := 0
	for _, t := range snap.Tasks {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintf(&b, "Checklist: %d/%d done\n", done, len(snap.Tasks))

	if snap.DailySentenceEnabled {
		b.WriteString("\n")
		for _, item := range tips.ForDay(card.Today) {
			fmt.Fprintf(&b, "%s %s: %s\n", item.Emoji, item.Title, item.Content)
		}
	}

	if showsHint(snap) {
		b.WriteString("\nTip: run `eternalglow share` to send your countdown card.\n")
	}
	return b.String()
}

func showsHint(snap models.State) bool {
	return snap.IsOnboardingCompleted && !snap.FirstTimeHintShown
}
