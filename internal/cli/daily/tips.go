package daily

import (
	"fmt"
	"time"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/constants"
	"github.com/julianstephens/eternalglow/internal/tips"
)

type TipsCmd struct {
	Date string `help:"Show tips for another day (YYYY-MM-DD)."`
}

func (c *TipsCmd) Run(ctx *cli.Context) error {
	day := ctx.Card().Today
	if c.Date != "" {
		t, err := time.ParseInLocation(constants.DateFormat, c.Date, ctx.Location())
		if err != nil {
			return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", c.Date)
		}
		day = t
	}

	for _, item := range tips.ForDay(day) {
		fmt.Printf("%s %s (%s)\n   %s\n", item.Emoji, item.Title, item.Category, item.Content)
	}
	return nil
}
