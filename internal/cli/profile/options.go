package profile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/constants"
)

type OptionsCmd struct {
	Position      PositionCmd      `cmd:"" help:"Move the countdown (low, middle or high)."`
	Hint          HintCmd          `cmd:"" help:"Mark the first-time hint as seen."`
	DailySentence DailySentenceCmd `cmd:"" name:"daily-sentence" help:"Turn the daily tips on or off."`
}

type PositionCmd struct {
	Position string `arg:"" help:"low, middle, high, or 20, 50, 80 percent from the bottom."`
}

// ParsePosition accepts a named placement or a percentage.
func ParsePosition(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "bottom":
		return constants.CountdownPositionLow, nil
	case "middle", "center":
		return constants.CountdownPositionMiddle, nil
	case "high", "top":
		return constants.CountdownPositionHigh, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: use low, middle or high", s)
	}
	return n, nil
}

func (c *PositionCmd) Run(ctx *cli.Context) error {
	pos, err := ParsePosition(c.Position)
	if err != nil {
		return err
	}
	if err := ctx.Store.SetCountdownPosition(pos); err != nil {
		return err
	}
	fmt.Printf("✓ Countdown position: %s (%d%% from the bottom)\n", PositionLabel(pos), pos)
	return nil
}

type HintCmd struct{}

func (c *HintCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.SetFirstTimeHintShown(true); err != nil {
		return err
	}
	fmt.Println("✓ Hint dismissed")
	return nil
}

type DailySentenceCmd struct {
	State string `arg:"" enum:"on,off" help:"on or off."`
}

func (c *DailySentenceCmd) Run(ctx *cli.Context) error {
	enabled := c.State == "on"
	if err := ctx.Store.SetDailySentenceEnabled(enabled); err != nil {
		return err
	}
	fmt.Printf("✓ Daily tips %s\n", c.State)
	return nil
}
