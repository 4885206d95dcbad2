package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	pipeline, err := ctx.Pipeline(context.Background())
	if err != nil {
		return err
	}

	m := tui.NewModel(tui.Deps{
		Store:    ctx.Store,
		Gate:     ctx.Gate(),
		Pipeline: pipeline,
		Location: ctx.Location(),
		Timeout:  ctx.Config.RequestTimeout,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
