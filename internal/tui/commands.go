package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/eternalglow/internal/gate"
	"github.com/julianstephens/eternalglow/internal/share"
)

type refreshDoneMsg struct {
	res gate.Result
	err error
}

type recreateDoneMsg struct {
	res gate.Result
	err error
}

type shareDoneMsg struct {
	kind share.TargetKind
	card share.Card
	out  share.Outcome
	err  error
}

type fallbackDoneMsg struct {
	out share.Outcome
	err error
}

func (m Model) refreshCmd() tea.Cmd {
	g := m.deps.Gate
	if g == nil {
		return nil
	}
	timeout := m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := g.AutoRefresh(ctx)
		return refreshDoneMsg{res: res, err: err}
	}
}

func (m Model) recreateCmd() tea.Cmd {
	g := m.deps.Gate
	timeout := m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := g.Recreate(ctx)
		return recreateDoneMsg{res: res, err: err}
	}
}

func (m Model) shareCmd(kind share.TargetKind) tea.Cmd {
	p := m.deps.Pipeline
	card := m.card()
	timeout := m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		out, err := p.Export(ctx, card, kind)
		return shareDoneMsg{kind: kind, card: card, out: out, err: err}
	}
}

func (m Model) fallbackCmd(card share.Card) tea.Cmd {
	p := m.deps.Pipeline
	timeout := m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		out, err := p.Fallback(ctx, card)
		return fallbackDoneMsg{out: out, err: err}
	}
}

// recreateMessage turns a recreate failure into something a couple can act on.
func recreateMessage(err error) string {
	switch {
	case errors.Is(err, gate.ErrRecreateLimit):
		return "You've already recreated today's image. Come back tomorrow!"
	case errors.Is(err, gate.ErrNoAccess):
		return "Daily images need premium or a free trial (Options tab, press t)."
	default:
		return fmt.Sprintf("Couldn't create a new image: %v", err)
	}
}

// describeOutcome summarizes a successful share in one line.
func describeOutcome(out share.Outcome) string {
	var msg string
	switch {
	case out.Link != "":
		msg = fmt.Sprintf("Shared to %s: %s", out.Target, out.Link)
	case out.Copied:
		msg = "Caption and card path copied to the clipboard"
	case out.Path != "":
		msg = fmt.Sprintf("Saved card to %s", out.Path)
	default:
		msg = fmt.Sprintf("Shared to %s", out.Target)
	}
	if out.Fallback {
		msg += " (fallback)"
	}
	return msg
}

// shareFailure explains a failed export and reports whether the generic
// fallback should be offered.
func shareFailure(msg shareDoneMsg) (string, bool) {
	var dispatchErr *share.DispatchError
	switch {
	case errors.As(msg.err, &dispatchErr):
		return fmt.Sprintf("Couldn't share to %s: %v", dispatchErr.Target, dispatchErr.Err),
			msg.kind != share.TargetGeneric
	case errors.Is(msg.err, share.ErrRender):
		return fmt.Sprintf("Couldn't create the share card: %v", msg.err),
			msg.kind != share.TargetGeneric
	default:
		return fmt.Sprintf("Share failed: %v", msg.err), false
	}
}
