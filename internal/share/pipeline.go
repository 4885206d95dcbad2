package share

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/eternalglow/internal/logger"
)

var (
	// ErrRender means the card could not be produced. Retrying is allowed;
	// the generic target can still share the caption.
	ErrRender        = errors.New("failed to render share card")
	ErrUnknownTarget = errors.New("unknown share target")
)

// DispatchError wraps a failure of a specific target and names the target
// the caller should offer instead.
type DispatchError struct {
	Target   TargetKind
	Fallback TargetKind
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("share to %s failed: %v", e.Target, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Pipeline renders, caches and dispatches share cards.
type Pipeline struct {
	renderer Renderer
	cache    *Cache
	targets  map[TargetKind]Target
	appName  string
	appLink  string
}

func NewPipeline(renderer Renderer, cache *Cache, appName, appLink string, targets ...Target) *Pipeline {
	p := &Pipeline{
		renderer: renderer,
		cache:    cache,
		targets:  make(map[TargetKind]Target, len(targets)+1),
		appName:  appName,
		appLink:  appLink,
	}
	for _, t := range targets {
		p.targets[t.Kind()] = t
	}
	if _, ok := p.targets[TargetGeneric]; !ok {
		p.targets[TargetGeneric] = NewGenericTarget()
	}
	return p
}

// Caption is the text shared alongside the card.
func (p *Pipeline) Caption(card Card) string {
	return BuildCaption(card.DaysLeft, p.appName, p.appLink)
}

// Prepare returns the cached card for today, rendering it on a miss.
func (p *Pipeline) Prepare(ctx context.Context, card Card) (Asset, error) {
	key := card.Key()
	asset := Asset{Key: key, Caption: p.Caption(card)}

	if path, ok := p.cache.Lookup(key); ok {
		logger.Debug("Share card cache hit", "key", key)
		asset.Path = path
		asset.Cached = true
		return asset, nil
	}

	data, err := p.renderer.Render(ctx, card)
	if err != nil {
		return asset, fmt.Errorf("%w: %v", ErrRender, err)
	}
	path, err := p.cache.Store(key, data)
	if err != nil {
		return asset, fmt.Errorf("%w: %v", ErrRender, err)
	}
	logger.Debug("Share card rendered", "key", key, "bytes", len(data))
	asset.Path = path
	return asset, nil
}

// Export prepares the card and sends it to kind. Render failures come back
// as ErrRender; target failures as *DispatchError.
func (p *Pipeline) Export(ctx context.Context, card Card, kind TargetKind) (Outcome, error) {
	target, ok := p.targets[kind]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownTarget, kind)
	}

	asset, err := p.Prepare(ctx, card)
	if err != nil {
		return Outcome{}, err
	}

	out, err := target.Send(ctx, asset)
	if err != nil {
		logger.Warn("Share dispatch failed", "target", kind, "error", err)
		return Outcome{}, &DispatchError{Target: kind, Fallback: TargetGeneric, Err: err}
	}
	return out, nil
}

// Fallback shares through the generic target. It uses the rendered card
// when one can be produced and the caption alone otherwise.
func (p *Pipeline) Fallback(ctx context.Context, card Card) (Outcome, error) {
	asset, err := p.Prepare(ctx, card)
	if err != nil {
		logger.Warn("Sharing caption without card", "error", err)
		asset.Path = ""
	}
	out, err := p.targets[TargetGeneric].Send(ctx, asset)
	if err != nil {
		return Outcome{}, err
	}
	out.Fallback = true
	return out, nil
}

// ParseTargetKind maps user input to a TargetKind.
func ParseTargetKind(s string) (TargetKind, error) {
	for _, k := range TargetKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTarget, s)
}
