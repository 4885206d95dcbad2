// Package gate decides when the daily couple image may be generated.
//
// The automatic refresh runs at most once per local calendar day and only
// for users with access. A manual recreate is allowed once per day on top
// of that. Concurrent triggers for the same day share one generation call.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/julianstephens/eternalglow/internal/logger"
	"github.com/julianstephens/eternalglow/internal/models"
	"github.com/julianstephens/eternalglow/internal/state"
	"github.com/julianstephens/eternalglow/internal/utils"
)

var (
	ErrNoAccess      = errors.New("daily images require premium or an active trial")
	ErrRecreateLimit = errors.New("already recreated today")
	ErrRefreshFailed = errors.New("daily image refresh failed")
)

// Generator produces a daily image URL for the couple.
type Generator interface {
	Generate(ctx context.Context, req models.DailyImageRequest) (string, error)
}

type Reason string

const (
	ReasonNoAccess Reason = "no-access"
	ReasonCached   Reason = "cached"
)

// Result describes the outcome of a gate call. Skipped is empty when a new
// image was generated.
type Result struct {
	ImageURL string
	Day      string
	Skipped  Reason
}

type Gate struct {
	store *state.Store
	gen   Generator
	now   func() time.Time
	loc   *time.Location

	group singleflight.Group
	mu    sync.Mutex
}

type Option func(*Gate)

func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(g *Gate) { g.loc = loc }
}

func New(store *state.Store, gen Generator, opts ...Option) *Gate {
	g := &Gate{
		store: store,
		gen:   gen,
		now:   time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Today returns the current local calendar day.
func (g *Gate) Today() string {
	return utils.DayString(g.now(), g.loc)
}

// AutoRefresh generates today's image unless the user lacks access or it
// already exists. A generation failure leaves the cache untouched and is
// returned wrapped in ErrRefreshFailed; callers fall back to the base photo.
func (g *Gate) AutoRefresh(ctx context.Context) (Result, error) {
	today := g.Today()
	if res, skip := autoSkip(g.store.Snapshot(), today); skip {
		return res, nil
	}

	v, err, _ := g.group.Do("auto:"+today, func() (any, error) {
		return g.autoRefresh(ctx, today)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (g *Gate) autoRefresh(ctx context.Context, today string) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// A manual recreate may have filled the cache while we waited.
	snap := g.store.Snapshot()
	if res, skip := autoSkip(snap, today); skip {
		return res, nil
	}

	url, err := g.gen.Generate(ctx, models.DailyImageRequestFrom(snap))
	if err != nil {
		logger.Warn("Daily image refresh failed", "day", today, "error", err)
		return Result{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	if err := g.store.SetDailyImage(url, today); err != nil {
		logger.Warn("Daily image rejected", "day", today, "error", err)
		return Result{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	logger.Info("Daily image refreshed", "day", today)
	return Result{ImageURL: url, Day: today}, nil
}

// Recreate generates a replacement image once per day. The image and the
// recreate marker are recorded together; on failure nothing changes.
func (g *Gate) Recreate(ctx context.Context) (Result, error) {
	today := g.Today()
	if err := recreateCheck(g.store.Snapshot(), today); err != nil {
		return Result{}, err
	}

	v, err, _ := g.group.Do("recreate:"+today, func() (any, error) {
		return g.recreate(ctx, today)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (g *Gate) recreate(ctx context.Context, today string) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := g.store.Snapshot()
	if err := recreateCheck(snap, today); err != nil {
		return Result{}, err
	}

	url, err := g.gen.Generate(ctx, models.DailyImageRequestFrom(snap))
	if err != nil {
		logger.Warn("Daily image recreate failed", "day", today, "error", err)
		return Result{}, err
	}
	if err := g.store.RecordRecreate(url, today); err != nil {
		return Result{}, err
	}

	logger.Info("Daily image recreated", "day", today)
	return Result{ImageURL: url, Day: today}, nil
}

func autoSkip(snap models.State, today string) (Result, bool) {
	if !snap.HasAccess() {
		return Result{Skipped: ReasonNoAccess, Day: today}, true
	}
	if models.Deref(snap.DailyImageURL) != "" && utils.IsSameLocalDay(models.Deref(snap.LastDailyImageDate), today) {
		return Result{Skipped: ReasonCached, Day: today, ImageURL: models.Deref(snap.DailyImageURL)}, true
	}
	return Result{}, false
}

func recreateCheck(snap models.State, today string) error {
	if !snap.HasAccess() {
		return ErrNoAccess
	}
	if RecreatedOn(snap, today) {
		return ErrRecreateLimit
	}
	return nil
}

// HasAccess reports whether daily images are unlocked for the snapshot.
func HasAccess(snap models.State) bool {
	return snap.HasAccess()
}

// RecreatedOn reports whether the manual recreate was already used on day.
// A marker from an earlier day does not count.
func RecreatedOn(snap models.State, day string) bool {
	return snap.HasRecreatedToday && utils.IsSameLocalDay(models.Deref(snap.LastRecreatedDate), day)
}

// ImageURL picks the picture to show: today's generated image when the user
// has access and one exists, otherwise the base photo.
func ImageURL(snap models.State, today string) string {
	if snap.HasAccess() && snap.DailyImageURL != nil && utils.IsSameLocalDay(models.Deref(snap.LastDailyImageDate), today) {
		return *snap.DailyImageURL
	}
	return models.Deref(snap.BaseImage)
}
