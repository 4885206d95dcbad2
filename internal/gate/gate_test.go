package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/eternalglow/internal/models"
	"github.com/julianstephens/eternalglow/internal/state"
)

type fakeGenerator struct {
	calls   atomic.Int32
	err     error
	block   chan struct{}
	lastReq models.DailyImageRequest
	mu      sync.Mutex
}

func (f *fakeGenerator) Generate(ctx context.Context, req models.DailyImageRequest) (string, error) {
	n := f.calls.Add(1)
	f.mu.Lock()
	f.lastReq = req
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("https://img.example/%d.png", n), nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func setup(t *testing.T, access bool) (*Gate, *state.Store, *fakeGenerator, *clock) {
	t.Helper()
	initial := models.DefaultState()
	initial.Partner1Name = "Ana"
	initial.Partner2Name = "Ben"
	initial.BaseImage = models.StringPtr("file:///base.jpg")
	initial.IsPremium = access

	store := state.New(initial, nil)
	t.Cleanup(func() { store.Close() })

	clk := &clock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	gen := &fakeGenerator{}
	g := New(store, gen, WithClock(clk.Now), WithLocation(time.UTC))
	return g, store, gen, clk
}

func TestAutoRefreshWithoutAccess(t *testing.T) {
	g, store, gen, _ := setup(t, false)

	res, err := g.AutoRefresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReasonNoAccess, res.Skipped)
	assert.Zero(t, gen.calls.Load())
	assert.Nil(t, store.Snapshot().DailyImageURL)
}

func TestAutoRefreshOncePerDay(t *testing.T) {
	g, store, gen, clk := setup(t, true)
	ctx := context.Background()

	res, err := g.AutoRefresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, "https://img.example/1.png", res.ImageURL)
	assert.Equal(t, "2026-03-10", res.Day)

	snap := store.Snapshot()
	assert.Equal(t, "https://img.example/1.png", models.Deref(snap.DailyImageURL))
	assert.Equal(t, "2026-03-10", models.Deref(snap.LastDailyImageDate))

	gen.mu.Lock()
	assert.Equal(t, "Ana", gen.lastReq.Partner1)
	assert.Equal(t, "file:///base.jpg", gen.lastReq.BaseImage)
	gen.mu.Unlock()

	clk.Set(time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC))
	res, err = g.AutoRefresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReasonCached, res.Skipped)
	assert.Equal(t, "https://img.example/1.png", res.ImageURL)
	assert.EqualValues(t, 1, gen.calls.Load())

	clk.Set(time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC))
	res, err = g.AutoRefresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.EqualValues(t, 2, gen.calls.Load())
	assert.Equal(t, "2026-03-11", models.Deref(store.Snapshot().LastDailyImageDate))
}

func TestAutoRefreshFetchesWhenTodayHasNoURL(t *testing.T) {
	initial := models.DefaultState()
	initial.IsPremium = true
	initial.LastDailyImageDate = models.StringPtr("2026-03-10")

	store := state.New(initial, nil)
	t.Cleanup(func() { store.Close() })
	clk := &clock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	gen := &fakeGenerator{}
	g := New(store, gen, WithClock(clk.Now), WithLocation(time.UTC))

	res, err := g.AutoRefresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.EqualValues(t, 1, gen.calls.Load())
	assert.Equal(t, "https://img.example/1.png", models.Deref(store.Snapshot().DailyImageURL))
}

func TestAutoRefreshFailureKeepsCache(t *testing.T) {
	g, store, gen, clk := setup(t, true)
	ctx := context.Background()

	_, err := g.AutoRefresh(ctx)
	require.NoError(t, err)

	clk.Set(clk.Now().Add(24 * time.Hour))
	gen.err = errors.New("503 from upstream")

	_, err = g.AutoRefresh(ctx)
	require.ErrorIs(t, err, ErrRefreshFailed)
	assert.ErrorContains(t, err, "503 from upstream")

	snap := store.Snapshot()
	assert.Equal(t, "2026-03-10", models.Deref(snap.LastDailyImageDate), "failed refresh leaves yesterday's cache")
	assert.Equal(t, "file:///base.jpg", ImageURL(snap, g.Today()), "caller falls back to the base photo")
}

func TestRecreate(t *testing.T) {
	g, store, gen, clk := setup(t, true)
	ctx := context.Background()

	res, err := g.Recreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/1.png", res.ImageURL)

	snap := store.Snapshot()
	assert.True(t, snap.HasRecreatedToday)
	assert.Equal(t, "2026-03-10", models.Deref(snap.LastRecreatedDate))
	assert.Equal(t, "2026-03-10", models.Deref(snap.LastDailyImageDate))
	assert.Equal(t, "https://img.example/1.png", models.Deref(snap.DailyImageURL))

	_, err = g.Recreate(ctx)
	assert.ErrorIs(t, err, ErrRecreateLimit)
	assert.EqualValues(t, 1, gen.calls.Load())

	// The cached image from the recreate satisfies today's automatic refresh
	res, err = g.AutoRefresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReasonCached, res.Skipped)

	// A new day resets the limit even though the flag is still set
	clk.Set(clk.Now().Add(24 * time.Hour))
	_, err = g.Recreate(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, gen.calls.Load())
}

func TestRecreateWithoutAccess(t *testing.T) {
	g, _, gen, _ := setup(t, false)
	_, err := g.Recreate(context.Background())
	assert.ErrorIs(t, err, ErrNoAccess)
	assert.Zero(t, gen.calls.Load())
}

func TestRecreateFailureLeavesStateUnchanged(t *testing.T) {
	g, store, gen, _ := setup(t, true)
	gen.err = errors.New("boom")
	before := store.Snapshot()

	_, err := g.Recreate(context.Background())
	require.Error(t, err)
	assert.Equal(t, before, store.Snapshot())

	// The failed attempt does not use up the day's recreate
	gen.err = nil
	_, err = g.Recreate(context.Background())
	assert.NoError(t, err)
}

func TestConcurrentAutoRefreshSharesOneCall(t *testing.T) {
	g, _, gen, _ := setup(t, true)
	gen.block = make(chan struct{})

	var wg sync.WaitGroup
	results := make([]Result, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = g.AutoRefresh(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return gen.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(gen.block)
	wg.Wait()

	assert.EqualValues(t, 1, gen.calls.Load())
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, "https://img.example/1.png", results[i].ImageURL)
	}
}

func TestAutoRefreshAfterConcurrentRecreate(t *testing.T) {
	g, store, gen, _ := setup(t, true)
	gen.block = make(chan struct{})

	recreateDone := make(chan error, 1)
	go func() {
		_, err := g.Recreate(context.Background())
		recreateDone <- err
	}()
	require.Eventually(t, func() bool { return gen.calls.Load() == 1 }, time.Second, time.Millisecond)

	autoDone := make(chan Result, 1)
	go func() {
		res, _ := g.AutoRefresh(context.Background())
		autoDone <- res
	}()

	time.Sleep(20 * time.Millisecond)
	close(gen.block)

	require.NoError(t, <-recreateDone)
	res := <-autoDone
	assert.Equal(t, ReasonCached, res.Skipped, "auto path re-checks the cache after waiting")
	assert.EqualValues(t, 1, gen.calls.Load())
	assert.True(t, store.Snapshot().HasRecreatedToday)
}

func TestImageURL(t *testing.T) {
	snap := models.DefaultState()
	snap.BaseImage = models.StringPtr("file:///base.jpg")
	snap.DailyImageURL = models.StringPtr("https://img/daily.png")
	snap.LastDailyImageDate = models.StringPtr("2026-03-10")

	assert.Equal(t, "file:///base.jpg", ImageURL(snap, "2026-03-10"), "no access shows the base photo")

	snap.IsTrialActive = true
	assert.True(t, HasAccess(snap))
	assert.Equal(t, "https://img/daily.png", ImageURL(snap, "2026-03-10"))
	assert.Equal(t, "file:///base.jpg", ImageURL(snap, "2026-03-11"))
}
