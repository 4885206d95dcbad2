// Package state owns the in-memory application state and its persistence.
//
// All mutations go through named operations on *Store. Each successful
// mutation hands a snapshot to a background writer, so callers never block
// on the storage backend and never see its errors; PersistErr and Flush
// expose them when needed.
package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/eternalglow/internal/constants"
	"github.com/julianstephens/eternalglow/internal/models"
	"github.com/julianstephens/eternalglow/internal/storage"
	"github.com/julianstephens/eternalglow/internal/utils"
)

type Store struct {
	mu     sync.RWMutex
	state  models.State
	closed bool

	persist *persister
	now     func() time.Time
	loc     *time.Location
	newID   func() string
}

type Option func(*Store)

// WithClock overrides the time source used for trial start stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the location used to interpret date-only wedding dates.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithIDGenerator overrides task id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Open loads the persisted state from provider and starts the writer.
func Open(provider storage.Provider, opts ...Option) (*Store, error) {
	initial, err := provider.LoadState()
	if err != nil {
		return nil, err
	}
	return New(initial, provider.SaveState, opts...), nil
}

// New builds a store around an initial state. save receives every snapshot;
// a nil save keeps the state in memory only.
func New(initial models.State, save func(models.State) error, opts ...Option) *Store {
	if save == nil {
		save = func(models.State) error { return nil }
	}
	s := &Store{
		state: initial.Clone(),
		now:   time.Now,
		loc:   time.Local,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.persist = newPersister(save)
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// PersistErr returns the error from the most recent write, or nil if it succeeded.
func (s *Store) PersistErr() error {
	return s.persist.err()
}

// Flush waits until every mutation made so far has been handed to storage.
func (s *Store) Flush(ctx context.Context) error {
	return s.persist.flush(ctx)
}

// Close flushes pending writes and stops the writer. The storage provider
// is left open.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.persist.close()
	return s.persist.err()
}

// update applies fn under the write lock and queues the result for
// persistence. fn returning an error leaves state untouched.
func (s *Store) update(fn func(st *models.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	next := s.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.state = next
	s.persist.submit(next.Clone())
	return nil
}

func (s *Store) SetNames(partner1, partner2 string) error {
	p1 := strings.TrimSpace(partner1)
	p2 := strings.TrimSpace(partner2)
	if p1 == "" {
		return invalid("partner1Name", "must not be empty")
	}
	if p2 == "" {
		return invalid("partner2Name", "must not be empty")
	}
	return s.update(func(st *models.State) error {
		st.Partner1Name = p1
		st.Partner2Name = p2
		return nil
	})
}

// SetWeddingDate accepts an RFC 3339 timestamp or a YYYY-MM-DD date.
func (s *Store) SetWeddingDate(iso string) error {
	iso = strings.TrimSpace(iso)
	if _, err := utils.ParseWeddingDate(iso, s.loc); err != nil {
		return invalid("weddingDate", "%q is not an ISO-8601 date", iso)
	}
	return s.update(func(st *models.State) error {
		st.WeddingDate = models.StringPtr(iso)
		return nil
	})
}

func (s *Store) SetBaseImage(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return invalid("baseImage", "must not be empty")
	}
	return s.update(func(st *models.State) error {
		st.BaseImage = models.StringPtr(ref)
		return nil
	})
}

func (s *Store) SetStyle(theme models.Theme) error {
	if !theme.Valid() {
		return invalid("style", "unknown theme %q", theme)
	}
	return s.update(func(st *models.State) error {
		st.Style = &theme
		return nil
	})
}

func (s *Store) SetStoryDetails(story, adjectives string) error {
	return s.update(func(st *models.State) error {
		st.Story = story
		st.Adjectives = adjectives
		return nil
	})
}

func (s *Store) SetCountdownPosition(percent int) error {
	valid := false
	for _, p := range constants.CountdownPositions {
		if p == percent {
			valid = true
			break
		}
	}
	if !valid {
		return invalid("countdownPosition", "%d is not one of %v", percent, constants.CountdownPositions)
	}
	return s.update(func(st *models.State) error {
		st.CountdownPosition = percent
		return nil
	})
}

func (s *Store) CompleteOnboarding() error {
	return s.update(func(st *models.State) error {
		st.IsOnboardingCompleted = true
		return nil
	})
}

// SetFirstTimeHintShown only moves the flag from false to true.
func (s *Store) SetFirstTimeHintShown(shown bool) error {
	return s.update(func(st *models.State) error {
		if shown {
			st.FirstTimeHintShown = true
		}
		return nil
	})
}

func (s *Store) SetDailySentenceEnabled(enabled bool) error {
	return s.update(func(st *models.State) error {
		st.DailySentenceEnabled = enabled
		return nil
	})
}

func (s *Store) SetIsPremium(premium bool) error {
	return s.update(func(st *models.State) error {
		st.IsPremium = premium
		return nil
	})
}

func (s *Store) SetLanguage(lang string) error {
	lang = strings.ToLower(strings.TrimSpace(lang))
	supported := false
	for _, l := range constants.Languages {
		if l == lang {
			supported = true
			break
		}
	}
	if !supported {
		return invalid("language", "%q is not one of %v", lang, constants.Languages)
	}
	return s.update(func(st *models.State) error {
		st.Language = lang
		return nil
	})
}

// SetDailyImage records the image and the day it was generated together.
func (s *Store) SetDailyImage(url, day string) error {
	if strings.TrimSpace(url) == "" {
		return invalid("dailyImageUrl", "must not be empty")
	}
	if !utils.ValidateDayString(day) {
		return invalid("lastDailyImageDate", "%q is not a YYYY-MM-DD day", day)
	}
	return s.update(func(st *models.State) error {
		st.DailyImageURL = models.StringPtr(url)
		st.LastDailyImageDate = models.StringPtr(day)
		return nil
	})
}

// StartFreeTrial activates the trial once. Later calls return
// ErrTrialAlreadyStarted, even after the trial has been switched off.
func (s *Store) StartFreeTrial() error {
	return s.update(func(st *models.State) error {
		if st.TrialStartDate != nil {
			return ErrTrialAlreadyStarted
		}
		st.IsTrialActive = true
		st.TrialStartDate = models.StringPtr(s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"))
		return nil
	})
}

func (s *Store) SetHasRecreatedToday(recreated bool, day string) error {
	if !utils.ValidateDayString(day) {
		return invalid("lastRecreatedDate", "%q is not a YYYY-MM-DD day", day)
	}
	return s.update(func(st *models.State) error {
		st.HasRecreatedToday = recreated
		st.LastRecreatedDate = models.StringPtr(day)
		return nil
	})
}

// RecordRecreate stores a manually regenerated image and marks the day's
// recreate as used in one mutation.
func (s *Store) RecordRecreate(url, day string) error {
	if strings.TrimSpace(url) == "" {
		return invalid("dailyImageUrl", "must not be empty")
	}
	if !utils.ValidateDayString(day) {
		return invalid("lastRecreatedDate", "%q is not a YYYY-MM-DD day", day)
	}
	return s.update(func(st *models.State) error {
		st.DailyImageURL = models.StringPtr(url)
		st.LastDailyImageDate = models.StringPtr(day)
		st.HasRecreatedToday = true
		st.LastRecreatedDate = models.StringPtr(day)
		return nil
	})
}

// Reset restores every field to its first-launch value, including the
// seeded checklist.
func (s *Store) Reset() error {
	return s.update(func(st *models.State) error {
		*st = models.DefaultState()
		return nil
	})
}
