package models

import "github.com/julianstephens/eternalglow/internal/constants"

// UserProfile holds everything the couple entered during onboarding.
type UserProfile struct {
	Partner1Name string  `json:"partner1Name"`
	Partner2Name string  `json:"partner2Name"`
	WeddingDate  *string `json:"weddingDate"` // ISO-8601
	BaseImage    *string `json:"baseImage"`
	Style        *Theme  `json:"style"`
	Story        string  `json:"story"`
	Adjectives   string  `json:"adjectives"`
}

// OnboardingFlags are one-shot and user-toggled UI flags.
type OnboardingFlags struct {
	IsOnboardingCompleted bool `json:"isOnboardingCompleted"`
	FirstTimeHintShown    bool `json:"firstTimeHintShown"`
	DailySentenceEnabled  bool `json:"dailySentenceEnabled"`
	CountdownPosition     int  `json:"countdownPosition"` // percent from bottom
}

// Preferences are free user preferences.
type Preferences struct {
	Language string `json:"language"`
}

// Entitlement is the premium/trial status gating daily AI content.
type Entitlement struct {
	IsPremium      bool    `json:"isPremium"`
	IsTrialActive  bool    `json:"isTrialActive"`
	TrialStartDate *string `json:"trialStartDate"` // RFC3339
}

// HasAccess reports whether the couple may receive generated daily content.
func (e Entitlement) HasAccess() bool {
	return e.IsTrialActive || e.IsPremium
}

// DailyContentCache remembers today's generated image and recreate usage.
// Each url/date and flag/date pair is only ever written together.
type DailyContentCache struct {
	DailyImageURL      *string `json:"dailyImageUrl"`
	LastDailyImageDate *string `json:"lastDailyImageDate"` // YYYY-MM-DD
	HasRecreatedToday  bool    `json:"hasRecreatedToday"`
	LastRecreatedDate  *string `json:"lastRecreatedDate"` // YYYY-MM-DD
}

// State is the complete persisted application state. Embedded structs keep the
// JSON layout flat.
type State struct {
	UserProfile
	OnboardingFlags
	Preferences
	Entitlement
	DailyContentCache
	Tasks []Task `json:"tasks"`
}

// DefaultState returns the state of a fresh install.
func DefaultState() State {
	return State{
		OnboardingFlags: OnboardingFlags{
			DailySentenceEnabled: constants.DefaultDailySentenceEnabled,
			CountdownPosition:    constants.DefaultCountdownPosition,
		},
		Preferences: Preferences{
			Language: constants.DefaultLanguage,
		},
		Tasks: SeedTasks(),
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	c.WeddingDate = cloneString(s.WeddingDate)
	c.BaseImage = cloneString(s.BaseImage)
	if s.Style != nil {
		style := *s.Style
		c.Style = &style
	}
	c.TrialStartDate = cloneString(s.TrialStartDate)
	c.DailyImageURL = cloneString(s.DailyImageURL)
	c.LastDailyImageDate = cloneString(s.LastDailyImageDate)
	c.LastRecreatedDate = cloneString(s.LastRecreatedDate)
	if s.Tasks != nil {
		c.Tasks = make([]Task, len(s.Tasks))
		for i, t := range s.Tasks {
			c.Tasks[i] = t.Clone()
		}
	}
	return c
}

// StyleOrDefault returns the chosen style id, or def when none is set.
func (s State) StyleOrDefault(def string) string {
	if s.Style == nil || *s.Style == "" {
		return def
	}
	return string(*s.Style)
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// StringPtr returns a pointer to v.
func StringPtr(v string) *string {
	return &v
}

// Deref returns the pointed-to string or "".
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
