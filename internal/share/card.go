// Package share turns the countdown into a shareable PNG card and hands it
// to a destination: a story or message webhook, the local pictures folder,
// or the clipboard as a last resort.
package share

import (
	"fmt"
	"time"

	"github.com/julianstephens/eternalglow/internal/constants"
	"github.com/julianstephens/eternalglow/internal/models"
	"github.com/julianstephens/eternalglow/internal/utils"
)

// Card is the read-only input to rendering. Style is the theme id, or empty
// when none was chosen.
type Card struct {
	Partner1          string
	Partner2          string
	WeddingDate       *time.Time
	BaseImage         string
	Style             string
	IsPremium         bool
	CountdownPosition int
	DaysLeft          int
	Today             time.Time
}

// CardFromState captures what the card needs from a state snapshot at now.
func CardFromState(snap models.State, now time.Time, loc *time.Location) Card {
	if loc == nil {
		loc = time.Local
	}
	c := Card{
		Partner1:          snap.Partner1Name,
		Partner2:          snap.Partner2Name,
		BaseImage:         models.Deref(snap.BaseImage),
		IsPremium:         snap.IsPremium,
		CountdownPosition: snap.CountdownPosition,
		DaysLeft:          utils.DaysLeft(snap.WeddingDate, now, loc),
		Today:             now.In(loc),
	}
	if snap.Style != nil {
		c.Style = string(*snap.Style)
	}
	if snap.WeddingDate != nil {
		if t, err := utils.ParseWeddingDate(*snap.WeddingDate, loc); err == nil {
			local := t.In(loc)
			c.WeddingDate = &local
		}
	}
	return c
}

// Key is the cache key for this card.
func (c Card) Key() string {
	return BuildCacheKey(c.Today, c.DaysLeft, c.Style)
}

// FormattedDate renders the wedding date as "January 2, 2006", or "" when unset.
func (c Card) FormattedDate() string {
	if c.WeddingDate == nil {
		return ""
	}
	return c.WeddingDate.Format("January 2, 2006")
}

// BuildCacheKey names a card by local day, days left and style. Month and
// day are not zero padded. The same inputs always produce the same key.
func BuildCacheKey(now time.Time, daysLeft int, style string) string {
	if style == "" {
		style = "default"
	}
	return fmt.Sprintf("%s%d-%d-%d_%d_%s%s",
		constants.ShareCardFilePrefix,
		now.Year(), int(now.Month()), now.Day(),
		daysLeft, style,
		constants.ShareCardFileSuffix)
}

// BuildCaption is the text attached to every share.
func BuildCaption(daysLeft int, appName, appLink string) string {
	return fmt.Sprintf("%d days to go 💍 Made with %s %s", daysLeft, appName, appLink)
}

// SaveTheDateMessage is the plain-text announcement for the couple.
func SaveTheDateMessage(c Card) string {
	date := c.FormattedDate()
	if date == "" {
		return fmt.Sprintf("Save the Date! %s & %s are getting married soon.", c.Partner1, c.Partner2)
	}
	return fmt.Sprintf("Save the Date! %s & %s are getting married on %s.", c.Partner1, c.Partner2, date)
}
