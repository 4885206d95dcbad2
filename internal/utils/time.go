package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/eternalglow/internal/constants"
)

const day = 24 * time.Hour

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// DayString returns the calendar day of t in loc as YYYY-MM-DD.
func DayString(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(constants.DateFormat)
}

// IsSameLocalDay reports whether two calendar day strings name the same day.
// Unparseable or empty strings never match.
func IsSameLocalDay(a, b string) bool {
	da, err := time.Parse(constants.DateFormat, a)
	if err != nil {
		return false
	}
	db, err := time.Parse(constants.DateFormat, b)
	if err != nil {
		return false
	}
	return da.Equal(db)
}

// ValidateDayString checks that s is a YYYY-MM-DD calendar day.
func ValidateDayString(s string) bool {
	_, err := time.Parse(constants.DateFormat, s)
	return err == nil
}

// ParseWeddingDate parses an ISO-8601 wedding date. Full timestamps (RFC3339)
// keep their offset; bare YYYY-MM-DD dates mean midnight in loc.
func ParseWeddingDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(constants.DateFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid wedding date %q: expected RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// DaysLeft returns ceil((wedding - now) / 24h), floored at 0. An absent or
// unparseable date counts as 0 days.
func DaysLeft(weddingDate *string, now time.Time, loc *time.Location) int {
	if weddingDate == nil || *weddingDate == "" {
		return 0
	}
	wedding, err := ParseWeddingDate(*weddingDate, loc)
	if err != nil {
		return 0
	}
	diff := wedding.Sub(now)
	if diff <= 0 {
		return 0
	}
	days := int(diff / day)
	if diff%day != 0 {
		days++
	}
	return days
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
