package constants

const (
	// Countdown placement choices, in percent from the bottom of the screen
	CountdownPositionLow    = 20
	CountdownPositionMiddle = 50
	CountdownPositionHigh   = 80

	// Default state values
	DefaultCountdownPosition    = CountdownPositionLow
	DefaultDailySentenceEnabled = true
	DefaultLanguage             = "en"

	// Default remote endpoints
	DefaultDailyImageURL  = "https://api.eternalglow.app/functions/v1/generate-daily-image"
	DefaultTextBaseURL    = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultTextModel      = "gemini-2.0-flash"
	DefaultImageGenURL    = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash-exp:generateContent"
	DefaultRequestTimeout = "60s"
	DefaultTimezone       = "Local"
	DefaultLinkExpiry     = "168h"
)

// CountdownPositions lists the placements offered to the user.
var CountdownPositions = []int{CountdownPositionLow, CountdownPositionMiddle, CountdownPositionHigh}

// Languages lists the supported UI languages.
var Languages = []string{"en", "es", "fr", "de", "it", "pt"}
