package models

import (
	"fmt"
	"strings"
)

// Theme identifies one of the visual styles a couple can pick for their countdown.
type Theme string

const (
	ThemeBohoChic      Theme = "Boho-Chic"
	ThemeModernMinimal Theme = "Modern Minimal"
	ThemeClassicRoyal  Theme = "Classic Royal"
	ThemeVintage       Theme = "Vintage"
)

// ThemeInfo describes how a theme is presented and rendered.
type ThemeInfo struct {
	ID          Theme
	Label       string
	Description string
	Background  string // hex color, e.g. "#F5F5DC"
	Accent      string
	Ink         string
}

// allThemes is the presentation order used by pickers.
var allThemes = []Theme{ThemeBohoChic, ThemeModernMinimal, ThemeClassicRoyal, ThemeVintage}

var themeTable = map[Theme]ThemeInfo{
	ThemeBohoChic: {
		ID:          ThemeBohoChic,
		Label:       "Boho-Chic",
		Description: "Natural, earthy, and free-spirited.",
		Background:  "#FFF3E0",
		Accent:      "#C8875A",
		Ink:         "#5D4037",
	},
	ThemeModernMinimal: {
		ID:          ThemeModernMinimal,
		Label:       "Modern Minimal",
		Description: "Clean lines, simple, and elegant.",
		Background:  "#FAF9F6",
		Accent:      "#4A4A4A",
		Ink:         "#212121",
	},
	ThemeClassicRoyal: {
		ID:          ThemeClassicRoyal,
		Label:       "Classic Royal",
		Description: "Timeless, luxurious, and grand.",
		Background:  "#F0E6FA",
		Accent:      "#D4AF37",
		Ink:         "#311B92",
	},
	ThemeVintage: {
		ID:          ThemeVintage,
		Label:       "Vintage",
		Description: "Nostalgic, warm, and romantic.",
		Background:  "#E6D7C3",
		Accent:      "#8D6E63",
		Ink:         "#4A4A4A",
	},
}

// Themes returns every theme in presentation order.
func Themes() []ThemeInfo {
	infos := make([]ThemeInfo, 0, len(allThemes))
	for _, t := range allThemes {
		infos = append(infos, themeTable[t])
	}
	return infos
}

// Info returns the presentation details for the theme.
func (t Theme) Info() (ThemeInfo, bool) {
	info, ok := themeTable[t]
	return info, ok
}

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	_, ok := themeTable[t]
	return ok
}

// ParseTheme resolves a theme id case-insensitively. Hyphens and spaces are
// interchangeable so "modern-minimal" resolves to "Modern Minimal".
func ParseTheme(s string) (Theme, error) {
	norm := func(v string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(v), " ", "-"))
	}
	want := norm(s)
	for _, t := range allThemes {
		if norm(string(t)) == want {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown theme: %q", s)
}
