package models

import "testing"

func TestThemeTableIsExhaustive(t *testing.T) {
	infos := Themes()
	if len(infos) != len(allThemes) {
		t.Fatalf("Themes() returned %d entries, want %d", len(infos), len(allThemes))
	}
	for i, th := range allThemes {
		info, ok := th.Info()
		if !ok {
			t.Errorf("theme %q has no table entry", th)
			continue
		}
		if info.ID != th || infos[i].ID != th {
			t.Errorf("theme %q table entry mismatched: %+v", th, info)
		}
		if info.Background == "" || info.Accent == "" || info.Ink == "" {
			t.Errorf("theme %q is missing palette colors", th)
		}
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		input   string
		want    Theme
		wantErr bool
	}{
		{"Vintage", ThemeVintage, false},
		{"vintage", ThemeVintage, false},
		{"modern-minimal", ThemeModernMinimal, false},
		{"Modern Minimal", ThemeModernMinimal, false},
		{" boho-chic ", ThemeBohoChic, false},
		{"classic royal", ThemeClassicRoyal, false},
		{"Gothic", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTheme(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTheme(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTheme(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestThemeValid(t *testing.T) {
	if !ThemeVintage.Valid() {
		t.Error("Vintage should be valid")
	}
	if Theme("Disco").Valid() {
		t.Error("Disco should not be valid")
	}
}
