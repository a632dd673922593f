package model

// Theme is the color theme of the page.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Themes lists the selectable themes in display order.
func Themes() []Theme {
	return []Theme{ThemeLight, ThemeDark, ThemeAuto}
}

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

// RunControls is one copy of the run-option controls. Timeout is the raw
// text of the numeric input, parsed only when a run is issued.
type RunControls struct {
	Timeout        string
	TimeoutEnabled bool
}

// Settings is the process-wide presentation state. Only Theme survives a
// restart.
type Settings struct {
	Theme          Theme
	TimeoutSeconds float64
	TimeoutEnabled bool
	Locale         string
}
