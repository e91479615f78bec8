package rendering

import "strings"

// Theme selects the stylesheet a résumé page is rendered with.
type Theme string

const (
	ThemeClassic    Theme = "classic"
	ThemeModern     Theme = "modern"
	ThemeMinimalist Theme = "minimalist"
)

// DefaultTheme is used for empty or unknown theme names.
const DefaultTheme = ThemeClassic

// Themes lists the supported themes.
func Themes() []Theme {
	return []Theme{ThemeClassic, ThemeModern, ThemeMinimalist}
}

// ParseTheme maps a theme name to a Theme. Unknown names fall back to DefaultTheme and
// report false.
func ParseTheme(name string) (Theme, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, theme := range Themes() {
		if string(theme) == name {
			return theme, true
		}
	}
	return DefaultTheme, false
}

// Class is the CSS class that scopes the theme's styles.
func (t Theme) Class() string {
	return "theme-" + string(t)
}
