package ui

import (
	"regexp"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Highlights, paths, interactive elements
// - Muted (gray): Secondary info, line numbers
// - No colored success/error/warning - use unicode symbols only

const defaultAccent = "#A78BFA"

var (
	// Accent style for file paths and highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info, hints, line numbers
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)
)

var (
	accentColor string
	codeTheme   string
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ConfigureTheme applies user theming from the global config. Invalid values
// are ignored and the defaults stay in effect.
func ConfigureTheme(accent, theme string) {
	if color, ok := normalizeAccentColor(accent); ok {
		accentColor = color
		Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	}
	if theme != "" {
		codeTheme = theme
	}
}

// AccentColor returns the configured accent color, if any.
func AccentColor() (string, bool) {
	if accentColor == "" {
		return "", false
	}
	return accentColor, true
}

// normalizeAccentColor accepts "#RRGGBB" hex colors and ANSI color codes
// "0" through "255".
func normalizeAccentColor(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	if hexColorRe.MatchString(value) {
		return value, true
	}
	if n, err := strconv.Atoi(value); err == nil && n >= 0 && n <= 255 {
		return strconv.Itoa(n), true
	}
	return "", false
}
