// Package styles contains Lip Gloss style definitions.
package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// mu serializes theme application. Styles are read without locking once the
// page is ready.
var mu sync.Mutex

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}

	// Chrome
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#555555"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Viewers
	AccentColor  = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"}
	GutterColor  = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#5C6370"}
	HeadingColor = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}
	LinkColor    = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}

	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(HeadingColor)
	LabelStyle     = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	MutedStyle     = lipgloss.NewStyle().Foreground(TextMutedColor)
	AccentStyle    = lipgloss.NewStyle().Foreground(AccentColor)
	LinkStyle      = lipgloss.NewStyle().Underline(true).Foreground(LinkColor)
	GutterStyle    = lipgloss.NewStyle().Foreground(GutterColor)
	WarningStyle   = lipgloss.NewStyle().Foreground(StatusWarningColor)
	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor).Padding(0, 1)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true)
)

// rebuildStyles recreates all Style objects with updated colors.
// lipgloss.Style captures colors at creation time.
func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(HeadingColor)
	LabelStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	AccentStyle = lipgloss.NewStyle().Foreground(AccentColor)
	LinkStyle = lipgloss.NewStyle().Underline(true).Foreground(LinkColor)
	GutterStyle = lipgloss.NewStyle().Foreground(GutterColor)
	WarningStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor).Padding(0, 1)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(StatusErrorColor).
		Bold(true)
}
