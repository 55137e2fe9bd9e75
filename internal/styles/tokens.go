package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens users can override in their theme file.
const (
	// Text hierarchy
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextSecondary ColorToken = "text.secondary"
	TokenTextMuted     ColorToken = "text.muted"

	// Frame chrome
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	// Viewers
	TokenAccent  ColorToken = "accent"
	TokenGutter  ColorToken = "viewer.gutter"
	TokenHeading ColorToken = "viewer.heading"
	TokenLink    ColorToken = "viewer.link"
)

// AllTokens returns every themeable token.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary,
		TokenTextSecondary,
		TokenTextMuted,
		TokenBorderDefault,
		TokenBorderFocus,
		TokenStatusSuccess,
		TokenStatusWarning,
		TokenStatusError,
		TokenAccent,
		TokenGutter,
		TokenHeading,
		TokenLink,
	}
}
