package styles

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig selects a preset and individual color overrides.
type ThemeConfig struct {
	Preset string            `mapstructure:"preset" yaml:"preset"`
	Colors map[string]string `mapstructure:"colors" yaml:"colors,omitempty"`
}

// ApplyTheme layers the preset and then the per-token overrides over the
// default palette and rebuilds the package styles. On error nothing changes.
func ApplyTheme(cfg ThemeConfig) error {
	colors, err := resolveColors(cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	applyColors(colors)
	rebuildStyles()
	return nil
}

func resolveColors(cfg ThemeConfig) (map[ColorToken]string, error) {
	colors := maps.Clone(DefaultPreset.Colors)

	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return nil, fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return nil, fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return nil, fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}
	return colors, nil
}

func applyColors(colors map[ColorToken]string) {
	set := func(token ColorToken, dst *lipgloss.AdaptiveColor) {
		if c, ok := colors[token]; ok {
			*dst = lipgloss.AdaptiveColor{Light: c, Dark: c}
		}
	}

	set(TokenTextPrimary, &TextPrimaryColor)
	set(TokenTextSecondary, &TextSecondaryColor)
	set(TokenTextMuted, &TextMutedColor)
	set(TokenBorderDefault, &BorderDefaultColor)
	set(TokenBorderFocus, &BorderFocusColor)
	set(TokenStatusSuccess, &StatusSuccessColor)
	set(TokenStatusWarning, &StatusWarningColor)
	set(TokenStatusError, &StatusErrorColor)
	set(TokenAccent, &AccentColor)
	set(TokenGutter, &GutterColor)
	set(TokenHeading, &HeadingColor)
	set(TokenLink, &LinkColor)
}

func isValidToken(token ColorToken) bool {
	return slices.Contains(AllTokens(), token)
}

// isValidHexColor accepts #rgb and #rrggbb.
func isValidHexColor(s string) bool {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 3 && len(hex) != 6) {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 32)
	return err == nil
}
