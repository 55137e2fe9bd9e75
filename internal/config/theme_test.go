package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glance/internal/styles"
)

func TestThemeConfig_PresetFromYAML(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
theme:
  preset: nord
`)
	require.Equal(t, "nord", cfg.Theme.Preset)

	require.NoError(t, styles.ApplyTheme(cfg.Theme.Styles()))
	t.Cleanup(func() { _ = styles.ApplyTheme(styles.ThemeConfig{}) })

	require.Equal(t, styles.NordPreset.Colors[styles.TokenTextPrimary], styles.TextPrimaryColor.Dark)
}

func TestThemeConfig_NestedColors(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
theme:
  colors:
    text:
      primary: "#FF0000"
    status:
      error: "#00FF00"
    accent: "#0000FF"
`)

	flat := cfg.Theme.FlattenedColors()
	require.Equal(t, "#FF0000", flat["text.primary"])
	require.Equal(t, "#00FF00", flat["status.error"])
	require.Equal(t, "#0000FF", flat["accent"])

	require.NoError(t, styles.ApplyTheme(cfg.Theme.Styles()))
	t.Cleanup(func() { _ = styles.ApplyTheme(styles.ThemeConfig{}) })

	require.Equal(t, "#FF0000", styles.TextPrimaryColor.Dark)
	require.Equal(t, "#00FF00", styles.StatusErrorColor.Dark)
}

func TestThemeConfig_DotNotationColors(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
theme:
  colors:
    "text.primary": "#ABCDEF"
`)
	require.Equal(t, map[string]string{"text.primary": "#ABCDEF"}, cfg.Theme.FlattenedColors())
}

func TestThemeConfig_InvalidColorRejected(t *testing.T) {
	cfg := Config{Theme: ThemeConfig{Colors: map[string]any{"text.primary": "red"}}}
	err := styles.ApplyTheme(cfg.Theme.Styles())
	require.Error(t, err)
}

func TestFlattenColors_AnyKeys(t *testing.T) {
	theme := ThemeConfig{Colors: map[string]any{
		"viewer": map[any]any{"gutter": "#111111", 3: "#222222"},
		"ignored": 42,
	}}
	require.Equal(t, map[string]string{"viewer.gutter": "#111111"}, theme.FlattenedColors())
}

// loadConfigFromYAML parses yaml the way the CLI does.
func loadConfigFromYAML(t *testing.T, yaml string) Config {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte(yaml), 0o644)
	require.NoError(t, err)

	v := NewViper()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}
