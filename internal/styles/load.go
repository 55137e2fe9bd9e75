package styles

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/glance/internal/log"
)

//go:embed themes/default.yaml
var defaultTheme []byte

// Load applies the built-in theme with the theme file at path merged on top,
// then each override in order. An empty path or a missing file skips the file.
func Load(ctx context.Context, path string, overrides ...ThemeConfig) error {
	var cfg ThemeConfig
	if err := yaml.Unmarshal(defaultTheme, &cfg); err != nil {
		return fmt.Errorf("parsing built-in theme: %w", err)
	}

	if path != "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		user, err := readTheme(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Debug(log.CatUI, "theme file not found, using built-in", "path", path)
		case err != nil:
			return err
		default:
			cfg = Merge(cfg, user)
		}
	}
	for _, o := range overrides {
		cfg = Merge(cfg, o)
	}

	if err := ApplyTheme(cfg); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}
	log.Debug(log.CatUI, "theme applied", "preset", cfg.Preset, "overrides", len(cfg.Colors))
	return nil
}

func readTheme(path string) (ThemeConfig, error) {
	var cfg ThemeConfig
	data, err := os.ReadFile(path) //nolint:gosec // G304: theme path comes from user config
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing theme %s: %w", path, err)
	}
	return cfg, nil
}

// Merge layers override on top of base. A preset in override replaces the
// base preset; colors are merged key by key.
func Merge(base, override ThemeConfig) ThemeConfig {
	out := ThemeConfig{Preset: base.Preset, Colors: maps.Clone(base.Colors)}
	if override.Preset != "" {
		out.Preset = override.Preset
	}
	if out.Colors == nil {
		out.Colors = make(map[string]string, len(override.Colors))
	}
	maps.Copy(out.Colors, override.Colors)
	return out
}
