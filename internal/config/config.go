// Package config provides configuration types, defaults and persistence for glance.
package config

import (
	"fmt"
	"maps"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/mimetype"
	"github.com/zjrosen/glance/internal/styles"
	"github.com/zjrosen/glance/internal/viewer"
)

// Config holds all configuration options for glance.
type Config struct {
	// Mime maps file names and extensions to viewer handlers, merged over the
	// built-in table by TypeTable.
	Mime            viewer.TypeTable `mapstructure:"mime"`
	DownloadBaseURL string           `mapstructure:"download_base_url"`
	AutoReload      bool             `mapstructure:"auto_reload"`
	UI              UIConfig         `mapstructure:"ui"`
	Theme           ThemeConfig      `mapstructure:"theme"`
	Cache           CacheConfig      `mapstructure:"cache"`
	Tracing         TracingConfig    `mapstructure:"tracing"`
	Metrics         MetricsConfig    `mapstructure:"metrics"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default), "light" or "notty"
	ShowLog       bool   `mapstructure:"show_log"`       // Show the live log tail under the viewer
	ShowMenubar   bool   `mapstructure:"show_menubar"`
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "nord", "dracula", "high-contrast"
	Preset string `mapstructure:"preset"`

	// File is an optional theme file merged over the built-in theme.
	File string `mapstructure:"file"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     text:
	//       primary: "#FF0000"
	// Or quoted dot notation:
	//   colors:
	//     "text.primary": "#FF0000"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns Colors keyed by dotted token name, so nested YAML
// and quoted "text.primary" keys end up the same.
func (t ThemeConfig) FlattenedColors() map[string]string {
	out := make(map[string]string)
	var walk func(prefix string, v any)
	walk = func(prefix string, v any) {
		switch node := v.(type) {
		case string:
			if prefix != "" {
				out[prefix] = node
			}
		case map[string]any:
			for k, child := range node {
				walk(joinKey(prefix, k), child)
			}
		case map[any]any:
			for k, child := range node {
				if ks, ok := k.(string); ok {
					walk(joinKey(prefix, ks), child)
				}
			}
		}
	}
	walk("", t.Colors)
	return out
}

func joinKey(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + "." + k
}

// Styles converts the theme section into the styles package form.
func (t ThemeConfig) Styles() styles.ThemeConfig {
	return styles.ThemeConfig{Preset: t.Preset, Colors: t.FlattenedColors()}
}

// CacheConfig holds the file cache settings.
type CacheConfig struct {
	// Dir holds the SQLite store. Empty keeps the cache in memory only.
	Dir string `mapstructure:"dir"`

	// TTL is how long a stat stays in memory before it is re-read.
	// Default: 30s
	TTL time.Duration `mapstructure:"ttl"`

	// Retention is how long rows survive in the store without a view.
	// Default: 720h
	Retention time.Duration `mapstructure:"retention"`
}

// TracingConfig selects where dispatch spans go. Exporter is one of
// "none", "file", "stdout" or "otlp"; FilePath and OTLPEndpoint only matter
// for the exporter that uses them.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"`
	FilePath     string  `mapstructure:"file_path"`     // default ~/.config/glance/traces/traces.jsonl
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"` // default localhost:4317
	SampleRate   float64 `mapstructure:"sample_rate"`   // 0.0 to 1.0
}

// MetricsConfig holds the prometheus endpoint settings.
type MetricsConfig struct {
	// Addr serves /metrics when set, e.g. "127.0.0.1:9464".
	Addr string `mapstructure:"addr"`
}

// DefaultTracesFilePath is ~/.config/glance/traces/traces.jsonl, or "" without
// a home directory.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "glance", "traces", "traces.jsonl")
}

// DefaultCacheDir returns ~/.cache/glance or empty string if home dir unavailable.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "glance")
}

var tracingExporters = map[string]string{
	"none":   "",
	"stdout": "",
	"file":   "file_path",
	"otlp":   "otlp_endpoint",
}

// ValidateTracing rejects an out of range sample rate or an unknown exporter.
// When tracing is enabled the chosen exporter's destination must be set.
func ValidateTracing(tc TracingConfig) error {
	if tc.SampleRate < 0 || tc.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}
	if tc.Exporter == "" {
		return nil
	}
	needs, ok := tracingExporters[tc.Exporter]
	if !ok {
		return fmt.Errorf("tracing.exporter must be one of none, file, stdout or otlp, got %q", tc.Exporter)
	}
	if !tc.Enabled {
		return nil
	}
	missing := (needs == "file_path" && tc.FilePath == "") ||
		(needs == "otlp_endpoint" && tc.OTLPEndpoint == "")
	if missing {
		return fmt.Errorf("tracing.%s is required when exporter is %q", needs, tc.Exporter)
	}
	return nil
}

// ValidateCache checks cache configuration for errors.
func ValidateCache(cache CacheConfig) error {
	if cache.Dir != "" && !filepath.IsAbs(cache.Dir) {
		return fmt.Errorf("cache.dir must be an absolute path, got %q", cache.Dir)
	}
	if cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", cache.TTL)
	}
	if cache.Retention < 0 {
		return fmt.Errorf("cache.retention must not be negative, got %s", cache.Retention)
	}
	return nil
}

// ValidateMetrics checks the metrics listen address.
func ValidateMetrics(metrics MetricsConfig) error {
	if metrics.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(metrics.Addr); err != nil {
		return fmt.Errorf("metrics.addr %q: %w", metrics.Addr, err)
	}
	return nil
}

// ValidateMime checks that every type table entry names a handler.
// Unknown handler names are accepted here and reported by the viewer at
// dispatch time.
func ValidateMime(table viewer.TypeTable) error {
	for key, opener := range table {
		if key == "" {
			return fmt.Errorf("mime: empty type key")
		}
		if opener.Handler == "" {
			return fmt.Errorf("mime.%s: handler is required", key)
		}
	}
	return nil
}

// Validate runs every section validator.
func (c Config) Validate() error {
	if err := ValidateMime(c.Mime); err != nil {
		return err
	}
	if err := ValidateCache(c.Cache); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	return ValidateMetrics(c.Metrics)
}

// TypeTable returns the built-in type table with the configured entries
// merged on top.
func (c Config) TypeTable() viewer.TypeTable {
	table := mimetype.DefaultTable()
	maps.Copy(table, c.Mime)
	return table
}

// Defaults is the configuration used before any file or flag is applied.
func Defaults() Config {
	return Config{
		AutoReload: true,
		UI: UIConfig{
			MarkdownStyle: "dark",
			ShowMenubar:   true,
		},
		Theme: ThemeConfig{
			Preset: "default",
		},
		Cache: CacheConfig{
			Dir:       DefaultCacheDir(),
			TTL:       30 * time.Second,
			Retention: 30 * 24 * time.Hour,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Glance Configuration

# Base URL used for download links. The file path is appended, escaped.
# Without it links point at file:// URLs.
# download_base_url: https://files.example.com

# Re-open the viewer when the file changes on disk
auto_reload: true

# UI settings
ui:
  show_menubar: true      # Title bar with file name, size and permissions
  show_log: false         # Live log tail under the viewer (needs --debug)
  # markdown_style: dark  # Markdown rendering style: "dark" (default), "light" or "notty"

# Theme
theme:
  preset: default         # default, nord, dracula, high-contrast
  # file: ~/.config/glance/theme.yaml
  # colors:
  #   accent: "#7D56F4"

# File type table. Keys are lower-case file names or extensions without the dot.
# Entries here are merged over the built-in table.
# mime:
#   csv:
#     handler: table
#     options:
#       max_rows: 50
#   makefile:
#     handler: editor

# Stat cache
cache:
  # dir: ~/.cache/glance   # Empty keeps the cache in memory only
  ttl: 30s
  retention: 720h

# Tracing
tracing:
  enabled: false
  exporter: file          # none, file, stdout, otlp
  # file_path: ~/.config/glance/traces/traces.jsonl
  # otlp_endpoint: localhost:4317
  sample_rate: 1.0

# Prometheus metrics
# metrics:
#   addr: 127.0.0.1:9464
`
}

// WriteDefaultConfig writes DefaultConfigTemplate to configPath, creating
// parent directories.
func WriteDefaultConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("config: create directory for %s: %w", configPath, err)
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", configPath, err)
	}
	log.Info(log.CatConfig, "wrote default config", "path", configPath)
	return nil
}
