package config

import (
	"strings"

	"github.com/spf13/viper"
)

// KeyDelimiter separates nested keys. Type table keys are file names such as
// "report.pdf", so "." cannot be the delimiter.
const KeyDelimiter = "::"

// Key joins a nested key path, e.g. Key("ui", "show_log").
func Key(parts ...string) string {
	return strings.Join(parts, KeyDelimiter)
}

// NewViper returns a viper instance using KeyDelimiter. Environment
// variables use "_" between levels: GLANCE_UI_SHOW_LOG.
func NewViper() *viper.Viper {
	return viper.NewWithOptions(
		viper.KeyDelimiter(KeyDelimiter),
		viper.EnvKeyReplacer(strings.NewReplacer(KeyDelimiter, "_")),
	)
}
