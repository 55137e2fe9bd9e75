package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":       DefaultPreset,
	"nord":          NordPreset,
	"dracula":       DraculaPreset,
	"high-contrast": HighContrastPreset,
}

// DefaultPreset matches the colors compiled into styles.go.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default glance theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#CCCCCC",
		TokenTextSecondary: "#BBBBBB",
		TokenTextMuted:     "#696969",
		TokenBorderDefault: "#555555",
		TokenBorderFocus:   "#FFFFFF",
		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FECA57",
		TokenStatusError:   "#FF8787",
		TokenAccent:        "#54A0FF",
		TokenGutter:        "#5C6370",
		TokenHeading:       "#CBA6F7",
		TokenLink:          "#89B4FA",
	},
}

// NordPreset is an arctic, north-bluish palette.
var NordPreset = Preset{
	Name:        "nord",
	Description: "Arctic, north-bluish colors",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#ECEFF4",
		TokenTextSecondary: "#E5E9F0",
		TokenTextMuted:     "#4C566A",
		TokenBorderDefault: "#434C5E",
		TokenBorderFocus:   "#88C0D0",
		TokenStatusSuccess: "#A3BE8C",
		TokenStatusWarning: "#EBCB8B",
		TokenStatusError:   "#BF616A",
		TokenAccent:        "#81A1C1",
		TokenGutter:        "#4C566A",
		TokenHeading:       "#B48EAD",
		TokenLink:          "#88C0D0",
	},
}

// DraculaPreset is the Dracula dark theme.
var DraculaPreset = Preset{
	Name:        "dracula",
	Description: "Dark theme with vibrant colors",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#F8F8F2",
		TokenTextSecondary: "#F8F8F2",
		TokenTextMuted:     "#6272A4",
		TokenBorderDefault: "#44475A",
		TokenBorderFocus:   "#BD93F9",
		TokenStatusSuccess: "#50FA7B",
		TokenStatusWarning: "#F1FA8C",
		TokenStatusError:   "#FF5555",
		TokenAccent:        "#BD93F9",
		TokenGutter:        "#6272A4",
		TokenHeading:       "#FF79C6",
		TokenLink:          "#8BE9FD",
	},
}

// HighContrastPreset maximizes readability.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "Maximum contrast for accessibility",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#FFFFFF",
		TokenTextSecondary: "#FFFFFF",
		TokenTextMuted:     "#BBBBBB",
		TokenBorderDefault: "#FFFFFF",
		TokenBorderFocus:   "#FFFF00",
		TokenStatusSuccess: "#00FF00",
		TokenStatusWarning: "#FFFF00",
		TokenStatusError:   "#FF0000",
		TokenAccent:        "#00FFFF",
		TokenGutter:        "#BBBBBB",
		TokenHeading:       "#FF00FF",
		TokenLink:          "#00FFFF",
	},
}
