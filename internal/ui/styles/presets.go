package styles

// Preset is a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains the built-in themes by name.
var Presets = map[string]Preset{
	"default":          DefaultPreset,
	"catppuccin-mocha": CatppuccinMochaPreset,
	"high-contrast":    HighContrastPreset,
}

// DefaultPreset matches the initial values in styles.go.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default mergefield theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#CCCCCC",
		TokenTextMuted:       "#696969",
		TokenTextDescription: "#999999",
		TokenTextPlaceholder: "#777777",
		TokenBorderDefault:   "#696969",
		TokenBorderFocus:     "#54A0FF",
		TokenChipFg:          "#FFFFFF",
		TokenChipBg:          "#1A5276",
		TokenChipUnknownFg:   "#FFFFFF",
		TokenChipUnknownBg:   "#922B21",
		TokenPopupBorder:     "#8C8C8C",
		TokenPopupSelectedFg: "#FFFFFF",
		TokenPopupSelectedBg: "#3498DB",
		TokenPopupMatch:      "#FECA57",
		TokenStatusSuccess:   "#73F59F",
		TokenStatusWarning:   "#FECA57",
		TokenStatusError:     "#FF8787",
		TokenDiffAdded:       "#73F59F",
		TokenDiffRemoved:     "#FF8787",
	},
}

// CatppuccinMochaPreset is the Catppuccin Mocha palette.
var CatppuccinMochaPreset = Preset{
	Name:        "catppuccin-mocha",
	Description: "Soothing pastel theme (dark)",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#CDD6F4",
		TokenTextMuted:       "#6C7086",
		TokenTextDescription: "#A6ADC8",
		TokenTextPlaceholder: "#7F849C",
		TokenBorderDefault:   "#45475A",
		TokenBorderFocus:     "#89B4FA",
		TokenChipFg:          "#1E1E2E",
		TokenChipBg:          "#CBA6F7",
		TokenChipUnknownFg:   "#1E1E2E",
		TokenChipUnknownBg:   "#F38BA8",
		TokenPopupBorder:     "#6C7086",
		TokenPopupSelectedFg: "#1E1E2E",
		TokenPopupSelectedBg: "#89B4FA",
		TokenPopupMatch:      "#F9E2AF",
		TokenStatusSuccess:   "#A6E3A1",
		TokenStatusWarning:   "#F9E2AF",
		TokenStatusError:     "#F38BA8",
		TokenDiffAdded:       "#A6E3A1",
		TokenDiffRemoved:     "#F38BA8",
	},
}

// HighContrastPreset maximizes legibility.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "High contrast for accessibility",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#FFFFFF",
		TokenTextMuted:       "#BBBBBB",
		TokenTextDescription: "#DDDDDD",
		TokenTextPlaceholder: "#AAAAAA",
		TokenBorderDefault:   "#FFFFFF",
		TokenBorderFocus:     "#FFFF00",
		TokenChipFg:          "#000000",
		TokenChipBg:          "#00FFFF",
		TokenChipUnknownFg:   "#000000",
		TokenChipUnknownBg:   "#FF0000",
		TokenPopupBorder:     "#FFFFFF",
		TokenPopupSelectedFg: "#000000",
		TokenPopupSelectedBg: "#FFFF00",
		TokenPopupMatch:      "#00FF00",
		TokenStatusSuccess:   "#00FF00",
		TokenStatusWarning:   "#FFFF00",
		TokenStatusError:     "#FF0000",
		TokenDiffAdded:       "#00FF00",
		TokenDiffRemoved:     "#FF0000",
	},
}
