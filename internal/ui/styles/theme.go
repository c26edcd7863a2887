package styles

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig mirrors config.ThemeConfig to avoid an import cycle.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

// ApplyTheme starts from the default preset, layers the named preset and
// then individual overrides, and rebuilds every style.
func ApplyTheme(cfg ThemeConfig) error {
	colors := maps.Clone(DefaultPreset.Colors)

	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !slices.Contains(AllTokens(), token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !IsValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	applyColors(colors)
	rebuildStyles()
	return nil
}

func applyColors(colors map[ColorToken]string) {
	set := func(dst *lipgloss.AdaptiveColor, token ColorToken) {
		if hex, ok := colors[token]; ok {
			*dst = lipgloss.AdaptiveColor{Light: hex, Dark: hex}
		}
	}

	set(&TextPrimaryColor, TokenTextPrimary)
	set(&TextMutedColor, TokenTextMuted)
	set(&TextDescriptionColor, TokenTextDescription)
	set(&TextPlaceholderColor, TokenTextPlaceholder)
	set(&BorderDefaultColor, TokenBorderDefault)
	set(&BorderFocusColor, TokenBorderFocus)
	set(&ChipFgColor, TokenChipFg)
	set(&ChipBgColor, TokenChipBg)
	set(&ChipUnknownFgColor, TokenChipUnknownFg)
	set(&ChipUnknownBgColor, TokenChipUnknownBg)
	set(&PopupBorderColor, TokenPopupBorder)
	set(&PopupSelectedFgColor, TokenPopupSelectedFg)
	set(&PopupSelectedBgColor, TokenPopupSelectedBg)
	set(&PopupMatchColor, TokenPopupMatch)
	set(&StatusSuccessColor, TokenStatusSuccess)
	set(&StatusWarningColor, TokenStatusWarning)
	set(&StatusErrorColor, TokenStatusError)
	set(&DiffAddedColor, TokenDiffAdded)
	set(&DiffRemovedColor, TokenDiffRemoved)
}

// IsValidHexColor reports whether s is #RGB or #RRGGBB.
func IsValidHexColor(s string) bool {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 3 && len(hex) != 6) {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}
