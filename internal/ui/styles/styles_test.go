package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func resetTheme(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { require.NoError(t, ApplyTheme(ThemeConfig{})) })
}

func TestApplyTheme_Default(t *testing.T) {
	resetTheme(t)
	require.NoError(t, ApplyTheme(ThemeConfig{}))
	require.Equal(t, DefaultPreset.Colors[TokenChipBg], ChipBgColor.Dark)
	require.Equal(t, DefaultPreset.Colors[TokenChipUnknownBg], ChipUnknownBgColor.Dark)
}

func TestApplyTheme_Preset(t *testing.T) {
	resetTheme(t)
	require.NoError(t, ApplyTheme(ThemeConfig{Preset: "catppuccin-mocha"}))
	require.Equal(t, "#CBA6F7", ChipBgColor.Dark)
	require.Equal(t, "#CBA6F7", ChipBgColor.Light)
}

func TestApplyTheme_ColorOverride(t *testing.T) {
	resetTheme(t)
	require.NoError(t, ApplyTheme(ThemeConfig{
		Preset: "high-contrast",
		Colors: map[string]string{"chip.bg": "#123456"},
	}))
	require.Equal(t, "#123456", ChipBgColor.Dark)
	require.Equal(t, HighContrastPreset.Colors[TokenChipFg], ChipFgColor.Dark)
}

func TestApplyTheme_Errors(t *testing.T) {
	resetTheme(t)
	tests := []struct {
		name    string
		cfg     ThemeConfig
		wantErr string
	}{
		{"unknown preset", ThemeConfig{Preset: "nope"}, "unknown theme preset"},
		{"unknown token", ThemeConfig{Colors: map[string]string{"chip.nope": "#fff"}}, "unknown color token"},
		{"bad hex", ThemeConfig{Colors: map[string]string{"chip.bg": "blue"}}, "invalid hex color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApplyTheme(tt.cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPresets_CoverAllTokens(t *testing.T) {
	for name, p := range Presets {
		for _, token := range AllTokens() {
			hex, ok := p.Colors[token]
			require.True(t, ok, "preset %s missing %s", name, token)
			require.True(t, IsValidHexColor(hex), "preset %s: %s=%s", name, token, hex)
		}
	}
}

func TestIsValidHexColor(t *testing.T) {
	require.True(t, IsValidHexColor("#fff"))
	require.True(t, IsValidHexColor("#A1B2C3"))
	require.False(t, IsValidHexColor("fff"))
	require.False(t, IsValidHexColor("#ffff"))
	require.False(t, IsValidHexColor("#gggggg"))
}

func TestFrame_Render(t *testing.T) {
	out := Frame{Title: "Body", Footer: "ctrl+s save", Width: 30, Height: 4}.Render("hello")
	lines := strings.Split(ansi.Strip(out), "\n")

	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "╭─ Body "))
	require.True(t, strings.HasSuffix(lines[3], " ctrl+s save ─╯"))
	require.True(t, strings.HasPrefix(lines[1], "│hello"))
	for _, l := range lines {
		require.Equal(t, 30, lipgloss.Width(l))
	}
}

func TestFrame_LongTitleTruncates(t *testing.T) {
	out := Frame{Title: strings.Repeat("x", 50), Width: 12, Height: 3}.Render("")
	top := strings.Split(ansi.Strip(out), "\n")[0]
	require.Equal(t, 12, lipgloss.Width(top))
	require.Contains(t, top, "...")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", Truncate("abc", 5))
	require.Equal(t, "ab...", Truncate("abcdefgh", 5))
	require.Equal(t, "..", Truncate("abcdefgh", 2))
	require.Equal(t, "", Truncate("abc", 0))
}
