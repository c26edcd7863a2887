package styles

// ColorToken is a named, themeable color. Tokens are the keys users can
// override under ui.theme.colors.
type ColorToken string

const (
	// Text hierarchy
	TokenTextPrimary     ColorToken = "text.primary"
	TokenTextMuted       ColorToken = "text.muted"
	TokenTextDescription ColorToken = "text.description"
	TokenTextPlaceholder ColorToken = "text.placeholder"

	// Borders
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	// Placeholder chips
	TokenChipFg        ColorToken = "chip.fg"
	TokenChipBg        ColorToken = "chip.bg"
	TokenChipUnknownFg ColorToken = "chip.unknown.fg"
	TokenChipUnknownBg ColorToken = "chip.unknown.bg"

	// Autocomplete popup
	TokenPopupBorder     ColorToken = "popup.border"
	TokenPopupSelectedFg ColorToken = "popup.selected.fg"
	TokenPopupSelectedBg ColorToken = "popup.selected.bg"
	TokenPopupMatch      ColorToken = "popup.match"

	// Status
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	// Diff
	TokenDiffAdded   ColorToken = "diff.added"
	TokenDiffRemoved ColorToken = "diff.removed"
)

// AllTokens returns every token in display order.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary,
		TokenTextMuted,
		TokenTextDescription,
		TokenTextPlaceholder,
		TokenBorderDefault,
		TokenBorderFocus,
		TokenChipFg,
		TokenChipBg,
		TokenChipUnknownFg,
		TokenChipUnknownBg,
		TokenPopupBorder,
		TokenPopupSelectedFg,
		TokenPopupSelectedBg,
		TokenPopupMatch,
		TokenStatusSuccess,
		TokenStatusWarning,
		TokenStatusError,
		TokenDiffAdded,
		TokenDiffRemoved,
	}
}
