// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // hints, help, footers
	TextDescriptionColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	ChipFgColor        = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ChipBgColor        = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ChipUnknownFgColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ChipUnknownBgColor = lipgloss.AdaptiveColor{Light: "#922B21", Dark: "#922B21"}

	PopupBorderColor     = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#8C8C8C"}
	PopupSelectedFgColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	PopupSelectedBgColor = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	PopupMatchColor      = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#FECA57"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	DiffAddedColor   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	DiffRemovedColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
)

// Styles built from the colors above. rebuildStyles recreates them after a
// theme change because lipgloss captures colors at creation time.
var (
	ChipStyle                lipgloss.Style
	ChipUnknownStyle         lipgloss.Style
	PlaceholderStyle         lipgloss.Style
	PopupStyle               lipgloss.Style
	PopupItemStyle           lipgloss.Style
	PopupSelectedStyle       lipgloss.Style
	PopupMatchStyle          lipgloss.Style
	PopupDescriptionStyle    lipgloss.Style
	SelectionIndicatorStyle  lipgloss.Style
	SelectionStyle           lipgloss.Style
	StatusBarStyle           lipgloss.Style
	HelpStyle                lipgloss.Style
	ErrorStyle               lipgloss.Style
	WarningStyle             lipgloss.Style
	SuccessStyle             lipgloss.Style
	DiffAddedStyle           lipgloss.Style
	DiffRemovedStyle         lipgloss.Style
	ButtonStyle              lipgloss.Style
	ButtonFocusedStyle       lipgloss.Style
	ButtonDangerStyle        lipgloss.Style
	ButtonDangerFocusedStyle lipgloss.Style
	DialogStyle              lipgloss.Style
	DialogTitleStyle         lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	ChipStyle = lipgloss.NewStyle().
		Foreground(ChipFgColor).
		Background(ChipBgColor).
		Padding(0, 1)
	ChipUnknownStyle = ChipStyle.
		Foreground(ChipUnknownFgColor).
		Background(ChipUnknownBgColor).
		Strikethrough(true)

	PlaceholderStyle = lipgloss.NewStyle().Foreground(TextPlaceholderColor)

	PopupStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PopupBorderColor)
	PopupItemStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	PopupSelectedStyle = lipgloss.NewStyle().
		Foreground(PopupSelectedFgColor).
		Background(PopupSelectedBgColor).
		Bold(true)
	PopupMatchStyle = lipgloss.NewStyle().Foreground(PopupMatchColor).Underline(true)
	PopupDescriptionStyle = lipgloss.NewStyle().Foreground(TextDescriptionColor)

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(BorderFocusColor)
	SelectionStyle = lipgloss.NewStyle().
		Foreground(PopupSelectedFgColor).
		Background(PopupSelectedBgColor)

	StatusBarStyle = lipgloss.NewStyle().Foreground(TextMutedColor).Padding(0, 1)
	HelpStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)

	DiffAddedStyle = lipgloss.NewStyle().Foreground(DiffAddedColor).Underline(true)
	DiffRemovedStyle = lipgloss.NewStyle().Foreground(DiffRemovedColor).Strikethrough(true)

	ButtonStyle = lipgloss.NewStyle().Foreground(TextMutedColor).Padding(0, 2)
	ButtonFocusedStyle = ButtonStyle.
		Foreground(PopupSelectedFgColor).
		Background(PopupSelectedBgColor).
		Bold(true)
	ButtonDangerStyle = ButtonStyle.Foreground(StatusErrorColor)
	ButtonDangerFocusedStyle = ButtonFocusedStyle.Background(StatusErrorColor)

	DialogStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderFocusColor).
		Padding(0, 1)
	DialogTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
}
