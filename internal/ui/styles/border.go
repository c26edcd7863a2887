package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Frame describes a bordered panel with a title in the top edge and an
// optional footer in the bottom edge:
//
//	╭─ Title ──────╮
//	│ content      │
//	╰──── footer ──╯
type Frame struct {
	Title   string
	Footer  string
	Width   int
	Height  int
	Focused bool
}

// Render draws content inside the frame. Content is wrapped by lipgloss to the
// inner width and padded or clipped to the inner height.
func (f Frame) Render(content string) string {
	borderColor := BorderDefaultColor
	if f.Focused {
		borderColor = BorderFocusColor
	}
	border := lipgloss.NewStyle().Foreground(borderColor)
	title := lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(f.Focused)
	footer := lipgloss.NewStyle().Foreground(TextMutedColor)

	inner := max(f.Width-2, 1)
	rows := max(f.Height-2, 1)

	body := lipgloss.NewStyle().Width(inner).Render(content)
	lines := strings.Split(body, "\n")

	var b strings.Builder
	b.WriteString(edge(borderTopLeft, borderTopRight, f.Title, inner, false, border, title))
	for i := range rows {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if w := lipgloss.Width(line); w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		b.WriteString("\n")
		b.WriteString(border.Render(borderVertical) + line + border.Render(borderVertical))
	}
	b.WriteString("\n")
	b.WriteString(edge(borderBottomLeft, borderBottomRight, f.Footer, inner, true, border, footer))
	return b.String()
}

// edge builds one horizontal border line with an embedded label. Labels are
// left-aligned on the top edge and right-aligned on the bottom edge.
func edge(left, right, label string, inner int, alignRight bool, border, text lipgloss.Style) string {
	// "─ " + label + " " needs at least four cells around the label.
	if label == "" || inner < 4 {
		return border.Render(left + strings.Repeat(borderHorizontal, inner) + right)
	}
	label = Truncate(label, inner-4)
	fill := max(inner-3-lipgloss.Width(label), 0)

	if alignRight {
		return border.Render(left+strings.Repeat(borderHorizontal, fill)+" ") +
			text.Render(label) +
			border.Render(" "+borderHorizontal+right)
	}
	return border.Render(left+borderHorizontal+" ") +
		text.Render(label) +
		border.Render(" "+strings.Repeat(borderHorizontal, fill)+right)
}

// Truncate shortens s to width cells, ending in an ellipsis when cut.
func Truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 3 {
		return strings.Repeat(".", width)
	}
	return truncate.StringWithTail(s, uint(width), "...")
}
