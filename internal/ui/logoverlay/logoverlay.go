// Package logoverlay shows recent debug log entries over the editor.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/mergefield/internal/log"
	"github.com/zjrosen/mergefield/internal/ui/overlay"
	"github.com/zjrosen/mergefield/internal/ui/styles"
)

const (
	viewportMaxHeight = 20
	viewportMinHeight = 5
	boxMaxWidth       = 140
	boxMinWidth       = 40

	// DefaultLimit is the number of entries kept.
	DefaultLimit = 500
)

// CloseMsg is sent when the overlay closes itself.
type CloseMsg struct{}

// Model is the log overlay state. Entries are kept while hidden so the
// overlay shows history when opened.
type Model struct {
	visible  bool
	minLevel log.Level
	entries  []string
	limit    int
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden overlay keeping DefaultLimit entries.
func New() Model {
	return Model{minLevel: log.LevelDebug, limit: DefaultLimit}
}

// Append records a log entry, dropping the oldest past the limit.
func (m Model) Append(entry string) Model {
	entry = strings.TrimSuffix(entry, "\n")
	m.entries = append(m.entries, entry)
	if over := len(m.entries) - m.limit; over > 0 {
		m.entries = append([]string(nil), m.entries[over:]...)
	}
	if m.visible {
		m.refresh(true)
	}
	return m
}

// Len returns the number of buffered entries.
func (m Model) Len() int {
	return len(m.entries)
}

// Update handles keys while visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			m.entries = nil
			m.refresh(false)
		case "d":
			m.setLevel(log.LevelDebug)
		case "i":
			m.setLevel(log.LevelInfo)
		case "w":
			m.setLevel(log.LevelWarn)
		case "e":
			m.setLevel(log.LevelError)
		case "j", "down":
			m.viewport.ScrollDown(1)
		case "k", "up":
			m.viewport.ScrollUp(1)
		case "g":
			m.viewport.GotoTop()
		case "G":
			m.viewport.GotoBottom()
		case "f2", "esc":
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		}
	case tea.WindowSizeMsg:
		m = m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

func (m *Model) setLevel(level log.Level) {
	m.minLevel = level
	m.refresh(false)
}

// Filtered returns the entries at or above the current level.
func (m Model) Filtered() []string {
	var out []string
	for _, entry := range m.entries {
		if levelOf(entry) >= m.minLevel {
			out = append(out, entry)
		}
	}
	return out
}

// levelOf reads the level tag of a formatted entry. Untagged entries count
// as errors so they are never hidden.
func levelOf(entry string) log.Level {
	switch {
	case strings.Contains(entry, "[DEBUG]"):
		return log.LevelDebug
	case strings.Contains(entry, "[INFO]"):
		return log.LevelInfo
	case strings.Contains(entry, "[WARN]"):
		return log.LevelWarn
	default:
		return log.LevelError
	}
}

func (m *Model) refresh(follow bool) {
	if m.width == 0 || m.height == 0 {
		return
	}
	// Header, footer and borders take six rows.
	h := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)
	atBottom := m.viewport.AtBottom()
	offset := m.viewport.YOffset

	m.viewport = viewport.New(m.contentWidth(), h)
	m.viewport.SetContent(m.content())
	if follow && !atBottom {
		m.viewport.SetYOffset(offset)
	} else {
		m.viewport.GotoBottom()
	}
}

func (m Model) content() string {
	entries := m.Filtered()
	if len(entries) == 0 {
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).Render("No logs to display")
	}
	width := m.contentWidth()
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = colorize(entry, width)
	}
	return strings.Join(lines, "\n")
}

func colorize(entry string, width int) string {
	if ansi.StringWidth(entry) > width {
		entry = ansi.Truncate(entry, width-1, "…")
	}
	var color lipgloss.TerminalColor
	switch levelOf(entry) {
	case log.LevelDebug:
		color = styles.TextMutedColor
	case log.LevelInfo:
		color = styles.TextPrimaryColor
	case log.LevelWarn:
		color = styles.StatusWarningColor
	default:
		color = styles.StatusErrorColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(entry)
}

// View renders the overlay box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	width := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor).Render(strings.Repeat("─", width))

	var b strings.Builder
	b.WriteString(styles.DialogTitleStyle.PaddingLeft(1).Render("Logs"))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(m.filterHint())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Width(width).
		Render(b.String())
}

// filterHint lists the filter keys with the active level in bold.
func (m Model) filterHint() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	parts := []string{hint.Render("[c] Clear")}
	for _, f := range []struct {
		label string
		level log.Level
	}{
		{"[d] Debug", log.LevelDebug},
		{"[i] Info", log.LevelInfo},
		{"[w] Warn", log.LevelWarn},
		{"[e] Error", log.LevelError},
	} {
		if f.level == m.minLevel {
			parts = append(parts, active.Render(f.label))
		} else {
			parts = append(parts, hint.Render(f.label))
		}
	}
	return strings.Join(parts, "  ")
}

// Overlay renders the overlay centered on bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) contentWidth() int {
	return m.boxWidth() - 2
}

// Visible reports whether the overlay is shown.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle shows or hides the overlay.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m.refresh(false)
	}
	return m
}

// SetSize updates the screen size.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.refresh(false)
	return m
}
