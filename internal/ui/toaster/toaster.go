// Package toaster shows short notifications, such as "saved revision 3" or
// "catalog reloaded", at the bottom of the editor.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/mergefield/internal/ui/overlay"
	"github.com/zjrosen/mergefield/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 3 * time.Second

// Style determines the visual appearance of the toast.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

// ShowMsg asks the toaster to display a message.
type ShowMsg struct {
	Message string
	Style   Style
}

// Show returns a command that emits ShowMsg, for use from child components.
func Show(message string, style Style) tea.Cmd {
	return func() tea.Msg { return ShowMsg{Message: message, Style: style} }
}

// DismissMsg hides the toast it was scheduled for. A newer toast ignores
// dismissals meant for older ones.
type DismissMsg struct {
	seq int
}

// Model holds the toaster state.
type Model struct {
	message  string
	style    Style
	visible  bool
	seq      int
	duration time.Duration
	width    int
	height   int
}

// New creates a toaster.
func New() Model {
	return Model{duration: DefaultDuration}
}

// WithDuration overrides how long toasts stay up.
func (m Model) WithDuration(d time.Duration) Model {
	m.duration = d
	return m
}

// Update handles ShowMsg and DismissMsg.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ShowMsg:
		m = m.show(msg.Message, msg.Style)
		return m, m.scheduleDismiss()
	case DismissMsg:
		if msg.seq == m.seq {
			m = m.Hide()
		}
	}
	return m, nil
}

func (m Model) show(message string, style Style) Model {
	m.message = message
	m.style = style
	m.visible = true
	m.seq++
	return m
}

func (m Model) scheduleDismiss() tea.Cmd {
	seq := m.seq
	return tea.Tick(m.duration, func(time.Time) tea.Msg {
		return DismissMsg{seq: seq}
	})
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the current text.
func (m Model) Message() string {
	return m.message
}

// SetSize updates the viewport dimensions for overlay positioning.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	var icon string
	switch m.style {
	case StyleError:
		style = style.BorderForeground(styles.StatusErrorColor)
		icon = "✗ "
	case StyleInfo:
		style = style.BorderForeground(styles.BorderFocusColor)
		icon = "i "
	case StyleWarn:
		style = style.BorderForeground(styles.StatusWarningColor)
		icon = "! "
	default:
		style = style.BorderForeground(styles.StatusSuccessColor)
		icon = "✓ "
	}
	return style.Render(icon + m.message)
}

// Overlay renders the toast one row above the bottom edge of bg.
func (m Model) Overlay(bg string) string {
	if !m.visible || m.message == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Bottom,
		PadY:     1,
	}, m.View(), bg)
}
