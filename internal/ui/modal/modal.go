// Package modal provides a dialog for confirmations and one-line prompts.
package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/mergefield/internal/ui/overlay"
	"github.com/zjrosen/mergefield/internal/ui/styles"
)

// InputConfig turns the dialog into a prompt.
type InputConfig struct {
	Placeholder string
	Value       string
	MaxLength   int // 0 = unlimited

	// Validate rejects a value with an error shown under the input.
	Validate func(string) error
}

// Config controls dialog content and behavior.
type Config struct {
	// Tag is echoed in SubmitMsg and CancelMsg so the parent can tell
	// dialogs apart.
	Tag string

	Title   string
	Message string
	Input   *InputConfig // nil for a confirmation

	ConfirmLabel string // default "Confirm", or "Save" for prompts
	CancelLabel  string // default "Cancel"
	Danger       bool   // style confirm as destructive
	MinWidth     int    // default 40
}

// SubmitMsg is sent when the dialog is confirmed. Value is the input text
// for prompts.
type SubmitMsg struct {
	Tag   string
	Value string
}

// CancelMsg is sent when the dialog is dismissed.
type CancelMsg struct {
	Tag string
}

// Field identifies the focused element.
type Field int

const (
	FieldInput Field = iota
	FieldConfirm
	FieldCancel
)

// Model is the dialog state.
type Model struct {
	config Config
	input  textinput.Model
	focus  Field
	err    string
	width  int
	height int
}

// New creates a dialog. Prompts start with the input focused, confirmations
// on the confirm button.
func New(cfg Config) Model {
	m := Model{config: cfg, focus: FieldConfirm}
	if cfg.Input != nil {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = cfg.Input.Placeholder
		ti.Width = m.contentWidth() - 2
		if cfg.Input.MaxLength > 0 {
			ti.CharLimit = cfg.Input.MaxLength
		}
		ti.SetValue(cfg.Input.Value)
		ti.Focus()
		m.input = ti
		m.focus = FieldInput
	}
	return m
}

// Init starts the cursor blink for prompts.
func (m Model) Init() tea.Cmd {
	if m.config.Input != nil {
		return textinput.Blink
	}
	return nil
}

// Update handles keys. Confirmations also accept y and n.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, m.cancel()
		case "tab", "down":
			return m.cycle(1), nil
		case "shift+tab", "up":
			return m.cycle(-1), nil
		case "left":
			if m.focus == FieldCancel {
				m.focus = FieldConfirm
				return m, nil
			}
		case "right":
			if m.focus == FieldConfirm {
				m.focus = FieldCancel
				return m, nil
			}
		case "enter":
			if m.focus == FieldCancel {
				return m, m.cancel()
			}
			return m.submit()
		case "y", "Y":
			if m.config.Input == nil {
				return m.submit()
			}
		case "n", "N":
			if m.config.Input == nil {
				return m, m.cancel()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if m.config.Input != nil && m.focus == FieldInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.err = ""
		return m, cmd
	}
	return m, nil
}

func (m Model) submit() (Model, tea.Cmd) {
	value := ""
	if m.config.Input != nil {
		value = strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		if v := m.config.Input.Validate; v != nil {
			if err := v(value); err != nil {
				m.err = err.Error()
				return m, nil
			}
		}
	}
	tag := m.config.Tag
	return m, func() tea.Msg { return SubmitMsg{Tag: tag, Value: value} }
}

func (m Model) cancel() tea.Cmd {
	tag := m.config.Tag
	return func() tea.Msg { return CancelMsg{Tag: tag} }
}

// cycle moves focus by delta through input (when present), confirm, cancel.
func (m Model) cycle(delta int) Model {
	fields := []Field{FieldConfirm, FieldCancel}
	if m.config.Input != nil {
		fields = []Field{FieldInput, FieldConfirm, FieldCancel}
	}
	i := 0
	for j, f := range fields {
		if f == m.focus {
			i = j
		}
	}
	i = (i + delta + len(fields)) % len(fields)
	m.focus = fields[i]
	if m.config.Input != nil {
		if m.focus == FieldInput {
			m.input.Focus()
		} else {
			m.input.Blur()
		}
	}
	return m
}

func (m Model) contentWidth() int {
	w := max(m.config.MinWidth, 40)
	return max(w, lipgloss.Width(m.config.Title))
}

// View renders the dialog box.
func (m Model) View() string {
	width := m.contentWidth()

	var b strings.Builder
	b.WriteString(styles.DialogTitleStyle.Render(m.config.Title))
	b.WriteString("\n\n")
	if m.config.Message != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Render(m.config.Message))
		b.WriteString("\n\n")
	}
	if m.config.Input != nil {
		border := styles.BorderDefaultColor
		if m.focus == FieldInput {
			border = styles.BorderFocusColor
		}
		b.WriteString(lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(border).
			Width(width - 2).
			Render(m.input.View()))
		b.WriteString("\n")
		if m.err != "" {
			b.WriteString(styles.ErrorStyle.Render(m.err))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.renderButtons())

	return styles.DialogStyle.Width(width + 2).Render(b.String())
}

func (m Model) renderButtons() string {
	confirm := m.config.ConfirmLabel
	if confirm == "" {
		confirm = "Confirm"
		if m.config.Input != nil {
			confirm = "Save"
		}
	}
	cancel := m.config.CancelLabel
	if cancel == "" {
		cancel = "Cancel"
	}

	confirmStyle := styles.ButtonStyle
	switch {
	case m.config.Danger && m.focus == FieldConfirm:
		confirmStyle = styles.ButtonDangerFocusedStyle
	case m.config.Danger:
		confirmStyle = styles.ButtonDangerStyle
	case m.focus == FieldConfirm:
		confirmStyle = styles.ButtonFocusedStyle
	}
	cancelStyle := styles.ButtonStyle
	if m.focus == FieldCancel {
		cancelStyle = styles.ButtonFocusedStyle
	}
	return confirmStyle.Render(confirm) + "  " + cancelStyle.Render(cancel)
}

// Overlay renders the dialog centered on bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// SetSize updates the viewport size used for centering.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Focused returns the focused element.
func (m Model) Focused() Field {
	return m.focus
}

// Tag returns the dialog tag.
func (m Model) Tag() string {
	return m.config.Tag
}
