// Package help contains the keybinding and placeholder reference overlay.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/mergefield/internal/catalog"
	"github.com/zjrosen/mergefield/internal/keys"
	"github.com/zjrosen/mergefield/internal/ui/overlay"
	"github.com/zjrosen/mergefield/internal/ui/styles"
)

// maxPlaceholders caps the placeholder section so the box fits small terminals.
const maxPlaceholders = 12

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.BorderFocusColor).
			PaddingLeft(2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(styles.BorderDefaultColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.BorderFocusColor).
			MarginTop(1)

	keyStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimaryColor).
			Width(13)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextDescriptionColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.BorderDefaultColor)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// Model holds the help view state.
type Model struct {
	editor keys.EditorKeyMap
	popup  keys.PopupKeyMap
	app    keys.AppKeyMap
	cat    *catalog.Catalog
	mode   string
	width  int
	height int
}

// New creates a help view over the default keymaps.
func New() Model {
	return Model{
		editor: keys.Editor,
		popup:  keys.Popup,
		app:    keys.App,
	}
}

// SetCatalog lists the placeholders of cat (filtered by mode) below the keys.
func (m Model) SetCatalog(cat *catalog.Catalog, mode string) Model {
	m.cat = cat
	m.mode = mode
	return m
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the help box centered in an empty screen.
func (m Model) View() string {
	return m.Overlay("")
}

// Overlay renders the help box on top of a background view.
func (m Model) Overlay(background string) string {
	box := m.renderContent()
	if background == "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, box, background)
}

func (m Model) renderContent() string {
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	caret := column("Caret",
		m.editor.Left, m.editor.Right, m.editor.Up, m.editor.Down,
		m.editor.Home, m.editor.End, m.editor.SelectL, m.editor.SelectR, m.editor.SelectAll)
	editing := column("Editing",
		m.editor.Backspace, m.editor.Delete, m.editor.DeleteWord,
		m.editor.Newline, m.editor.Clear, m.editor.Undo, m.editor.Redo)
	popup := column("Placeholder menu",
		m.popup.Next, m.popup.Previous, m.popup.Commit, m.popup.Cancel)
	general := column("General",
		m.app.Save, m.app.Preview, m.app.Help, m.app.Logs, m.app.Quit)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(caret),
		columnStyle.Render(editing),
		columnStyle.Render(popup+general),
	)

	body := columns
	if m.cat != nil {
		body += "\n" + m.renderPlaceholders()
	}
	body += "\n" + footerStyle.Render("Type @ to insert a placeholder. Press f1 or esc to close")

	boxWidth := lipgloss.Width(body) + 4
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	content.WriteString(titleStyle.Render("Keybindings"))
	content.WriteString("\n")
	content.WriteString(divider)
	content.WriteString("\n")
	content.WriteString(contentStyle.Render(body))

	return boxStyle.Width(boxWidth).Render(content.String())
}

func (m Model) renderPlaceholders() string {
	entries := m.cat.ForMode(m.mode)
	title := "Placeholders"
	if m.mode != "" {
		title += " (" + m.mode + ")"
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render(title))
	b.WriteString("\n")
	for i, d := range entries {
		if i == maxPlaceholders {
			b.WriteString(descStyle.Render("… and more"))
			b.WriteString("\n")
			break
		}
		b.WriteString(renderKeyDesc("@"+d.Name, d.Description))
	}
	return b.String()
}

func column(title string, bindings ...key.Binding) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(title))
	b.WriteString("\n")
	for _, binding := range bindings {
		h := binding.Help()
		b.WriteString(renderKeyDesc(h.Key, h.Desc))
	}
	return b.String()
}

func renderKeyDesc(k, desc string) string {
	return keyStyle.Render(k) + descStyle.Render(desc) + "\n"
}
