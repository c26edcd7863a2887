// Package varinput is a Bubble Tea text input that renders placeholders as
// chips and offers an autocomplete popup after "@".
package varinput

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/mergefield/internal/catalog"
	"github.com/zjrosen/mergefield/internal/engine"
	"github.com/zjrosen/mergefield/internal/keys"
	"github.com/zjrosen/mergefield/internal/log"
	"github.com/zjrosen/mergefield/internal/pubsub"
	"github.com/zjrosen/mergefield/internal/surface"
	"github.com/zjrosen/mergefield/internal/ui/overlay"
	"github.com/zjrosen/mergefield/internal/ui/styles"
)

// ANSI reverse video, same cursor treatment as a terminal block cursor.
const (
	cursorOn  = "\x1b[7m"
	cursorOff = "\x1b[27m"
)

const defaultMaxItems = 6

// ChangedMsg is emitted after an update that changed the canonical value.
type ChangedMsg struct {
	ID    string
	Value string
}

// Config configures a Model.
type Config struct {
	// ID namespaces mouse zones. Required when several inputs share a view.
	ID string

	Catalog *catalog.Catalog
	Mode    string
	Value   string

	Width       int
	Height      int // rows available for text plus popup; 0 never flips the popup
	MaxItems    int
	SingleLine  bool
	Placeholder string

	// Publisher receives pubsub.ValueChangedEvent with the canonical value.
	Publisher pubsub.Publisher[string]

	// Engine overrides engine settings such as Tracer and Debug. Its Catalog,
	// Mode, Value and Layout fields are replaced.
	Engine engine.Config
}

// Model is the input component. The engine is shared between copies, so a
// Model behaves like a handle.
type Model struct {
	eng         *engine.Engine
	catalog     *catalog.Catalog
	id          string
	width       int
	height      int
	maxItems    int
	singleLine  bool
	placeholder string
}

// New creates an unfocused input.
func New(cfg Config) Model {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.ID == "" {
		cfg.ID = "varinput"
	}
	if cfg.Width <= 0 {
		cfg.Width = 40
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = defaultMaxItems
	}

	ec := cfg.Engine
	ec.Catalog = cfg.Catalog
	ec.Mode = cfg.Mode
	ec.Value = cfg.Value
	ec.Layout = layout(cfg.Width)
	userChange := ec.OnChange
	publisher := cfg.Publisher
	ec.OnChange = func(value string) {
		if publisher != nil {
			publisher.Publish(pubsub.ValueChangedEvent, value)
		}
		if userChange != nil {
			userChange(value)
		}
	}

	return Model{
		eng:         engine.New(ec),
		catalog:     cfg.Catalog,
		id:          cfg.ID,
		width:       cfg.Width,
		height:      cfg.Height,
		maxItems:    cfg.MaxItems,
		singleLine:  cfg.SingleLine,
		placeholder: cfg.Placeholder,
	}
}

func layout(width int) surface.Layout {
	return surface.Layout{ChipWidth: chipWidth, Wrap: width}
}

func chipWidth(name string) int {
	return lipgloss.Width(styles.ChipStyle.Render(name))
}

// Engine exposes the underlying engine.
func (m Model) Engine() *engine.Engine { return m.eng }

// Value returns the canonical text.
func (m Model) Value() string { return m.eng.Value() }

// SetValue replaces the content. While focused the visible text is kept until
// blur.
func (m Model) SetValue(v string) { m.eng.SetValue(v) }

// Focused reports whether the input has focus.
func (m Model) Focused() bool { return m.eng.Focused() }

// Focus gives the input focus.
func (m Model) Focus() { m.eng.Focus() }

// Blur removes focus and closes the popup.
func (m Model) Blur() { m.eng.Blur() }

// SetWidth sets the wrap width.
func (m *Model) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	m.width = w
	m.eng.SetLayout(layout(w))
}

// SetHeight sets the rows available for the popup to flip into.
func (m *Model) SetHeight(h int) { m.height = h }

// SetCatalog swaps the catalog, e.g. after the catalog file changed.
func (m *Model) SetCatalog(c *catalog.Catalog) {
	m.catalog = c
	m.eng.SetCatalog(c)
}

// SetMode switches the catalog mode.
func (m Model) SetMode(mode string) { m.eng.SetMode(mode) }

// Unknown returns placeholder names in the value that the catalog lacks.
func (m Model) Unknown() []string { return m.catalog.Unknown(m.eng.Segments()) }

// Update handles key and mouse input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	before := m.eng.Value()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.eng.Focused() {
			return m, nil
		}
		m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.SetWidth(msg.Width)
	}

	if after := m.eng.Value(); after != before {
		id := m.id
		return m, func() tea.Msg { return ChangedMsg{ID: id, Value: after} }
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) {
	e := m.eng

	if e.Menu().Open {
		switch {
		case key.Matches(msg, keys.Popup.Next):
			e.Next()
			return
		case key.Matches(msg, keys.Popup.Previous):
			e.Previous()
			return
		case key.Matches(msg, keys.Popup.Commit):
			e.CommitSelected()
			return
		case key.Matches(msg, keys.Popup.Cancel):
			e.Cancel()
			return
		}
	} else if e.MentionActive() && key.Matches(msg, keys.Popup.Cancel) {
		e.Cancel()
		return
	}

	switch {
	case key.Matches(msg, keys.Editor.SelectL):
		e.ExtendLeft()
	case key.Matches(msg, keys.Editor.SelectR):
		e.ExtendRight()
	case key.Matches(msg, keys.Editor.Left):
		e.MoveLeft()
	case key.Matches(msg, keys.Editor.Right):
		e.MoveRight()
	case key.Matches(msg, keys.Editor.Up):
		e.MoveUp()
	case key.Matches(msg, keys.Editor.Down):
		e.MoveDown()
	case key.Matches(msg, keys.Editor.Home):
		e.MoveHome()
	case key.Matches(msg, keys.Editor.End):
		e.MoveEnd()
	case key.Matches(msg, keys.Editor.SelectAll):
		e.SelectAll()
	case key.Matches(msg, keys.Editor.DeleteWord):
		e.DeleteWordBackward()
	case key.Matches(msg, keys.Editor.Backspace):
		e.DeleteBackward()
	case key.Matches(msg, keys.Editor.Delete):
		e.DeleteForward()
	case key.Matches(msg, keys.Editor.Newline):
		if !m.singleLine {
			e.InsertLineBreak()
		}
	case key.Matches(msg, keys.Editor.Clear):
		e.Clear()
	case key.Matches(msg, keys.Editor.Undo):
		e.Undo()
	case key.Matches(msg, keys.Editor.Redo):
		e.Redo()
	case msg.Type == tea.KeySpace:
		e.InsertText(" ")
	case msg.Type == tea.KeyRunes:
		text := string(msg.Runes)
		if msg.Paste {
			if m.singleLine {
				text = strings.ReplaceAll(text, "\n", " ")
			}
			e.Paste(text)
			return
		}
		e.InsertText(text)
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	e := m.eng

	if menu := e.Menu(); menu.Open {
		first, last := window(len(menu.Candidates), menu.SelectedIndex, m.maxItems)
		for i := first; i < last; i++ {
			if z := zone.Get(m.itemZone(i)); z != nil && z.InBounds(msg) {
				log.Debug(log.CatUI, "popup click", "index", i)
				e.Highlight(i)
				e.Commit(i)
				return
			}
		}
		if z := zone.Get(m.popupZone()); z != nil && z.InBounds(msg) {
			return
		}
	}

	if z := zone.Get(m.inputZone()); z != nil && z.InBounds(msg) {
		x, y := z.Pos(msg)
		if !e.Focused() {
			e.Focus()
		}
		e.SetCaret(m.caretAt(x, y))
		return
	}

	if e.MentionActive() {
		e.ClickOutside()
	}
	e.Blur()
}

func (m Model) inputZone() string     { return m.id + "-input" }
func (m Model) popupZone() string     { return m.id + "-popup" }
func (m Model) itemZone(i int) string { return fmt.Sprintf("%s-item-%d", m.id, i) }

// cell is the rendered position of a caret unit.
type cell struct {
	x, y, w int
}

// cells places every unit the way surface.Layout.Locate does, plus a final
// entry for the end position.
func (m Model) cells() []cell {
	units := m.eng.Surface().Units()
	out := make([]cell, 0, len(units)+1)
	x, y := 0, 0
	for _, u := range units {
		w := unitWidth(u)
		if u.Kind != surface.UnitBreak && x > 0 && x+w > m.width {
			x, y = 0, y+1
		}
		out = append(out, cell{x: x, y: y, w: w})
		if u.Kind == surface.UnitBreak {
			x, y = 0, y+1
			continue
		}
		x += w
	}
	if x >= m.width {
		x, y = 0, y+1
	}
	return append(out, cell{x: x, y: y})
}

func unitWidth(u surface.Unit) int {
	switch u.Kind {
	case surface.UnitChip:
		return chipWidth(u.Name)
	case surface.UnitText:
		return runewidth.StringWidth(u.Text)
	default:
		return 0
	}
}

// caretAt maps a click inside the text area to the nearest caret. A click on
// the right half of a unit lands after it.
func (m Model) caretAt(x, y int) int {
	cs := m.cells()
	best := -1
	for i, c := range cs {
		if c.y != y {
			if c.y > y && best >= 0 {
				return best
			}
			continue
		}
		// Zero-width cells are line breaks and the end position.
		if c.w == 0 || x < c.x+(c.w+1)/2 {
			return i
		}
		best = min(i+1, len(cs)-1)
	}
	if best < 0 {
		return len(cs) - 1
	}
	return best
}

// View renders the text with the popup composited over it. The caller is
// responsible for zone.Scan on the final frame.
func (m Model) View() string {
	text := m.renderText()
	view := zone.Mark(m.inputZone(), text)

	menu := m.eng.Menu()
	if !menu.Open {
		return view
	}

	popup := zone.Mark(m.popupZone(), m.renderPopup(menu))
	height := m.height
	if height <= 0 {
		height = lipgloss.Height(text) + lipgloss.Height(popup) + menu.Anchor.Y + 1
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   height,
		Position: overlay.Anchored,
		AnchorX:  menu.Anchor.X,
		AnchorY:  menu.Anchor.Y,
	}, popup, view)
}

func (m Model) renderText() string {
	e := m.eng
	units := e.Surface().Units()
	if len(units) == 0 && m.placeholder != "" {
		if e.Focused() {
			return cursorOn + " " + cursorOff + styles.PlaceholderStyle.Render(m.placeholder)
		}
		return styles.PlaceholderStyle.Render(m.placeholder)
	}

	cs := m.cells()
	from, to := e.Selection()
	caret := e.Caret()
	showCursor := e.Focused() && e.Collapsed()

	var b strings.Builder
	row := 0
	for i, u := range units {
		for row < cs[i].y {
			b.WriteString("\n")
			row++
		}
		cursor := showCursor && i == caret
		selected := i >= from && i < to

		switch u.Kind {
		case surface.UnitBreak:
			if cursor {
				b.WriteString(cursorOn + " " + cursorOff)
			}
		case surface.UnitChip:
			chip := m.renderChip(u.Name)
			if cursor || selected {
				chip = cursorOn + chip + cursorOff
			}
			b.WriteString(chip)
		default:
			g := u.Text
			if g == surface.NBSP {
				g = " "
			}
			switch {
			case cursor:
				b.WriteString(cursorOn + g + cursorOff)
			case selected:
				b.WriteString(styles.SelectionStyle.Render(g))
			default:
				b.WriteString(g)
			}
		}
	}

	end := cs[len(cs)-1]
	for row < end.y {
		b.WriteString("\n")
		row++
	}
	if showCursor && caret == len(units) {
		b.WriteString(cursorOn + " " + cursorOff)
	}
	return b.String()
}

func (m Model) renderChip(name string) string {
	if _, ok := m.catalog.Lookup(name); ok {
		return styles.ChipStyle.Render(name)
	}
	return styles.ChipUnknownStyle.Render(name)
}

// window returns the visible candidate range that keeps selected in view.
func window(n, selected, size int) (first, last int) {
	if n <= size {
		return 0, n
	}
	first = max(selected-size+1, 0)
	return first, first + size
}

func (m Model) renderPopup(menu engine.MenuState) string {
	first, last := window(len(menu.Candidates), menu.SelectedIndex, m.maxItems)

	nameWidth := 0
	for _, d := range menu.Candidates[first:last] {
		nameWidth = max(nameWidth, runewidth.StringWidth(d.Name))
	}
	descWidth := max(m.width-nameWidth-6, 0)

	rows := make([]string, 0, last-first+1)
	for i := first; i < last; i++ {
		d := menu.Candidates[i]
		pad := strings.Repeat(" ", nameWidth-runewidth.StringWidth(d.Name))
		desc := ""
		if descWidth > 0 && d.Description != "" {
			desc = "  " + styles.PopupDescriptionStyle.Render(styles.Truncate(d.Description, descWidth))
		}
		var row string
		if i == menu.SelectedIndex {
			row = styles.PopupSelectedStyle.Render(d.Name+pad) + desc
		} else {
			row = styles.PopupItemStyle.Render(highlightMatch(d.Name, menu.Query)+pad) + desc
		}
		rows = append(rows, zone.Mark(m.itemZone(i), row))
	}
	if n := len(menu.Candidates); n > last-first {
		rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf("%d/%d", menu.SelectedIndex+1, n)))
	}
	return styles.PopupStyle.Render(strings.Join(rows, "\n"))
}

// highlightMatch styles the first case-insensitive occurrence of query.
func highlightMatch(name, query string) string {
	if query == "" {
		return name
	}
	i := strings.Index(strings.ToLower(name), strings.ToLower(query))
	if i < 0 {
		return name
	}
	j := i + len(query)
	return name[:i] + styles.PopupMatchStyle.Render(name[i:j]) + name[j:]
}
