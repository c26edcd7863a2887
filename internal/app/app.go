// Package app contains the root model of the full-screen editor.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	bubbleshelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/mergefield/internal/catalog"
	"github.com/zjrosen/mergefield/internal/config"
	"github.com/zjrosen/mergefield/internal/drafts"
	"github.com/zjrosen/mergefield/internal/engine"
	"github.com/zjrosen/mergefield/internal/keys"
	"github.com/zjrosen/mergefield/internal/log"
	"github.com/zjrosen/mergefield/internal/pubsub"
	"github.com/zjrosen/mergefield/internal/ui/help"
	"github.com/zjrosen/mergefield/internal/ui/logoverlay"
	"github.com/zjrosen/mergefield/internal/ui/markdown"
	"github.com/zjrosen/mergefield/internal/ui/modal"
	"github.com/zjrosen/mergefield/internal/ui/styles"
	"github.com/zjrosen/mergefield/internal/ui/toaster"
	"github.com/zjrosen/mergefield/internal/ui/varinput"
	"github.com/zjrosen/mergefield/internal/watcher"
)

const inputID = "editor"

// Dialog tags.
const (
	dialogQuit = "quit"
	dialogSave = "save"
)

// Options configures the editor.
type Options struct {
	// Draft is the draft name ctrl+s saves to. When empty and Drafts is set,
	// ctrl+s prompts for a name.
	Draft string
	Mode  string
	Value string

	// Revision is the saved revision Value came from, 0 for unsaved text.
	Revision int

	Catalog *catalog.Catalog

	// CatalogPath is reloaded when Watch is set and the file changes.
	CatalogPath string
	Watch       bool

	Editor  config.EditorConfig
	UI      config.UIConfig
	Preview map[string]string

	// Drafts persists revisions. Nil disables saving.
	Drafts *drafts.Service

	// Logs feeds the f2 log overlay. Nil when debug logging is off.
	Logs *log.LogListener

	// Debug enables engine invariant checks.
	Debug bool
}

// savedMsg reports the outcome of a ctrl+s save.
type savedMsg struct {
	rev     *drafts.Revision
	changed bool
	err     error
}

// catalogLoadedMsg carries a reloaded catalog.
type catalogLoadedMsg struct {
	cat *catalog.Catalog
	err error
}

// Model is the root application state.
type Model struct {
	opts Options

	input    varinput.Model
	help     help.Model
	shortKey bubbleshelp.Model
	toaster  toaster.Model
	logs     logoverlay.Model
	dialog   modal.Model
	renderer *markdown.Renderer

	// Value changes fan out through a retaining broker so the preview pane
	// starts from the current value and only renders the newest one.
	values   *pubsub.Broker[string]
	listener *pubsub.ContinuousListener[string]
	ctx      context.Context
	cancel   context.CancelFunc

	watcherHandle *watcher.Watcher
	watchCh       <-chan struct{}

	showHelp    bool
	showDialog  bool
	showPreview bool
	preview     string
	saved       string // value of the last saved revision
	revision    int
	width       int
	height      int
}

// New creates the editor model. A failing catalog watcher is logged and the
// editor runs without reloads.
func New(opts Options) Model {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	width := opts.Editor.Width
	if width <= 0 {
		width = config.Defaults().Editor.Width
	}

	ctx, cancel := context.WithCancel(context.Background())
	values := pubsub.NewBroker(pubsub.WithRetain[string]())

	input := varinput.New(varinput.Config{
		ID:          inputID,
		Catalog:     opts.Catalog,
		Mode:        opts.Mode,
		Value:       opts.Value,
		Width:       width - 4,
		Height:      opts.Editor.Height,
		MaxItems:    opts.Editor.MaxItems,
		SingleLine:  opts.Editor.SingleLine,
		Placeholder: "Type text, or @ to insert a placeholder",
		Publisher:   values,
		Engine: engine.Config{
			HistoryLimit: opts.Editor.HistoryLimit,
			Debug:        opts.Debug,
		},
	})
	input.Focus()
	// Seed the broker so the preview has something to render before the
	// first edit.
	values.Publish(pubsub.ValueChangedEvent, input.Value())

	m := Model{
		opts:     opts,
		input:    input,
		help:     help.New().SetCatalog(opts.Catalog, opts.Mode),
		shortKey: bubbleshelp.New(),
		toaster:  toaster.New(),
		logs:     logoverlay.New(),
		values:   values,
		listener: pubsub.NewContinuousListener[string](ctx, values),
		ctx:      ctx,
		cancel:   cancel,
		saved:    input.Value(),
		revision: opts.Revision,
		width:    width,
	}
	m.renderer = m.newRenderer(width)

	if opts.Watch && opts.CatalogPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(opts.CatalogPath))
		if err == nil {
			ch, startErr := w.Start()
			if startErr == nil {
				m.watcherHandle = w
				m.watchCh = ch
			} else {
				err = startErr
				_ = w.Stop()
			}
		}
		if err != nil {
			log.Warn(log.CatWatcher, "catalog watcher disabled", "path", opts.CatalogPath, "error", err)
		}
	}
	return m
}

func (m Model) newRenderer(width int) *markdown.Renderer {
	r, err := markdown.New(max(width-4, 20), m.opts.UI.MarkdownStyle)
	if err != nil {
		log.Warn(log.CatUI, "preview renderer unavailable", "error", err)
		return nil
	}
	return r
}

// Init starts the value listener and the catalog watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listener.Latest()}
	if m.opts.Logs != nil {
		cmds = append(cmds, m.opts.Logs.Listen())
	}
	if m.watchCh != nil {
		cmds = append(cmds, watcher.WaitCmd(m.watchCh))
	}
	return tea.Batch(cmds...)
}

// Value returns the canonical text being edited.
func (m Model) Value() string {
	return m.input.Value()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 4)
		m.input.SetHeight(m.editorHeight())
		m.help = m.help.SetSize(msg.Width, msg.Height)
		m.toaster = m.toaster.SetSize(msg.Width, msg.Height)
		m.logs = m.logs.SetSize(msg.Width, msg.Height)
		m.dialog = m.dialog.SetSize(msg.Width, msg.Height)
		m.shortKey.Width = msg.Width
		if r := m.newRenderer(msg.Width); r != nil {
			m.renderer = r
		}
		m.preview = m.renderPreview(m.input.Value())
		return m, nil

	case pubsub.Event[string]:
		if msg.Type == pubsub.LoggedEvent {
			m.logs = m.logs.Append(msg.Payload)
			if m.opts.Logs == nil {
				return m, nil
			}
			return m, m.opts.Logs.Listen()
		}
		if msg.Type == pubsub.ValueChangedEvent && m.showPreview {
			m.preview = m.renderPreview(msg.Payload)
		}
		return m, m.listener.Latest()

	case watcher.ChangedMsg:
		log.Debug(log.CatWatcher, "catalog file changed", "path", m.opts.CatalogPath)
		return m, tea.Batch(m.reloadCatalog(), watcher.WaitCmd(m.watchCh))

	case catalogLoadedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatCatalog, "catalog reload failed", msg.err, "path", m.opts.CatalogPath)
			return m, toaster.Show("Catalog reload failed: "+msg.err.Error(), toaster.StyleError)
		}
		m.opts.Catalog = msg.cat
		m.input.SetCatalog(msg.cat)
		m.help = m.help.SetCatalog(msg.cat, m.opts.Mode)
		m.values.Publish(pubsub.CatalogReloadedEvent, m.opts.CatalogPath)
		return m, toaster.Show(fmt.Sprintf("Catalog reloaded (%d placeholders)", msg.cat.Len()), toaster.StyleInfo)

	case savedMsg:
		return m.handleSaved(msg)

	case toaster.ShowMsg, toaster.DismissMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Update(msg)
		return m, cmd

	case varinput.ChangedMsg:
		return m, nil

	case modal.SubmitMsg:
		m.showDialog = false
		switch msg.Tag {
		case dialogQuit:
			return m, tea.Quit
		case dialogSave:
			m.opts.Draft = msg.Value
			return m, m.save()
		}
		return m, nil

	case modal.CancelMsg:
		m.showDialog = false
		return m, nil

	case logoverlay.CloseMsg:
		return m, nil

	case tea.KeyMsg:
		if m.showDialog {
			var cmd tea.Cmd
			m.dialog, cmd = m.dialog.Update(msg)
			return m, cmd
		}
		if m.logs.Visible() {
			if key.Matches(msg, keys.App.Quit) {
				return m.quit()
			}
			var cmd tea.Cmd
			m.logs, cmd = m.logs.Update(msg)
			return m, cmd
		}
		if m.showHelp {
			if key.Matches(msg, keys.App.Help) || key.Matches(msg, keys.Popup.Cancel) {
				m.showHelp = false
			}
			if key.Matches(msg, keys.App.Quit) {
				return m.quit()
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.App.Quit):
			return m.quit()
		case key.Matches(msg, keys.App.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, keys.App.Logs):
			if m.opts.Logs == nil {
				return m, toaster.Show("Debug logging is off: start with --debug", toaster.StyleInfo)
			}
			m.logs = m.logs.Toggle()
			return m, nil
		case key.Matches(msg, keys.App.Save):
			if m.opts.Drafts != nil && m.opts.Draft == "" {
				return m.openDialog(modal.Config{
					Tag:   dialogSave,
					Title: "Save draft as",
					Input: &modal.InputConfig{
						Placeholder: "draft name",
						MaxLength:   100,
						Validate:    validateDraftName,
					},
				})
			}
			return m, m.save()
		case key.Matches(msg, keys.App.Preview):
			m.showPreview = !m.showPreview
			m.input.SetHeight(m.editorHeight())
			if m.showPreview {
				m.preview = m.renderPreview(m.input.Value())
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// quit exits, asking first when saveable edits would be lost.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.opts.Drafts == nil || m.input.Value() == m.saved {
		return m, tea.Quit
	}
	name := m.opts.Draft
	if name == "" {
		name = "This template"
	}
	return m.openDialog(modal.Config{
		Tag:          dialogQuit,
		Title:        "Discard changes?",
		Message:      name + " has unsaved edits.",
		ConfirmLabel: "Discard",
		CancelLabel:  "Keep editing",
		Danger:       true,
	})
}

func (m Model) openDialog(cfg modal.Config) (tea.Model, tea.Cmd) {
	m.dialog = modal.New(cfg).SetSize(m.width, m.height)
	m.showDialog = true
	m.showHelp = false
	return m, m.dialog.Init()
}

func validateDraftName(name string) error {
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return errors.New("draft names cannot contain spaces")
	}
	return nil
}

func (m Model) reloadCatalog() tea.Cmd {
	path := m.opts.CatalogPath
	return func() tea.Msg {
		cat, err := catalog.Load(path)
		return catalogLoadedMsg{cat: cat, err: err}
	}
}

func (m Model) save() tea.Cmd {
	if m.opts.Drafts == nil || m.opts.Draft == "" {
		return toaster.Show("Saving is off: set drafts.path in the config", toaster.StyleWarn)
	}
	svc, name, mode, value := m.opts.Drafts, m.opts.Draft, m.opts.Mode, m.input.Value()
	ctx := m.ctx
	return func() tea.Msg {
		rev, changed, err := svc.Save(ctx, name, mode, value)
		return savedMsg{rev: rev, changed: changed, err: err}
	}
}

func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.ErrorErr(log.CatDrafts, "save failed", msg.err, "draft", m.opts.Draft)
		return m, toaster.Show("Save failed: "+msg.err.Error(), toaster.StyleError)
	}
	m.saved = msg.rev.Value
	m.revision = msg.rev.Number
	if !msg.changed {
		return m, toaster.Show(fmt.Sprintf("No changes since revision %d", msg.rev.Number), toaster.StyleInfo)
	}
	return m, toaster.Show(fmt.Sprintf("Saved %s revision %d", m.opts.Draft, msg.rev.Number), toaster.StyleSuccess)
}

func (m Model) renderPreview(value string) string {
	if m.renderer == nil {
		return ""
	}
	out, err := m.renderer.Preview(value, m.opts.Preview, m.opts.Catalog.Fallback)
	if err != nil {
		return styles.ErrorStyle.Render(err.Error())
	}
	return strings.TrimRight(out, "\n")
}

// editorHeight splits the screen between the editor and the preview pane,
// leaving one row for the status bar.
func (m Model) editorHeight() int {
	h := m.height - 1
	if m.showPreview {
		h /= 2
	}
	return max(h, 3)
}

// View implements tea.Model.
func (m Model) View() string {
	title := m.opts.Draft
	if title == "" {
		title = "untitled"
	}
	if m.opts.Mode != "" {
		title += " · " + m.opts.Mode
	}

	height := m.editorHeight()
	sections := []string{
		styles.Frame{
			Title:   title,
			Footer:  m.footer(),
			Width:   m.width,
			Height:  height,
			Focused: m.input.Focused(),
		}.Render(m.input.View()),
	}
	if m.showPreview {
		sections = append(sections, styles.Frame{
			Title:  "Preview",
			Width:  m.width,
			Height: max(m.height-1-height, 3),
		}.Render(m.preview))
	}
	if m.opts.UI.ShowStatusBar {
		sections = append(sections, styles.StatusBarStyle.Render(m.shortKey.View(keys.App)))
	}
	view := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.showHelp {
		view = m.help.Overlay(view)
	}
	view = m.logs.Overlay(view)
	if m.showDialog {
		view = m.dialog.Overlay(view)
	}
	view = m.toaster.Overlay(view)
	return zone.Scan(view)
}

// footer summarizes save state and unknown placeholders.
func (m Model) footer() string {
	var parts []string
	if unknown := m.input.Unknown(); len(unknown) > 0 {
		parts = append(parts, styles.WarningStyle.Render("unknown: "+strings.Join(unknown, ", ")))
	}
	switch {
	case m.input.Value() != m.saved:
		parts = append(parts, "modified")
	case m.revision > 0:
		parts = append(parts, fmt.Sprintf("r%d", m.revision))
	}
	return strings.Join(parts, " · ")
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.cancel()
	m.values.Close()
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}
