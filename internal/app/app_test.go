package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/mergefield/internal/catalog"
	"github.com/zjrosen/mergefield/internal/config"
	"github.com/zjrosen/mergefield/internal/drafts"
	"github.com/zjrosen/mergefield/internal/pubsub"
	"github.com/zjrosen/mergefield/internal/testutil"
	"github.com/zjrosen/mergefield/internal/ui/modal"
	"github.com/zjrosen/mergefield/internal/ui/toaster"
)

func init() {
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

var testCatalog = catalog.MustNew([]catalog.Descriptor{
	{Name: "first_name", Description: "First name"},
	{Name: "company", Description: "Company"},
}, nil)

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Catalog == nil {
		opts.Catalog = testCatalog
	}
	opts.Debug = true
	if opts.UI.MarkdownStyle == "" {
		opts.UI.MarkdownStyle = "notty"
	}
	m := New(opts)
	t.Cleanup(func() { _ = m.Close() })

	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	return next.(Model)
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		if r == ' ' {
			m, _ = send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestApp_TypingReachesInput(t *testing.T) {
	m := newTestModel(t, Options{})
	m = typeText(m, "Hi @fi")
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, "Hi {{first_name}} ", m.Value())
	require.Contains(t, ansi.Strip(m.View()), "modified")
}

func TestApp_FooterListsUnknownPlaceholders(t *testing.T) {
	m := newTestModel(t, Options{Value: "{{nope}}"})
	view := ansi.Strip(m.View())
	require.Contains(t, view, "unknown: nope")
	require.Contains(t, view, "untitled")
}

func TestApp_SaveWithoutDraftWarns(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	msg, ok := cmd().(toaster.ShowMsg)
	require.True(t, ok)
	require.Equal(t, toaster.StyleWarn, msg.Style)
}

func TestApp_SaveCreatesRevision(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := drafts.NewService(db.DraftRepository())

	m := newTestModel(t, Options{Draft: "welcome", Drafts: svc})
	m = typeText(m, "Hello")

	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	saved, ok := cmd().(savedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)
	require.True(t, saved.changed)

	m, cmd = send(m, saved)
	require.Equal(t, 1, m.revision)
	require.NotContains(t, ansi.Strip(m.View()), "modified")
	show, ok := cmd().(toaster.ShowMsg)
	require.True(t, ok)
	require.Contains(t, show.Message, "revision 1")

	// Saving again without edits is reported, not stored.
	_, cmd = send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	again := cmd().(savedMsg)
	require.False(t, again.changed)

	history, err := svc.History(context.Background(), "welcome")
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestApp_PreviewToggle(t *testing.T) {
	m := newTestModel(t, Options{
		Value:   "Dear {{first_name}} at {{company}}",
		Preview: map[string]string{"first_name": "Ada"},
	})
	require.NotContains(t, ansi.Strip(m.View()), "Preview")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	view := ansi.Strip(m.View())
	require.Contains(t, view, "Preview")
	require.Contains(t, view, "Dear Ada at <Company>")
}

func TestApp_PreviewFollowsValueEvents(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlO})

	m, cmd := send(m, pubsub.Event[string]{Type: pubsub.ValueChangedEvent, Payload: "Changed text"})
	require.NotNil(t, cmd)
	require.Contains(t, ansi.Strip(m.preview), "Changed text")
}

func TestApp_HelpOverlay(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyF1})
	require.True(t, m.showHelp)
	require.Contains(t, ansi.Strip(m.View()), "Keybindings")

	// Keys do not reach the input while help is open.
	m = typeText(m, "x")
	require.Empty(t, m.Value())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.showHelp)
}

func TestApp_CatalogReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("placeholders:\n  - name: nope\n"), 0o644))

	m := newTestModel(t, Options{Value: "{{nope}}", CatalogPath: path})
	require.Equal(t, []string{"nope"}, m.input.Unknown())

	loaded, ok := m.reloadCatalog()().(catalogLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)

	m, cmd := send(m, loaded)
	require.Empty(t, m.input.Unknown())
	show := cmd().(toaster.ShowMsg)
	require.Equal(t, toaster.StyleInfo, show.Style)
}

func TestApp_CatalogReloadError(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := send(m, catalogLoadedMsg{err: os.ErrNotExist})
	show := cmd().(toaster.ShowMsg)
	require.Equal(t, toaster.StyleError, show.Style)
}

func TestApp_Teatest_EditAndSave(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := drafts.NewService(db.DraftRepository())

	opts := Options{
		Draft:   "greeting",
		Catalog: testCatalog,
		Drafts:  svc,
		UI:      config.UIConfig{MarkdownStyle: "notty", ShowStatusBar: true},
	}
	m := New(opts)
	t.Cleanup(func() { _ = m.Close() })

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(60, 20))
	tm.Type("Hi @comp")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlS})

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Saved greeting revision 1"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.True(t, ok)
	require.Equal(t, "Hi {{company}} ", final.Value())

	d, err := svc.Get(context.Background(), "greeting")
	require.NoError(t, err)
	require.Equal(t, "Hi {{company}} ", d.Value)
	require.Equal(t, 1, d.Head)
}

func TestApp_SaveAsPrompt(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := drafts.NewService(db.DraftRepository())

	m := newTestModel(t, Options{Drafts: svc})
	m = typeText(m, "Hello")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.True(t, m.showDialog)
	require.Contains(t, ansi.Strip(m.View()), "Save draft as")

	// Keys go to the prompt, not the editor.
	m = typeText(m, "welcome")
	require.Equal(t, "Hello", m.Value())

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	submit, ok := cmd().(modal.SubmitMsg)
	require.True(t, ok)
	require.Equal(t, modal.SubmitMsg{Tag: dialogSave, Value: "welcome"}, submit)

	m, cmd = send(m, submit)
	require.False(t, m.showDialog)
	require.Equal(t, "welcome", m.opts.Draft)

	saved, ok := cmd().(savedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)
	require.Equal(t, 1, saved.rev.Number)
}

func TestApp_SaveAsRejectsSpaces(t *testing.T) {
	db := testutil.NewTestDB(t)
	m := newTestModel(t, Options{Drafts: drafts.NewService(db.DraftRepository())})

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = typeText(m, "my draft")
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.True(t, m.showDialog)
	require.Contains(t, ansi.Strip(m.View()), "cannot contain spaces")
}

func TestApp_QuitConfirmsUnsavedEdits(t *testing.T) {
	db := testutil.NewTestDB(t)
	m := newTestModel(t, Options{Draft: "welcome", Drafts: drafts.NewService(db.DraftRepository())})
	m = typeText(m, "Hello")

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, m.showDialog)
	require.Equal(t, dialogQuit, m.dialog.Tag())
	require.Contains(t, ansi.Strip(m.View()), "Discard changes?")
	require.Nil(t, cmd)

	// n keeps editing.
	m, cmd = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m, _ = send(m, cmd())
	require.False(t, m.showDialog)
	require.Equal(t, "Hello", m.Value())

	// y discards and quits.
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	m, cmd = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	_, cmd = send(m, cmd())
	require.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitWithoutStoreSkipsConfirm(t *testing.T) {
	m := newTestModel(t, Options{})
	m = typeText(m, "Hello")

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.False(t, m.showDialog)
	require.Equal(t, tea.Quit(), cmd())
}

func TestApp_LogOverlay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	broker := pubsub.NewBroker[string]()
	t.Cleanup(broker.Close)

	m := newTestModel(t, Options{Logs: pubsub.NewContinuousListener[string](ctx, broker)})

	m, cmd := send(m, pubsub.Event[string]{
		Type:    pubsub.LoggedEvent,
		Payload: "2026-01-02T15:04:05Z [WARN] [catalog] reload slow\n",
	})
	require.NotNil(t, cmd)
	require.Equal(t, 1, m.logs.Len())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyF2})
	require.True(t, m.logs.Visible())
	require.Contains(t, ansi.Strip(m.View()), "reload slow")

	// Keys go to the overlay while it is open.
	m = typeText(m, "x")
	require.Empty(t, m.Value())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.logs.Visible())
}

func TestApp_LogOverlayNeedsDebug(t *testing.T) {
	m := newTestModel(t, Options{})
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyF2})
	require.False(t, m.logs.Visible())
	show, ok := cmd().(toaster.ShowMsg)
	require.True(t, ok)
	require.Equal(t, toaster.StyleInfo, show.Style)
}
