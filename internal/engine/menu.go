package engine

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/mergefield/internal/autocomplete"
	"github.com/zjrosen/mergefield/internal/log"
	"github.com/zjrosen/mergefield/internal/mention"
	"github.com/zjrosen/mergefield/internal/surface"
	"github.com/zjrosen/mergefield/internal/tracing"
)

// Menu returns the popup state. The popup is open while a mention session
// is active and has at least one candidate.
func (e *Engine) Menu() MenuState {
	s, active := e.machine.Session()
	if !active {
		return MenuState{SelectedIndex: -1}
	}
	return MenuState{
		Open:          e.list.Len() > 0,
		Anchor:        s.Anchor,
		Query:         s.Query,
		Candidates:    e.list.Candidates(),
		SelectedIndex: e.list.Selected(),
	}
}

// MentionActive reports whether a mention session is in progress, even when
// it has no candidates to show.
func (e *Engine) MentionActive() bool {
	return e.machine.State() == mention.Active
}

// Next highlights the next candidate, wrapping.
func (e *Engine) Next() {
	if e.MentionActive() {
		e.list.Next()
	}
}

// Previous highlights the previous candidate, wrapping.
func (e *Engine) Previous() {
	if e.MentionActive() {
		e.list.Previous()
	}
}

// Highlight selects a candidate without committing, e.g. on pointer hover.
func (e *Engine) Highlight(index int) {
	if e.MentionActive() {
		e.list.Select(index)
	}
}

// Cancel ends the mention session. It is a no-op while idle.
func (e *Engine) Cancel() {
	if e.machine.Cancel() == mention.Closed {
		e.list.Reset()
	}
}

// ClickOutside ends the mention session after a press outside the surface
// and the popup.
func (e *Engine) ClickOutside() {
	if e.machine.ClickOutside() == mention.Closed {
		e.list.Reset()
	}
}

// CommitSelected commits the highlighted candidate.
func (e *Engine) CommitSelected() bool {
	return e.Commit(e.list.Selected())
}

// Commit inserts the candidate at index as a placeholder. With an active
// session the "@query" span is replaced; otherwise the placeholder is
// appended to the end. It reports false, changing nothing, when index does
// not name a candidate.
func (e *Engine) Commit(index int) bool {
	d, ok := e.list.Commit(index)
	if !ok {
		log.Debug(log.CatEngine, "commit ignored", "index", index, "candidates", e.list.Len())
		return false
	}
	e.commitName(d.Name)
	return true
}

// InsertPlaceholder inserts name as if it had been committed from the
// popup. It does not consult the catalog.
func (e *Engine) InsertPlaceholder(name string) {
	e.commitName(name)
}

func (e *Engine) commitName(name string) {
	session, active := e.machine.Session()
	e.pipeline("commit", func() bool {
		from, to := e.surf.Len(), e.surf.Len()
		if active {
			from, to = session.Start, e.caret
		} else {
			log.Warn(log.CatEngine, "commit without mention session, appending", "name", name)
		}
		e.surf.DeleteRange(from, to)
		caret := e.surf.InsertChip(from, name)
		e.caret = e.surf.InsertText(caret, surface.NBSP)
		e.anchor = e.caret
		return true
	}, true, attribute.String(tracing.AttrPlaceholder, name))
}

// SetMode switches the catalog mode, re-filtering any open list.
func (e *Engine) SetMode(mode string) {
	e.cfg.Mode = mode
	e.list.SetMode(mode)
}

// Mode returns the catalog mode.
func (e *Engine) Mode() string {
	return e.cfg.Mode
}

// SetCatalog replaces the catalog, re-filtering any open list.
func (e *Engine) SetCatalog(src autocomplete.Source) {
	e.cfg.Catalog = src
	e.list.SetSource(src)
}
