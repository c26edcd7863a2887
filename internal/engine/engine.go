// Package engine is the variable-aware editing engine. It owns the canonical
// segment sequence, the editable surface projected from it, the mention
// state machine and the autocomplete list, and runs every input event through
// one fixed pipeline:
//
//	extract → update segments → re-evaluate mention → (commit splice) → re-render if unfocused
//
// The engine is single-threaded. Hosts deliver events one at a time.
package engine

import (
	"context"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/mergefield/internal/autocomplete"
	"github.com/zjrosen/mergefield/internal/catalog"
	"github.com/zjrosen/mergefield/internal/log"
	"github.com/zjrosen/mergefield/internal/mention"
	"github.com/zjrosen/mergefield/internal/segment"
	"github.com/zjrosen/mergefield/internal/surface"
	"github.com/zjrosen/mergefield/internal/tracing"
)

const defaultHistoryLimit = 500

// Config configures an Engine.
type Config struct {
	// Catalog supplies placeholder descriptors. Nil uses catalog.Default().
	Catalog autocomplete.Source

	// Mode filters the catalog.
	Mode string

	// Value is the initial canonical text.
	Value string

	// OnChange is called with the canonical text after every content change.
	OnChange func(canonical string)

	// Layout measures the surface for anchor points.
	Layout surface.Layout

	// Tracer records pipeline spans. Nil uses the global provider.
	Tracer trace.Tracer

	// Debug panics when extraction violates the segment invariants.
	Debug bool

	// HistoryLimit caps undo entries. 0 uses the default.
	HistoryLimit int
}

// MenuState is the read-only popup state exposed to renderers.
type MenuState struct {
	Open          bool
	Anchor        surface.Point
	Query         string
	Candidates    []catalog.Descriptor
	SelectedIndex int
}

// Engine is one editor instance.
type Engine struct {
	cfg      Config
	segs     []segment.Segment
	surf     *surface.Surface
	caret    int
	anchor   int // selection anchor; equal to caret when collapsed
	focused  bool
	stale    bool // segs were replaced while focused
	machine  mention.Machine
	list     *autocomplete.Controller
	history  *history
	tracer   trace.Tracer
	onChange func(string)
}

// New creates an engine holding cfg.Value.
func New(cfg Config) *Engine {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer("github.com/zjrosen/mergefield/internal/engine")
	}

	e := &Engine{
		cfg:      cfg,
		list:     autocomplete.New(cfg.Catalog, cfg.Mode),
		history:  newHistory(limit),
		tracer:   tracer,
		onChange: cfg.OnChange,
	}
	e.segs = segment.Parse(cfg.Value)
	e.surf = surface.Render(e.segs)
	e.caret = e.surf.Len()
	e.anchor = e.caret
	return e
}

// SetOnChange replaces the change callback.
func (e *Engine) SetOnChange(fn func(canonical string)) {
	e.onChange = fn
}

// Value returns the canonical text.
func (e *Engine) Value() string {
	return segment.Serialize(e.segs)
}

// Segments returns a copy of the canonical segments.
func (e *Engine) Segments() []segment.Segment {
	out := make([]segment.Segment, len(e.segs))
	copy(out, e.segs)
	return out
}

// Surface returns the editable surface for rendering. Callers must not
// mutate it.
func (e *Engine) Surface() *surface.Surface {
	return e.surf
}

// Caret returns the caret unit.
func (e *Engine) Caret() int {
	return e.caret
}

// CanonicalCaret returns the caret as a rune offset into Value().
func (e *Engine) CanonicalCaret() int {
	return e.surf.CaretToCanonical(e.caret)
}

// Selection returns the selected unit range [from, to).
func (e *Engine) Selection() (from, to int) {
	if e.anchor <= e.caret {
		return e.anchor, e.caret
	}
	return e.caret, e.anchor
}

// Collapsed reports whether the selection is empty.
func (e *Engine) Collapsed() bool {
	return e.anchor == e.caret
}

// Focused reports whether the surface has focus.
func (e *Engine) Focused() bool {
	return e.focused
}

// Layout returns the layout used for anchor points.
func (e *Engine) Layout() surface.Layout {
	return e.cfg.Layout
}

// SetLayout replaces the layout, e.g. after a resize.
func (e *Engine) SetLayout(l surface.Layout) {
	e.cfg.Layout = l
	if e.machine.State() == mention.Active {
		e.evaluate(false)
	}
}

// SetValue replaces the content from outside. While focused only the
// canonical segments change; the surface the user is editing is rebuilt on
// the next blur. Undo history is cleared.
func (e *Engine) SetValue(raw string) {
	e.segs = segment.Parse(raw)
	e.history.clear()
	if e.focused {
		e.stale = true
		log.Debug(log.CatEngine, "external value deferred while focused", "length", len(raw))
		return
	}
	e.rerender()
	e.caret = e.surf.Len()
	e.anchor = e.caret
}

// Focus gives the surface focus.
func (e *Engine) Focus() {
	e.focused = true
}

// Blur removes focus, closes any mention session and rebuilds the surface
// from the canonical segments.
func (e *Engine) Blur() {
	if !e.focused {
		return
	}
	e.focused = false
	e.stale = false
	if e.machine.Blur() == mention.Closed {
		e.list.Reset()
	}
	e.rerender()
}

func (e *Engine) rerender() {
	e.surf = surface.Render(e.segs)
	e.caret = e.surf.Clamp(e.caret)
	e.anchor = e.surf.Clamp(e.anchor)
}

// pipeline runs one input event. mutate edits the surface and reports whether
// content changed. commit marks the splice step, which ends the mention
// session instead of re-evaluating it.
func (e *Engine) pipeline(event string, mutate func() bool, commit bool, attrs ...attribute.KeyValue) bool {
	_, span := e.tracer.Start(context.Background(), tracing.SpanPipeline)
	defer span.End()

	before := snapshot{surf: e.surf.Clone(), caret: e.caret}
	changed := mutate()

	// A deferred external value survives caret moves but not edits.
	if changed || !e.stale {
		e.stale = false
		e.segs = surface.Extract(e.surf)
		if e.cfg.Debug {
			if err := segment.Validate(e.segs); err != nil {
				panic(err)
			}
		}
	}

	if commit {
		e.machine.Finish()
		e.list.Reset()
	} else {
		switch e.evaluate(changed) {
		case mention.Opened:
			span.AddEvent(tracing.EventMentionOpened)
		case mention.Closed:
			span.AddEvent(tracing.EventMentionClosed)
		}
	}

	if !e.focused {
		e.rerender()
		span.AddEvent(tracing.EventRerender)
	}

	if changed {
		e.history.push(change{
			id:     event,
			before: before,
			after:  snapshot{surf: e.surf.Clone(), caret: e.caret},
		})
	}
	value := segment.Serialize(e.segs)

	span.SetAttributes(
		attribute.String(tracing.AttrEvent, event),
		attribute.Bool(tracing.AttrContentChanged, changed),
		attribute.Int(tracing.AttrSegmentCount, len(e.segs)),
		attribute.Int(tracing.AttrCanonicalLength, utf8.RuneCountInString(value)),
		attribute.String(tracing.AttrMentionState, e.machine.State().String()),
		attribute.Bool(tracing.AttrFocused, e.focused),
	)
	if s, ok := e.machine.Session(); ok {
		span.SetAttributes(
			attribute.String(tracing.AttrMentionQuery, s.Query),
			attribute.Int(tracing.AttrCandidateCount, e.list.Len()),
		)
	}
	span.SetAttributes(attrs...)

	if changed && e.onChange != nil {
		e.onChange(value)
	}
	return changed
}

// evaluate feeds the current caret state to the mention machine and keeps the
// candidate list in step with it.
func (e *Engine) evaluate(contentChanged bool) mention.Transition {
	in := mention.Input{
		RunText:        e.surf.TextBefore(e.caret),
		Collapsed:      e.Collapsed(),
		Caret:          e.caret,
		Anchor:         e.cfg.Layout.Locate(e.surf, e.caret),
		ContentChanged: contentChanged,
	}
	t := e.machine.Evaluate(in)
	switch t {
	case mention.Opened, mention.Updated:
		s, _ := e.machine.Session()
		e.list.SetQuery(s.Query)
	case mention.Closed:
		e.list.Reset()
	}
	return t
}

// Undo reverts the last content change.
func (e *Engine) Undo() bool {
	c, ok := e.history.undo()
	if !ok {
		return false
	}
	e.restore(c.id, c.before)
	return true
}

// Redo re-applies the last undone change.
func (e *Engine) Redo() bool {
	c, ok := e.history.redo()
	if !ok {
		return false
	}
	e.restore(c.id, c.after)
	return true
}

// CanUndo reports whether Undo would do anything.
func (e *Engine) CanUndo() bool { return e.history.canUndo() }

// CanRedo reports whether Redo would do anything.
func (e *Engine) CanRedo() bool { return e.history.canRedo() }

func (e *Engine) restore(id string, s snapshot) {
	log.Debug(log.CatEngine, "history restore", "change", id)
	e.surf = s.surf.Clone()
	e.caret = e.surf.Clamp(s.caret)
	e.anchor = e.caret
	e.stale = false
	e.segs = surface.Extract(e.surf)
	if e.machine.Cancel() == mention.Closed {
		e.list.Reset()
	}
	if !e.focused {
		e.rerender()
	}
	if e.onChange != nil {
		e.onChange(segment.Serialize(e.segs))
	}
}
