package engine

import (
	"github.com/zjrosen/mergefield/internal/segment"
	"github.com/zjrosen/mergefield/internal/surface"
)

// deleteSelection removes a range selection. It reports false when the
// selection is collapsed.
func (e *Engine) deleteSelection() bool {
	if e.Collapsed() {
		return false
	}
	from, to := e.Selection()
	e.surf.DeleteRange(from, to)
	e.caret, e.anchor = from, from
	return true
}

// InsertText types text at the caret, replacing any selection. Newlines
// become line breaks; placeholder syntax is kept as literal text.
func (e *Engine) InsertText(text string) {
	if text == "" {
		return
	}
	e.pipeline("insert.text", func() bool {
		e.deleteSelection()
		e.caret = e.surf.InsertText(e.caret, text)
		e.anchor = e.caret
		return true
	}, false)
}

// InsertLineBreak inserts a line break at the caret, replacing any selection.
func (e *Engine) InsertLineBreak() {
	e.pipeline("insert.break", func() bool {
		e.deleteSelection()
		e.caret = e.surf.InsertLineBreak(e.caret)
		e.anchor = e.caret
		return true
	}, false)
}

// Paste inserts canonical text at the caret. Well-formed placeholders in
// text become chips.
func (e *Engine) Paste(text string) {
	if text == "" {
		return
	}
	e.pipeline("paste", func() bool {
		from, to := e.Selection()
		e.caret = e.surf.Replace(from, to, segment.Parse(text))
		e.anchor = e.caret
		return true
	}, false)
}

// DeleteBackward deletes before the caret. A chip directly before the caret
// is removed whole, together with one space or NBSP separator that follows
// it. Otherwise one grapheme is removed.
func (e *Engine) DeleteBackward() {
	e.pipeline("delete.backward", func() bool {
		if e.deleteSelection() {
			return true
		}
		from := backwardSpan(e.surf, e.caret)
		if from == e.caret {
			return false
		}
		e.surf.DeleteRange(from, e.caret)
		e.caret, e.anchor = from, from
		return true
	}, false)
}

// DeleteForward deletes after the caret. A chip directly after the caret is
// removed whole. Otherwise one grapheme is removed.
func (e *Engine) DeleteForward() {
	e.pipeline("delete.forward", func() bool {
		if e.deleteSelection() {
			return true
		}
		to := forwardSpan(e.surf, e.caret)
		if to == e.caret {
			return false
		}
		e.surf.DeleteRange(e.caret, to)
		return true
	}, false)
}

// backwardSpan returns the start of the span a backward delete at caret
// removes. It returns caret when there is nothing to delete.
func backwardSpan(s *surface.Surface, caret int) int {
	prev, ok := s.UnitAt(caret - 1)
	if !ok {
		return caret
	}
	if prev.Kind == surface.UnitChip {
		return caret - 1
	}
	if prev.IsSeparator() {
		if chip, ok := s.UnitAt(caret - 2); ok && chip.Kind == surface.UnitChip {
			return caret - 2
		}
	}
	return caret - 1
}

// forwardSpan returns the end of the span a forward delete at caret removes.
func forwardSpan(s *surface.Surface, caret int) int {
	if _, ok := s.UnitAt(caret); !ok {
		return caret
	}
	return caret + 1
}

// DeleteWordBackward deletes to the start of the previous word. Chips count
// as words.
func (e *Engine) DeleteWordBackward() {
	e.pipeline("delete.word", func() bool {
		if e.deleteSelection() {
			return true
		}
		from := wordStart(e.surf, e.caret)
		if from == e.caret {
			return false
		}
		e.surf.DeleteRange(from, e.caret)
		e.caret, e.anchor = from, from
		return true
	}, false)
}

func wordStart(s *surface.Surface, caret int) int {
	i := caret
	for i > 0 {
		u, _ := s.UnitAt(i - 1)
		if u.Kind != surface.UnitText || !u.IsSeparator() {
			break
		}
		i--
	}
	if u, ok := s.UnitAt(i - 1); ok && u.Kind != surface.UnitText {
		return i - 1
	}
	for i > 0 {
		u, _ := s.UnitAt(i - 1)
		if u.Kind != surface.UnitText || u.IsSeparator() {
			break
		}
		i--
	}
	return i
}

// move places the caret without changing content. extend keeps the
// selection anchor.
func (e *Engine) move(event string, caret int, extend bool) {
	e.pipeline(event, func() bool {
		e.caret = e.surf.Clamp(caret)
		if !extend {
			e.anchor = e.caret
		}
		return false
	}, false)
}

// MoveLeft moves one unit left. A collapsing range moves to its start.
func (e *Engine) MoveLeft() {
	if !e.Collapsed() {
		from, _ := e.Selection()
		e.move("move.left", from, false)
		return
	}
	e.move("move.left", e.caret-1, false)
}

// MoveRight moves one unit right. A collapsing range moves to its end.
func (e *Engine) MoveRight() {
	if !e.Collapsed() {
		_, to := e.Selection()
		e.move("move.right", to, false)
		return
	}
	e.move("move.right", e.caret+1, false)
}

// ExtendLeft grows the selection one unit left.
func (e *Engine) ExtendLeft() {
	e.move("select.left", e.caret-1, true)
}

// ExtendRight grows the selection one unit right.
func (e *Engine) ExtendRight() {
	e.move("select.right", e.caret+1, true)
}

// MoveHome moves to the start of the current line.
func (e *Engine) MoveHome() {
	e.move("move.home", e.surf.LineStart(e.caret), false)
}

// MoveEnd moves to the end of the current line.
func (e *Engine) MoveEnd() {
	e.move("move.end", e.surf.LineEnd(e.caret), false)
}

// MoveUp moves to the same column on the previous line, or to the start.
func (e *Engine) MoveUp() {
	start := e.surf.LineStart(e.caret)
	if start == 0 {
		e.move("move.up", 0, false)
		return
	}
	col := e.caret - start
	prevStart := e.surf.LineStart(start - 1)
	e.move("move.up", min(prevStart+col, start-1), false)
}

// MoveDown moves to the same column on the next line, or to the end.
func (e *Engine) MoveDown() {
	end := e.surf.LineEnd(e.caret)
	if end == e.surf.Len() {
		e.move("move.down", end, false)
		return
	}
	col := e.caret - e.surf.LineStart(e.caret)
	e.move("move.down", min(end+1+col, e.surf.LineEnd(end+1)), false)
}

// SetCaret places a collapsed caret at a unit index.
func (e *Engine) SetCaret(caret int) {
	e.move("caret.set", caret, false)
}

// SetCaretCanonical places the caret at a rune offset into Value(). Offsets
// inside a placeholder snap past it.
func (e *Engine) SetCaretCanonical(offset int) {
	e.move("caret.set", e.surf.CanonicalToCaret(offset), false)
}

// Select sets a range selection with the caret at to.
func (e *Engine) Select(from, to int) {
	e.pipeline("select", func() bool {
		e.anchor = e.surf.Clamp(from)
		e.caret = e.surf.Clamp(to)
		return false
	}, false)
}

// SelectAll selects the whole content.
func (e *Engine) SelectAll() {
	e.Select(0, e.surf.Len())
}

// Clear removes all content.
func (e *Engine) Clear() {
	e.pipeline("clear", func() bool {
		if e.surf.Len() == 0 {
			return false
		}
		e.surf.DeleteRange(0, e.surf.Len())
		e.caret, e.anchor = 0, 0
		return true
	}, false)
}
