package surface

import (
	"strings"
	"unicode/utf8"

	"github.com/zjrosen/mergefield/internal/segment"
)

// Clamp limits a caret to [0, Len()].
func (s *Surface) Clamp(caret int) int {
	return clamp(caret, 0, s.Len())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// InsertText inserts text at caret and returns the caret after it.
// Newlines in text become line breaks.
func (s *Surface) InsertText(caret int, text string) int {
	if text == "" {
		return s.Clamp(caret)
	}
	var inserted []Unit
	appendGraphemes(&inserted, text)
	return s.insertUnits(caret, inserted)
}

// InsertLineBreak inserts a line break at caret and returns the caret after it.
func (s *Surface) InsertLineBreak(caret int) int {
	return s.insertUnits(caret, []Unit{{Kind: UnitBreak}})
}

// InsertChip inserts a chip at caret and returns the caret after it.
func (s *Surface) InsertChip(caret int, name string) int {
	return s.insertUnits(caret, []Unit{{Kind: UnitChip, Name: name}})
}

func (s *Surface) insertUnits(caret int, inserted []Unit) int {
	units := s.units()
	caret = clamp(caret, 0, len(units))

	next := make([]Unit, 0, len(units)+len(inserted))
	next = append(next, units[:caret]...)
	next = append(next, inserted...)
	next = append(next, units[caret:]...)

	s.nodes = fromUnits(next)

	// Text merges with its neighbours and is re-segmented, so a combining
	// mark or joiner can fold into the grapheme before it. Count the units
	// of the rebuilt prefix instead of adding len(inserted).
	var prefix []Unit
	appendUnits(&prefix, fromUnits(next[:caret+len(inserted)]))
	return s.Clamp(len(prefix))
}

// DeleteRange removes the units in [from, to). Reversed bounds are swapped.
func (s *Surface) DeleteRange(from, to int) {
	if from > to {
		from, to = to, from
	}
	units := s.units()
	from = clamp(from, 0, len(units))
	to = clamp(to, 0, len(units))
	if from == to {
		return
	}

	next := make([]Unit, 0, len(units)-(to-from))
	next = append(next, units[:from]...)
	next = append(next, units[to:]...)
	s.nodes = fromUnits(next)
}

// Replace removes [from, to) and inserts units built from segs in its place.
// Returns the caret after the inserted content.
func (s *Surface) Replace(from, to int, segs []segment.Segment) int {
	if from > to {
		from, to = to, from
	}
	s.DeleteRange(from, to)
	var inserted []Unit
	appendUnits(&inserted, Render(segs).nodes)
	return s.insertUnits(from, inserted)
}

// RunStart returns the caret at which the text run containing caret begins:
// the position just after the nearest preceding chip or line break.
func (s *Surface) RunStart(caret int) int {
	units := s.units()
	caret = clamp(caret, 0, len(units))
	i := caret
	for i > 0 && units[i-1].Kind == UnitText {
		i--
	}
	return i
}

// TextBefore returns the text of the run preceding caret, from RunStart to
// caret. NBSP is reported as-is.
func (s *Surface) TextBefore(caret int) string {
	units := s.units()
	caret = clamp(caret, 0, len(units))
	var b strings.Builder
	start := caret
	for start > 0 && units[start-1].Kind == UnitText {
		start--
	}
	for _, u := range units[start:caret] {
		b.WriteString(u.Text)
	}
	return b.String()
}

// LineStart returns the caret at the start of the line containing caret.
func (s *Surface) LineStart(caret int) int {
	units := s.units()
	caret = clamp(caret, 0, len(units))
	for caret > 0 && units[caret-1].Kind != UnitBreak {
		caret--
	}
	return caret
}

// LineEnd returns the caret at the end of the line containing caret.
func (s *Surface) LineEnd(caret int) int {
	units := s.units()
	caret = clamp(caret, 0, len(units))
	for caret < len(units) && units[caret].Kind != UnitBreak {
		caret++
	}
	return caret
}

// canonicalLen is the rune length a unit occupies in canonical text.
func canonicalLen(u Unit) int {
	switch u.Kind {
	case UnitChip:
		return utf8.RuneCountInString(segment.OpenMarker + u.Name + segment.CloseMarker)
	case UnitBreak:
		return 1
	default:
		return utf8.RuneCountInString(u.Text)
	}
}

// CaretToCanonical converts a caret to a rune offset into the canonical text.
func (s *Surface) CaretToCanonical(caret int) int {
	units := s.units()
	caret = clamp(caret, 0, len(units))
	off := 0
	for _, u := range units[:caret] {
		off += canonicalLen(u)
	}
	return off
}

// CanonicalToCaret converts a rune offset into the canonical text to a caret.
// Offsets that fall strictly inside a token (or a multi-rune grapheme) snap
// to the boundary after it.
func (s *Surface) CanonicalToCaret(offset int) int {
	if offset <= 0 {
		return 0
	}
	units := s.units()
	pos := 0
	for i, u := range units {
		if pos >= offset {
			return i
		}
		pos += canonicalLen(u)
	}
	return len(units)
}
