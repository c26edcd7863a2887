package surface

import "github.com/mattn/go-runewidth"

// Point is a cell position relative to the top-left of the rendered surface.
type Point struct {
	X int
	Y int
}

// Layout measures rendered widths of units.
type Layout struct {
	// ChipWidth returns the display width of a rendered chip.
	// Nil uses the canonical {{name}} width.
	ChipWidth func(name string) int

	// Wrap is the maximum line width in cells. 0 disables wrapping.
	Wrap int
}

func (l Layout) unitWidth(u Unit) int {
	switch u.Kind {
	case UnitChip:
		if l.ChipWidth != nil {
			return l.ChipWidth(u.Name)
		}
		return len(u.Name) + 4
	case UnitText:
		return runewidth.StringWidth(u.Text)
	default:
		return 0
	}
}

// Locate returns the cell position of the caret. Units never straddle a
// wrap boundary: a unit that does not fit moves to the next row.
func (l Layout) Locate(s *Surface, caret int) Point {
	units := s.units()
	caret = clamp(caret, 0, len(units))

	var p Point
	for _, u := range units[:caret] {
		if u.Kind == UnitBreak {
			p.X = 0
			p.Y++
			continue
		}
		w := l.unitWidth(u)
		if l.Wrap > 0 && p.X > 0 && p.X+w > l.Wrap {
			p.X = 0
			p.Y++
		}
		p.X += w
	}
	if l.Wrap > 0 && p.X >= l.Wrap {
		p.X = 0
		p.Y++
	}
	return p
}
