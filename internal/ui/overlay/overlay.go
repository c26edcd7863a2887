// Package overlay composites popup content on top of an already rendered
// view, preserving the ANSI styling of both.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position selects how the foreground is placed.
type Position int

const (
	// Center places the foreground in the middle of the viewport.
	Center Position = iota
	// Anchored places the foreground just below the anchor cell, or above it
	// when there is not enough room below.
	Anchored
	// Bottom centers the foreground horizontally, PadY rows above the
	// bottom edge.
	Bottom
)

// Config controls placement.
type Config struct {
	Width    int
	Height   int
	Position Position

	// AnchorX and AnchorY are the cell the popup attaches to (Anchored only).
	AnchorX int
	AnchorY int

	// PadY is the gap below the foreground (Bottom only).
	PadY int
}

// Rect is the area the foreground occupies.
type Rect struct {
	X, Y          int
	Width, Height int
	Above         bool // placed above the anchor
}

// Bounds computes where fg would be placed without rendering it.
func Bounds(cfg Config, fg string) Rect {
	w := lipgloss.Width(fg)
	h := lipgloss.Height(fg)
	r := Rect{Width: w, Height: h}

	switch cfg.Position {
	case Anchored:
		r.X = cfg.AnchorX
		r.Y = cfg.AnchorY + 1
		if r.Y+h > cfg.Height && cfg.AnchorY-h >= 0 {
			r.Y = cfg.AnchorY - h
			r.Above = true
		}
		if r.X+w > cfg.Width {
			r.X = cfg.Width - w
		}
	case Bottom:
		r.X = (cfg.Width - w) / 2
		r.Y = cfg.Height - h - cfg.PadY
	default:
		r.X = (cfg.Width - w) / 2
		r.Y = (cfg.Height - h) / 2
	}

	r.X = max(r.X, 0)
	r.Y = max(r.Y, 0)
	return r
}

// Place renders fg over bg and returns the composite.
func Place(cfg Config, fg, bg string) string {
	out, _ := PlaceRect(cfg, fg, bg)
	return out
}

// PlaceRect is Place that also reports where fg landed.
func PlaceRect(cfg Config, fg, bg string) (string, Rect) {
	r := Bounds(cfg, fg)
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < cfg.Height || len(bgLines) < r.Y+r.Height {
		bgLines = append(bgLines, "")
	}

	for i, line := range strings.Split(fg, "\n") {
		y := r.Y + i
		bgLines[y] = splice(bgLines[y], line, r.X)
	}
	return strings.Join(bgLines, "\n"), r
}

// splice overwrites bg starting at cell x with fg.
func splice(bg, fg string, x int) string {
	left := ansi.Truncate(bg, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	end := x + ansi.StringWidth(fg)
	var right string
	if end < ansi.StringWidth(bg) {
		right = ansi.TruncateLeft(bg, end, "")
	}
	return left + fg + right
}
