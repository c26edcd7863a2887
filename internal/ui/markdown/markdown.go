// Package markdown renders a merged template as styled terminal markdown, the
// way the message will read once placeholders are filled in.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/mergefield/internal/segment"
)

// noMarginStyle removes document margins so the preview lines up with the
// editor frame.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Styles accepted by New besides "auto".
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// Renderer renders previews at a fixed width.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer. An empty style means auto detection.
func New(width int, style string) (*Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "", StyleAuto:
		opts = append(opts, glamour.WithAutoStyle())
	case StyleDark, StyleLight, StyleNoTTY:
		opts = append(opts, glamour.WithStandardStyle(style))
	default:
		return nil, fmt.Errorf("unknown preview style %q", style)
	}
	opts = append(opts, glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)))

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// Merge fills placeholders with sample values. Placeholders without a value
// go through fallback; a nil fallback shows them as inline code so they stand
// out in the preview.
//
// Angle brackets in fallback output are escaped so "<First name>" is shown
// as text instead of being parsed as an inline HTML tag.
func Merge(segs []segment.Segment, values map[string]string, fallback func(name string) string) string {
	fill := func(name string) string {
		return "`" + segment.Token(name).String() + "`"
	}
	if fallback != nil {
		fill = func(name string) string {
			return angleEscaper.Replace(fallback(name))
		}
	}
	return segment.Substitute(segs, values, fill)
}

var angleEscaper = strings.NewReplacer("<", `\<`, ">", `\>`)

// Preview merges canonical text with sample values and renders it.
func (r *Renderer) Preview(canonical string, values map[string]string, fallback func(name string) string) (string, error) {
	out, err := r.Render(Merge(segment.Parse(canonical), values, fallback))
	if err != nil {
		return "", fmt.Errorf("rendering preview: %w", err)
	}
	return out, nil
}
