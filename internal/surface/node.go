// Package surface provides the editable, structured projection of a segment
// sequence: chips for tokens, text runs for literals and explicit line breaks.
//
// The surface is addressed by caret units. Each grapheme cluster of text is
// one unit, each chip is one unit and each line break is one unit. A caret is
// an integer in [0, Len()] naming the gap before that unit.
package surface

import (
	"strings"

	"github.com/rivo/uniseg"
)

// NBSP is the separator inserted after a committed chip. Extraction maps it
// back to a regular space.
const NBSP = "\u00a0"

// Node is an element of the structured surface.
type Node interface {
	isNode()
}

// Text is an editable run of literal characters.
type Text struct {
	Value string
}

// Chip is the atomic, non-editable rendering of a token.
type Chip struct {
	Name string
}

// LineBreak is an explicit line break inside literal content.
type LineBreak struct{}

// Block groups nodes produced by a structural split (a new paragraph or line
// container). It renders as a line break followed by its children.
type Block struct {
	Children []Node
}

func (Text) isNode()      {}
func (Chip) isNode()      {}
func (LineBreak) isNode() {}
func (Block) isNode()     {}

// UnitKind identifies what occupies a caret unit.
type UnitKind int

const (
	UnitText UnitKind = iota
	UnitChip
	UnitBreak
)

// Unit is a single caret-addressable element.
type Unit struct {
	Kind UnitKind
	Text string // grapheme cluster, UnitText only
	Name string // chip name, UnitChip only
}

// IsSeparator reports whether the unit is a space or NBSP text unit.
func (u Unit) IsSeparator() bool {
	return u.Kind == UnitText && (u.Text == " " || u.Text == NBSP)
}

// Surface is the structured editing surface.
type Surface struct {
	nodes []Node
}

// New creates a surface holding the given nodes as-is. Nested blocks and
// unknown nodes are reconciled on the first edit.
func New(nodes ...Node) *Surface {
	return &Surface{nodes: nodes}
}

// Nodes returns the current node list. The slice must not be modified.
func (s *Surface) Nodes() []Node {
	return s.nodes
}

// Clone returns a deep copy of the surface.
func (s *Surface) Clone() *Surface {
	return &Surface{nodes: cloneNodes(s.nodes)}
}

func cloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if b, ok := n.(Block); ok {
			out[i] = Block{Children: cloneNodes(b.Children)}
			continue
		}
		out[i] = n
	}
	return out
}

// Flatten reconciles structural nodes: blocks become line breaks followed by
// their children, unknown nodes are dropped and adjacent text nodes merge.
func (s *Surface) Flatten() {
	s.nodes = fromUnits(s.units())
}

// Len returns the number of caret units.
func (s *Surface) Len() int {
	return len(s.units())
}

// Units returns the flattened unit list.
func (s *Surface) Units() []Unit {
	return s.units()
}

// UnitAt returns the unit at index i.
func (s *Surface) UnitAt(i int) (Unit, bool) {
	units := s.units()
	if i < 0 || i >= len(units) {
		return Unit{}, false
	}
	return units[i], true
}

// units flattens the node tree into caret units.
func (s *Surface) units() []Unit {
	var out []Unit
	appendUnits(&out, s.nodes)
	return out
}

func appendUnits(out *[]Unit, nodes []Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case Text:
			appendGraphemes(out, v.Value)
		case Chip:
			*out = append(*out, Unit{Kind: UnitChip, Name: v.Name})
		case LineBreak:
			*out = append(*out, Unit{Kind: UnitBreak})
		case Block:
			if len(*out) > 0 {
				*out = append(*out, Unit{Kind: UnitBreak})
			}
			appendUnits(out, blockChildren(v))
		}
	}
}

// blockChildren treats a block holding only a line break as an empty line.
func blockChildren(b Block) []Node {
	if len(b.Children) == 1 {
		if _, ok := b.Children[0].(LineBreak); ok {
			return nil
		}
	}
	return b.Children
}

func appendGraphemes(out *[]Unit, text string) {
	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.StepString(text, state)
		if cluster == "\n" || cluster == "\r\n" {
			*out = append(*out, Unit{Kind: UnitBreak})
			continue
		}
		*out = append(*out, Unit{Kind: UnitText, Text: cluster})
	}
}

// fromUnits rebuilds a flat node list, merging consecutive text units.
func fromUnits(units []Unit) []Node {
	nodes := make([]Node, 0, len(units))
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, Text{Value: text.String()})
			text.Reset()
		}
	}
	for _, u := range units {
		switch u.Kind {
		case UnitText:
			text.WriteString(u.Text)
		case UnitChip:
			flush()
			nodes = append(nodes, Chip{Name: u.Name})
		case UnitBreak:
			flush()
			nodes = append(nodes, LineBreak{})
		}
	}
	flush()
	return nodes
}
