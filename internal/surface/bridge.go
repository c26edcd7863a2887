package surface

import (
	"strings"

	"github.com/zjrosen/mergefield/internal/segment"
)

// Render builds a fresh surface from segments. Tokens become chips, literal
// line breaks become LineBreak nodes and the text between them Text nodes.
func Render(segs []segment.Segment) *Surface {
	nodes := make([]Node, 0, len(segs))
	for _, seg := range segs {
		if seg.IsToken() {
			nodes = append(nodes, Chip{Name: seg.Name})
			continue
		}
		lines := strings.Split(seg.Text, "\n")
		for i, line := range lines {
			if line != "" {
				nodes = append(nodes, Text{Value: line})
			}
			if i < len(lines)-1 {
				nodes = append(nodes, LineBreak{})
			}
		}
	}
	return &Surface{nodes: nodes}
}

// Extract walks the surface depth-first and returns the normalized segment
// sequence it represents. Unknown node types contribute an empty literal.
func Extract(s *Surface) []segment.Segment {
	var (
		out        []segment.Segment
		hasContent bool
	)
	extractNodes(s.nodes, &out, &hasContent)
	return segment.Normalize(out)
}

func extractNodes(nodes []Node, out *[]segment.Segment, hasContent *bool) {
	for _, n := range nodes {
		switch v := n.(type) {
		case Chip:
			*out = append(*out, segment.Token(v.Name))
			*hasContent = true
		case Text:
			if v.Value == "" {
				continue
			}
			*out = append(*out, segment.Literal(strings.ReplaceAll(v.Value, NBSP, " ")))
			*hasContent = true
		case LineBreak:
			*out = append(*out, segment.Literal("\n"))
			*hasContent = true
		case Block:
			if *hasContent {
				*out = append(*out, segment.Literal("\n"))
			}
			extractNodes(blockChildren(v), out, hasContent)
		default:
			*out = append(*out, segment.Literal(""))
		}
	}
}
