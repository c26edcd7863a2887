// Package segment defines the canonical representation of a templated string:
// an ordered sequence of literal runs and named placeholder tokens.
//
// The canonical string form uses {{name}} for each token. A sequence is kept
// in normal form (no two adjacent literals, no empty literals) so that every
// string has exactly one segment representation.
package segment

import (
	"fmt"
	"strings"
)

// Kind discriminates the two segment variants.
type Kind int

const (
	// KindLiteral is an opaque run of characters, possibly with line breaks.
	KindLiteral Kind = iota
	// KindToken is a named placeholder.
	KindToken
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindToken:
		return "token"
	default:
		return "unknown"
	}
}

// Marker strings delimiting a token in canonical text.
const (
	OpenMarker  = "{{"
	CloseMarker = "}}"
)

// Segment is either a Literal (Text set) or a Token (Name set).
type Segment struct {
	Kind Kind
	Text string // literal text, KindLiteral only
	Name string // placeholder name, KindToken only
}

// Literal returns a literal segment.
func Literal(text string) Segment {
	return Segment{Kind: KindLiteral, Text: text}
}

// Token returns a token segment.
func Token(name string) Segment {
	return Segment{Kind: KindToken, Name: name}
}

// IsToken reports whether s is a token.
func (s Segment) IsToken() bool { return s.Kind == KindToken }

// IsLiteral reports whether s is a literal.
func (s Segment) IsLiteral() bool { return s.Kind == KindLiteral }

// String returns the canonical text of the single segment.
func (s Segment) String() string {
	if s.Kind == KindToken {
		return OpenMarker + s.Name + CloseMarker
	}
	return s.Text
}

// Serialize concatenates segments into canonical text.
func Serialize(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.String())
	}
	return b.String()
}

// Normalize merges adjacent literals and drops empty ones.
// The input slice is not modified.
func Normalize(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if s.Kind == KindLiteral {
			if s.Text == "" {
				continue
			}
			if n := len(out); n > 0 && out[n-1].Kind == KindLiteral {
				out[n-1].Text += s.Text
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// InvariantError reports a sequence that is not in normal form.
type InvariantError struct {
	Index  int
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("segment %d: %s", e.Index, e.Reason)
}

// Validate checks the normal form invariants: no adjacent literals, no empty
// literals and only identifier token names.
func Validate(segs []Segment) error {
	for i, s := range segs {
		switch s.Kind {
		case KindLiteral:
			if s.Text == "" {
				return &InvariantError{Index: i, Reason: "empty literal"}
			}
			if i > 0 && segs[i-1].Kind == KindLiteral {
				return &InvariantError{Index: i, Reason: "adjacent literals"}
			}
		case KindToken:
			if !IsIdentifier(s.Name) {
				return &InvariantError{Index: i, Reason: fmt.Sprintf("invalid token name %q", s.Name)}
			}
		default:
			return &InvariantError{Index: i, Reason: "unknown kind"}
		}
	}
	return nil
}

// Equal reports whether two sequences are identical.
func Equal(a, b []Segment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Names returns the token names in order of appearance, duplicates included.
func Names(segs []Segment) []string {
	var names []string
	for _, s := range segs {
		if s.Kind == KindToken {
			names = append(names, s.Name)
		}
	}
	return names
}

// Substitute replaces every token with values[name]. Tokens without a value
// are passed to fallback; a nil fallback keeps the canonical {{name}} form.
func Substitute(segs []Segment, values map[string]string, fallback func(name string) string) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Kind != KindToken {
			b.WriteString(s.Text)
			continue
		}
		if v, ok := values[s.Name]; ok {
			b.WriteString(v)
			continue
		}
		if fallback != nil {
			b.WriteString(fallback(s.Name))
			continue
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Record is the serializable view of a segment used by reporting output.
type Record struct {
	Kind string `yaml:"kind" json:"kind"`
	Text string `yaml:"text,omitempty" json:"text,omitempty"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

// Records converts segments into their serializable view.
func Records(segs []Segment) []Record {
	out := make([]Record, 0, len(segs))
	for _, s := range segs {
		out = append(out, Record{Kind: s.Kind.String(), Text: s.Text, Name: s.Name})
	}
	return out
}
