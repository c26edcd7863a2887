package surface

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/mergefield/internal/segment"
)

// foreignNode stands in for a node type the bridge does not know.
type foreignNode struct{}

func (foreignNode) isNode() {}

// ============================================================================
// Render / Extract
// ============================================================================

func TestRender(t *testing.T) {
	s := Render(segment.Parse("Hi {{name}},\nbye"))

	require.Equal(t, []Node{
		Text{Value: "Hi "},
		Chip{Name: "name"},
		Text{Value: ","},
		LineBreak{},
		Text{Value: "bye"},
	}, s.Nodes())
}

func TestRender_Empty(t *testing.T) {
	s := Render(nil)
	require.Empty(t, s.Nodes())
	require.Equal(t, 0, s.Len())
	require.Empty(t, Extract(s))
}

func TestExtract_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"{{a}}{{b}}",
		"Hello {{name}} ",
		"line\n\n{{x}}\n",
		"Hello {{ world",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got := segment.Serialize(Extract(Render(segment.Parse(in))))
			require.Equal(t, in, got)
		})
	}
}

// TestExtract_MergesSplitTextNodes verifies split text nodes and line breaks
// collapse into a single literal.
func TestExtract_MergesSplitTextNodes(t *testing.T) {
	s := New(Text{Value: "a"}, Text{Value: "b"}, LineBreak{}, Text{Value: "c"}, Chip{Name: "x"})

	got := Extract(s)

	require.Equal(t, []segment.Segment{segment.Literal("ab\nc"), segment.Token("x")}, got)
	require.NoError(t, segment.Validate(got))
}

func TestExtract_NormalizesNBSP(t *testing.T) {
	s := New(Chip{Name: "name"}, Text{Value: NBSP + "there"})
	require.Equal(t, "{{name}} there", segment.Serialize(Extract(s)))
}

func TestExtract_Blocks(t *testing.T) {
	s := New(
		Text{Value: "first"},
		Block{Children: []Node{Text{Value: "second"}, Chip{Name: "x"}}},
		Block{Children: []Node{LineBreak{}}},
		Block{Children: []Node{Text{Value: "fourth"}}},
	)

	require.Equal(t, "first\nsecond{{x}}\n\nfourth", segment.Serialize(Extract(s)))
}

func TestExtract_LeadingBlockAddsNoBreak(t *testing.T) {
	s := New(Block{Children: []Node{Text{Value: "only"}}})
	require.Equal(t, "only", segment.Serialize(Extract(s)))
}

func TestExtract_UnknownNodeIsEmptyLiteral(t *testing.T) {
	s := New(Text{Value: "a"}, foreignNode{}, Text{Value: "b"})

	got := Extract(s)

	require.Equal(t, []segment.Segment{segment.Literal("ab")}, got)
}

// TestFlatten_MatchesExtract verifies reconciling structure keeps the value.
func TestFlatten_MatchesExtract(t *testing.T) {
	s := New(
		Text{Value: "a"},
		Block{Children: []Node{Chip{Name: "x"}, Text{Value: "b"}}},
		foreignNode{},
	)
	before := segment.Serialize(Extract(s))

	s.Flatten()

	require.Equal(t, before, segment.Serialize(Extract(s)))
	require.Equal(t, []Node{Text{Value: "a"}, LineBreak{}, Chip{Name: "x"}, Text{Value: "b"}}, s.Nodes())
}

// ============================================================================
// Editing
// ============================================================================

func TestInsertText(t *testing.T) {
	s := Render(segment.Parse("Hi {{name}}"))

	caret := s.InsertText(3, "dear ")

	require.Equal(t, 8, caret)
	require.Equal(t, "Hi dear {{name}}", segment.Serialize(Extract(s)))
}

func TestInsertText_Newline(t *testing.T) {
	s := Render(segment.Parse("ab"))

	caret := s.InsertText(1, "x\ny")

	require.Equal(t, 4, caret)
	require.Equal(t, "ax\nyb", segment.Serialize(Extract(s)))
}

func TestInsertChip(t *testing.T) {
	s := Render(segment.Parse("Hello "))

	caret := s.InsertChip(6, "name")
	caret = s.InsertText(caret, NBSP)

	require.Equal(t, 8, caret)
	require.Equal(t, "Hello {{name}} ", segment.Serialize(Extract(s)))
}

func TestDeleteRange(t *testing.T) {
	s := Render(segment.Parse("a{{x}}bc"))

	s.DeleteRange(3, 1)

	require.Equal(t, "ac", segment.Serialize(Extract(s)))
	require.Equal(t, []Node{Text{Value: "ac"}}, s.Nodes())
}

func TestDeleteRange_OutOfBoundsIsClamped(t *testing.T) {
	s := Render(segment.Parse("abc"))
	s.DeleteRange(-5, 1)
	require.Equal(t, "bc", segment.Serialize(Extract(s)))
	s.DeleteRange(2, 99)
	require.Equal(t, "bc", segment.Serialize(Extract(s)))
}

func TestReplace(t *testing.T) {
	s := Render(segment.Parse("Hello @nam"))

	caret := s.Replace(6, 10, []segment.Segment{segment.Token("name"), segment.Literal(NBSP)})

	require.Equal(t, 8, caret)
	require.Equal(t, "Hello {{name}} ", segment.Serialize(Extract(s)))
}

func TestGraphemeUnits(t *testing.T) {
	s := Render(segment.Parse("é👍🏽x"))
	require.Equal(t, 3, s.Len())

	s.DeleteRange(1, 2)
	require.Equal(t, "éx", segment.Serialize(Extract(s)))
}

func TestInsertText_CombiningMarkJoinsPreviousGrapheme(t *testing.T) {
	tests := []struct {
		name  string
		value string
		caret int
		text  string
		want  string
		after int
		len   int
	}{
		{"accent at end", "cafe", 4, "\u0301", "cafe\u0301", 4, 4},
		{"accent mid run", "ab", 1, "\u0301", "a\u0301b", 1, 2},
		{"skin tone modifier", "hi 👍", 4, "🏽", "hi 👍🏽", 4, 4},
		{"zero width joiner", "x", 1, "\u200d", "x\u200d", 1, 1},
		{"accent after chip", "{{name}}", 1, "\u0301", "{{name}}\u0301", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Render(segment.Parse(tt.value))

			caret := s.InsertText(tt.caret, tt.text)

			require.Equal(t, tt.want, segment.Serialize(Extract(s)))
			require.Equal(t, tt.after, caret)
			require.Equal(t, tt.len, s.Len())
			require.LessOrEqual(t, caret, s.Len())
		})
	}
}

func TestTextBefore(t *testing.T) {
	s := Render(segment.Parse("ab{{x}}cd @qu\nef"))

	require.Equal(t, "", s.TextBefore(0))
	require.Equal(t, "ab", s.TextBefore(2))
	require.Equal(t, "", s.TextBefore(3))
	require.Equal(t, "cd @qu", s.TextBefore(9))
	require.Equal(t, "e", s.TextBefore(11))
	require.Equal(t, 10, s.RunStart(11))
}

func TestLineBounds(t *testing.T) {
	s := Render(segment.Parse("ab\ncd{{x}}"))

	require.Equal(t, 0, s.LineStart(2))
	require.Equal(t, 2, s.LineEnd(1))
	require.Equal(t, 3, s.LineStart(5))
	require.Equal(t, 6, s.LineEnd(3))
}

func TestCanonicalOffsets(t *testing.T) {
	s := Render(segment.Parse("{{first}} and {{second}}"))

	require.Equal(t, 2, s.CanonicalToCaret(10))
	require.Equal(t, 10, s.CaretToCanonical(2))
	require.Equal(t, 0, s.CanonicalToCaret(0))
	require.Equal(t, 1, s.CanonicalToCaret(4), "inside a token snaps after it")
	require.Equal(t, s.Len(), s.CanonicalToCaret(999))
	require.Equal(t, 24, s.CaretToCanonical(s.Len()))
}

// ============================================================================
// Layout
// ============================================================================

func TestLocate(t *testing.T) {
	s := Render(segment.Parse("ab{{x}}c\nde"))
	l := Layout{ChipWidth: func(name string) int { return len(name) + 2 }}

	require.Equal(t, Point{X: 0, Y: 0}, l.Locate(s, 0))
	require.Equal(t, Point{X: 5, Y: 0}, l.Locate(s, 3))
	require.Equal(t, Point{X: 6, Y: 0}, l.Locate(s, 4))
	require.Equal(t, Point{X: 1, Y: 1}, l.Locate(s, 6))
}

func TestLocate_Wrap(t *testing.T) {
	s := Render(segment.Parse("abcd{{xy}}"))
	l := Layout{ChipWidth: func(name string) int { return len(name) + 2 }, Wrap: 6}

	require.Equal(t, Point{X: 4, Y: 0}, l.Locate(s, 4))
	require.Equal(t, Point{X: 4, Y: 1}, l.Locate(s, 5), "chip wraps whole")
}

func TestLocate_WideRunes(t *testing.T) {
	s := Render(segment.Parse("日本"))
	require.Equal(t, Point{X: 4, Y: 0}, Layout{}.Locate(s, 2))
}

// ============================================================================
// Properties
// ============================================================================

// TestEdits_PreserveMergeInvariant applies random edits and checks the
// extracted sequence always stays in normal form.
func TestEdits_PreserveMergeInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Render(segment.Parse(rapid.StringMatching(`[a-c {}\n]{0,12}`).Draw(t, "initial")))
		steps := rapid.IntRange(1, 20).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			caret := rapid.IntRange(0, s.Len()).Draw(t, "caret")
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				s.InsertText(caret, rapid.StringMatching(`[a-c @]{1,3}`).Draw(t, "text"))
			case 1:
				s.InsertChip(caret, rapid.StringMatching(`[a-z]{1,4}`).Draw(t, "name"))
			case 2:
				s.InsertLineBreak(caret)
			case 3:
				s.DeleteRange(caret, rapid.IntRange(0, s.Len()).Draw(t, "to"))
			}
			if err := segment.Validate(Extract(s)); err != nil {
				t.Fatalf("invariant violated after step %d: %v", i, err)
			}
		}
	})
}
