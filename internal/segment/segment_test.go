package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	segs := []Segment{Literal("Hi "), Token("first_name"), Literal("!")}
	require.Equal(t, "Hi {{first_name}}!", Serialize(segs))
	require.Equal(t, "", Serialize(nil))
}

func TestNormalize_MergesAndDropsEmpty(t *testing.T) {
	in := []Segment{Literal("a"), Literal(""), Literal("b"), Token("x"), Literal(""), Literal("c"), Literal("d")}

	got := Normalize(in)

	require.Equal(t, []Segment{Literal("ab"), Token("x"), Literal("cd")}, got)
	require.Len(t, in, 7, "input must not be modified")
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(nil))
	require.NoError(t, Validate([]Segment{Literal("a"), Token("b"), Literal("c")}))

	err := Validate([]Segment{Literal("a"), Literal("b")})
	require.Error(t, err)
	var inv *InvariantError
	require.ErrorAs(t, err, &inv)
	require.Equal(t, 1, inv.Index)
	require.Contains(t, err.Error(), "adjacent literals")

	require.Error(t, Validate([]Segment{Literal("")}))
	require.Error(t, Validate([]Segment{Token("bad name")}))
}

func TestNames(t *testing.T) {
	segs := Parse("{{a}} and {{b}} and {{a}}")
	require.Equal(t, []string{"a", "b", "a"}, Names(segs))
	require.Nil(t, Names(Parse("no tokens")))
}

func TestSubstitute(t *testing.T) {
	segs := Parse("Hi {{first_name}} from {{company}}")

	got := Substitute(segs, map[string]string{"first_name": "Ada"}, nil)
	require.Equal(t, "Hi Ada from {{company}}", got)

	got = Substitute(segs, map[string]string{"first_name": "Ada"}, strings.ToUpper)
	require.Equal(t, "Hi Ada from COMPANY", got)
}

func TestRecords(t *testing.T) {
	recs := Records([]Segment{Literal("a"), Token("b")})
	require.Equal(t, []Record{{Kind: "literal", Text: "a"}, {Kind: "token", Name: "b"}}, recs)
}
