package markdown

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/mergefield/internal/segment"
)

func TestMerge(t *testing.T) {
	segs := segment.Parse("Hi {{first_name}}, from {{company}}")
	got := Merge(segs, map[string]string{"first_name": "Ada"}, nil)
	require.Equal(t, "Hi Ada, from `{{company}}`", got)
}

func TestPreview(t *testing.T) {
	r, err := New(60, StyleNoTTY)
	require.NoError(t, err)
	require.Equal(t, 60, r.Width())

	out, err := r.Preview("# Hello {{first_name}}\n\nWelcome to **{{company}}**.", map[string]string{
		"first_name": "Ada",
		"company":    "Acme",
	}, nil)
	require.NoError(t, err)

	text := ansi.Strip(out)
	require.Contains(t, text, "Hello Ada")
	require.Contains(t, text, "Acme")
	require.NotContains(t, text, "{{")
}

func TestPreview_MissingValueKept(t *testing.T) {
	r, err := New(60, StyleNoTTY)
	require.NoError(t, err)

	out, err := r.Preview("Hi {{nobody}}", nil, nil)
	require.NoError(t, err)
	require.Contains(t, ansi.Strip(out), "{{nobody}}")
}

func TestMerge_Fallback(t *testing.T) {
	segs := segment.Parse("Hi {{first_name}}")
	got := Merge(segs, nil, func(name string) string { return "<" + name + ">" })
	require.Equal(t, `Hi \<first_name\>`, got)
}

func TestPreview_FallbackShownAsText(t *testing.T) {
	r, err := New(60, "notty")
	require.NoError(t, err)

	out, err := r.Preview("Hi {{first_name}}", nil, func(string) string { return "<First name>" })
	require.NoError(t, err)
	require.Contains(t, ansi.Strip(out), "<First name>")
}

func TestNew_UnknownStyle(t *testing.T) {
	_, err := New(60, "sepia")
	require.Error(t, err)
}
