package autocomplete

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/mergefield/internal/catalog"
)

func testCatalog() *catalog.Catalog {
	return catalog.MustNew([]catalog.Descriptor{
		{Name: "first_name", Description: "First"},
		{Name: "last_name", Description: "Last"},
		{Name: "company", Description: "Company"},
		{Name: "Nickname", Description: "Nick"},
		{Name: "unsubscribe_link", Description: "Unsub"},
	}, map[string][]string{
		"subject": {"unsubscribe_link"},
	})
}

func names(ds []catalog.Descriptor) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Name
	}
	return out
}

func TestFilter(t *testing.T) {
	all := testCatalog().Entries()

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"first_name", "last_name", "company", "Nickname", "unsubscribe_link"}},
		{"nam", []string{"first_name", "last_name", "Nickname"}},
		{"NAM", []string{"first_name", "last_name", "Nickname"}},
		{"comp", []string{"company"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			require.Equal(t, tt.want, names(Filter(all, tt.query)))
		})
	}
}

func TestController_EmptyQueryIsModeFilteredCatalog(t *testing.T) {
	c := New(testCatalog(), "subject")
	require.Equal(t, []string{"first_name", "last_name", "company", "Nickname"}, names(c.Candidates()))
	require.Equal(t, 0, c.Selected())
}

func TestController_NextPreviousWrap(t *testing.T) {
	c := New(testCatalog(), "")
	k := c.Len()

	c.Previous()
	require.Equal(t, k-1, c.Selected())
	c.Next()
	require.Equal(t, 0, c.Selected())

	for i := 0; i < k; i++ {
		c.Next()
	}
	require.Equal(t, 0, c.Selected())
}

func TestController_NextWrapsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := New(testCatalog(), "")
		start := rapid.IntRange(0, c.Len()-1).Draw(t, "start")
		c.Select(start)
		for i := 0; i < c.Len(); i++ {
			c.Next()
		}
		if c.Selected() != start {
			t.Fatalf("selected %d after %d nexts, want %d", c.Selected(), c.Len(), start)
		}
	})
}

func TestController_SelectionPreservedWhileInBounds(t *testing.T) {
	c := New(testCatalog(), "")
	c.Next()
	c.Next()
	require.Equal(t, 2, c.Selected())

	c.SetQuery("n")
	require.Equal(t, 2, c.Selected(), "still in bounds")

	c.SetQuery("nam")
	require.Equal(t, 3, c.Len())
	require.Equal(t, 2, c.Selected())

	c.SetQuery("comp")
	require.Equal(t, 0, c.Selected(), "out of bounds resets to 0")
}

func TestController_EmptyListCommitIsNoop(t *testing.T) {
	c := New(testCatalog(), "")
	c.SetQuery("zzz")

	require.Equal(t, 0, c.Len())
	require.Equal(t, -1, c.Selected())

	c.Next()
	c.Previous()
	_, ok := c.Commit(0)
	require.False(t, ok)
}

func TestController_Commit(t *testing.T) {
	c := New(testCatalog(), "")
	c.SetQuery("nam")

	d, ok := c.Commit(1)
	require.True(t, ok)
	require.Equal(t, "last_name", d.Name)

	_, ok = c.Commit(3)
	require.False(t, ok)
	_, ok = c.Commit(-1)
	require.False(t, ok)
}

func TestController_SetModeAndSource(t *testing.T) {
	c := New(testCatalog(), "")
	require.Equal(t, 5, c.Len())

	c.SetMode("subject")
	require.Equal(t, "subject", c.Mode())
	require.Equal(t, 4, c.Len())

	c.SetSource(catalog.MustNew([]catalog.Descriptor{{Name: "only"}}, nil))
	require.Equal(t, []string{"only"}, names(c.Candidates()))
}

func TestController_Reset(t *testing.T) {
	c := New(testCatalog(), "")
	c.SetQuery("comp")
	c.Reset()
	require.Equal(t, "", c.Query())
	require.Equal(t, 5, c.Len())
	require.Equal(t, 0, c.Selected())
}
