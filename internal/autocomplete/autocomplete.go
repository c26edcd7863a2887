// Package autocomplete filters the placeholder catalog against a mention
// query and tracks the highlighted candidate.
package autocomplete

import (
	"context"
	"strings"
	"time"

	"github.com/zjrosen/mergefield/internal/cachemanager"
	"github.com/zjrosen/mergefield/internal/catalog"
	"github.com/zjrosen/mergefield/internal/log"
)

// Source supplies the descriptors offered in a mode.
type Source interface {
	ForMode(mode string) []catalog.Descriptor
}

const filterTTL = 5 * time.Minute

// filterKey identifies a memoized filter result.
type filterKey string

type filterInput struct {
	mode  string
	query string
}

// Controller owns the candidate list and selection for one editor.
type Controller struct {
	source   Source
	mode     string
	query    string
	items    []catalog.Descriptor
	selected int

	cache  *cachemanager.InMemoryCacheManager[filterKey, []catalog.Descriptor]
	filter *cachemanager.ReadThroughCache[filterKey, []catalog.Descriptor, filterInput]
}

// New creates a controller over source filtered by mode.
func New(source Source, mode string) *Controller {
	c := &Controller{
		source: source,
		mode:   mode,
		cache: cachemanager.NewInMemoryCacheManager[filterKey, []catalog.Descriptor](
			"autocomplete", filterTTL, cachemanager.DefaultCleanupInterval),
	}
	c.filter = cachemanager.NewReadThroughCache[filterKey, []catalog.Descriptor, filterInput](c.cache, c.compute, false)
	c.refresh()
	return c
}

// Filter returns the descriptors whose name contains query, ignoring case.
// An empty query returns descriptors unchanged.
func Filter(descriptors []catalog.Descriptor, query string) []catalog.Descriptor {
	out := make([]catalog.Descriptor, 0, len(descriptors))
	if query == "" {
		return append(out, descriptors...)
	}
	q := strings.ToLower(query)
	for _, d := range descriptors {
		if strings.Contains(strings.ToLower(d.Name), q) {
			out = append(out, d)
		}
	}
	return out
}

func (c *Controller) compute(_ context.Context, in filterInput) ([]catalog.Descriptor, error) {
	return Filter(c.source.ForMode(in.mode), in.query), nil
}

// refresh recomputes the list and keeps the selection only while in bounds.
func (c *Controller) refresh() {
	key := filterKey(c.mode + "\x00" + c.query)
	items, _ := c.filter.Get(context.Background(), key, filterInput{mode: c.mode, query: c.query}, filterTTL)
	c.items = items
	if c.selected >= len(c.items) || c.selected < 0 {
		c.selected = 0
	}
}

// SetQuery re-filters for query.
func (c *Controller) SetQuery(query string) {
	if query == c.query && c.items != nil {
		return
	}
	c.query = query
	c.refresh()
}

// Query returns the current query.
func (c *Controller) Query() string {
	return c.query
}

// Reset clears the query and selection.
func (c *Controller) Reset() {
	c.query = ""
	c.selected = 0
	c.refresh()
}

// SetMode switches the catalog mode and re-filters.
func (c *Controller) SetMode(mode string) {
	if mode == c.mode {
		return
	}
	log.Debug(log.CatCatalog, "autocomplete mode changed", "from", c.mode, "to", mode)
	c.mode = mode
	c.refresh()
}

// Mode returns the current catalog mode.
func (c *Controller) Mode() string {
	return c.mode
}

// SetSource replaces the catalog and drops memoized results.
func (c *Controller) SetSource(source Source) {
	c.source = source
	_ = c.filter.Invalidate(context.Background())
	c.refresh()
}

// Candidates returns a copy of the filtered list.
func (c *Controller) Candidates() []catalog.Descriptor {
	out := make([]catalog.Descriptor, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of candidates.
func (c *Controller) Len() int {
	return len(c.items)
}

// Selected returns the highlighted index, or -1 when the list is empty.
func (c *Controller) Selected() int {
	if len(c.items) == 0 {
		return -1
	}
	return c.selected
}

// Select highlights index if it is in range.
func (c *Controller) Select(index int) {
	if index >= 0 && index < len(c.items) {
		c.selected = index
	}
}

// Next moves the highlight down, wrapping to the first candidate.
func (c *Controller) Next() {
	if len(c.items) == 0 {
		return
	}
	c.selected = (c.selected + 1) % len(c.items)
}

// Previous moves the highlight up, wrapping to the last candidate.
func (c *Controller) Previous() {
	if len(c.items) == 0 {
		return
	}
	c.selected = (c.selected - 1 + len(c.items)) % len(c.items)
}

// Commit returns the candidate at index. ok is false when index is out of
// range, including any index on an empty list.
func (c *Controller) Commit(index int) (catalog.Descriptor, bool) {
	if index < 0 || index >= len(c.items) {
		return catalog.Descriptor{}, false
	}
	return c.items[index], true
}
