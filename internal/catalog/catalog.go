// Package catalog holds the read-only list of placeholder descriptors offered
// by the editor, with optional per-mode exclusions.
package catalog

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/mergefield/internal/log"
	"github.com/zjrosen/mergefield/internal/segment"
)

// Descriptor describes one available placeholder.
type Descriptor struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ModeConfig restricts the descriptors offered in a mode.
type ModeConfig struct {
	Exclude []string `yaml:"exclude"`
}

// file is the on-disk YAML layout.
type file struct {
	Placeholders []Descriptor         `yaml:"placeholders"`
	Modes        map[string]ModeConfig `yaml:"modes"`
}

// Catalog is an ordered, immutable set of descriptors.
type Catalog struct {
	entries []Descriptor
	index   map[string]int
	modes   map[string]map[string]bool
}

// New builds a catalog. Entry order is preserved; modes maps a mode name to
// the descriptor names it excludes.
func New(entries []Descriptor, modes map[string][]string) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Descriptor, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
		modes:   make(map[string]map[string]bool, len(modes)),
	}
	for i, d := range entries {
		if !segment.IsIdentifier(d.Name) {
			return nil, fmt.Errorf("placeholder %d: invalid name %q (must match [A-Za-z0-9_]+)", i, d.Name)
		}
		if _, dup := c.index[d.Name]; dup {
			return nil, fmt.Errorf("placeholder %d: duplicate name %q", i, d.Name)
		}
		c.index[d.Name] = len(c.entries)
		c.entries = append(c.entries, d)
	}
	for mode, excluded := range modes {
		set := make(map[string]bool, len(excluded))
		for _, name := range excluded {
			if _, ok := c.index[name]; !ok {
				return nil, fmt.Errorf("mode %q: excludes unknown placeholder %q", mode, name)
			}
			set[name] = true
		}
		c.modes[mode] = set
	}
	return c, nil
}

// MustNew is New that panics on error, for static catalogs.
func MustNew(entries []Descriptor, modes map[string][]string) *Catalog {
	c, err := New(entries, modes)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse reads a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	modes := make(map[string][]string, len(f.Modes))
	for name, m := range f.Modes {
		modes[name] = m.Exclude
	}
	return New(f.Placeholders, modes)
}

// Load reads a catalog file. An empty path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied catalog path
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info(log.CatCatalog, "catalog loaded", "path", path, "entries", c.Len())
	return c, nil
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns all descriptors in catalog order.
func (c *Catalog) Entries() []Descriptor {
	out := make([]Descriptor, len(c.entries))
	copy(out, c.entries)
	return out
}

// Modes returns the configured mode names.
func (c *Catalog) Modes() []string {
	out := make([]string, 0, len(c.modes))
	for m := range c.modes {
		out = append(out, m)
	}
	return out
}

// ForMode returns the descriptors offered in mode, in catalog order.
// Unknown or empty modes offer everything.
func (c *Catalog) ForMode(mode string) []Descriptor {
	excluded := c.modes[mode]
	out := make([]Descriptor, 0, len(c.entries))
	for _, d := range c.entries {
		if excluded[d.Name] {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Lookup returns the descriptor for name.
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	i, ok := c.index[name]
	if !ok {
		return Descriptor{}, false
	}
	return c.entries[i], true
}

// Unknown returns the distinct token names in segs that the catalog does not
// define, in order of first appearance.
func (c *Catalog) Unknown(segs []segment.Segment) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range segment.Names(segs) {
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, ok := c.index[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// Excluded returns the distinct known token names in segs that mode does not
// offer, in order of first appearance.
func (c *Catalog) Excluded(segs []segment.Segment, mode string) []string {
	excluded := c.modes[mode]
	if len(excluded) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, name := range segment.Names(segs) {
		if seen[name] || !excluded[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Marshal renders the catalog in its YAML file format.
func (c *Catalog) Marshal() ([]byte, error) {
	f := file{Placeholders: c.Entries(), Modes: make(map[string]ModeConfig, len(c.modes))}
	for mode, set := range c.modes {
		var names []string
		for _, d := range c.entries {
			if set[d.Name] {
				names = append(names, d.Name)
			}
		}
		f.Modes[mode] = ModeConfig{Exclude: names}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return nil, fmt.Errorf("marshaling catalog: %w", err)
	}
	_ = enc.Close()
	return buf.Bytes(), nil
}

// Fallback renders name for previews that have no sample value: the
// description in angle brackets, or the bare name when it is unknown or
// undescribed.
func (c *Catalog) Fallback(name string) string {
	if d, ok := c.Lookup(name); ok && d.Description != "" {
		return "<" + d.Description + ">"
	}
	return "<" + name + ">"
}
