package presentation

import (
	"time"

	"github.com/zjrosen/mergefield/internal/catalog"
	"github.com/zjrosen/mergefield/internal/drafts"
	"github.com/zjrosen/mergefield/internal/revdiff"
	"github.com/zjrosen/mergefield/internal/segment"
)

// ParseDTO is the parsed form of one template.
type ParseDTO struct {
	Source       string           `json:"source,omitempty" yaml:"source,omitempty"`
	Canonical    string           `json:"canonical" yaml:"canonical"`
	Segments     []segment.Record `json:"segments" yaml:"segments"`
	Placeholders []string         `json:"placeholders" yaml:"placeholders"`
	Unknown      []string         `json:"unknown" yaml:"unknown"`
}

// FromSegments builds a ParseDTO, checking names against cat.
func FromSegments(source string, segs []segment.Segment, cat *catalog.Catalog) ParseDTO {
	return ParseDTO{
		Source:       source,
		Canonical:    segment.Serialize(segs),
		Segments:     segment.Records(segs),
		Placeholders: nonNil(segment.Names(segs)),
		Unknown:      nonNil(cat.Unknown(segs)),
	}
}

// LintDTO reports unknown placeholders in one template.
type LintDTO struct {
	Source   string   `json:"source" yaml:"source"`
	OK       bool     `json:"ok" yaml:"ok"`
	Unknown  []string `json:"unknown" yaml:"unknown"`
	Excluded []string `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}

// Lint checks the names in segs against cat for mode.
func Lint(source string, segs []segment.Segment, cat *catalog.Catalog, mode string) LintDTO {
	unknown := nonNil(cat.Unknown(segs))
	excluded := cat.Excluded(segs, mode)
	return LintDTO{
		Source:   source,
		OK:       len(unknown) == 0 && len(excluded) == 0,
		Unknown:  unknown,
		Excluded: excluded,
	}
}

// DescriptorDTO is one catalog entry.
type DescriptorDTO struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// FromDescriptors converts catalog entries.
func FromDescriptors(entries []catalog.Descriptor) []DescriptorDTO {
	out := make([]DescriptorDTO, len(entries))
	for i, d := range entries {
		out[i] = DescriptorDTO{Name: d.Name, Description: d.Description}
	}
	return out
}

// DraftDTO is a draft with its head value.
type DraftDTO struct {
	Name      string    `json:"name" yaml:"name"`
	Mode      string    `json:"mode,omitempty" yaml:"mode,omitempty"`
	Head      int       `json:"head" yaml:"head"`
	Value     string    `json:"value" yaml:"value"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// FromDrafts converts drafts.
func FromDrafts(list []*drafts.Draft) []DraftDTO {
	out := make([]DraftDTO, len(list))
	for i, d := range list {
		out[i] = DraftDTO{
			Name:      d.Name,
			Mode:      d.Mode,
			Head:      d.Head,
			Value:     d.Value,
			UpdatedAt: d.UpdatedAt.UTC(),
		}
	}
	return out
}

// RevisionDTO is one saved revision.
type RevisionDTO struct {
	Number    int       `json:"number" yaml:"number"`
	Value     string    `json:"value" yaml:"value"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// FromRevisions converts revisions.
func FromRevisions(list []*drafts.Revision) []RevisionDTO {
	out := make([]RevisionDTO, len(list))
	for i, r := range list {
		out[i] = RevisionDTO{Number: r.Number, Value: r.Value, CreatedAt: r.CreatedAt.UTC()}
	}
	return out
}

// ChangeDTO is one diff run.
type ChangeDTO struct {
	Op   string `json:"op" yaml:"op"`
	Text string `json:"text" yaml:"text"`
}

// DiffDTO is a diff between two canonical values.
type DiffDTO struct {
	Changes []ChangeDTO `json:"changes" yaml:"changes"`
	Added   []string    `json:"added_placeholders" yaml:"added_placeholders"`
	Removed []string    `json:"removed_placeholders" yaml:"removed_placeholders"`
}

// FromDiff builds a DiffDTO from two values and their changes.
func FromDiff(before, after string, changes []revdiff.Change) DiffDTO {
	added, removed := revdiff.Placeholders(before, after)
	dto := DiffDTO{
		Changes: make([]ChangeDTO, len(changes)),
		Added:   nonNil(added),
		Removed: nonNil(removed),
	}
	for i, c := range changes {
		dto.Changes[i] = ChangeDTO{Op: c.Op.String(), Text: c.Text}
	}
	return dto
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
