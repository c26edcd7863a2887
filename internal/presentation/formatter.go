package presentation

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by NewFormatter.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	format string
}

// NewFormatter creates a formatter for format, "json" or "yaml".
// Empty defaults to JSON.
func NewFormatter(writer io.Writer, format string) (*Formatter, error) {
	switch format {
	case "":
		format = FormatJSON
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
	return &Formatter{writer: writer, format: format}, nil
}

// FormatParse formats the segments of one template.
func (f *Formatter) FormatParse(result ParseDTO) error {
	return f.encode(result)
}

// FormatLint formats lint results for one or more templates.
func (f *Formatter) FormatLint(results []LintDTO) error {
	return f.encode(results)
}

// FormatCatalog formats placeholder descriptors.
func (f *Formatter) FormatCatalog(entries []DescriptorDTO) error {
	return f.encode(entries)
}

// FormatDrafts formats a draft listing.
func (f *Formatter) FormatDrafts(drafts []DraftDTO) error {
	return f.encode(drafts)
}

// FormatRevisions formats a draft's history.
func (f *Formatter) FormatRevisions(revisions []RevisionDTO) error {
	return f.encode(revisions)
}

// FormatDiff formats a revision diff.
func (f *Formatter) FormatDiff(diff DiffDTO) error {
	return f.encode(diff)
}

func (f *Formatter) encode(v any) error {
	if f.format == FormatYAML {
		encoder := yaml.NewEncoder(f.writer)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	}
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
