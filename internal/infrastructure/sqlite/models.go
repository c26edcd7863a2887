package sqlite

import (
	"time"

	"github.com/zjrosen/mergefield/internal/drafts"
)

// DraftModel is a drafts row joined with its head revision. Times are Unix
// milliseconds.
type DraftModel struct {
	ID        string
	Name      string
	Mode      string
	CreatedAt int64
	UpdatedAt int64
	Head      int
	Value     string
}

// RevisionModel is a revisions row.
type RevisionModel struct {
	ID        int64
	DraftID   string
	Number    int
	Value     string
	Tokens    int
	CreatedAt int64
}

func toDraftModel(d *drafts.Draft) *DraftModel {
	return &DraftModel{
		ID:        d.ID,
		Name:      d.Name,
		Mode:      d.Mode,
		CreatedAt: d.CreatedAt.UnixMilli(),
		UpdatedAt: d.UpdatedAt.UnixMilli(),
		Head:      d.Head,
		Value:     d.Value,
	}
}

func (m *DraftModel) toDomain() *drafts.Draft {
	return &drafts.Draft{
		ID:        m.ID,
		Name:      m.Name,
		Mode:      m.Mode,
		Head:      m.Head,
		Value:     m.Value,
		CreatedAt: time.UnixMilli(m.CreatedAt),
		UpdatedAt: time.UnixMilli(m.UpdatedAt),
	}
}

func (m *RevisionModel) toDomain() *drafts.Revision {
	return &drafts.Revision{
		ID:        m.ID,
		DraftID:   m.DraftID,
		Number:    m.Number,
		Value:     m.Value,
		CreatedAt: time.UnixMilli(m.CreatedAt),
	}
}
