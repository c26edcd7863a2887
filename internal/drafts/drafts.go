// Package drafts defines saved template drafts and their revision history.
//
// The package is storage agnostic: Repository is implemented by
// internal/infrastructure/sqlite, and Service layers canonicalization,
// logging and tracing on top of it.
package drafts

import (
	"context"
	"fmt"
	"time"
)

// Draft is a named template. Head and Value describe its newest revision.
type Draft struct {
	ID        string
	Name      string
	Mode      string
	Head      int // newest revision number, 0 before the first save
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Revision is one saved canonical value of a draft. Numbers start at 1 and
// increase by one per save.
type Revision struct {
	ID        int64
	DraftID   string
	Number    int
	Value     string
	CreatedAt time.Time
}

// ListFilter narrows List results.
type ListFilter struct {
	// Mode keeps only drafts saved in this mode. Empty keeps all.
	Mode string

	// Limit caps the result count. 0 means no limit.
	Limit int
}

// Repository persists drafts.
type Repository interface {
	// Create inserts a new draft with no revisions. The draft's ID,
	// CreatedAt and UpdatedAt are set by the caller.
	Create(ctx context.Context, d *Draft) error

	// FindByName returns the draft with its head value.
	// Returns NotFoundError if no draft has that name.
	FindByName(ctx context.Context, name string) (*Draft, error)

	// List returns drafts ordered by most recently updated first.
	List(ctx context.Context, filter ListFilter) ([]*Draft, error)

	// AddRevision appends value as the next revision of the draft and bumps
	// the draft's UpdatedAt.
	AddRevision(ctx context.Context, draftID, value string, at time.Time) (*Revision, error)

	// Revisions returns all revisions of a draft, oldest first.
	Revisions(ctx context.Context, draftID string) ([]*Revision, error)

	// Revision returns one revision by number.
	// Returns NotFoundError if it does not exist.
	Revision(ctx context.Context, draftID string, number int) (*Revision, error)

	// Delete removes a draft and its revisions.
	// Returns NotFoundError if no draft has that name.
	Delete(ctx context.Context, name string) error

	// Close releases any resources held by the repository.
	Close() error
}

// NotFoundError is returned when a draft or revision does not exist.
type NotFoundError struct {
	Name     string
	Revision int // 0 when the draft itself is missing
}

func (e *NotFoundError) Error() string {
	if e.Revision != 0 {
		return fmt.Sprintf("draft %q has no revision %d", e.Name, e.Revision)
	}
	return fmt.Sprintf("draft %q not found", e.Name)
}
