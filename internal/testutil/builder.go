package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/mergefield/internal/drafts"
)

// Builder accumulates drafts and inserts them through a repository.
type Builder struct {
	t      *testing.T
	repo   drafts.Repository
	drafts []draftData
}

// NewBuilder creates a builder for repo.
func NewBuilder(t *testing.T, repo drafts.Repository) *Builder {
	t.Helper()
	return &Builder{t: t, repo: repo}
}

// WithDraft adds a draft with optional configuration.
func (b *Builder) WithDraft(name string, opts ...DraftOption) *Builder {
	d := defaultDraft(name)
	for _, opt := range opts {
		opt(&d)
	}
	b.drafts = append(b.drafts, d)
	return b
}

// Build inserts all accumulated drafts and their revisions.
func (b *Builder) Build() {
	b.t.Helper()
	ctx := context.Background()
	for _, d := range b.drafts {
		require.NoError(b.t, b.repo.Create(ctx, &drafts.Draft{
			ID:        d.id,
			Name:      d.name,
			Mode:      d.mode,
			CreatedAt: d.createdAt,
			UpdatedAt: d.createdAt,
		}))
		for i, v := range d.revisions {
			at := d.createdAt.Add(time.Duration(i+1) * d.step)
			_, err := b.repo.AddRevision(ctx, d.id, v, at)
			require.NoError(b.t, err)
		}
	}
}
