package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/mergefield/internal/drafts"
)

func newTestRepo(t *testing.T) drafts.Repository {
	t.Helper()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	repo := db.DraftRepository()
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func createDraft(t *testing.T, repo drafts.Repository, id, name, mode string, at time.Time) *drafts.Draft {
	t.Helper()
	d := &drafts.Draft{ID: id, Name: name, Mode: mode, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, repo.Create(context.Background(), d))
	return d
}

func TestDraftRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	at := time.UnixMilli(1_700_000_000_000)
	createDraft(t, repo, "id-1", "welcome", "subject", at)

	d, err := repo.FindByName(ctx, "welcome")
	require.NoError(t, err)
	require.Equal(t, "id-1", d.ID)
	require.Equal(t, "subject", d.Mode)
	require.Zero(t, d.Head)
	require.Empty(t, d.Value)
	require.True(t, at.Equal(d.CreatedAt))

	_, err = repo.FindByName(ctx, "missing")
	var nf *drafts.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "missing", nf.Name)
}

func TestDraftRepository_DuplicateName(t *testing.T) {
	repo := newTestRepo(t)
	createDraft(t, repo, "id-1", "welcome", "", time.Now())
	err := repo.Create(context.Background(), &drafts.Draft{ID: "id-2", Name: "welcome"})
	require.Error(t, err)
}

func TestDraftRepository_Revisions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	at := time.UnixMilli(1_000)
	createDraft(t, repo, "id-1", "welcome", "", at)

	r1, err := repo.AddRevision(ctx, "id-1", "Hi {{first_name}}", at.Add(time.Second))
	require.NoError(t, err)
	require.Equal(t, 1, r1.Number)
	r2, err := repo.AddRevision(ctx, "id-1", "Hello {{first_name}} {{company}}", at.Add(2*time.Second))
	require.NoError(t, err)
	require.Equal(t, 2, r2.Number)

	d, err := repo.FindByName(ctx, "welcome")
	require.NoError(t, err)
	require.Equal(t, 2, d.Head)
	require.Equal(t, "Hello {{first_name}} {{company}}", d.Value)
	require.True(t, at.Add(2*time.Second).Equal(d.UpdatedAt))

	revs, err := repo.Revisions(ctx, "id-1")
	require.NoError(t, err)
	require.Len(t, revs, 2)
	require.Equal(t, "Hi {{first_name}}", revs[0].Value)

	got, err := repo.Revision(ctx, "id-1", 1)
	require.NoError(t, err)
	require.Equal(t, r1.ID, got.ID)

	_, err = repo.Revision(ctx, "id-1", 3)
	var nf *drafts.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, 3, nf.Revision)
}

func TestDraftRepository_RevisionTokenCount(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	createDraft(t, repo, "id-1", "welcome", "", time.Now())
	_, err := repo.AddRevision(ctx, "id-1", "{{a}} {{b}} {{a}}", time.Now())
	require.NoError(t, err)

	var tokens int
	conn := repo.(*draftRepository).db.conn
	require.NoError(t, conn.QueryRow("SELECT tokens FROM revisions").Scan(&tokens))
	require.Equal(t, 3, tokens)
}

func TestDraftRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	base := time.UnixMilli(10_000)
	createDraft(t, repo, "a", "alpha", "subject", base)
	createDraft(t, repo, "b", "beta", "", base.Add(time.Second))
	createDraft(t, repo, "c", "gamma", "subject", base.Add(2*time.Second))

	// Saving alpha makes it the most recent.
	_, err := repo.AddRevision(ctx, "a", "v1", base.Add(time.Minute))
	require.NoError(t, err)

	all, err := repo.List(ctx, drafts.ListFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "gamma", "beta"}, names(all))
	require.Equal(t, "v1", all[0].Value)

	subject, err := repo.List(ctx, drafts.ListFilter{Mode: "subject", Limit: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"alpha"}, names(subject))
}

func TestDraftRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	createDraft(t, repo, "id-1", "welcome", "", time.Now())
	_, err := repo.AddRevision(ctx, "id-1", "x", time.Now())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "welcome"))
	revs, err := repo.Revisions(ctx, "id-1")
	require.NoError(t, err)
	require.Empty(t, revs)

	var nf *drafts.NotFoundError
	require.ErrorAs(t, repo.Delete(ctx, "welcome"), &nf)
}

func names(ds []*drafts.Draft) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Name
	}
	return out
}
