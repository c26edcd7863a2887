package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/mergefield/internal/drafts"
	"github.com/zjrosen/mergefield/internal/segment"
)

// draftColumns selects a draft with its head revision.
const draftColumns = `d.id, d.name, d.mode, d.created_at, d.updated_at,
	COALESCE(r.number, 0), COALESCE(r.value, '')`

const draftFrom = ` FROM drafts d
	LEFT JOIN revisions r ON r.draft_id = d.id
		AND r.number = (SELECT MAX(number) FROM revisions WHERE draft_id = d.id)`

const revisionColumns = `id, draft_id, number, value, tokens, created_at`

// draftRepository implements drafts.Repository using SQLite.
type draftRepository struct {
	db *DB
}

func newDraftRepository(db *DB) *draftRepository {
	return &draftRepository{db: db}
}

var _ drafts.Repository = (*draftRepository)(nil)

func scanDraft(scanner interface{ Scan(...any) error }) (*DraftModel, error) {
	var m DraftModel
	err := scanner.Scan(&m.ID, &m.Name, &m.Mode, &m.CreatedAt, &m.UpdatedAt, &m.Head, &m.Value)
	return &m, err
}

func scanRevision(scanner interface{ Scan(...any) error }) (*RevisionModel, error) {
	var m RevisionModel
	err := scanner.Scan(&m.ID, &m.DraftID, &m.Number, &m.Value, &m.Tokens, &m.CreatedAt)
	return &m, err
}

// Create inserts a draft row.
func (r *draftRepository) Create(ctx context.Context, d *drafts.Draft) error {
	m := toDraftModel(d)
	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO drafts (id, name, mode, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Mode, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert draft: %w", err)
	}
	return nil
}

// FindByName retrieves a draft and its head value.
func (r *draftRepository) FindByName(ctx context.Context, name string) (*drafts.Draft, error) {
	row := r.db.conn.QueryRowContext(ctx, `SELECT `+draftColumns+draftFrom+` WHERE d.name = ?`, name)
	m, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &drafts.NotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find draft: %w", err)
	}
	return m.toDomain(), nil
}

// List returns drafts, most recently updated first.
func (r *draftRepository) List(ctx context.Context, filter drafts.ListFilter) ([]*drafts.Draft, error) {
	query := `SELECT ` + draftColumns + draftFrom
	var args []any
	if filter.Mode != "" {
		query += ` WHERE d.mode = ?`
		args = append(args, filter.Mode)
	}
	query += ` ORDER BY d.updated_at DESC, d.name`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*drafts.Draft
	for rows.Next() {
		m, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		out = append(out, m.toDomain())
	}
	return out, rows.Err()
}

// AddRevision appends the next revision in one transaction.
func (r *draftRepository) AddRevision(ctx context.Context, draftID, value string, at time.Time) (*drafts.Revision, error) {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var head int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number), 0) FROM revisions WHERE draft_id = ?`, draftID,
	).Scan(&head); err != nil {
		return nil, fmt.Errorf("failed to read head revision: %w", err)
	}

	m := &RevisionModel{
		DraftID:   draftID,
		Number:    head + 1,
		Value:     value,
		Tokens:    len(segment.Names(segment.Parse(value))),
		CreatedAt: at.UnixMilli(),
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO revisions (draft_id, number, value, tokens, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.DraftID, m.Number, m.Value, m.Tokens, m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert revision: %w", err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE drafts SET updated_at = ? WHERE id = ?`, m.CreatedAt, draftID,
	); err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

// Revisions returns all revisions, oldest first.
func (r *draftRepository) Revisions(ctx context.Context, draftID string) ([]*drafts.Revision, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT `+revisionColumns+` FROM revisions WHERE draft_id = ? ORDER BY number`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*drafts.Revision
	for rows.Next() {
		m, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		out = append(out, m.toDomain())
	}
	return out, rows.Err()
}

// Revision returns one revision.
func (r *draftRepository) Revision(ctx context.Context, draftID string, number int) (*drafts.Revision, error) {
	row := r.db.conn.QueryRowContext(ctx,
		`SELECT `+revisionColumns+` FROM revisions WHERE draft_id = ? AND number = ?`, draftID, number)
	m, err := scanRevision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &drafts.NotFoundError{Name: draftID, Revision: number}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find revision: %w", err)
	}
	return m.toDomain(), nil
}

// Delete removes a draft; revisions cascade.
func (r *draftRepository) Delete(ctx context.Context, name string) error {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM drafts WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &drafts.NotFoundError{Name: name}
	}
	return nil
}

// Close closes the database.
func (r *draftRepository) Close() error {
	return r.db.Close()
}
