// Package testutil provides test helpers for the draft store.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/mergefield/internal/infrastructure/sqlite"
)

// NewTestDB opens a migrated in-memory database that is closed when the test
// ends.
func NewTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
