package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hsaleh/murajaa/internal/db"
)

// NewTestDB creates an in-memory sqlite database with all migrations applied.
// The single-connection cap in db.Open keeps the in-memory database alive for
// the test's duration.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, database.Close())
	})
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}
