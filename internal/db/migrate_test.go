package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openRaw(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	database := openRaw(t)
	require.NoError(t, Migrate(database))

	for _, table := range []string{
		"users", "kid_profiles", "milestone_tasks", "teams",
		"team_members", "access_requests", "questions",
		"user_responses", "blog_posts", "blog_comments",
	} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	database := openRaw(t)
	require.NoError(t, Migrate(database))
	require.NoError(t, Migrate(database))
}

func TestMigrate_StatusConstraint(t *testing.T) {
	database := openRaw(t)
	require.NoError(t, Migrate(database))

	_, err := database.Exec(`INSERT INTO milestone_tasks
		(id, record_type, kid_profile_id, title, status, created_at, updated_at)
		VALUES ('m1', 'MILESTONE', 'k1', 'T', 'BOGUS', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err)
}
