package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, EnsureMetaTables(context.Background(), db))
	return db
}

func TestUpsertAndReadRowCount(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, UpsertTableRowCount(ctx, db, "events", 1000))
	count, err := TableRowCount(ctx, db, "events")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), count)

	require.NoError(t, UpsertTableRowCount(ctx, db, "events", 2500))
	count, err = TableRowCount(ctx, db, "events")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), count)
}

func TestTableRowCountFallsBackToDirectCount(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`CREATE TABLE things (id INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO things VALUES (1),(2),(3)`)
	require.NoError(t, err)

	count, err := TableRowCount(ctx, db, "things")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestListTablesHidesInternals(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`CREATE TABLE sales (id INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE users (id INTEGER)`)
	require.NoError(t, err)

	tables, err := ListTables(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"sales", "users"}, tables)
}
