// Package storage keeps lightweight engine metadata in SQLite: per-table row
// counts used by the HTTP surface and the seed tooling. Samples and sketches
// are query-scoped and never persisted.
package storage

import (
	"context"
	"database/sql"
)

// EnsureMetaTables creates the metadata tables if they do not exist.
func EnsureMetaTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS aqe_table_stats (
        table_name TEXT PRIMARY KEY,
        row_count INTEGER DEFAULT 0,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    )`)
	return err
}

// UpsertTableRowCount sets the row_count for a table.
func UpsertTableRowCount(ctx context.Context, db *sql.DB, table string, count int64) error {
	_, err := db.ExecContext(ctx, `INSERT INTO aqe_table_stats(table_name,row_count,updated_at)
        VALUES(?,?,CURRENT_TIMESTAMP)
        ON CONFLICT(table_name) DO UPDATE SET row_count=excluded.row_count, updated_at=CURRENT_TIMESTAMP`,
		table, count)
	return err
}

// TableRowCount returns the recorded row count for a table, falling back to a
// direct COUNT(*) when no stats row exists.
func TableRowCount(ctx context.Context, db *sql.DB, table string) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `SELECT row_count FROM aqe_table_stats WHERE table_name = ?`, table).Scan(&count)
	if err == nil {
		return count, nil
	}
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
	return count, err
}

// ListTables returns the user tables in the database, excluding SQLite
// internals and the engine's own metadata.
func ListTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master
        WHERE type='table' AND name NOT LIKE 'sqlite_%' AND name NOT LIKE 'aqe_%' ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
