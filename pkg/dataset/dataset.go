// Package dataset holds the in-memory row model and the loaders that fill it
// from CSV files or SQLite tables.
package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Row is one record: field name to text value. Values are written once by a
// loader and only read afterwards.
type Row map[string]string

// Get returns the value for a field and whether it is present.
func (r Row) Get(field string) (string, bool) {
	v, ok := r[field]
	return v, ok
}

// FromCSV reads header-prefixed CSV into rows. Short data lines are tolerated;
// missing trailing fields are simply absent from the row.
func FromCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FromCSVFile loads a CSV file from disk.
func FromCSVFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()
	return FromCSV(f)
}

// FromTable scans every row of a SQLite table into memory. All column values
// are read as text; NULLs become empty strings.
func FromTable(ctx context.Context, db *sql.DB, table string) ([]Row, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", table))
	if err != nil {
		return nil, fmt.Errorf("scan table %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if vals[i].Valid {
				row[c] = vals[i].String
			} else {
				row[c] = ""
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
