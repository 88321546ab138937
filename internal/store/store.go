// Package store provides read access to the catalog tables and insert-only
// access to leads. It never updates or deletes rows and never generates
// entity identifiers; the database owns both.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/steelab-tech/mcp-agent/internal/catalog"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("store: not found")

// Store provides access to the PostgreSQL catalog database.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by the given database connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanRecords reads all rows into column-name keyed records. Queries use
// SELECT * so the sanitizer sees exactly what the table holds.
func scanRecords(rows *sql.Rows) ([]catalog.Record, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []catalog.Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(catalog.Record, len(cols))
		for i, col := range cols {
			rec[col] = normalizeValue(vals[i])
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// scanRecord reads exactly one row, mapping an empty result to ErrNotFound.
func scanRecord(rows *sql.Rows, err error) (catalog.Record, error) {
	if err != nil {
		return nil, err
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

// normalizeValue maps driver values onto JSON-friendly Go types. The pgx
// stdlib driver returns text as string and jsonb as []byte, so a byte slice
// is decoded as JSON when possible and kept as a string otherwise.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		var decoded any
		if json.Unmarshal(val, &decoded) == nil {
			return decoded
		}
		return string(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return v
	}
}
