package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/hpungsan/strindex/internal/analysis"
	"github.com/hpungsan/strindex/internal/errors"
	"github.com/hpungsan/strindex/internal/filter"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.Error{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const selectColumns = `SELECT id, value, created_at, properties_json FROM strings`

// Insert stores a new record. A second insert of the same value fails with
// ErrUniqueConstraint because the id is the value's hash.
func Insert(ctx context.Context, db Execer, rec *analysis.Record) error {
	propsJSON, err := json.Marshal(rec.Properties)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO strings (
			id, value, created_at, properties_json,
			length, is_palindrome, word_count, unique_characters
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	p := rec.Properties
	_, err = db.ExecContext(ctx, query,
		rec.ID, rec.Value, rec.CreatedAt.UnixNano(), string(propsJSON),
		p.Length, boolToInt(p.IsPalindrome), p.WordCount, p.UniqueCharacters,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByID retrieves a record by its id.
// Returns a NOT_FOUND error carrying the id when no row exists.
func GetByID(ctx context.Context, db *sql.DB, id string) (*analysis.Record, error) {
	row := db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rec, nil
}

// DeleteByID removes a record. Returns false if nothing was deleted.
func DeleteByID(ctx context.Context, db *sql.DB, id string) (bool, error) {
	result, err := db.ExecContext(ctx, "DELETE FROM strings WHERE id = ?", id)
	if err != nil {
		return false, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return rowsAffected > 0, nil
}

// List returns every record matching f, newest first. Insertion order
// breaks ties between records created in the same instant.
// f is assumed to have passed Validate.
func List(ctx context.Context, db *sql.DB, f *filter.Filter) ([]*analysis.Record, error) {
	where, args := buildWhere(f)

	query := selectColumns + where + " ORDER BY created_at DESC, rowid DESC"
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	records := make([]*analysis.Record, 0)
	for rows.Next() {
		rec, err := ScanRecordFromRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return records, nil
}

// Count returns the number of stored records.
func Count(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM strings").Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// StreamForExport returns rows matching f for streaming export, in the same
// order as List. Caller must close rows.
func StreamForExport(ctx context.Context, db *sql.DB, f *filter.Filter) (*sql.Rows, error) {
	where, args := buildWhere(f)
	rows, err := db.QueryContext(ctx, selectColumns+where+" ORDER BY created_at DESC, rowid DESC", args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// buildWhere compiles a filter into a WHERE clause. Every predicate is a
// bound parameter.
func buildWhere(f *filter.Filter) (string, []any) {
	if f.IsEmpty() {
		return "", nil
	}

	var conds []string
	var args []any

	if f.IsPalindrome != nil {
		conds = append(conds, "is_palindrome = ?")
		args = append(args, boolToInt(*f.IsPalindrome))
	}
	if f.MinLength != nil {
		conds = append(conds, "length >= ?")
		args = append(args, *f.MinLength)
	}
	if f.MaxLength != nil {
		conds = append(conds, "length <= ?")
		args = append(args, *f.MaxLength)
	}
	if f.WordCount != nil {
		conds = append(conds, "word_count = ?")
		args = append(args, *f.WordCount)
	}
	if c := f.Contains(); c != "" {
		// instr is case-sensitive and treats LIKE metacharacters literally
		conds = append(conds, "instr(value, ?) > 0")
		args = append(args, c)
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a single row into a Record.
func scanRecord(row *sql.Row) (*analysis.Record, error) {
	return scanInto(row)
}

// ScanRecordFromRows scans the current row of rows into a Record.
func ScanRecordFromRows(rows *sql.Rows) (*analysis.Record, error) {
	return scanInto(rows)
}

func scanInto(s scanner) (*analysis.Record, error) {
	var (
		rec       analysis.Record
		createdAt int64
		propsJSON string
	)
	if err := s.Scan(&rec.ID, &rec.Value, &createdAt, &propsJSON); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(propsJSON), &rec.Properties); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
