// Package repository holds the generic row-mapping and transaction helpers
// shared by the SQL-backed stores.
package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// DB is the statement surface common to *sql.DB, *sql.Tx, and *sql.Conn.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc decodes the current row into a T.
type ScanFunc[T any] func(Scanner) (T, error)

// WithTx runs fn inside a transaction on db. The transaction commits when
// fn succeeds and rolls back otherwise.
func WithTx[T any](ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) (T, error)) (result T, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if result, err = fn(tx); err != nil {
		return result, err
	}
	if err = tx.Commit(); err != nil {
		return result, fmt.Errorf("commit transaction: %w", err)
	}
	return result, nil
}

// QueryOne scans the first row of query. A missing row surfaces as sql.ErrNoRows.
func QueryOne[T any](ctx context.Context, db DB, query string, args []any, scan ScanFunc[T]) (T, error) {
	return scan(db.QueryRowContext(ctx, query, args...))
}

// QueryMany scans every row of query. No rows yields an empty, non-nil slice.
func QueryMany[T any](ctx context.Context, db DB, query string, args []any, scan ScanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ExecExpectOne runs a statement that must touch exactly one row.
// Zero affected rows is reported as sql.ErrNoRows.
func ExecExpectOne(ctx context.Context, db DB, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
