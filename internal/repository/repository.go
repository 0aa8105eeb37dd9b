// Package repository handles all interactions with the database.
//
// It contains the fixed, parameterized SQL statements the gateway is
// allowed to run and projects their result sets into JSON-ready rows.
// Every statement is built once, at construction, for the configured
// match mode.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DBTX is the subset of *pgxpool.Pool the repositories use.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// query runs a statement and collects all rows.
func query(ctx context.Context, db DBTX, name, sql string, args ...any) ([]Row, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}

	result, err := collectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}

	return result, nil
}
