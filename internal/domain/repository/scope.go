package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gamestore/internal/common"
)

// notDeleted is the soft-delete predicate for users and games. Every default
// read of those tables goes through it so removed rows never leak into
// results.
func notDeleted(alias string) string {
	if alias == "" {
		return "deleted_at IS NULL"
	}
	return alias + ".deleted_at IS NULL"
}

type rowScanner interface {
	Scan(dest ...any) error
}

// expectAffected turns a zero-row UPDATE/DELETE into notFound.
func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// collect drains rows through scan.
func collect[T any](rows *sql.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func queryList[T any](ctx context.Context, db *sql.DB, op string, scan func(rowScanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	items, err := collect(rows, scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func noRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func notFound(message string) error {
	return common.NewError(common.ErrNotFound, message)
}

func conflict(message string) error {
	return common.NewError(common.ErrConflict, message)
}
