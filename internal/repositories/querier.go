package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// dateColumn selects a DATE column as YYYY-MM-DD text under its own name.
func dateColumn(column string) string {
	return "to_char(" + column + ", 'YYYY-MM-DD') AS " + column
}

// nullableDate turns an optional YYYY-MM-DD string into a query argument.
func nullableDate(s null.String) interface{} {
	if !s.Valid || s.String == "" {
		return nil
	}
	return s.String
}
