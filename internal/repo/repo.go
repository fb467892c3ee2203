package repo

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// builder produces PostgreSQL-flavoured placeholders for all queries.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DBTX abstracts the pgx pool so queries can run against a pool, a
// connection, or a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries bundles hand-written SQL against the booking schema.
type Queries struct {
	db DBTX
}

// New constructs Queries over the provided database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}
