package repositories

import (
	"context"
	"errors"
	"fmt"

	"garagepro/internal/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of *pgxpool.Pool the Postgres repositories use.
// pgxmock.PgxPoolIface satisfies it in tests.
type Database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const uniqueViolation = "23505"

// mapPgError turns driver errors into the common error kinds.
// pgx.ErrNoRows is left to the caller, which knows the resource name.
func mapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &common.ConflictError{
			Message: fmt.Sprintf("%s: %s already exists", op, pgErr.ConstraintName),
			Err:     common.ErrDuplicateKey,
		}
	}
	return common.NewPersistenceError(op, err)
}
