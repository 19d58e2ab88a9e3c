package postgres

import (
	"errors"

	"github.com/geocoder89/koinonia/internal/observability"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}

// observe times fn under the logical op name when metrics are wired.
func observe(prom *observability.Prom, op string, fn func() error) error {
	if prom != nil {
		return prom.ObserveDB(op, fn)
	}
	return fn()
}
