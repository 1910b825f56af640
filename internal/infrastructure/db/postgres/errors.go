package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nexacorp/accounts-api/internal/core/domain"
)

// Postgres error codes this store cares about.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// mapError translates driver-level failures into the domain taxonomy.
// Constraint violations that correspond to business states (duplicate email,
// role still referenced) are remapped; everything else stays Internal.
func mapError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(notFoundMsg)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return domain.Conflict("email already in use")
		case foreignKeyViolationCode:
			return domain.Conflict("constraint violation: " + pgErr.ConstraintName)
		}
	}

	return domain.Internal("database error", err)
}
