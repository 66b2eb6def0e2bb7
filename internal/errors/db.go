package errors

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError maps database errors to AppError instances:
//   - pgx.ErrNoRows → NotFound
//   - unique constraint violations → Conflict
//   - check / not-null violations → Validation
//   - context timeouts and cancellations → Timeout / Canceled
//
// Unrecognized errors are wrapped as Internal so callers never branch on
// driver-specific types.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrCodeTimeout, "database operation timed out")
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(err, ErrCodeCanceled, "database operation was canceled")
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return Wrap(err, ErrCodeNotFound, "record not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return Wrap(err, ErrCodeConflict, "record already exists")
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return Wrap(err, ErrCodeValidation, "record failed database validation")
		}
	}

	return Wrap(err, ErrCodeInternal, "database operation failed")
}
