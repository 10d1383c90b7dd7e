package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/stayscout/yt-reviews/internal/errors"
)

// handlePostgreSQLError converts PostgreSQL-specific errors to appropriate AppError codes
func handlePostgreSQLError(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperrors.Wrap(err, apperrors.CodeInternal, operation)
	}

	switch pgErr.Code {
	case "23505": // UNIQUE_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeConflict, "row already exists: "+pgErr.Detail)

	case "23503": // FOREIGN_KEY_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeDependency, "referenced row is missing: "+pgErr.Detail)

	case "23502": // NOT_NULL_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "required field is missing")

	case "42P01": // UNDEFINED_TABLE
		return apperrors.Wrap(err, apperrors.CodeInternal, "warehouse schema error: table not found (run migrations)")

	case "42883": // UNDEFINED_FUNCTION
		return apperrors.Wrap(err, apperrors.CodeInternal, "warehouse function missing: "+pgErr.Message)

	case "08000", "08003", "08006": // CONNECTION_EXCEPTION variants
		return apperrors.Wrap(err, apperrors.CodeInternal, "warehouse connection error")

	default:
		return apperrors.Wrap(err, apperrors.CodeInternal, operation)
	}
}
