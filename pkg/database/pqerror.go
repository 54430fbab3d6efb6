package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/newwork/people-service/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "fte_range"):
		return errors.Validation(map[string]string{
			"fte": "must be between 0 and 1",
		})

	case strings.Contains(constraint, "employment_status_valid"):
		return errors.Validation(map[string]string{
			"employmentStatus": "must be one of: ACTIVE, ON_LEAVE",
		})

	case strings.Contains(constraint, "work_location_valid"):
		return errors.Validation(map[string]string{
			"workLocationType": "must be one of: REMOTE, HYBRID, ONSITE",
		})

	case strings.Contains(constraint, "absence_type_valid"):
		return errors.Validation(map[string]string{
			"type": "must be one of: VACATION, SICK, PERSONAL",
		})

	case strings.Contains(constraint, "absence_status_valid"):
		return errors.Validation(map[string]string{
			"status": "must be one of: PENDING, APPROVED, REJECTED, COMPLETED",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

// formatConstraintMessage creates a user-friendly message for unique constraint violations.
func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "employee_id"):
		return "a profile with this employee ID already exists"
	case strings.Contains(constraint, "email"):
		return "an account with this email already exists"
	case strings.Contains(constraint, "user_id"):
		return "a profile for this account already exists"
	default:
		return "a record with these values already exists"
	}
}
