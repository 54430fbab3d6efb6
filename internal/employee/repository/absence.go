package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/newwork/people-service/pkg/database"
	"github.com/newwork/people-service/pkg/errors"
)

// AbsenceType values
const (
	AbsenceVacation = "VACATION"
	AbsenceSick     = "SICK"
	AbsencePersonal = "PERSONAL"
)

// AbsenceStatus values
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCompleted = "COMPLETED"
)

// Absence represents an absence request. ManagerIDSnapshot is the user's
// manager at submission time; it alone authorizes the decision.
type Absence struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"user_id"`
	ManagerIDSnapshot *string   `db:"manager_id_snapshot" json:"manager_id_snapshot,omitempty"`
	StartDate         time.Time `db:"start_date" json:"start_date"`
	EndDate           time.Time `db:"end_date" json:"end_date"`
	Type              string    `db:"type" json:"type"`
	Status            string    `db:"status" json:"status"`
	Note              *string   `db:"note" json:"note,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

const absenceColumns = `id, user_id, manager_id_snapshot, start_date, end_date, type, status, note, created_at, updated_at`

// AbsenceRepository handles absence persistence
type AbsenceRepository struct {
	db *database.DB
}

// NewAbsenceRepository creates a new absence repository
func NewAbsenceRepository(db *database.DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

// Create inserts a new absence request
func (r *AbsenceRepository) Create(ctx context.Context, absence *Absence) error {
	if absence.ID == "" {
		absence.ID = uuid.New().String()
	}
	if absence.Status == "" {
		absence.Status = StatusPending
	}

	query := `
		INSERT INTO employee_absences (id, user_id, manager_id_snapshot, start_date, end_date, type, status, note)
		VALUES (:id, :user_id, :manager_id_snapshot, :start_date, :end_date, :type, :status, :note)
		RETURNING created_at, updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, absence)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&absence.CreatedAt, &absence.UpdatedAt); err != nil {
			return err
		}
	}

	return nil
}

// GetByID fetches an absence by id
func (r *AbsenceRepository) GetByID(ctx context.Context, id string) (*Absence, error) {
	var absence Absence
	query := `SELECT ` + absenceColumns + ` FROM employee_absences WHERE id = $1`

	if err := r.db.GetContext(ctx, &absence, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("absence")
		}
		return nil, err
	}

	return &absence, nil
}

// TransitionFromPending writes the new status and note iff the row is
// still pending. The status guard in the WHERE clause is what makes a
// lost race observable: zero rows on an existing request means someone
// decided first.
func (r *AbsenceRepository) TransitionFromPending(ctx context.Context, id, newStatus string, note *string) (*Absence, error) {
	query := `
		UPDATE employee_absences
		SET status = $2, note = COALESCE($3, note), updated_at = NOW()
		WHERE id = $1 AND status = $4
		RETURNING ` + absenceColumns

	var absence Absence
	err := r.db.GetContext(ctx, &absence, query, id, newStatus, note, StatusPending)
	if err != nil {
		if err == sql.ErrNoRows {
			// Distinguish a missing row from one already decided.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, errors.Conflict("absence request is no longer pending")
		}
		return nil, err
	}

	return &absence, nil
}

// CompleteExpired promotes every approved absence whose end date is
// before asOf to completed. Idempotent: a second run the same day
// matches nothing.
func (r *AbsenceRepository) CompleteExpired(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE employee_absences
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND end_date < $3`

	result, err := r.db.ExecContext(ctx, query, StatusCompleted, StatusApproved, asOf)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// ListExpired returns the approved absences CompleteExpired would touch.
// The sweep command uses it to emit a completion event per row.
func (r *AbsenceRepository) ListExpired(ctx context.Context, asOf time.Time) ([]*Absence, error) {
	var absences []*Absence
	query := `SELECT ` + absenceColumns + `
	          FROM employee_absences
	          WHERE status = $1 AND end_date < $2`

	if err := r.db.SelectContext(ctx, &absences, query, StatusApproved, asOf); err != nil {
		return nil, err
	}

	return absences, nil
}

// ListByUser returns every absence owned by a user, newest start first
func (r *AbsenceRepository) ListByUser(ctx context.Context, userID string) ([]*Absence, error) {
	var absences []*Absence
	query := `SELECT ` + absenceColumns + `
	          FROM employee_absences
	          WHERE user_id = $1
	          ORDER BY start_date DESC, created_at DESC`

	if err := r.db.SelectContext(ctx, &absences, query, userID); err != nil {
		return nil, err
	}

	return absences, nil
}

// ListPendingForManager returns pending requests snapshotted to a
// manager, oldest start first
func (r *AbsenceRepository) ListPendingForManager(ctx context.Context, managerID string) ([]*Absence, error) {
	var absences []*Absence
	query := `SELECT ` + absenceColumns + `
	          FROM employee_absences
	          WHERE manager_id_snapshot = $1 AND status = $2
	          ORDER BY start_date ASC, created_at ASC`

	if err := r.db.SelectContext(ctx, &absences, query, managerID, StatusPending); err != nil {
		return nil, err
	}

	return absences, nil
}

// CountPendingFor returns the number of pending requests a user has
// waiting on the given manager. Feeds the directory badge.
func (r *AbsenceRepository) CountPendingFor(ctx context.Context, managerID, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM employee_absences
	          WHERE manager_id_snapshot = $1 AND user_id = $2 AND status = $3`

	if err := r.db.GetContext(ctx, &count, query, managerID, userID, StatusPending); err != nil {
		return 0, err
	}

	return count, nil
}
