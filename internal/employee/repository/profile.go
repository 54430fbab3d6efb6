package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/newwork/people-service/pkg/database"
	"github.com/newwork/people-service/pkg/errors"
)

// EmploymentStatus values
const (
	EmploymentActive  = "ACTIVE"
	EmploymentOnLeave = "ON_LEAVE"
)

// WorkLocationType values
const (
	LocationRemote = "REMOTE"
	LocationHybrid = "HYBRID"
	LocationOnsite = "ONSITE"
)

// Profile is the HR profile, 1:1 with a user. Field groups mirror the
// visibility classes: system-managed, self-serviceable, restricted.
type Profile struct {
	ID     string `db:"id"`
	UserID string `db:"user_id"`

	// system-managed
	LegalFirstName   string     `db:"legal_first_name"`
	LegalLastName    string     `db:"legal_last_name"`
	Department       *string    `db:"department"`
	JobCode          *string    `db:"job_code"`
	JobFamily        *string    `db:"job_family"`
	JobLevel         *string    `db:"job_level"`
	EmploymentStatus string     `db:"employment_status"`
	HireDate         time.Time  `db:"hire_date"`
	TerminationDate  *time.Time `db:"termination_date"`
	FTE              float64    `db:"fte"`

	// self-serviceable
	PreferredName    *string `db:"preferred_name"`
	JobTitle         *string `db:"job_title"`
	OfficeLocation   *string `db:"office_location"`
	WorkPhone        *string `db:"work_phone"`
	WorkLocationType *string `db:"work_location_type"`
	Bio              *string `db:"bio"`
	Skills           *string `db:"skills"`
	ProfilePhotoURL  *string `db:"profile_photo_url"`

	// restricted
	PersonalEmail                *string    `db:"personal_email"`
	PersonalPhone                *string    `db:"personal_phone"`
	HomeAddress                  *string    `db:"home_address"`
	EmergencyContactName         *string    `db:"emergency_contact_name"`
	EmergencyContactPhone        *string    `db:"emergency_contact_phone"`
	EmergencyContactRelationship *string    `db:"emergency_contact_relationship"`
	DateOfBirth                  *time.Time `db:"date_of_birth"`
	VisaWorkPermit               *string    `db:"visa_work_permit"`
	AbsenceBalanceDays           *float64   `db:"absence_balance_days"`
	Salary                       *float64   `db:"salary"`
	PerformanceRating            *string    `db:"performance_rating"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DisplayName returns the preferred name, falling back to the legal
// first name.
func (p *Profile) DisplayName() string {
	if p.PreferredName != nil && *p.PreferredName != "" {
		return *p.PreferredName
	}
	return p.LegalFirstName
}

const profileColumns = `
	id, user_id,
	legal_first_name, legal_last_name, department, job_code, job_family,
	job_level, employment_status, hire_date, termination_date, fte,
	preferred_name, job_title, office_location, work_phone,
	work_location_type, bio, skills, profile_photo_url,
	personal_email, personal_phone, home_address, emergency_contact_name,
	emergency_contact_phone, emergency_contact_relationship, date_of_birth,
	visa_work_permit, absence_balance_days, salary, performance_rating,
	created_at, updated_at`

// ProfileRepository handles profile persistence
type ProfileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID fetches the profile belonging to a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	var profile Profile
	query := `SELECT ` + profileColumns + ` FROM employee_profiles WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("profile")
		}
		return nil, err
	}

	return &profile, nil
}

// Create inserts a new profile. Used by provisioning and the seed command.
func (r *ProfileRepository) Create(ctx context.Context, profile *Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.EmploymentStatus == "" {
		profile.EmploymentStatus = EmploymentActive
	}
	if profile.FTE == 0 {
		profile.FTE = 1.0
	}

	query := `
		INSERT INTO employee_profiles (
			id, user_id,
			legal_first_name, legal_last_name, department, job_code, job_family,
			job_level, employment_status, hire_date, termination_date, fte,
			preferred_name, job_title, office_location, work_phone,
			work_location_type, bio, skills, profile_photo_url,
			personal_email, personal_phone, home_address, emergency_contact_name,
			emergency_contact_phone, emergency_contact_relationship, date_of_birth,
			visa_work_permit, absence_balance_days, salary, performance_rating
		) VALUES (
			:id, :user_id,
			:legal_first_name, :legal_last_name, :department, :job_code, :job_family,
			:job_level, :employment_status, :hire_date, :termination_date, :fte,
			:preferred_name, :job_title, :office_location, :work_phone,
			:work_location_type, :bio, :skills, :profile_photo_url,
			:personal_email, :personal_phone, :home_address, :emergency_contact_name,
			:emergency_contact_phone, :emergency_contact_relationship, :date_of_birth,
			:visa_work_permit, :absence_balance_days, :salary, :performance_rating
		)
		RETURNING created_at, updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, profile)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&profile.CreatedAt, &profile.UpdatedAt); err != nil {
			return err
		}
	}

	return nil
}

// Update persists the editable fields of a profile and refreshes
// updated_at. System-managed columns are deliberately not in the SET
// list; they only change through provisioning.
func (r *ProfileRepository) Update(ctx context.Context, profile *Profile) error {
	query := `
		UPDATE employee_profiles SET
			preferred_name = :preferred_name,
			job_title = :job_title,
			office_location = :office_location,
			work_phone = :work_phone,
			work_location_type = :work_location_type,
			bio = :bio,
			skills = :skills,
			profile_photo_url = :profile_photo_url,
			personal_email = :personal_email,
			personal_phone = :personal_phone,
			home_address = :home_address,
			emergency_contact_name = :emergency_contact_name,
			emergency_contact_phone = :emergency_contact_phone,
			emergency_contact_relationship = :emergency_contact_relationship,
			date_of_birth = :date_of_birth,
			visa_work_permit = :visa_work_permit,
			absence_balance_days = :absence_balance_days,
			salary = :salary,
			performance_rating = :performance_rating,
			updated_at = NOW()
		WHERE user_id = :user_id`

	result, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return errors.NotFound("profile")
	}

	return nil
}

// ListActive returns every profile with an active employment status,
// joined with the owning account for the manager edge.
func (r *ProfileRepository) ListActive(ctx context.Context) ([]*ProfileWithUser, error) {
	var rows []*ProfileWithUser
	query := `
		SELECT p.` + profileRowAlias + `,
		       u.email AS user_email, u.employee_id AS user_employee_id,
		       u.role AS user_role, u.manager_id AS user_manager_id
		FROM employee_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.employment_status = $1
		ORDER BY LOWER(COALESCE(NULLIF(p.preferred_name, ''), p.legal_first_name)),
		         LOWER(p.legal_first_name)`

	if err := r.db.SelectContext(ctx, &rows, query, EmploymentActive); err != nil {
		return nil, err
	}

	return rows, nil
}

// ProfileWithUser is a profile row joined with account columns needed by
// the directory.
type ProfileWithUser struct {
	Profile
	UserEmail      string  `db:"user_email"`
	UserEmployeeID string  `db:"user_employee_id"`
	UserRole       string  `db:"user_role"`
	UserManagerID  *string `db:"user_manager_id"`
}

// profileRowAlias lists the profile columns prefixed with the join alias.
const profileRowAlias = `id, p.user_id,
	p.legal_first_name, p.legal_last_name, p.department, p.job_code, p.job_family,
	p.job_level, p.employment_status, p.hire_date, p.termination_date, p.fte,
	p.preferred_name, p.job_title, p.office_location, p.work_phone,
	p.work_location_type, p.bio, p.skills, p.profile_photo_url,
	p.personal_email, p.personal_phone, p.home_address, p.emergency_contact_name,
	p.emergency_contact_phone, p.emergency_contact_relationship, p.date_of_birth,
	p.visa_work_permit, p.absence_balance_days, p.salary, p.performance_rating,
	p.created_at, p.updated_at`
