package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/newwork/people-service/pkg/database"
	"github.com/newwork/people-service/pkg/errors"
)

// Role values for User.Role
const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
)

// User represents an account. Accounts are provisioned out of band; the
// service reads them for authentication and the manager edge.
type User struct {
	ID           string    `db:"id" json:"id"`
	EmployeeID   string    `db:"employee_id" json:"employee_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	ManagerID    *string   `db:"manager_id" json:"manager_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserRepository handles account persistence
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID fetches a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	var user User
	query := `SELECT id, employee_id, email, password_hash, role, manager_id, created_at, updated_at
	          FROM users WHERE id = $1`

	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("user")
		}
		return nil, err
	}

	return &user, nil
}

// GetByEmail fetches a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `SELECT id, employee_id, email, password_hash, role, manager_id, created_at, updated_at
	          FROM users WHERE email = $1`

	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("user")
		}
		return nil, err
	}

	return &user, nil
}

// Create inserts a new user. Used by provisioning and the seed command.
func (r *UserRepository) Create(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleEmployee
	}

	query := `
		INSERT INTO users (id, employee_id, email, password_hash, role, manager_id)
		VALUES (:id, :employee_id, :email, :password_hash, :role, :manager_id)
		RETURNING created_at, updated_at`

	rows, err := r.db.NamedQueryContext(ctx, query, user)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
			return err
		}
	}

	return nil
}
