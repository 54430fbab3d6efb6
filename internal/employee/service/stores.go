package service

import (
	"context"
	"time"

	"github.com/newwork/people-service/internal/employee/repository"
)

// Narrow store interfaces consumed by the services. The concrete sqlx
// repositories satisfy them; tests substitute in-memory fakes.

// UserStore reads accounts
type UserStore interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
	GetByEmail(ctx context.Context, email string) (*repository.User, error)
}

// ProfileStore reads and writes HR profiles
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*repository.Profile, error)
	Update(ctx context.Context, profile *repository.Profile) error
	ListActive(ctx context.Context) ([]*repository.ProfileWithUser, error)
}

// AbsenceStore reads and writes absence requests
type AbsenceStore interface {
	Create(ctx context.Context, absence *repository.Absence) error
	GetByID(ctx context.Context, id string) (*repository.Absence, error)
	TransitionFromPending(ctx context.Context, id, newStatus string, note *string) (*repository.Absence, error)
	CompleteExpired(ctx context.Context, asOf time.Time) (int64, error)
	ListExpired(ctx context.Context, asOf time.Time) ([]*repository.Absence, error)
	ListByUser(ctx context.Context, userID string) ([]*repository.Absence, error)
	ListPendingForManager(ctx context.Context, managerID string) ([]*repository.Absence, error)
	CountPendingFor(ctx context.Context, managerID, userID string) (int, error)
}

// FeedbackStore reads and writes feedback records
type FeedbackStore interface {
	Create(ctx context.Context, fb *repository.Feedback) error
	ListVisibleForTarget(ctx context.Context, viewerID, targetID string) ([]*repository.Feedback, error)
	ListAuthoredBy(ctx context.Context, authorID string) ([]*repository.Feedback, error)
	ListReceivedBy(ctx context.Context, recipientID string) ([]*repository.Feedback, error)
}

// TextPolisher rewrites feedback text through the external model
type TextPolisher interface {
	Polish(ctx context.Context, text string) (string, error)
}
