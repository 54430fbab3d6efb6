package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/newwork/people-service/pkg/database"
)

// Feedback is an append-only peer feedback record
type Feedback struct {
	ID          string    `db:"id" json:"id"`
	AuthorID    string    `db:"author_id" json:"author_id"`
	RecipientID string    `db:"recipient_id" json:"recipient_id"`
	Text        string    `db:"text" json:"text"`
	AIPolished  bool      `db:"ai_polished" json:"ai_polished"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

const feedbackColumns = `id, author_id, recipient_id, text, ai_polished, created_at`

// FeedbackRepository handles feedback persistence
type FeedbackRepository struct {
	db *database.DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *database.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create appends a feedback record
func (r *FeedbackRepository) Create(ctx context.Context, fb *Feedback) error {
	if fb.ID == "" {
		fb.ID = uuid.New().String()
	}

	query := `
		INSERT INTO feedback (id, author_id, recipient_id, text, ai_polished)
		VALUES (:id, :author_id, :recipient_id, :text, :ai_polished)
		RETURNING created_at`

	rows, err := r.db.NamedQueryContext(ctx, query, fb)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&fb.CreatedAt); err != nil {
			return err
		}
	}

	return nil
}

// ListVisibleForTarget returns the feedback received by targetID that
// viewerID may read: rows where the viewer is the author, the recipient,
// or the recipient's current direct manager. Visibility is enforced in
// the query so invisible rows never leave the database.
func (r *FeedbackRepository) ListVisibleForTarget(ctx context.Context, viewerID, targetID string) ([]*Feedback, error) {
	var feedback []*Feedback
	query := `
		SELECT f.` + feedbackRowAlias + `
		FROM feedback f
		JOIN users recipient ON recipient.id = f.recipient_id
		WHERE f.recipient_id = $2
		  AND ($1 = f.author_id OR $1 = f.recipient_id OR recipient.manager_id = $1)
		ORDER BY f.created_at DESC`

	if err := r.db.SelectContext(ctx, &feedback, query, viewerID, targetID); err != nil {
		return nil, err
	}

	return feedback, nil
}

// ListAuthoredBy returns the feedback a user has written, newest first
func (r *FeedbackRepository) ListAuthoredBy(ctx context.Context, authorID string) ([]*Feedback, error) {
	var feedback []*Feedback
	query := `SELECT ` + feedbackColumns + `
	          FROM feedback WHERE author_id = $1
	          ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &feedback, query, authorID); err != nil {
		return nil, err
	}

	return feedback, nil
}

// ListReceivedBy returns the feedback a user has received, newest first
func (r *FeedbackRepository) ListReceivedBy(ctx context.Context, recipientID string) ([]*Feedback, error) {
	var feedback []*Feedback
	query := `SELECT ` + feedbackColumns + `
	          FROM feedback WHERE recipient_id = $1
	          ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &feedback, query, recipientID); err != nil {
		return nil, err
	}

	return feedback, nil
}

const feedbackRowAlias = `id, f.author_id, f.recipient_id, f.text, f.ai_polished, f.created_at`
