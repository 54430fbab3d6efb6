package service

import (
	"context"
	"strings"

	"github.com/newwork/people-service/internal/employee/events"
	"github.com/newwork/people-service/internal/employee/repository"
	"github.com/newwork/people-service/pkg/errors"
	"github.com/newwork/people-service/pkg/logger"
)

const (
	maxFeedbackLength = 5000
	minPolishLength   = 10
)

// CreateFeedbackRequest carries a new feedback record. Text may already
// have been polished through the polish endpoint; the flag just records
// that.
type CreateFeedbackRequest struct {
	RecipientID string `json:"recipientId" validate:"required,uuid"`
	Text        string `json:"text" validate:"required"`
	AIPolished  bool   `json:"aiPolished"`
}

// FeedbackService handles peer feedback and its visibility rules
type FeedbackService struct {
	users     UserStore
	feedback  FeedbackStore
	polisher  TextPolisher
	publisher *events.PeopleEventPublisher
	logger    *logger.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(
	users UserStore,
	feedback FeedbackStore,
	polisher TextPolisher,
	publisher *events.PeopleEventPublisher,
	log *logger.Logger,
) *FeedbackService {
	return &FeedbackService{
		users:     users,
		feedback:  feedback,
		polisher:  polisher,
		publisher: publisher,
		logger:    log,
	}
}

// Create appends a feedback record from author to recipient
func (s *FeedbackService) Create(ctx context.Context, authorID string, req *CreateFeedbackRequest) (*repository.Feedback, error) {
	if authorID == req.RecipientID {
		return nil, errors.Forbidden("cannot write feedback about yourself")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errors.Validation(map[string]string{"text": "must not be blank"})
	}
	if len(text) > maxFeedbackLength {
		return nil, errors.Validation(map[string]string{"text": "must be at most 5000 characters"})
	}

	// Both sides must exist; the author comes from an authenticated
	// token but may have been deprovisioned since issuance.
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, req.RecipientID); err != nil {
		return nil, err
	}

	fb := &repository.Feedback{
		AuthorID:    authorID,
		RecipientID: req.RecipientID,
		Text:        text,
		AIPolished:  req.AIPolished,
	}

	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, err
	}

	s.publisher.PublishFeedbackCreated(ctx, fb)

	s.logger.Info().
		Str("feedback_id", fb.ID).
		Str("author_id", authorID).
		Str("recipient_id", req.RecipientID).
		Bool("ai_polished", fb.AIPolished).
		Msg("feedback created")

	return fb, nil
}

// ListForUser returns the feedback received by targetID that the viewer
// may read: records the viewer authored, records about the viewer, and
// records about the viewer's direct reports. A viewer with no standing
// gets an empty list, not an error.
func (s *FeedbackService) ListForUser(ctx context.Context, viewerID, targetID string) ([]*repository.Feedback, error) {
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	return s.feedback.ListVisibleForTarget(ctx, viewerID, targetID)
}

// ListAuthored returns the caller's own authored feedback, newest first
func (s *FeedbackService) ListAuthored(ctx context.Context, viewerID string) ([]*repository.Feedback, error) {
	return s.feedback.ListAuthoredBy(ctx, viewerID)
}

// ListReceived returns the caller's own received feedback, newest first
func (s *FeedbackService) ListReceived(ctx context.Context, viewerID string) ([]*repository.Feedback, error) {
	return s.feedback.ListReceivedBy(ctx, viewerID)
}

// Polish rewrites draft feedback text through the external model. The
// draft is not persisted; callers submit the polished text explicitly.
func (s *FeedbackService) Polish(ctx context.Context, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minPolishLength {
		return "", errors.Validation(map[string]string{"originalText": "must be at least 10 characters"})
	}

	return s.polisher.Polish(ctx, trimmed)
}
