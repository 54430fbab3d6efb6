package events

import (
	"context"

	"github.com/newwork/people-service/internal/employee/repository"
	"github.com/newwork/people-service/pkg/logger"
	"github.com/newwork/people-service/pkg/messaging"
)

// sink is the publishing surface the event publisher needs. The real
// messaging.Publisher satisfies it; tests substitute a recorder.
type sink interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// PeopleEventPublisher publishes people-domain events. Publishing is
// best-effort: failures are logged and never fail the request.
type PeopleEventPublisher struct {
	publisher sink
	logger    *logger.Logger
}

// NewPeopleEventPublisher creates a publisher bound to the people.events
// exchange
func NewPeopleEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*PeopleEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangePeopleEvents, "people-service", log)
	if err != nil {
		return nil, err
	}

	return &PeopleEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// NewPeopleEventPublisherWithSink creates a publisher over an arbitrary
// sink. Used by tests.
func NewPeopleEventPublisherWithSink(s sink, log *logger.Logger) *PeopleEventPublisher {
	return &PeopleEventPublisher{
		publisher: s,
		logger:    log,
	}
}

// PublishProfileUpdated publishes a profile updated event
func (p *PeopleEventPublisher) PublishProfileUpdated(ctx context.Context, userID, updatedBy string, fields []string) {
	data := messaging.ProfileUpdatedEvent{
		EmployeeID: userID,
		UpdatedBy:  updatedBy,
		Fields:     fields,
	}

	if err := p.publisher.Publish(ctx, messaging.EventProfileUpdated, data); err != nil {
		p.logger.Error().Err(err).Str("user_id", userID).Msg("failed to publish profile updated event")
	}
}

// PublishAbsenceSubmitted publishes an absence submitted event
func (p *PeopleEventPublisher) PublishAbsenceSubmitted(ctx context.Context, absence *repository.Absence) {
	data := messaging.AbsenceSubmittedEvent{
		AbsenceID:   absence.ID,
		EmployeeID:  absence.UserID,
		AbsenceType: absence.Type,
		StartDate:   absence.StartDate.Format("2006-01-02"),
		EndDate:     absence.EndDate.Format("2006-01-02"),
	}

	if err := p.publisher.Publish(ctx, messaging.EventAbsenceSubmitted, data); err != nil {
		p.logger.Error().Err(err).Str("absence_id", absence.ID).Msg("failed to publish absence submitted event")
	}
}

// PublishAbsenceDecided publishes an approved or rejected event
// depending on the new status
func (p *PeopleEventPublisher) PublishAbsenceDecided(ctx context.Context, absence *repository.Absence, reviewerID string) {
	data := messaging.AbsenceDecidedEvent{
		AbsenceID:  absence.ID,
		EmployeeID: absence.UserID,
		ReviewerID: reviewerID,
		Status:     absence.Status,
	}

	eventType := messaging.EventAbsenceApproved
	if absence.Status == repository.StatusRejected {
		eventType = messaging.EventAbsenceRejected
	}

	if err := p.publisher.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().Err(err).Str("absence_id", absence.ID).Msg("failed to publish absence decided event")
	}
}

// PublishAbsenceCompleted publishes a completion event for one swept row
func (p *PeopleEventPublisher) PublishAbsenceCompleted(ctx context.Context, absence *repository.Absence) {
	data := messaging.AbsenceCompletedEvent{
		AbsenceID:  absence.ID,
		EmployeeID: absence.UserID,
	}

	if err := p.publisher.Publish(ctx, messaging.EventAbsenceCompleted, data); err != nil {
		p.logger.Error().Err(err).Str("absence_id", absence.ID).Msg("failed to publish absence completed event")
	}
}

// PublishFeedbackCreated publishes a feedback created event
func (p *PeopleEventPublisher) PublishFeedbackCreated(ctx context.Context, fb *repository.Feedback) {
	data := messaging.FeedbackCreatedEvent{
		FeedbackID:  fb.ID,
		AuthorID:    fb.AuthorID,
		RecipientID: fb.RecipientID,
	}

	if err := p.publisher.Publish(ctx, messaging.EventFeedbackCreated, data); err != nil {
		p.logger.Error().Err(err).Str("feedback_id", fb.ID).Msg("failed to publish feedback created event")
	}
}
