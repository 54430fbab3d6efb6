package service

import (
	"context"
	"strings"
	"time"

	"github.com/newwork/people-service/internal/employee/events"
	"github.com/newwork/people-service/internal/employee/repository"
	"github.com/newwork/people-service/pkg/errors"
	"github.com/newwork/people-service/pkg/logger"
)

// SubmitAbsenceRequest carries a new absence request
type SubmitAbsenceRequest struct {
	StartDate string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"endDate" validate:"required,datetime=2006-01-02"`
	Type      string  `json:"type" validate:"required,oneof=VACATION SICK PERSONAL"`
	Note      *string `json:"note" validate:"omitempty,max=500"`
}

// AbsenceService governs the absence request lifecycle:
// Pending -> Approved|Rejected, and Approved -> Completed via the sweep.
type AbsenceService struct {
	users     UserStore
	absences  AbsenceStore
	publisher *events.PeopleEventPublisher
	location  *time.Location
	now       func() time.Time
	logger    *logger.Logger
}

// NewAbsenceService creates a new absence service. loc is the zone used
// to derive "today" for date validation and the sweep.
func NewAbsenceService(
	users UserStore,
	absences AbsenceStore,
	publisher *events.PeopleEventPublisher,
	loc *time.Location,
	log *logger.Logger,
) *AbsenceService {
	return &AbsenceService{
		users:     users,
		absences:  absences,
		publisher: publisher,
		location:  loc,
		now:       time.Now,
		logger:    log,
	}
}

// Today returns the current calendar date in the configured zone.
func (s *AbsenceService) Today() time.Time {
	now := s.now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Submit creates a new pending absence request. The user's current
// manager is snapshotted on the row; only that manager may decide it.
func (s *AbsenceService) Submit(ctx context.Context, userID string, req *SubmitAbsenceRequest) (*repository.Absence, error) {
	start, end, err := s.validateDates(req)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	absence := &repository.Absence{
		UserID:            userID,
		ManagerIDSnapshot: user.ManagerID,
		StartDate:         start,
		EndDate:           end,
		Type:              req.Type,
		Status:            repository.StatusPending,
		Note:              req.Note,
	}

	if err := s.absences.Create(ctx, absence); err != nil {
		return nil, err
	}

	s.publisher.PublishAbsenceSubmitted(ctx, absence)

	s.logger.Info().
		Str("absence_id", absence.ID).
		Str("user_id", userID).
		Str("type", absence.Type).
		Msg("absence submitted")

	return absence, nil
}

func (s *AbsenceService) validateDates(req *SubmitAbsenceRequest) (time.Time, time.Time, error) {
	details := make(map[string]string)

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		details["startDate"] = "must be a date in YYYY-MM-DD format"
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		details["endDate"] = "must be a date in YYYY-MM-DD format"
	}
	if len(details) > 0 {
		return time.Time{}, time.Time{}, errors.Validation(details)
	}

	if end.Before(start) {
		details["endDate"] = "must not be before startDate"
	}

	// Sick leave may be reported after the fact; everything else must
	// be requested in advance.
	if req.Type != repository.AbsenceSick {
		today := s.Today()
		if start.Before(today) {
			details["startDate"] = "must not be in the past"
		}
		if end.Before(today) {
			details["endDate"] = "must not be in the past"
		}
	}

	if len(details) > 0 {
		return time.Time{}, time.Time{}, errors.Validation(details)
	}

	return start, end, nil
}

// Decision actions accepted by Decide, case-insensitive on the wire.
const (
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)

// Decide approves or rejects a pending request. Only the snapshot
// manager may decide; a request that is no longer pending surfaces
// Conflict.
func (s *AbsenceService) Decide(ctx context.Context, reviewerID, absenceID, action string, note *string) (*repository.Absence, error) {
	var newStatus string
	switch strings.ToUpper(action) {
	case ActionApprove:
		newStatus = repository.StatusApproved
	case ActionReject:
		newStatus = repository.StatusRejected
	default:
		return nil, errors.Validation(map[string]string{"action": "must be APPROVE or REJECT"})
	}

	// The reviewer note accompanies rejections only.
	if newStatus != repository.StatusRejected {
		note = nil
	}

	if note != nil && len(*note) > 500 {
		return nil, errors.Validation(map[string]string{"note": "must be at most 500 characters"})
	}

	absence, err := s.absences.GetByID(ctx, absenceID)
	if err != nil {
		return nil, err
	}

	if absence.ManagerIDSnapshot == nil || *absence.ManagerIDSnapshot != reviewerID {
		return nil, errors.Forbidden("only the assigned manager may decide this request")
	}

	updated, err := s.absences.TransitionFromPending(ctx, absenceID, newStatus, note)
	if err != nil {
		return nil, err
	}

	s.publisher.PublishAbsenceDecided(ctx, updated, reviewerID)

	s.logger.Info().
		Str("absence_id", absenceID).
		Str("reviewer_id", reviewerID).
		Str("status", updated.Status).
		Msg("absence decided")

	return updated, nil
}

// ListMine returns the caller's own requests, newest start first
func (s *AbsenceService) ListMine(ctx context.Context, userID string) ([]*repository.Absence, error) {
	return s.absences.ListByUser(ctx, userID)
}

// ListPending returns the pending requests waiting on the caller as
// snapshot manager, oldest start first
func (s *AbsenceService) ListPending(ctx context.Context, managerID string) ([]*repository.Absence, error) {
	return s.absences.ListPendingForManager(ctx, managerID)
}

// CompleteExpired promotes approved absences that ended before asOf to
// completed and emits one completion event per row. Event failures are
// logged and do not abort the batch. Idempotent.
func (s *AbsenceService) CompleteExpired(ctx context.Context, asOf time.Time) (int64, error) {
	expired, err := s.absences.ListExpired(ctx, asOf)
	if err != nil {
		return 0, err
	}

	updated, err := s.absences.CompleteExpired(ctx, asOf)
	if err != nil {
		return 0, err
	}

	for _, absence := range expired {
		absence.Status = repository.StatusCompleted
		s.publisher.PublishAbsenceCompleted(ctx, absence)
	}

	s.logger.Info().
		Time("as_of", asOf).
		Int64("completed", updated).
		Msg("absence sweep finished")

	return updated, nil
}
