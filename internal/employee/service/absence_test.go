package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newwork/people-service/internal/employee/repository"
	"github.com/newwork/people-service/internal/employee/service"
	apperrors "github.com/newwork/people-service/pkg/errors"
	"github.com/newwork/people-service/pkg/messaging"
	"github.com/newwork/people-service/pkg/testutil"
)

type absenceWorld struct {
	svc      *service.AbsenceService
	absences *fakeAbsenceStore
	sink     *testutil.MockPublisher

	manager  string
	report   string
	coworker string
}

func newAbsenceWorld(t *testing.T) *absenceWorld {
	t.Helper()

	manager := newUser("MANAGER", nil)
	report := newUser("EMPLOYEE", &manager.ID)
	coworker := newUser("EMPLOYEE", nil)

	users := newFakeUserStore(manager, report, coworker)
	absences := newFakeAbsenceStore()
	publisher, sink := testPublisher()

	return &absenceWorld{
		svc:      service.NewAbsenceService(users, absences, publisher, time.UTC, testLogger()),
		absences: absences,
		sink:     sink,
		manager:  manager.ID,
		report:   report.ID,
		coworker: coworker.ID,
	}
}

func dateIn(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func TestSubmitAbsenceSnapshotsManager(t *testing.T) {
	w := newAbsenceWorld(t)

	absence, err := w.svc.Submit(context.Background(), w.report, &service.SubmitAbsenceRequest{
		StartDate: dateIn(7),
		EndDate:   dateIn(10),
		Type:      repository.AbsenceVacation,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, absence.ID)
	assert.Equal(t, repository.StatusPending, absence.Status)
	require.NotNil(t, absence.ManagerIDSnapshot)
	assert.Equal(t, w.manager, *absence.ManagerIDSnapshot)

	w.sink.AssertEventPublished(t, messaging.EventAbsenceSubmitted)
}

func TestSubmitAbsenceWithoutManager(t *testing.T) {
	w := newAbsenceWorld(t)

	absence, err := w.svc.Submit(context.Background(), w.manager, &service.SubmitAbsenceRequest{
		StartDate: dateIn(7),
		EndDate:   dateIn(7),
		Type:      repository.AbsencePersonal,
	})
	require.NoError(t, err)
	assert.Nil(t, absence.ManagerIDSnapshot)
}

func TestSubmitRejectsPastDates(t *testing.T) {
	w := newAbsenceWorld(t)

	_, err := w.svc.Submit(context.Background(), w.report, &service.SubmitAbsenceRequest{
		StartDate: dateIn(-3),
		EndDate:   dateIn(2),
		Type:      repository.AbsenceVacation,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details, "startDate")
}

func TestSubmitSickLeaveMayBeRetroactive(t *testing.T) {
	w := newAbsenceWorld(t)

	absence, err := w.svc.Submit(context.Background(), w.report, &service.SubmitAbsenceRequest{
		StartDate: dateIn(-3),
		EndDate:   dateIn(-1),
		Type:      repository.AbsenceSick,
	})
	require.NoError(t, err)
	assert.Equal(t, repository.StatusPending, absence.Status)
}

func TestSubmitRejectsInvertedRange(t *testing.T) {
	w := newAbsenceWorld(t)

	_, err := w.svc.Submit(context.Background(), w.report, &service.SubmitAbsenceRequest{
		StartDate: dateIn(10),
		EndDate:   dateIn(7),
		Type:      repository.AbsenceVacation,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details, "endDate")
}

func submitPending(t *testing.T, w *absenceWorld) *repository.Absence {
	t.Helper()
	absence, err := w.svc.Submit(context.Background(), w.report, &service.SubmitAbsenceRequest{
		StartDate: dateIn(7),
		EndDate:   dateIn(10),
		Type:      repository.AbsenceVacation,
	})
	require.NoError(t, err)
	w.sink.Reset()
	return absence
}

func TestApprovePendingRequest(t *testing.T) {
	w := newAbsenceWorld(t)
	absence := submitPending(t, w)

	decided, err := w.svc.Decide(context.Background(), w.manager, absence.ID, "approve", nil)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusApproved, decided.Status)

	w.sink.AssertEventPublished(t, messaging.EventAbsenceApproved)
}

func TestRejectPendingRequestWithNote(t *testing.T) {
	w := newAbsenceWorld(t)
	absence := submitPending(t, w)

	note := "team is at capacity that week"
	decided, err := w.svc.Decide(context.Background(), w.manager, absence.ID, "REJECT", &note)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusRejected, decided.Status)
	require.NotNil(t, decided.Note)
	assert.Equal(t, note, *decided.Note)

	w.sink.AssertEventPublished(t, messaging.EventAbsenceRejected)
}

func TestApproveDiscardsNote(t *testing.T) {
	w := newAbsenceWorld(t)
	absence := submitPending(t, w)

	note := "approved with commentary"
	decided, err := w.svc.Decide(context.Background(), w.manager, absence.ID, "APPROVE", &note)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusApproved, decided.Status)
	assert.Nil(t, decided.Note)
}

func TestSecondDecisionConflicts(t *testing.T) {
	w := newAbsenceWorld(t)
	absence := submitPending(t, w)

	_, err := w.svc.Decide(context.Background(), w.manager, absence.ID, "APPROVE", nil)
	require.NoError(t, err)

	_, err = w.svc.Decide(context.Background(), w.manager, absence.ID, "REJECT", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	stored, err := w.absences.GetByID(context.Background(), absence.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusApproved, stored.Status)
}

func TestOnlySnapshotManagerMayDecide(t *testing.T) {
	w := newAbsenceWorld(t)
	absence := submitPending(t, w)

	_, err := w.svc.Decide(context.Background(), w.coworker, absence.ID, "APPROVE", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	stored, err := w.absences.GetByID(context.Background(), absence.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.StatusPending, stored.Status)
}

func TestDecideUnknownAction(t *testing.T) {
	w := newAbsenceWorld(t)
	absence := submitPending(t, w)

	_, err := w.svc.Decide(context.Background(), w.manager, absence.ID, "ESCALATE", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestDecideUnknownRequest(t *testing.T) {
	w := newAbsenceWorld(t)

	_, err := w.svc.Decide(context.Background(), w.manager, "00000000-0000-0000-0000-000000000000", "APPROVE", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func seedAbsence(w *absenceWorld, status string, endOffsetDays int) *repository.Absence {
	absence := &repository.Absence{
		UserID:            w.report,
		ManagerIDSnapshot: &w.manager,
		StartDate:         time.Now().UTC().AddDate(0, 0, endOffsetDays-2),
		EndDate:           time.Now().UTC().AddDate(0, 0, endOffsetDays),
		Type:              repository.AbsenceVacation,
		Status:            status,
	}
	_ = w.absences.Create(context.Background(), absence)
	return absence
}

func TestSweepCompletesOnlyExpiredApproved(t *testing.T) {
	w := newAbsenceWorld(t)
	ctx := context.Background()

	expired := seedAbsence(w, repository.StatusApproved, -2)
	ongoing := seedAbsence(w, repository.StatusApproved, 5)
	pending := seedAbsence(w, repository.StatusPending, -2)
	rejected := seedAbsence(w, repository.StatusRejected, -2)

	asOf := time.Now().UTC()
	completed, err := w.svc.CompleteExpired(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, int64(1), completed)

	check := func(id, want string) {
		a, err := w.absences.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, a.Status)
	}
	check(expired.ID, repository.StatusCompleted)
	check(ongoing.ID, repository.StatusApproved)
	check(pending.ID, repository.StatusPending)
	check(rejected.ID, repository.StatusRejected)

	w.sink.AssertEventPublished(t, messaging.EventAbsenceCompleted)
	assert.Len(t, w.sink.PublishedEvents, 1)
}

func TestSweepIsIdempotent(t *testing.T) {
	w := newAbsenceWorld(t)
	ctx := context.Background()

	seedAbsence(w, repository.StatusApproved, -2)

	asOf := time.Now().UTC()
	first, err := w.svc.CompleteExpired(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	w.sink.Reset()

	second, err := w.svc.CompleteExpired(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second)
	w.sink.AssertNoEventsPublished(t)
}

func TestCompletedIsTerminal(t *testing.T) {
	w := newAbsenceWorld(t)
	ctx := context.Background()

	absence := seedAbsence(w, repository.StatusApproved, -2)
	_, err := w.svc.CompleteExpired(ctx, time.Now().UTC())
	require.NoError(t, err)

	_, err = w.svc.Decide(ctx, w.manager, absence.ID, "REJECT", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestListPendingForManager(t *testing.T) {
	w := newAbsenceWorld(t)
	ctx := context.Background()

	submitPending(t, w)
	seedAbsence(w, repository.StatusApproved, 3)

	pending, err := w.svc.ListPending(ctx, w.manager)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, repository.StatusPending, pending[0].Status)

	none, err := w.svc.ListPending(ctx, w.coworker)
	require.NoError(t, err)
	assert.Empty(t, none)
}
