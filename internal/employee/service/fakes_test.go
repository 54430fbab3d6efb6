package service_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/newwork/people-service/internal/employee/events"
	"github.com/newwork/people-service/internal/employee/repository"
	"github.com/newwork/people-service/pkg/errors"
	"github.com/newwork/people-service/pkg/logger"
	"github.com/newwork/people-service/pkg/testutil"
)

// In-memory store fakes. They mirror the query semantics of the sqlx
// repositories closely enough for the services not to notice.

func testLogger() *logger.Logger {
	return logger.New("service-test", "test")
}

func testPublisher() (*events.PeopleEventPublisher, *testutil.MockPublisher) {
	sink := testutil.NewMockPublisher()
	return events.NewPeopleEventPublisherWithSink(sink, testLogger()), sink
}

// ----------------------------------------------------------------------------
// user store
// ----------------------------------------------------------------------------

type fakeUserStore struct {
	users map[string]*repository.User
}

func newFakeUserStore(users ...*repository.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]*repository.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errors.NotFound("user")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.NotFound("user")
}

// ----------------------------------------------------------------------------
// profile store
// ----------------------------------------------------------------------------

type fakeProfileStore struct {
	profiles map[string]*repository.Profile
	roster   []*repository.ProfileWithUser
}

func newFakeProfileStore(profiles ...*repository.Profile) *fakeProfileStore {
	f := &fakeProfileStore{profiles: make(map[string]*repository.Profile)}
	for _, p := range profiles {
		f.profiles[p.UserID] = p
	}
	return f
}

func (f *fakeProfileStore) GetByUserID(ctx context.Context, userID string) (*repository.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, errors.NotFound("profile")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) Update(ctx context.Context, profile *repository.Profile) error {
	stored, ok := f.profiles[profile.UserID]
	if !ok {
		return errors.NotFound("profile")
	}
	created := stored.CreatedAt
	*stored = *profile
	stored.CreatedAt = created
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeProfileStore) ListActive(ctx context.Context) ([]*repository.ProfileWithUser, error) {
	rows := make([]*repository.ProfileWithUser, len(f.roster))
	copy(rows, f.roster)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DisplayName() < rows[j].DisplayName()
	})
	return rows, nil
}

// ----------------------------------------------------------------------------
// absence store
// ----------------------------------------------------------------------------

type fakeAbsenceStore struct {
	absences map[string]*repository.Absence
}

func newFakeAbsenceStore(absences ...*repository.Absence) *fakeAbsenceStore {
	f := &fakeAbsenceStore{absences: make(map[string]*repository.Absence)}
	for _, a := range absences {
		f.absences[a.ID] = a
	}
	return f
}

func (f *fakeAbsenceStore) Create(ctx context.Context, absence *repository.Absence) error {
	absence.ID = uuid.New().String()
	absence.CreatedAt = time.Now()
	absence.UpdatedAt = absence.CreatedAt
	cp := *absence
	f.absences[absence.ID] = &cp
	return nil
}

func (f *fakeAbsenceStore) GetByID(ctx context.Context, id string) (*repository.Absence, error) {
	a, ok := f.absences[id]
	if !ok {
		return nil, errors.NotFound("absence request")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAbsenceStore) TransitionFromPending(ctx context.Context, id, newStatus string, note *string) (*repository.Absence, error) {
	a, ok := f.absences[id]
	if !ok {
		return nil, errors.NotFound("absence request")
	}
	if a.Status != repository.StatusPending {
		return nil, errors.Conflict("absence request is no longer pending")
	}
	a.Status = newStatus
	if note != nil {
		a.Note = note
	}
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (f *fakeAbsenceStore) CompleteExpired(ctx context.Context, asOf time.Time) (int64, error) {
	var n int64
	for _, a := range f.absences {
		if a.Status == repository.StatusApproved && a.EndDate.Before(asOf) {
			a.Status = repository.StatusCompleted
			a.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

func (f *fakeAbsenceStore) ListExpired(ctx context.Context, asOf time.Time) ([]*repository.Absence, error) {
	var out []*repository.Absence
	for _, a := range f.absences {
		if a.Status == repository.StatusApproved && a.EndDate.Before(asOf) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAbsenceStore) ListByUser(ctx context.Context, userID string) ([]*repository.Absence, error) {
	var out []*repository.Absence
	for _, a := range f.absences {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (f *fakeAbsenceStore) ListPendingForManager(ctx context.Context, managerID string) ([]*repository.Absence, error) {
	var out []*repository.Absence
	for _, a := range f.absences {
		if a.Status == repository.StatusPending && a.ManagerIDSnapshot != nil && *a.ManagerIDSnapshot == managerID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (f *fakeAbsenceStore) CountPendingFor(ctx context.Context, managerID, userID string) (int, error) {
	count := 0
	for _, a := range f.absences {
		if a.UserID == userID && a.Status == repository.StatusPending &&
			a.ManagerIDSnapshot != nil && *a.ManagerIDSnapshot == managerID {
			count++
		}
	}
	return count, nil
}

// ----------------------------------------------------------------------------
// feedback store
// ----------------------------------------------------------------------------

type fakeFeedbackStore struct {
	users   *fakeUserStore
	records []*repository.Feedback
}

func newFakeFeedbackStore(users *fakeUserStore) *fakeFeedbackStore {
	return &fakeFeedbackStore{users: users}
}

func (f *fakeFeedbackStore) Create(ctx context.Context, fb *repository.Feedback) error {
	fb.ID = uuid.New().String()
	fb.CreatedAt = time.Now()
	cp := *fb
	f.records = append(f.records, &cp)
	return nil
}

func (f *fakeFeedbackStore) ListVisibleForTarget(ctx context.Context, viewerID, targetID string) ([]*repository.Feedback, error) {
	out := make([]*repository.Feedback, 0)
	for _, fb := range f.records {
		if fb.RecipientID != targetID {
			continue
		}
		if !f.visible(viewerID, fb) {
			continue
		}
		cp := *fb
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeFeedbackStore) visible(viewerID string, fb *repository.Feedback) bool {
	if viewerID == fb.AuthorID || viewerID == fb.RecipientID {
		return true
	}
	recipient, ok := f.users.users[fb.RecipientID]
	return ok && recipient.ManagerID != nil && *recipient.ManagerID == viewerID
}

func (f *fakeFeedbackStore) ListAuthoredBy(ctx context.Context, authorID string) ([]*repository.Feedback, error) {
	out := make([]*repository.Feedback, 0)
	for _, fb := range f.records {
		if fb.AuthorID == authorID {
			cp := *fb
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeFeedbackStore) ListReceivedBy(ctx context.Context, recipientID string) ([]*repository.Feedback, error) {
	out := make([]*repository.Feedback, 0)
	for _, fb := range f.records {
		if fb.RecipientID == recipientID {
			cp := *fb
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ----------------------------------------------------------------------------
// polisher
// ----------------------------------------------------------------------------

type fakePolisher struct {
	result string
	err    error
	calls  []string
}

func (f *fakePolisher) Polish(ctx context.Context, text string) (string, error) {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

// ----------------------------------------------------------------------------
// model builders
// ----------------------------------------------------------------------------

var userSeq int

func newUser(role string, managerID *string) *repository.User {
	userSeq++
	now := time.Now()
	return &repository.User{
		ID:         uuid.New().String(),
		EmployeeID: fmt.Sprintf("EMP%04d", userSeq),
		Email:      fmt.Sprintf("user%d@newwork.com", userSeq),
		Role:       role,
		ManagerID:  managerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func newProfile(userID string) *repository.Profile {
	now := time.Now().Add(-time.Hour)
	dob := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
	return &repository.Profile{
		ID:               uuid.New().String(),
		UserID:           userID,
		LegalFirstName:   "Jordan",
		LegalLastName:    "Kim",
		Department:       ptr("Engineering"),
		JobCode:          ptr("ENG-3"),
		JobFamily:        ptr("Software"),
		JobLevel:         ptr("Senior"),
		EmploymentStatus: "ACTIVE",
		HireDate:         time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC),
		FTE:              1.0,
		PreferredName:    ptr("Jo"),
		JobTitle:         ptr("Software Engineer"),
		Bio:              ptr("works on the platform team"),
		PersonalEmail:    ptr("jo.kim@example.com"),
		HomeAddress:      ptr("12 Elm Street"),
		DateOfBirth:      &dob,
		Salary:           ptrFloat(95000),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func ptr(s string) *string { return &s }

func ptrFloat(f float64) *float64 { return &f }
