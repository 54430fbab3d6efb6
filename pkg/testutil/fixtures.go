package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserFixture represents test account data
type UserFixture struct {
	ID           string
	EmployeeID   string
	Email        string
	PasswordHash string
	Role         string
	ManagerID    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileFixture represents test profile data with fields in every class
type ProfileFixture struct {
	ID               string
	UserID           string
	LegalFirstName   string
	LegalLastName    string
	Department       string
	EmploymentStatus string
	HireDate         time.Time
	FTE              float64
	PreferredName    string
	JobTitle         string
	WorkLocationType string
	Bio              string
	PersonalEmail    string
	Salary           float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AbsenceFixture represents test absence data
type AbsenceFixture struct {
	ID                string
	UserID            string
	ManagerIDSnapshot *string
	StartDate         time.Time
	EndDate           time.Time
	Type              string
	Status            string
	Note              string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FeedbackFixture represents test feedback data
type FeedbackFixture struct {
	ID          string
	AuthorID    string
	RecipientID string
	Text        string
	AIPolished  bool
	CreatedAt   time.Time
}

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// User creates a user fixture with defaults
func (f *FixtureFactory) User(opts ...func(*UserFixture)) UserFixture {
	seq := f.nextSeq()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	user := UserFixture{
		ID:           uuid.New().String(),
		EmployeeID:   fmt.Sprintf("EMP%04d", seq),
		Email:        fmt.Sprintf("user%d@test.newwork.com", seq),
		PasswordHash: string(hash),
		Role:         "EMPLOYEE",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	for _, opt := range opts {
		opt(&user)
	}

	return user
}

// WithEmail sets the user email
func WithEmail(email string) func(*UserFixture) {
	return func(u *UserFixture) {
		u.Email = email
	}
}

// WithRole sets the user role
func WithRole(role string) func(*UserFixture) {
	return func(u *UserFixture) {
		u.Role = role
	}
}

// WithManager sets the user's manager id
func WithManager(managerID string) func(*UserFixture) {
	return func(u *UserFixture) {
		u.ManagerID = &managerID
	}
}

// WithPassword sets the user password (hashed)
func WithPassword(password string) func(*UserFixture) {
	return func(u *UserFixture) {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		u.PasswordHash = string(hash)
	}
}

// Profile creates a profile fixture for the given user
func (f *FixtureFactory) Profile(userID string, opts ...func(*ProfileFixture)) ProfileFixture {
	seq := f.nextSeq()

	profile := ProfileFixture{
		ID:               uuid.New().String(),
		UserID:           userID,
		LegalFirstName:   fmt.Sprintf("First%d", seq),
		LegalLastName:    "Last",
		Department:       "Engineering",
		EmploymentStatus: "ACTIVE",
		HireDate:         time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC),
		FTE:              1.0,
		PreferredName:    fmt.Sprintf("First%d", seq),
		JobTitle:         "Software Engineer",
		WorkLocationType: "HYBRID",
		Bio:              "test bio",
		PersonalEmail:    fmt.Sprintf("first%d@personal.test", seq),
		Salary:           75000,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	for _, opt := range opts {
		opt(&profile)
	}

	return profile
}

// WithDepartment sets the profile department
func WithDepartment(department string) func(*ProfileFixture) {
	return func(p *ProfileFixture) {
		p.Department = department
	}
}

// WithEmploymentStatus sets the profile employment status
func WithEmploymentStatus(status string) func(*ProfileFixture) {
	return func(p *ProfileFixture) {
		p.EmploymentStatus = status
	}
}

// WithPreferredName sets the profile preferred name
func WithPreferredName(name string) func(*ProfileFixture) {
	return func(p *ProfileFixture) {
		p.PreferredName = name
	}
}

// Absence creates an absence fixture for the given user
func (f *FixtureFactory) Absence(userID string, opts ...func(*AbsenceFixture)) AbsenceFixture {
	today := time.Now().Truncate(24 * time.Hour)

	absence := AbsenceFixture{
		ID:        uuid.New().String(),
		UserID:    userID,
		StartDate: today.AddDate(0, 0, 1),
		EndDate:   today.AddDate(0, 0, 3),
		Type:      "VACATION",
		Status:    "PENDING",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(&absence)
	}

	return absence
}

// WithAbsenceStatus sets the absence status
func WithAbsenceStatus(status string) func(*AbsenceFixture) {
	return func(a *AbsenceFixture) {
		a.Status = status
	}
}

// WithAbsenceDates sets the absence date range
func WithAbsenceDates(start, end time.Time) func(*AbsenceFixture) {
	return func(a *AbsenceFixture) {
		a.StartDate = start
		a.EndDate = end
	}
}

// WithManagerSnapshot sets the snapshot manager id
func WithManagerSnapshot(managerID string) func(*AbsenceFixture) {
	return func(a *AbsenceFixture) {
		a.ManagerIDSnapshot = &managerID
	}
}

// Feedback creates a feedback fixture between two users
func (f *FixtureFactory) Feedback(authorID, recipientID string, opts ...func(*FeedbackFixture)) FeedbackFixture {
	seq := f.nextSeq()

	fb := FeedbackFixture{
		ID:          uuid.New().String(),
		AuthorID:    authorID,
		RecipientID: recipientID,
		Text:        fmt.Sprintf("great collaboration on project %d", seq),
		AIPolished:  false,
		CreatedAt:   time.Now(),
	}

	for _, opt := range opts {
		opt(&fb)
	}

	return fb
}
