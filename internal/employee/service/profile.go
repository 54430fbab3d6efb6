package service

import (
	"context"
	"fmt"
	"time"

	"github.com/newwork/people-service/internal/employee/events"
	"github.com/newwork/people-service/internal/employee/permission"
	"github.com/newwork/people-service/internal/employee/repository"
	"github.com/newwork/people-service/pkg/errors"
	"github.com/newwork/people-service/pkg/httputil"
	"github.com/newwork/people-service/pkg/logger"
)

const dateLayout = "2006-01-02"

// ProfileMetadata tells the client what it is allowed to see and edit
type ProfileMetadata struct {
	Relationship    string   `json:"relationship"`
	VisibleClasses  []string `json:"visibleClasses"`
	EditableClasses []string `json:"editableClasses"`
}

// ProfileView is the redacted projection of a profile for one viewer.
// Attributes outside the viewer's visible classes are omitted from the
// payload entirely, never emitted as null.
type ProfileView struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	EmployeeID string `json:"employeeId"`

	LegalFirstName   *string  `json:"legalFirstName,omitempty"`
	LegalLastName    *string  `json:"legalLastName,omitempty"`
	Department       *string  `json:"department,omitempty"`
	JobCode          *string  `json:"jobCode,omitempty"`
	JobFamily        *string  `json:"jobFamily,omitempty"`
	JobLevel         *string  `json:"jobLevel,omitempty"`
	EmploymentStatus *string  `json:"employmentStatus,omitempty"`
	HireDate         *string  `json:"hireDate,omitempty"`
	TerminationDate  *string  `json:"terminationDate,omitempty"`
	FTE              *float64 `json:"fte,omitempty"`

	PreferredName    *string `json:"preferredName,omitempty"`
	JobTitle         *string `json:"jobTitle,omitempty"`
	OfficeLocation   *string `json:"officeLocation,omitempty"`
	WorkPhone        *string `json:"workPhone,omitempty"`
	WorkLocationType *string `json:"workLocationType,omitempty"`
	Bio              *string `json:"bio,omitempty"`
	Skills           *string `json:"skills,omitempty"`
	ProfilePhotoURL  *string `json:"profilePhotoUrl,omitempty"`

	PersonalEmail                *string  `json:"personalEmail,omitempty"`
	PersonalPhone                *string  `json:"personalPhone,omitempty"`
	HomeAddress                  *string  `json:"homeAddress,omitempty"`
	EmergencyContactName         *string  `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone        *string  `json:"emergencyContactPhone,omitempty"`
	EmergencyContactRelationship *string  `json:"emergencyContactRelationship,omitempty"`
	DateOfBirth                  *string  `json:"dateOfBirth,omitempty"`
	VisaWorkPermit               *string  `json:"visaWorkPermit,omitempty"`
	AbsenceBalanceDays           *float64 `json:"absenceBalanceDays,omitempty"`
	Salary                       *float64 `json:"salary,omitempty"`
	PerformanceRating            *string  `json:"performanceRating,omitempty"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Metadata  ProfileMetadata `json:"metadata"`
}

// ProfilePatch is a sparse update. Nil means "leave unchanged"; there is
// no way to clear a value back to null through this API. Every profile
// attribute is listed so that a key the caller may not touch parses and
// is rejected by the matrix instead of falling through as unknown.
type ProfilePatch struct {
	LegalFirstName   *string  `json:"legalFirstName"`
	LegalLastName    *string  `json:"legalLastName"`
	Department       *string  `json:"department"`
	JobCode          *string  `json:"jobCode"`
	JobFamily        *string  `json:"jobFamily"`
	JobLevel         *string  `json:"jobLevel"`
	EmploymentStatus *string  `json:"employmentStatus"`
	HireDate         *string  `json:"hireDate"`
	TerminationDate  *string  `json:"terminationDate"`
	FTE              *float64 `json:"fte"`

	PreferredName    *string `json:"preferredName" validate:"omitempty,max=100"`
	JobTitle         *string `json:"jobTitle" validate:"omitempty,max=150"`
	OfficeLocation   *string `json:"officeLocation" validate:"omitempty,max=200"`
	WorkPhone        *string `json:"workPhone" validate:"omitempty,max=20,phone"`
	WorkLocationType *string `json:"workLocationType" validate:"omitempty,oneof=REMOTE HYBRID ONSITE"`
	Bio              *string `json:"bio" validate:"omitempty,max=5000"`
	Skills           *string `json:"skills" validate:"omitempty,max=1000"`
	ProfilePhotoURL  *string `json:"profilePhotoUrl" validate:"omitempty,max=500"`

	PersonalEmail                *string  `json:"personalEmail" validate:"omitempty,email,max=255"`
	PersonalPhone                *string  `json:"personalPhone" validate:"omitempty,max=20,phone"`
	HomeAddress                  *string  `json:"homeAddress" validate:"omitempty,max=500"`
	EmergencyContactName         *string  `json:"emergencyContactName" validate:"omitempty,max=200"`
	EmergencyContactPhone        *string  `json:"emergencyContactPhone" validate:"omitempty,max=20,phone"`
	EmergencyContactRelationship *string  `json:"emergencyContactRelationship" validate:"omitempty,max=50"`
	DateOfBirth                  *string  `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	VisaWorkPermit               *string  `json:"visaWorkPermit" validate:"omitempty,max=200"`
	AbsenceBalanceDays           *float64 `json:"absenceBalanceDays" validate:"omitempty,gte=0"`
	Salary                       *float64 `json:"salary" validate:"omitempty,gte=0"`
	PerformanceRating            *string  `json:"performanceRating" validate:"omitempty,max=50"`
}

// suppliedFields returns the attribute names present in the patch.
func (p *ProfilePatch) suppliedFields() []string {
	fields := make([]string, 0)
	add := func(attr string, set bool) {
		if set {
			fields = append(fields, attr)
		}
	}

	add(permission.AttrLegalFirstName, p.LegalFirstName != nil)
	add(permission.AttrLegalLastName, p.LegalLastName != nil)
	add(permission.AttrDepartment, p.Department != nil)
	add(permission.AttrJobCode, p.JobCode != nil)
	add(permission.AttrJobFamily, p.JobFamily != nil)
	add(permission.AttrJobLevel, p.JobLevel != nil)
	add(permission.AttrEmploymentStatus, p.EmploymentStatus != nil)
	add(permission.AttrHireDate, p.HireDate != nil)
	add(permission.AttrTerminationDate, p.TerminationDate != nil)
	add(permission.AttrFTE, p.FTE != nil)

	add(permission.AttrPreferredName, p.PreferredName != nil)
	add(permission.AttrJobTitle, p.JobTitle != nil)
	add(permission.AttrOfficeLocation, p.OfficeLocation != nil)
	add(permission.AttrWorkPhone, p.WorkPhone != nil)
	add(permission.AttrWorkLocationType, p.WorkLocationType != nil)
	add(permission.AttrBio, p.Bio != nil)
	add(permission.AttrSkills, p.Skills != nil)
	add(permission.AttrProfilePhotoURL, p.ProfilePhotoURL != nil)

	add(permission.AttrPersonalEmail, p.PersonalEmail != nil)
	add(permission.AttrPersonalPhone, p.PersonalPhone != nil)
	add(permission.AttrHomeAddress, p.HomeAddress != nil)
	add(permission.AttrEmergencyContactName, p.EmergencyContactName != nil)
	add(permission.AttrEmergencyContactPhone, p.EmergencyContactPhone != nil)
	add(permission.AttrEmergencyContactRelationship, p.EmergencyContactRelationship != nil)
	add(permission.AttrDateOfBirth, p.DateOfBirth != nil)
	add(permission.AttrVisaWorkPermit, p.VisaWorkPermit != nil)
	add(permission.AttrAbsenceBalanceDays, p.AbsenceBalanceDays != nil)
	add(permission.AttrSalary, p.Salary != nil)
	add(permission.AttrPerformanceRating, p.PerformanceRating != nil)

	return fields
}

// apply writes the supplied editable values onto the profile. Callers
// must have checked the matrix first; system-managed fields are never
// written here.
func (p *ProfilePatch) apply(profile *repository.Profile) {
	setStr := func(dst **string, src *string) {
		if src != nil {
			v := *src
			*dst = &v
		}
	}
	setFloat := func(dst **float64, src *float64) {
		if src != nil {
			v := *src
			*dst = &v
		}
	}

	setStr(&profile.PreferredName, p.PreferredName)
	setStr(&profile.JobTitle, p.JobTitle)
	setStr(&profile.OfficeLocation, p.OfficeLocation)
	setStr(&profile.WorkPhone, p.WorkPhone)
	setStr(&profile.WorkLocationType, p.WorkLocationType)
	setStr(&profile.Bio, p.Bio)
	setStr(&profile.Skills, p.Skills)
	setStr(&profile.ProfilePhotoURL, p.ProfilePhotoURL)

	setStr(&profile.PersonalEmail, p.PersonalEmail)
	setStr(&profile.PersonalPhone, p.PersonalPhone)
	setStr(&profile.HomeAddress, p.HomeAddress)
	setStr(&profile.EmergencyContactName, p.EmergencyContactName)
	setStr(&profile.EmergencyContactPhone, p.EmergencyContactPhone)
	setStr(&profile.EmergencyContactRelationship, p.EmergencyContactRelationship)
	setStr(&profile.VisaWorkPermit, p.VisaWorkPermit)
	setFloat(&profile.AbsenceBalanceDays, p.AbsenceBalanceDays)
	setFloat(&profile.Salary, p.Salary)
	setStr(&profile.PerformanceRating, p.PerformanceRating)

	if p.DateOfBirth != nil {
		// Format already validated.
		if dob, err := time.Parse(dateLayout, *p.DateOfBirth); err == nil {
			profile.DateOfBirth = &dob
		}
	}
}

// ProfileService projects and updates HR profiles under the permission
// matrix
type ProfileService struct {
	users     UserStore
	profiles  ProfileStore
	publisher *events.PeopleEventPublisher
	logger    *logger.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	users UserStore,
	profiles ProfileStore,
	publisher *events.PeopleEventPublisher,
	log *logger.Logger,
) *ProfileService {
	return &ProfileService{
		users:     users,
		profiles:  profiles,
		publisher: publisher,
		logger:    log,
	}
}

// GetProfile returns the viewer's projection of the target's profile
func (s *ProfileService) GetProfile(ctx context.Context, viewerID, targetUserID string) (*ProfileView, error) {
	// One cache per request: the resolver and the projection both need
	// the target account, but it is loaded once.
	cache := newUserCache(s.users)
	resolver := NewRelationshipResolver(cache)

	rel, err := resolver.Resolve(ctx, viewerID, targetUserID)
	if err != nil {
		return nil, err
	}

	target, err := cache.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	return project(profile, target, rel), nil
}

// UpdateProfile applies a sparse patch under the matrix and returns the
// viewer's projection of the new state. Rejection is all-or-nothing: if
// any supplied field sits in a class the viewer may not edit, nothing is
// written.
func (s *ProfileService) UpdateProfile(ctx context.Context, viewerID, targetUserID string, patch *ProfilePatch) (*ProfileView, error) {
	cache := newUserCache(s.users)
	resolver := NewRelationshipResolver(cache)

	rel, err := resolver.Resolve(ctx, viewerID, targetUserID)
	if err != nil {
		return nil, err
	}

	target, err := cache.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	supplied := patch.suppliedFields()
	if len(supplied) == 0 {
		return nil, errors.Validation(map[string]string{"patch": "no fields supplied"})
	}

	for _, class := range permission.AllClasses() {
		if !containsClass(supplied, class) {
			continue
		}
		if !permission.CanEdit(rel, class) {
			return nil, errors.Forbidden(fmt.Sprintf("not allowed to edit %s fields", class))
		}
	}

	if err := httputil.Validate(patch); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	patch.apply(profile)

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	// Re-read so the projection carries the store-assigned updated_at.
	updated, err := s.profiles.GetByUserID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	s.publisher.PublishProfileUpdated(ctx, targetUserID, viewerID, supplied)

	s.logger.Info().
		Str("user_id", targetUserID).
		Str("updated_by", viewerID).
		Strs("fields", supplied).
		Msg("profile updated")

	return project(updated, target, rel), nil
}

func containsClass(attrs []string, class permission.FieldClass) bool {
	for _, attr := range attrs {
		if c, ok := permission.ClassOf(attr); ok && c == class {
			return true
		}
	}
	return false
}

// project builds the redacted view of a profile for one relationship.
func project(profile *repository.Profile, account *repository.User, rel permission.Relationship) *ProfileView {
	view := &ProfileView{
		ID:         profile.ID,
		UserID:     profile.UserID,
		Email:      account.Email,
		EmployeeID: account.EmployeeID,
		CreatedAt:  profile.CreatedAt,
		UpdatedAt:  profile.UpdatedAt,
		Metadata: ProfileMetadata{
			Relationship:    rel.WireName(),
			VisibleClasses:  classNames(permission.VisibleClasses(rel)),
			EditableClasses: classNames(permission.EditableClasses(rel)),
		},
	}

	if permission.CanView(rel, permission.SystemManaged) {
		view.LegalFirstName = strPtr(profile.LegalFirstName)
		view.LegalLastName = strPtr(profile.LegalLastName)
		view.Department = copyStr(profile.Department)
		view.JobCode = copyStr(profile.JobCode)
		view.JobFamily = copyStr(profile.JobFamily)
		view.JobLevel = copyStr(profile.JobLevel)
		view.EmploymentStatus = strPtr(profile.EmploymentStatus)
		view.HireDate = strPtr(profile.HireDate.Format(dateLayout))
		view.TerminationDate = fmtDatePtr(profile.TerminationDate)
		fte := profile.FTE
		view.FTE = &fte
	}

	if permission.CanView(rel, permission.NonSensitive) {
		view.PreferredName = copyStr(profile.PreferredName)
		view.JobTitle = copyStr(profile.JobTitle)
		view.OfficeLocation = copyStr(profile.OfficeLocation)
		view.WorkPhone = copyStr(profile.WorkPhone)
		view.WorkLocationType = copyStr(profile.WorkLocationType)
		view.Bio = copyStr(profile.Bio)
		view.Skills = copyStr(profile.Skills)
		view.ProfilePhotoURL = copyStr(profile.ProfilePhotoURL)
	}

	if permission.CanView(rel, permission.Sensitive) {
		view.PersonalEmail = copyStr(profile.PersonalEmail)
		view.PersonalPhone = copyStr(profile.PersonalPhone)
		view.HomeAddress = copyStr(profile.HomeAddress)
		view.EmergencyContactName = copyStr(profile.EmergencyContactName)
		view.EmergencyContactPhone = copyStr(profile.EmergencyContactPhone)
		view.EmergencyContactRelationship = copyStr(profile.EmergencyContactRelationship)
		view.DateOfBirth = fmtDatePtr(profile.DateOfBirth)
		view.VisaWorkPermit = copyStr(profile.VisaWorkPermit)
		view.AbsenceBalanceDays = copyFloat(profile.AbsenceBalanceDays)
		view.Salary = copyFloat(profile.Salary)
		view.PerformanceRating = copyStr(profile.PerformanceRating)
	}

	return view
}

func classNames(classes []permission.FieldClass) []string {
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = string(c)
	}
	return names
}

func strPtr(s string) *string {
	return &s
}

func copyStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func fmtDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
