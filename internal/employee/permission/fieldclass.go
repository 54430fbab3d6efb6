// Package permission holds the field classification and the
// relationship/class decision table that every profile read and write
// goes through.
package permission

// FieldClass partitions profile attributes by who may see and edit them.
type FieldClass string

const (
	// SystemManaged fields come from the HR system of record and are
	// read-only through this service.
	SystemManaged FieldClass = "SYSTEM_MANAGED"

	// NonSensitive fields are visible to everyone in the company.
	NonSensitive FieldClass = "NON_SENSITIVE"

	// Sensitive fields are personal data, hidden from coworkers.
	Sensitive FieldClass = "SENSITIVE"
)

// Relationship is the viewer's position relative to a target user.
type Relationship string

const (
	Self     Relationship = "SELF"
	Manager  Relationship = "MANAGER"
	Coworker Relationship = "COWORKER"
)

// WireName returns the relationship name used on the wire. Coworker is
// reported as OTHER for compatibility with existing clients.
func (r Relationship) WireName() string {
	if r == Coworker {
		return "OTHER"
	}
	return string(r)
}

// Profile attribute names as they appear in update patches and
// projections.
const (
	AttrLegalFirstName   = "legalFirstName"
	AttrLegalLastName    = "legalLastName"
	AttrDepartment       = "department"
	AttrJobCode          = "jobCode"
	AttrJobFamily        = "jobFamily"
	AttrJobLevel         = "jobLevel"
	AttrEmploymentStatus = "employmentStatus"
	AttrHireDate         = "hireDate"
	AttrTerminationDate  = "terminationDate"
	AttrFTE              = "fte"

	AttrPreferredName    = "preferredName"
	AttrJobTitle         = "jobTitle"
	AttrOfficeLocation   = "officeLocation"
	AttrWorkPhone        = "workPhone"
	AttrWorkLocationType = "workLocationType"
	AttrBio              = "bio"
	AttrSkills           = "skills"
	AttrProfilePhotoURL  = "profilePhotoUrl"

	AttrPersonalEmail                = "personalEmail"
	AttrPersonalPhone                = "personalPhone"
	AttrHomeAddress                  = "homeAddress"
	AttrEmergencyContactName         = "emergencyContactName"
	AttrEmergencyContactPhone        = "emergencyContactPhone"
	AttrEmergencyContactRelationship = "emergencyContactRelationship"
	AttrDateOfBirth                  = "dateOfBirth"
	AttrVisaWorkPermit               = "visaWorkPermit"
	AttrAbsenceBalanceDays           = "absenceBalanceDays"
	AttrSalary                       = "salary"
	AttrPerformanceRating            = "performanceRating"
)

// fieldClasses is the compiled-in partition. Every persisted profile
// attribute appears exactly once.
var fieldClasses = map[string]FieldClass{
	AttrLegalFirstName:   SystemManaged,
	AttrLegalLastName:    SystemManaged,
	AttrDepartment:       SystemManaged,
	AttrJobCode:          SystemManaged,
	AttrJobFamily:        SystemManaged,
	AttrJobLevel:         SystemManaged,
	AttrEmploymentStatus: SystemManaged,
	AttrHireDate:         SystemManaged,
	AttrTerminationDate:  SystemManaged,
	AttrFTE:              SystemManaged,

	AttrPreferredName:    NonSensitive,
	AttrJobTitle:         NonSensitive,
	AttrOfficeLocation:   NonSensitive,
	AttrWorkPhone:        NonSensitive,
	AttrWorkLocationType: NonSensitive,
	AttrBio:              NonSensitive,
	AttrSkills:           NonSensitive,
	AttrProfilePhotoURL:  NonSensitive,

	AttrPersonalEmail:                Sensitive,
	AttrPersonalPhone:                Sensitive,
	AttrHomeAddress:                  Sensitive,
	AttrEmergencyContactName:         Sensitive,
	AttrEmergencyContactPhone:        Sensitive,
	AttrEmergencyContactRelationship: Sensitive,
	AttrDateOfBirth:                  Sensitive,
	AttrVisaWorkPermit:               Sensitive,
	AttrAbsenceBalanceDays:           Sensitive,
	AttrSalary:                       Sensitive,
	AttrPerformanceRating:            Sensitive,
}

// ClassOf returns the class of a profile attribute. The second return
// is false for names that are not profile attributes.
func ClassOf(attr string) (FieldClass, bool) {
	class, ok := fieldClasses[attr]
	return class, ok
}

// AllAttributes returns every classified attribute name.
func AllAttributes() []string {
	attrs := make([]string, 0, len(fieldClasses))
	for attr := range fieldClasses {
		attrs = append(attrs, attr)
	}
	return attrs
}

// AttributesOf returns the attribute names in the given class.
func AttributesOf(class FieldClass) []string {
	attrs := make([]string, 0)
	for attr, c := range fieldClasses {
		if c == class {
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

// AllClasses returns the three field classes in display order.
func AllClasses() []FieldClass {
	return []FieldClass{SystemManaged, NonSensitive, Sensitive}
}
