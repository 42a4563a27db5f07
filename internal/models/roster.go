package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentEnrolled EnrollmentStatus = "enrolled"
	EnrollmentRemoved  EnrollmentStatus = "removed"
)

// IsValid reports whether the status is one of the known roster states.
func (s EnrollmentStatus) IsValid() bool {
	switch s {
	case EnrollmentPending, EnrollmentEnrolled, EnrollmentRemoved:
		return true
	default:
		return false
	}
}

// IsActive reports whether the entry still occupies the student's slot in the
// roster. At most one active entry per student may exist in a roster.
func (s EnrollmentStatus) IsActive() bool {
	return s == EnrollmentPending || s == EnrollmentEnrolled
}

// RosterEntry is one student's enrollment record inside a module roster.
// The email is denormalized alongside the student number so that both
// identity mutations have a single rewrite surface.
type RosterEntry struct {
	StudentNumber string           `json:"studentNumber"`
	Email         string           `json:"email"`
	Status        EnrollmentStatus `json:"status"`
	RequestedAt   time.Time        `json:"requestedAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// EnrollmentRoster is one document in the `enrolledModules` collection,
// keyed by module code. It is created lazily on the first enrollment request.
type EnrollmentRoster struct {
	ModuleCode string        `json:"moduleCode"`
	Entries    []RosterEntry `json:"entries"`
}

// ActiveEntry returns the pending or enrolled entry for the student, if any.
func (r *EnrollmentRoster) ActiveEntry(studentNumber string) *RosterEntry {
	for i := range r.Entries {
		if r.Entries[i].StudentNumber == studentNumber && r.Entries[i].Status.IsActive() {
			return &r.Entries[i]
		}
	}
	return nil
}

// EnrolledStudentNumbers returns the student numbers with status enrolled.
func (r *EnrollmentRoster) EnrolledStudentNumbers() []string {
	var out []string
	for _, e := range r.Entries {
		if e.Status == EnrollmentEnrolled {
			out = append(out, e.StudentNumber)
		}
	}
	return out
}
