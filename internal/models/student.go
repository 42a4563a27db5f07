package models

import "time"

// Student is the primary student document, keyed by student number in the
// `students` collection. The student number is a mutable primary key: renames
// are handled by the identity service, never by editing this struct in place.
type Student struct {
	StudentNumber string   `json:"studentNumber" validate:"required,student_number"`
	Name          string   `json:"name" validate:"required,max=100"`
	Surname       string   `json:"surname" validate:"required,max=100"`
	Email         string   `json:"email" validate:"required,email"`
	ModuleCodes   []string `json:"moduleCodes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy safe to mutate (used by the rename flow, which writes
// a new document and must not alias the old one).
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	clone := *s
	clone.ModuleCodes = append([]string(nil), s.ModuleCodes...)
	return &clone
}
