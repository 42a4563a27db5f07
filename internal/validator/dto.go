package validator

import "time"

// RecordAttendanceRequest represents a live scan into an attendance session.
type RecordAttendanceRequest struct {
	ModuleCode    string     `json:"module_code" validate:"required,module_code"`
	Date          string     `json:"date" validate:"required,scan_date"`
	StudentNumber string     `json:"student_number" validate:"required,student_number"`
	ScanTime      *time.Time `json:"scan_time"`
}

// RequestEnrollmentRequest represents a student's self-service request to
// join a module.
type RequestEnrollmentRequest struct {
	ModuleCode    string `json:"module_code" validate:"required,module_code"`
	StudentNumber string `json:"student_number" validate:"required,student_number"`
}

// EnrollmentActionRequest represents a lecturer/admin decision on a request.
type EnrollmentActionRequest struct {
	ModuleCode    string `json:"module_code" validate:"required,module_code"`
	StudentNumber string `json:"student_number" validate:"required,student_number"`
}

// RenameStudentRequest represents a primary-key change for a student.
type RenameStudentRequest struct {
	NewStudentNumber string `json:"new_student_number" validate:"required,student_number"`
}

// UpdateEmailRequest represents an email change for a student.
type UpdateEmailRequest struct {
	NewEmail string `json:"new_email" validate:"required,email,max=255"`
}

// RetroactiveAttendanceRequest represents an administrative late correction.
type RetroactiveAttendanceRequest struct {
	ModuleCode    string `json:"module_code" validate:"required,module_code"`
	Date          string `json:"date" validate:"required,scan_date"`
	StudentNumber string `json:"student_number" validate:"required,student_number"`
}
