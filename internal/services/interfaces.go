package services

import (
	"context"
	"time"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RecordAttendanceRequest = validator.RecordAttendanceRequest
type EnrollmentActionRequest = validator.EnrollmentActionRequest
type RequestEnrollmentRequest = validator.RequestEnrollmentRequest
type RenameStudentRequest = validator.RenameStudentRequest
type UpdateEmailRequest = validator.UpdateEmailRequest

// ScanResult is returned by attendance mutators.
type ScanResult struct {
	ModuleCode    string    `json:"module_code"`
	Date          string    `json:"date"`
	StudentNumber string    `json:"student_number"`
	ScanTime      time.Time `json:"scan_time"`

	// AlreadyRecorded is true when the scan deduplicated against an
	// existing record for the same module, date and student.
	AlreadyRecorded bool `json:"already_recorded"`
}

// NonAttendedResponse lists the enrolled students without a scan record for
// the session.
type NonAttendedResponse struct {
	ModuleCode  string               `json:"module_code"`
	Date        string               `json:"date"`
	NonAttended []models.RosterEntry `json:"non_attended"`
	Enrolled    int                  `json:"enrolled"`
	Attended    int                  `json:"attended"`
}

// RosterResponse is the lecturer/admin view of one module's roster.
type RosterResponse struct {
	ModuleCode string               `json:"module_code"`
	Entries    []models.RosterEntry `json:"entries"`
	Pending    int                  `json:"pending"`
	Enrolled   int                  `json:"enrolled"`
}

// ReferenceUpdate is one staged rewrite in an identity mutation work list.
type ReferenceUpdate struct {
	Collection string `json:"collection"`
	DocumentID string `json:"document_id"`
	Field      string `json:"field"`
	Committed  bool   `json:"committed"`
}

// RenameReport tells the caller exactly how far an identity mutation got.
// Success means every chunk committed; on failure the committed prefix and
// the resume cursor let the caller retry from the first uncommitted chunk
// instead of assuming (or restarting) the whole fan-out.
type RenameReport struct {
	OldValue        string            `json:"old_value"`
	NewValue        string            `json:"new_value"`
	TotalReferences int               `json:"total_references"`
	ChunksTotal     int               `json:"chunks_total"`
	ChunksCommitted int               `json:"chunks_committed"`
	ResumeCursor    int               `json:"resume_cursor"`
	References      []ReferenceUpdate `json:"references,omitempty"`
}

// Completed reports whether every reference was rewritten.
func (r *RenameReport) Completed() bool {
	return r.ChunksCommitted == r.ChunksTotal
}

// AttendanceRateResponse is the per-student aggregation result. Rate is nil
// while no sessions have been opened for the student's modules: "not yet
// measurable", never a division error.
type AttendanceRateResponse struct {
	StudentNumber string   `json:"student_number"`
	Attended      int      `json:"attended"`
	Required      int      `json:"required"`
	Rate          *float64 `json:"rate,omitempty"`
}

// ModuleAttendanceSummary is the per-module, per-date aggregation result.
type ModuleAttendanceSummary struct {
	ModuleCode  string  `json:"module_code"`
	Date        string  `json:"date"`
	Enrolled    int     `json:"enrolled"`
	Attended    int     `json:"attended"`
	NonAttended int     `json:"non_attended"`
	Turnout     float64 `json:"turnout"`
}

// NotificationRequest describes one outbound notification.
type NotificationRequest struct {
	Type     models.NotificationType     `json:"type" validate:"required"`
	Title    string                      `json:"title" validate:"required,max=200"`
	Message  string                      `json:"message" validate:"required,max=2000"`
	Priority models.NotificationPriority `json:"priority" validate:"omitempty,oneof=low normal high"`
}

// ===== SERVICE INTERFACES =====

type AttendanceService interface {
	// RecordAttendance registers a scan for an open session. Calling it
	// twice with the same module, date and student yields one record.
	RecordAttendance(ctx context.Context, req *RecordAttendanceRequest) (*ScanResult, error)

	// FetchNonAttended diffs the enrolled roster against the session's scan
	// records. Read-only reporting view, eventually consistent.
	FetchNonAttended(ctx context.Context, moduleCode, date string) (*NonAttendedResponse, error)

	// MarkRetroactiveAttendance inserts a late correction stamped with the
	// current wall-clock time, under the same dedup contract as a live scan.
	MarkRetroactiveAttendance(ctx context.Context, moduleCode, date, studentNumber string) (*ScanResult, error)

	// Ledger returns the per-module date→records view.
	Ledger(ctx context.Context, moduleCode string) (*models.LedgerEntry, error)
}

type EnrollmentService interface {
	// Request moves (module, student) from absent to pending. Idempotent:
	// an existing pending or enrolled entry rejects the request.
	Request(ctx context.Context, req *RequestEnrollmentRequest) error

	// Approve moves pending to enrolled, replacing the roster array in one
	// write. EntryNotFoundError when the student has no pending entry.
	Approve(ctx context.Context, moduleCode, studentNumber string) error

	// Decline removes a pending entry from the roster.
	Decline(ctx context.Context, moduleCode, studentNumber string) error

	// Remove administratively removes an enrolled student.
	Remove(ctx context.Context, moduleCode, studentNumber string) error

	Roster(ctx context.Context, moduleCode string) (*RosterResponse, error)
}

type IdentityService interface {
	// RenameStudentNumber rewrites every reference to oldNumber across
	// students, enrolledModules and Attended. The returned report is
	// meaningful on failure too: it says which chunks committed.
	RenameStudentNumber(ctx context.Context, oldNumber, newNumber string) (*RenameReport, error)

	// UpdateEmail mirrors a student email change everywhere it is embedded.
	UpdateEmail(ctx context.Context, studentNumber, newEmail string) (*RenameReport, error)
}

type StatsService interface {
	// ComputeAttendanceRate derives {attended, required, rate} for one
	// student across their enrolled modules. Missing documents contribute
	// zero; required == 0 yields a nil rate.
	ComputeAttendanceRate(ctx context.Context, studentNumber string) (*AttendanceRateResponse, error)

	// ModuleSummary summarizes one session's turnout.
	ModuleSummary(ctx context.Context, moduleCode, date string) (*ModuleAttendanceSummary, error)
}

type NotificationEventService interface {
	// NotifyEnrollmentDecision emits the event for an approve/decline/
	// remove transition. Errors are returned for logging only; callers
	// never fail the transition on them.
	NotifyEnrollmentDecision(ctx context.Context, eventType string, moduleCode string, entry models.RosterEntry) error

	// NotifyAttendanceCorrected emits the retroactive-correction event.
	NotifyAttendanceCorrected(ctx context.Context, record models.ScanRecord) error

	// SendBulkNotification fans one notification out to many students.
	SendBulkNotification(ctx context.Context, studentNumbers []string, notification *NotificationRequest) error
}

type ExportService interface {
	// AttendanceReport renders one module's ledger and roster into an XLSX
	// workbook (dates as columns, enrolled students as rows).
	AttendanceReport(ctx context.Context, moduleCode string) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Attendance() AttendanceService
	Enrollment() EnrollmentService
	Identity() IdentityService
	Stats() StatsService
	Notification() NotificationEventService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
