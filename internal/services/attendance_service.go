package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/repositories"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/validator"
)

type attendanceService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	notifier  NotificationEventService
}

func NewAttendanceService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, notifier NotificationEventService) AttendanceService {
	return &attendanceService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		notifier:  notifier,
	}
}

// ===== SCAN RECORDING =====

func (s *attendanceService) RecordAttendance(ctx context.Context, req *RecordAttendanceRequest) (*ScanResult, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	student, err := s.getStudent(ctx, req.StudentNumber)
	if err != nil {
		return nil, err
	}

	scanTime := time.Now().UTC()
	if req.ScanTime != nil {
		scanTime = req.ScanTime.UTC()
	}

	return s.recordScan(ctx, models.ScanRecord{
		ModuleCode:    req.ModuleCode,
		Date:          req.Date,
		StudentNumber: student.StudentNumber,
		Email:         student.Email,
		ScanTime:      scanTime,
	})
}

func (s *attendanceService) MarkRetroactiveAttendance(ctx context.Context, moduleCode, date, studentNumber string) (*ScanResult, error) {
	req := &validator.RetroactiveAttendanceRequest{
		ModuleCode:    moduleCode,
		Date:          date,
		StudentNumber: studentNumber,
	}
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	student, err := s.getStudent(ctx, studentNumber)
	if err != nil {
		return nil, err
	}

	// A correction is stamped with the current wall-clock time, whether or
	// not a scanner session is open for the module.
	record := models.ScanRecord{
		ModuleCode:    moduleCode,
		Date:          date,
		StudentNumber: student.StudentNumber,
		Email:         student.Email,
		ScanTime:      time.Now().UTC(),
	}

	result, err := s.recordScan(ctx, record)
	if err != nil {
		return nil, err
	}

	if !result.AlreadyRecorded {
		if err := s.notifier.NotifyAttendanceCorrected(ctx, record); err != nil {
			s.logger.Error("Failed to publish attendance correction event",
				"error", err,
				"module_code", moduleCode,
				"student_number", studentNumber)
		}
	}

	return result, nil
}

// recordScan applies the dedup contract shared by live scans and
// retroactive corrections: one record per (module, date, student). The scan
// layout makes the write itself idempotent; the prior read only preserves
// the first scan's timestamp.
func (s *attendanceService) recordScan(ctx context.Context, record models.ScanRecord) (*ScanResult, error) {
	existing, err := s.findScan(ctx, record.ModuleCode, record.Date, record.StudentNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ScanResult{
			ModuleCode:      record.ModuleCode,
			Date:            record.Date,
			StudentNumber:   record.StudentNumber,
			ScanTime:        existing.ScanTime,
			AlreadyRecorded: true,
		}, nil
	}

	if err := s.repo.Ledger().RecordScan(ctx, record); err != nil {
		return nil, NewPersistenceError("record attendance", err)
	}

	s.logger.Info("Attendance recorded",
		"module_code", record.ModuleCode,
		"date", record.Date,
		"student_number", record.StudentNumber)

	return &ScanResult{
		ModuleCode:    record.ModuleCode,
		Date:          record.Date,
		StudentNumber: record.StudentNumber,
		ScanTime:      record.ScanTime,
	}, nil
}

// ===== REPORTING READS =====

func (s *attendanceService) FetchNonAttended(ctx context.Context, moduleCode, date string) (*NonAttendedResponse, error) {
	enrolled, err := s.enrolledEntries(ctx, moduleCode)
	if err != nil {
		return nil, err
	}

	scans, err := s.repo.Ledger().SessionScans(ctx, moduleCode, date)
	if err != nil {
		return nil, NewPersistenceError("fetch session scans", err)
	}

	attended := make(map[string]bool, len(scans))
	for _, scan := range scans {
		attended[scan.StudentNumber] = true
	}

	nonAttended := make([]models.RosterEntry, 0)
	for _, entry := range enrolled {
		if !attended[entry.StudentNumber] {
			nonAttended = append(nonAttended, entry)
		}
	}

	return &NonAttendedResponse{
		ModuleCode:  moduleCode,
		Date:        date,
		NonAttended: nonAttended,
		Enrolled:    len(enrolled),
		Attended:    len(enrolled) - len(nonAttended),
	}, nil
}

func (s *attendanceService) Ledger(ctx context.Context, moduleCode string) (*models.LedgerEntry, error) {
	entry, err := s.repo.Ledger().Entry(ctx, moduleCode)
	if err != nil {
		return nil, NewPersistenceError("read ledger", err)
	}
	return entry, nil
}

// ===== HELPERS =====

func (s *attendanceService) getStudent(ctx context.Context, studentNumber string) (*models.Student, error) {
	student, err := s.repo.Student().GetByNumber(ctx, studentNumber)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentNumber)
		}
		return nil, NewPersistenceError("read student", err)
	}
	return student, nil
}

func (s *attendanceService) findScan(ctx context.Context, moduleCode, date, studentNumber string) (*models.ScanRecord, error) {
	entry, err := s.repo.Ledger().SessionScans(ctx, moduleCode, date)
	if err != nil {
		return nil, NewPersistenceError("read session scans", err)
	}
	for i := range entry {
		if entry[i].StudentNumber == studentNumber {
			return &entry[i], nil
		}
	}
	return nil, nil
}

// enrolledEntries returns the roster entries with status enrolled; a module
// with no roster document yet contributes an empty set.
func (s *attendanceService) enrolledEntries(ctx context.Context, moduleCode string) ([]models.RosterEntry, error) {
	roster, err := s.repo.Roster().Get(ctx, moduleCode)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, NewPersistenceError("read roster", err)
	}

	var enrolled []models.RosterEntry
	for _, entry := range roster.Entries {
		if entry.Status == models.EnrollmentEnrolled {
			enrolled = append(enrolled, entry)
		}
	}
	return enrolled, nil
}
