package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/cache"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/events"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/repositories"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	notifier  NotificationEventService
	cache     *cache.CacheManager
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, notifier NotificationEventService, cacheManager *cache.CacheManager) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		notifier:  notifier,
		cache:     cacheManager,
	}
}

// ===== STUDENT REQUESTS =====

func (s *enrollmentService) Request(ctx context.Context, req *RequestEnrollmentRequest) error {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}

	student, err := s.repo.Student().GetByNumber(ctx, req.StudentNumber)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return fmt.Errorf("%w: %s", ErrStudentNotFound, req.StudentNumber)
		}
		return NewPersistenceError("read student", err)
	}

	roster, err := s.repo.Roster().Get(ctx, req.ModuleCode)
	if err != nil && !repositories.IsNotFoundError(err) {
		return NewPersistenceError("read roster", err)
	}

	// One active entry per student per roster. Removed and declined entries
	// do not block a fresh request.
	if roster != nil {
		if active := roster.ActiveEntry(req.StudentNumber); active != nil {
			if active.Status == models.EnrollmentPending {
				return fmt.Errorf("%w: %s in %s", ErrEnrollmentPending, req.StudentNumber, req.ModuleCode)
			}
			return fmt.Errorf("%w: %s in %s", ErrAlreadyEnrolled, req.StudentNumber, req.ModuleCode)
		}
	}

	now := time.Now().UTC()
	entry := models.RosterEntry{
		StudentNumber: student.StudentNumber,
		Email:         student.Email,
		Status:        models.EnrollmentPending,
		RequestedAt:   now,
		UpdatedAt:     now,
	}

	if err := s.repo.Roster().AppendEntry(ctx, req.ModuleCode, entry); err != nil {
		return NewPersistenceError("append roster entry", err)
	}

	cache.InvalidateModuleCaches(ctx, s.cache, req.ModuleCode)

	s.logger.Info("Enrollment requested",
		"module_code", req.ModuleCode,
		"student_number", req.StudentNumber)
	return nil
}

// ===== LECTURER DECISIONS =====

func (s *enrollmentService) Approve(ctx context.Context, moduleCode, studentNumber string) error {
	return s.transition(ctx, moduleCode, studentNumber, models.EnrollmentPending, events.TypeEnrollmentApproved,
		func(entries []models.RosterEntry, idx int) []models.RosterEntry {
			entries[idx].Status = models.EnrollmentEnrolled
			entries[idx].UpdatedAt = time.Now().UTC()
			return entries
		})
}

func (s *enrollmentService) Decline(ctx context.Context, moduleCode, studentNumber string) error {
	return s.transition(ctx, moduleCode, studentNumber, models.EnrollmentPending, events.TypeEnrollmentDeclined,
		func(entries []models.RosterEntry, idx int) []models.RosterEntry {
			// Declined requests leave no trace in the roster.
			return append(entries[:idx], entries[idx+1:]...)
		})
}

func (s *enrollmentService) Remove(ctx context.Context, moduleCode, studentNumber string) error {
	return s.transition(ctx, moduleCode, studentNumber, models.EnrollmentEnrolled, events.TypeEnrollmentRemoved,
		func(entries []models.RosterEntry, idx int) []models.RosterEntry {
			entries[idx].Status = models.EnrollmentRemoved
			entries[idx].UpdatedAt = time.Now().UTC()
			return entries
		})
}

// transition finds the student's active entry, checks it holds the expected
// status, applies the mutation and replaces the whole array in one write.
func (s *enrollmentService) transition(ctx context.Context, moduleCode, studentNumber string, from models.EnrollmentStatus, eventType string, apply func([]models.RosterEntry, int) []models.RosterEntry) error {
	req := &EnrollmentActionRequest{ModuleCode: moduleCode, StudentNumber: studentNumber}
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}

	roster, err := s.repo.Roster().Get(ctx, moduleCode)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError(models.CollectionEnrolledModules, moduleCode)
		}
		return NewPersistenceError("read roster", err)
	}

	idx := -1
	for i := range roster.Entries {
		if roster.Entries[i].StudentNumber == studentNumber && roster.Entries[i].Status.IsActive() {
			idx = i
			break
		}
	}
	if idx == -1 {
		return NewEntryNotFoundError(moduleCode, studentNumber)
	}
	if roster.Entries[idx].Status != from {
		return fmt.Errorf("%w: %s is %s, expected %s",
			ErrInvalidStatusChange, studentNumber, roster.Entries[idx].Status, from)
	}

	subject := roster.Entries[idx]
	updated := apply(roster.Entries, idx)

	if err := s.repo.Roster().ReplaceEntries(ctx, moduleCode, updated); err != nil {
		return NewPersistenceError("replace roster entries", err)
	}

	cache.InvalidateModuleCaches(ctx, s.cache, moduleCode)
	cache.InvalidateStudentStats(ctx, s.cache, studentNumber)

	// Notification delivery never fails the decision.
	if err := s.notifier.NotifyEnrollmentDecision(ctx, eventType, moduleCode, subject); err != nil {
		s.logger.Error("Failed to publish enrollment event",
			"error", err,
			"event_type", eventType,
			"module_code", moduleCode,
			"student_number", studentNumber)
	}

	s.logger.Info("Enrollment transition applied",
		"event_type", eventType,
		"module_code", moduleCode,
		"student_number", studentNumber)
	return nil
}

// ===== ROSTER VIEW =====

func (s *enrollmentService) Roster(ctx context.Context, moduleCode string) (*RosterResponse, error) {
	cacheKey := fmt.Sprintf("module:%s", moduleCode)

	var cached RosterResponse
	if err := s.cache.Roster.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	roster, err := s.repo.Roster().Get(ctx, moduleCode)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError(models.CollectionEnrolledModules, moduleCode)
		}
		return nil, NewPersistenceError("read roster", err)
	}

	resp := &RosterResponse{
		ModuleCode: moduleCode,
		Entries:    roster.Entries,
	}
	for _, entry := range roster.Entries {
		switch entry.Status {
		case models.EnrollmentPending:
			resp.Pending++
		case models.EnrollmentEnrolled:
			resp.Enrolled++
		}
	}

	if err := s.cache.Roster.Set(ctx, cacheKey, resp, cache.RosterCacheConfig.TTL); err != nil {
		s.logger.Warn("Failed to cache roster", "error", err, "module_code", moduleCode)
	}

	return resp, nil
}
