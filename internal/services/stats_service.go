package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/cache"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/repositories"
)

type statsService struct {
	repo   repositories.Repository
	logger *slog.Logger
	cache  *cache.CacheManager
}

func NewStatsService(repo repositories.Repository, logger *slog.Logger, cacheManager *cache.CacheManager) StatsService {
	return &statsService{
		repo:   repo,
		logger: logger,
		cache:  cacheManager,
	}
}

// ===== PER-STUDENT RATE =====

func (s *statsService) ComputeAttendanceRate(ctx context.Context, studentNumber string) (*AttendanceRateResponse, error) {
	cacheKey := fmt.Sprintf("rate:%s", studentNumber)

	var cached AttendanceRateResponse
	if err := s.cache.Stats.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	if _, err := s.repo.Student().GetByNumber(ctx, studentNumber); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError(models.CollectionStudents, studentNumber)
		}
		return nil, NewPersistenceError("read student", err)
	}

	enrolled, err := s.enrolledModules(ctx, studentNumber)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionCounts(ctx)
	if err != nil {
		return nil, err
	}

	required := 0
	for code := range enrolled {
		required += sessions[code]
	}

	scans, err := s.repo.Ledger().StudentScans(ctx, studentNumber)
	if err != nil {
		return nil, NewPersistenceError("read student scans", err)
	}
	attended := 0
	for _, scan := range scans {
		if enrolled[scan.ModuleCode] {
			attended++
		}
	}

	resp := &AttendanceRateResponse{
		StudentNumber: studentNumber,
		Attended:      attended,
		Required:      required,
	}
	// No sessions opened yet means the rate is not measurable, not zero.
	if required > 0 {
		rate := float64(attended) / float64(required)
		resp.Rate = &rate
	}

	if err := s.cache.Stats.Set(ctx, cacheKey, resp, cache.StatsCacheConfig.TTL); err != nil {
		s.logger.Warn("Failed to cache attendance rate", "error", err, "student_number", studentNumber)
	}

	return resp, nil
}

// ===== PER-SESSION SUMMARY =====

func (s *statsService) ModuleSummary(ctx context.Context, moduleCode, date string) (*ModuleAttendanceSummary, error) {
	roster, err := s.repo.Roster().Get(ctx, moduleCode)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, NewPersistenceError("read roster", err)
	}

	enrolled := make(map[string]bool)
	if roster != nil {
		for _, num := range roster.EnrolledStudentNumbers() {
			enrolled[num] = true
		}
	}

	scans, err := s.repo.Ledger().SessionScans(ctx, moduleCode, date)
	if err != nil {
		return nil, NewPersistenceError("read session scans", err)
	}

	attended := 0
	for _, scan := range scans {
		if enrolled[scan.StudentNumber] {
			attended++
		}
	}

	summary := &ModuleAttendanceSummary{
		ModuleCode:  moduleCode,
		Date:        date,
		Enrolled:    len(enrolled),
		Attended:    attended,
		NonAttended: len(enrolled) - attended,
	}
	if summary.Enrolled > 0 {
		summary.Turnout = float64(summary.Attended) / float64(summary.Enrolled)
	}
	return summary, nil
}

// ===== HELPERS =====

func (s *statsService) enrolledModules(ctx context.Context, studentNumber string) (map[string]bool, error) {
	rosters, err := s.repo.Roster().ListAll(ctx)
	if err != nil {
		return nil, NewPersistenceError("list rosters", err)
	}
	enrolled := make(map[string]bool)
	for _, roster := range rosters {
		for _, entry := range roster.Entries {
			if entry.StudentNumber == studentNumber && entry.Status == models.EnrollmentEnrolled {
				enrolled[roster.ModuleCode] = true
			}
		}
	}
	return enrolled, nil
}

// sessionCounts sums scannerOpenCount per module across every assignment
// document. A module listed under more than one staff member contributes
// each listed count.
func (s *statsService) sessionCounts(ctx context.Context) (map[string]int, error) {
	assignments, err := s.repo.Lecture().ListAssignments(ctx)
	if err != nil {
		return nil, NewPersistenceError("list lecture assignments", err)
	}
	counts := make(map[string]int)
	for _, assignment := range assignments {
		for _, module := range assignment.Modules {
			counts[module.ModuleCode] += module.ScannerOpenCount
		}
	}
	return counts, nil
}
