package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/repositories"
)

const reportSheetName = "Attendance"

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// AttendanceReport lays the module's ledger out as a matrix: one row per
// enrolled student, one column per session date, a mark where a scan exists.
func (s *exportService) AttendanceReport(ctx context.Context, moduleCode string) ([]byte, error) {
	roster, err := s.repo.Roster().Get(ctx, moduleCode)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError(models.CollectionEnrolledModules, moduleCode)
		}
		return nil, NewPersistenceError("read roster", err)
	}

	ledger, err := s.repo.Ledger().Entry(ctx, moduleCode)
	if err != nil {
		return nil, NewPersistenceError("read ledger", err)
	}

	dates := make([]string, 0, len(ledger.Dates))
	for date := range ledger.Dates {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	students := make([]models.RosterEntry, 0, len(roster.Entries))
	for _, entry := range roster.Entries {
		if entry.Status == models.EnrollmentEnrolled {
			students = append(students, entry)
		}
	}
	sort.Slice(students, func(i, j int) bool {
		return students[i].StudentNumber < students[j].StudentNumber
	})

	attended := make(map[string]map[string]bool, len(dates))
	for date, records := range ledger.Dates {
		marks := make(map[string]bool, len(records))
		for _, record := range records {
			marks[record.StudentNumber] = true
		}
		attended[date] = marks
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheetName)
	if err != nil {
		return nil, fmt.Errorf("create report sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("prepare workbook: %w", err)
	}

	header := []any{"Student Number", "Email"}
	for _, date := range dates {
		header = append(header, date)
	}
	header = append(header, "Sessions Attended")
	if err := s.writeRow(f, 1, header); err != nil {
		return nil, err
	}

	for i, student := range students {
		row := []any{student.StudentNumber, student.Email}
		total := 0
		for _, date := range dates {
			if attended[date][student.StudentNumber] {
				row = append(row, "P")
				total++
			} else {
				row = append(row, "")
			}
		}
		row = append(row, total)
		if err := s.writeRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}

	s.logger.Info("Attendance report generated",
		"module_code", moduleCode,
		"students", len(students),
		"dates", len(dates))
	return buf.Bytes(), nil
}

func (s *exportService) writeRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("report cell name: %w", err)
	}
	if err := f.SetSheetRow(reportSheetName, cell, &values); err != nil {
		return fmt.Errorf("write report row %d: %w", row, err)
	}
	return nil
}
