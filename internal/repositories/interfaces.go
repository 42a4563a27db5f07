package repositories

import (
	"context"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/docstore"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
)

// ===== STUDENT DOMAIN =====

type StudentRepository interface {
	GetByNumber(ctx context.Context, studentNumber string) (*models.Student, error)
	Exists(ctx context.Context, studentNumber string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

// ===== ENROLLMENT DOMAIN =====

type RosterRepository interface {
	// Get returns the roster for a module; IsNotFoundError when no roster
	// document exists yet (created lazily on first request).
	Get(ctx context.Context, moduleCode string) (*models.EnrollmentRoster, error)

	// ListAll enumerates every roster across all modules.
	ListAll(ctx context.Context) ([]models.EnrollmentRoster, error)

	// AppendEntry adds one entry through the store's array-union transform,
	// creating the roster document if it does not exist yet.
	AppendEntry(ctx context.Context, moduleCode string, entry models.RosterEntry) error

	// ReplaceEntries replaces the whole entries array in one write.
	ReplaceEntries(ctx context.Context, moduleCode string, entries []models.RosterEntry) error
}

// ===== ATTENDANCE DOMAIN =====

type LedgerRepository interface {
	// RecordScan persists one scan under its composite document ID; writing
	// the same (module, date, student) again overwrites in place.
	RecordScan(ctx context.Context, record models.ScanRecord) error

	// Entry assembles the per-module date→records view from the scan
	// documents. A module with no scans yields an entry with no dates.
	Entry(ctx context.Context, moduleCode string) (*models.LedgerEntry, error)

	// SessionScans returns the scans for one module on one date.
	SessionScans(ctx context.Context, moduleCode, date string) ([]models.ScanRecord, error)

	// StudentScans returns every scan recorded for a student, across modules.
	StudentScans(ctx context.Context, studentNumber string) ([]models.ScanRecord, error)
}

// ===== LECTURE ASSIGNMENTS (read-only) =====

type LectureRepository interface {
	ListAssignments(ctx context.Context) ([]models.AssignedLectures, error)
}

// ===== AGGREGATE =====

// Repository bundles the collection-level repositories. Store exposes the raw
// document store for the identity coordinator, which stages cross-collection
// batches that no single repository owns.
type Repository interface {
	Student() StudentRepository
	Roster() RosterRepository
	Ledger() LedgerRepository
	Lecture() LectureRepository

	Store() docstore.Store

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager manages repository lifecycle, mirroring the service
// manager's Initialize/Shutdown pair.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
