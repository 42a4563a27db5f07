package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/cache"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/docstore"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/repositories"
)

func newStatsFixture(t *testing.T) (StatsService, repositories.Repository) {
	t.Helper()
	store := docstore.NewMemoryStore()
	repo := newTestRepo(store)
	return NewStatsService(repo, testLogger(), cache.NewCacheManager(nil)), repo
}

func seedAssignment(t *testing.T, repo repositories.Repository, staffNumber string, modules ...models.Module) {
	t.Helper()
	doc, err := docstore.DocumentFrom(models.AssignedLectures{
		StaffNumber: staffNumber,
		Modules:     modules,
	})
	if err != nil {
		t.Fatalf("encode assignment: %v", err)
	}
	if err := repo.Store().Set(context.Background(), models.CollectionAssignedLectures, staffNumber, doc); err != nil {
		t.Fatalf("seed assignment %s: %v", staffNumber, err)
	}
}

func TestStatsService_ComputeAttendanceRate(t *testing.T) {
	ctx := context.Background()

	t.Run("seven of ten sessions", func(t *testing.T) {
		service, repo := newStatsFixture(t)
		seedStudent(t, repo, "22008452", "22008452@live.mut.ac.za", "CS100")
		seedRosterEntry(t, repo, "CS100", "22008452", "22008452@live.mut.ac.za", models.EnrollmentEnrolled)
		seedAssignment(t, repo, "staff-01", models.Module{ModuleCode: "CS100", ScannerOpenCount: 10})
		seedManyScans(t, repo, "CS100", "22008452", 7)

		resp, err := service.ComputeAttendanceRate(ctx, "22008452")
		if err != nil {
			t.Fatalf("ComputeAttendanceRate failed: %v", err)
		}
		if resp.Attended != 7 || resp.Required != 10 {
			t.Errorf("expected 7/10, got %d/%d", resp.Attended, resp.Required)
		}
		if resp.Rate == nil || *resp.Rate != 0.7 {
			t.Errorf("expected rate 0.7, got %v", resp.Rate)
		}
	})

	t.Run("no sessions yields a nil rate", func(t *testing.T) {
		service, repo := newStatsFixture(t)
		seedStudent(t, repo, "22008452", "22008452@live.mut.ac.za", "CS100")
		seedRosterEntry(t, repo, "CS100", "22008452", "22008452@live.mut.ac.za", models.EnrollmentEnrolled)

		resp, err := service.ComputeAttendanceRate(ctx, "22008452")
		if err != nil {
			t.Fatalf("ComputeAttendanceRate failed: %v", err)
		}
		if resp.Required != 0 {
			t.Errorf("expected 0 required sessions, got %d", resp.Required)
		}
		if resp.Rate != nil {
			t.Errorf("expected nil rate while required is zero, got %v", *resp.Rate)
		}
	})

	t.Run("module listed under two staff members counts both", func(t *testing.T) {
		service, repo := newStatsFixture(t)
		seedStudent(t, repo, "22008452", "22008452@live.mut.ac.za", "CS100")
		seedRosterEntry(t, repo, "CS100", "22008452", "22008452@live.mut.ac.za", models.EnrollmentEnrolled)
		seedAssignment(t, repo, "staff-01", models.Module{ModuleCode: "CS100", ScannerOpenCount: 6})
		seedAssignment(t, repo, "staff-02", models.Module{ModuleCode: "CS100", ScannerOpenCount: 4})

		resp, err := service.ComputeAttendanceRate(ctx, "22008452")
		if err != nil {
			t.Fatalf("ComputeAttendanceRate failed: %v", err)
		}
		if resp.Required != 10 {
			t.Errorf("expected both counts summed to 10, got %d", resp.Required)
		}
	})

	t.Run("scans outside enrolled modules are ignored", func(t *testing.T) {
		service, repo := newStatsFixture(t)
		seedStudent(t, repo, "22008452", "22008452@live.mut.ac.za", "CS100")
		seedRosterEntry(t, repo, "CS100", "22008452", "22008452@live.mut.ac.za", models.EnrollmentEnrolled)
		seedAssignment(t, repo, "staff-01", models.Module{ModuleCode: "CS100", ScannerOpenCount: 2})
		seedScan(t, repo, "CS100", "2025-03-14", "22008452", "22008452@live.mut.ac.za")
		seedScan(t, repo, "IT200", "2025-03-14", "22008452", "22008452@live.mut.ac.za")

		resp, err := service.ComputeAttendanceRate(ctx, "22008452")
		if err != nil {
			t.Fatalf("ComputeAttendanceRate failed: %v", err)
		}
		if resp.Attended != 1 {
			t.Errorf("expected 1 counted scan, got %d", resp.Attended)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		service, _ := newStatsFixture(t)

		_, err := service.ComputeAttendanceRate(ctx, "22000000")
		if !IsNotFoundError(err) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("second read is served from the cache", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { client.Close() })

		store := docstore.NewMemoryStore()
		repo := newTestRepo(store)
		service := NewStatsService(repo, testLogger(), cache.NewCacheManager(client))

		seedStudent(t, repo, "22008452", "22008452@live.mut.ac.za", "CS100")
		seedRosterEntry(t, repo, "CS100", "22008452", "22008452@live.mut.ac.za", models.EnrollmentEnrolled)
		seedAssignment(t, repo, "staff-01", models.Module{ModuleCode: "CS100", ScannerOpenCount: 10})
		seedManyScans(t, repo, "CS100", "22008452", 7)

		first, err := service.ComputeAttendanceRate(ctx, "22008452")
		if err != nil {
			t.Fatalf("first read failed: %v", err)
		}

		// A new scan does not show up until the cached value expires.
		seedScan(t, repo, "CS100", "2025-06-01", "22008452", "22008452@live.mut.ac.za")

		second, err := service.ComputeAttendanceRate(ctx, "22008452")
		if err != nil {
			t.Fatalf("second read failed: %v", err)
		}
		if second.Attended != first.Attended {
			t.Errorf("expected cached result %d, got %d", first.Attended, second.Attended)
		}

		mr.FastForward(cache.StatsCacheConfig.TTL)

		third, err := service.ComputeAttendanceRate(ctx, "22008452")
		if err != nil {
			t.Fatalf("third read failed: %v", err)
		}
		if third.Attended != first.Attended+1 {
			t.Errorf("expected fresh result after TTL, got %d", third.Attended)
		}
	})
}

func TestStatsService_ModuleSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("turnout for one session", func(t *testing.T) {
		service, repo := newStatsFixture(t)
		seedRosterEntry(t, repo, "CS100", "22000001", "s1@live.mut.ac.za", models.EnrollmentEnrolled)
		seedRosterEntry(t, repo, "CS100", "22000002", "s2@live.mut.ac.za", models.EnrollmentEnrolled)
		seedScan(t, repo, "CS100", "2025-03-14", "22000001", "s1@live.mut.ac.za")

		summary, err := service.ModuleSummary(ctx, "CS100", "2025-03-14")
		if err != nil {
			t.Fatalf("ModuleSummary failed: %v", err)
		}
		if summary.Enrolled != 2 || summary.Attended != 1 || summary.NonAttended != 1 {
			t.Errorf("unexpected summary: %+v", summary)
		}
		if summary.Turnout != 0.5 {
			t.Errorf("expected turnout 0.5, got %f", summary.Turnout)
		}
	})

	t.Run("empty module", func(t *testing.T) {
		service, _ := newStatsFixture(t)

		summary, err := service.ModuleSummary(ctx, "IT200", "2025-03-14")
		if err != nil {
			t.Fatalf("ModuleSummary failed: %v", err)
		}
		if summary.Enrolled != 0 || summary.Turnout != 0 {
			t.Errorf("expected empty summary, got %+v", summary)
		}
	})
}
