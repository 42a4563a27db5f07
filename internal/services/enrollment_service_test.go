package services

import (
	"context"
	"errors"
	"testing"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/cache"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/docstore"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/events"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/repositories"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/validator"
)

func newEnrollmentFixture(t *testing.T) (EnrollmentService, repositories.Repository, *events.MockEventPublisher) {
	t.Helper()
	store := docstore.NewMemoryStore()
	repo := newTestRepo(store)
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	v := validator.New()
	notifier := NewNotificationEventService(publisher, logger, v)
	service := NewEnrollmentService(repo, logger, v, notifier, cache.NewCacheManager(nil))
	return service, repo, publisher
}

func activeStatus(t *testing.T, repo repositories.Repository, moduleCode, studentNumber string) models.EnrollmentStatus {
	t.Helper()
	roster, err := repo.Roster().Get(context.Background(), moduleCode)
	if err != nil {
		t.Fatalf("read roster %s: %v", moduleCode, err)
	}
	entry := roster.ActiveEntry(studentNumber)
	if entry == nil {
		t.Fatalf("no active entry for %s in %s", studentNumber, moduleCode)
	}
	return entry.Status
}

func TestEnrollmentService_Request(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending entry", func(t *testing.T) {
		service, repo, _ := newEnrollmentFixture(t)
		seedStudent(t, repo, "22008452", "22008452@live.mut.ac.za")

		err := service.Request(ctx, &RequestEnrollmentRequest{
			ModuleCode:    "CS100",
			StudentNumber: "22008452",
		})
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}

		if status := activeStatus(t, repo, "CS100", "22008452"); status != models.EnrollmentPending {
			t.Errorf("expected pending entry, got %s", status)
		}
	})

	t.Run("duplicate request is rejected", func(t *testing.T) {
		service, repo, _ := newEnrollmentFixture(t)
		seedStudent(t, repo, "22008452", "22008452@live.mut.ac.za")

		req := &RequestEnrollmentRequest{ModuleCode: "CS100", StudentNumber: "22008452"}
		if err := service.Request(ctx, req); err != nil {
			t.Fatalf("first request failed: %v", err)
		}
		if err := service.Request(ctx, req); !errors.Is(err, ErrEnrollmentPending) {
			t.Fatalf("expected ErrEnrollmentPending, got %v", err)
		}

		roster, _ := repo.Roster().Get(ctx, "CS100")
		if len(roster.Entries) != 1 {
			t.Errorf("expected a single roster entry, got %d", len(roster.Entries))
		}
	})

	t.Run("request while enrolled is rejected", func(t *testing.T) {
		service, repo, _ := newEnrollmentFixture(t)
		seedStudent(t, repo, "22008452", "22008452@live.mut.ac.za")
		seedRosterEntry(t, repo, "CS100", "22008452", "22008452@live.mut.ac.za", models.EnrollmentEnrolled)

		err := service.Request(ctx, &RequestEnrollmentRequest{ModuleCode: "CS100", StudentNumber: "22008452"})
		if !errors.Is(err, ErrAlreadyEnrolled) {
			t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
		}
	})

	t.Run("unknown student is rejected", func(t *testing.T) {
		service, _, _ := newEnrollmentFixture(t)

		err := service.Request(ctx, &RequestEnrollmentRequest{ModuleCode: "CS100", StudentNumber: "22000000"})
		if !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("expected ErrStudentNotFound, got %v", err)
		}
	})
}

func TestEnrollmentService_Decisions(t *testing.T) {
	ctx := context.Background()

	t.Run("approve moves pending to enrolled and publishes", func(t *testing.T) {
		service, repo, publisher := newEnrollmentFixture(t)
		seedRosterEntry(t, repo, "CS100", "22008452", "22008452@live.mut.ac.za", models.EnrollmentPending)

		if err := service.Approve(ctx, "CS100", "22008452"); err != nil {
			t.Fatalf("Approve failed: %v", err)
		}
		if status := activeStatus(t, repo, "CS100", "22008452"); status != models.EnrollmentEnrolled {
			t.Errorf("expected enrolled, got %s", status)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeEnrollmentApproved {
			t.Errorf("expected one %s event, got %+v", events.TypeEnrollmentApproved, published)
		}
	})

	t.Run("approve without a pending entry", func(t *testing.T) {
		service, repo, _ := newEnrollmentFixture(t)
		seedRosterEntry(t, repo, "CS100", "22000001", "s1@live.mut.ac.za", models.EnrollmentPending)

		err := service.Approve(ctx, "CS100", "22009999")
		if !IsEntryNotFoundError(err) {
			t.Fatalf("expected EntryNotFoundError, got %v", err)
		}
	})

	t.Run("approve on a missing roster", func(t *testing.T) {
		service, _, _ := newEnrollmentFixture(t)

		err := service.Approve(ctx, "IT200", "22008452")
		if !IsNotFoundError(err) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("approve an already enrolled student", func(t *testing.T) {
		service, repo, _ := newEnrollmentFixture(t)
		seedRosterEntry(t, repo, "CS100", "22008452", "22008452@live.mut.ac.za", models.EnrollmentEnrolled)

		err := service.Approve(ctx, "CS100", "22008452")
		if !errors.Is(err, ErrInvalidStatusChange) {
			t.Fatalf("expected ErrInvalidStatusChange, got %v", err)
		}
	})

	t.Run("decline removes the pending entry", func(t *testing.T) {
		service, repo, publisher := newEnrollmentFixture(t)
		seedStudent(t, repo, "22008452", "22008452@live.mut.ac.za")
		seedRosterEntry(t, repo, "CS100", "22008452", "22008452@live.mut.ac.za", models.EnrollmentPending)

		if err := service.Decline(ctx, "CS100", "22008452"); err != nil {
			t.Fatalf("Decline failed: %v", err)
		}

		roster, _ := repo.Roster().Get(ctx, "CS100")
		if len(roster.Entries) != 0 {
			t.Errorf("expected declined entry to be removed, got %+v", roster.Entries)
		}
		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeEnrollmentDeclined {
			t.Errorf("expected one %s event", events.TypeEnrollmentDeclined)
		}

		// The slot is free again.
		err := service.Request(ctx, &RequestEnrollmentRequest{ModuleCode: "CS100", StudentNumber: "22008452"})
		if err != nil {
			t.Fatalf("request after decline failed: %v", err)
		}
	})

	t.Run("remove marks an enrolled entry removed", func(t *testing.T) {
		service, repo, publisher := newEnrollmentFixture(t)
		seedRosterEntry(t, repo, "CS100", "22008452", "22008452@live.mut.ac.za", models.EnrollmentEnrolled)

		if err := service.Remove(ctx, "CS100", "22008452"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}

		roster, _ := repo.Roster().Get(ctx, "CS100")
		if roster.ActiveEntry("22008452") != nil {
			t.Error("expected no active entry after removal")
		}
		if len(roster.Entries) != 1 || roster.Entries[0].Status != models.EnrollmentRemoved {
			t.Errorf("expected a removed entry to remain in history, got %+v", roster.Entries)
		}
		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeEnrollmentRemoved {
			t.Errorf("expected one %s event", events.TypeEnrollmentRemoved)
		}
	})

	t.Run("remove a pending student", func(t *testing.T) {
		service, repo, _ := newEnrollmentFixture(t)
		seedRosterEntry(t, repo, "CS100", "22008452", "22008452@live.mut.ac.za", models.EnrollmentPending)

		err := service.Remove(ctx, "CS100", "22008452")
		if !errors.Is(err, ErrInvalidStatusChange) {
			t.Fatalf("expected ErrInvalidStatusChange, got %v", err)
		}
	})

	t.Run("publish failure does not roll back the decision", func(t *testing.T) {
		service, repo, publisher := newEnrollmentFixture(t)
		seedRosterEntry(t, repo, "CS100", "22008452", "22008452@live.mut.ac.za", models.EnrollmentPending)
		publisher.FailWith = errors.New("broker down")

		if err := service.Approve(ctx, "CS100", "22008452"); err != nil {
			t.Fatalf("Approve should survive publish failure: %v", err)
		}
		if status := activeStatus(t, repo, "CS100", "22008452"); status != models.EnrollmentEnrolled {
			t.Errorf("expected enrolled after publish failure, got %s", status)
		}
	})
}

func TestEnrollmentService_Roster(t *testing.T) {
	ctx := context.Background()

	t.Run("counts pending and enrolled", func(t *testing.T) {
		service, repo, _ := newEnrollmentFixture(t)
		seedRosterEntry(t, repo, "CS100", "22000001", "s1@live.mut.ac.za", models.EnrollmentEnrolled)
		seedRosterEntry(t, repo, "CS100", "22000002", "s2@live.mut.ac.za", models.EnrollmentEnrolled)
		seedRosterEntry(t, repo, "CS100", "22000003", "s3@live.mut.ac.za", models.EnrollmentPending)

		resp, err := service.Roster(ctx, "CS100")
		if err != nil {
			t.Fatalf("Roster failed: %v", err)
		}
		if resp.Enrolled != 2 || resp.Pending != 1 {
			t.Errorf("expected 2 enrolled and 1 pending, got %d/%d", resp.Enrolled, resp.Pending)
		}
	})

	t.Run("missing roster", func(t *testing.T) {
		service, _, _ := newEnrollmentFixture(t)

		_, err := service.Roster(ctx, "IT200")
		if !IsNotFoundError(err) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})
}
