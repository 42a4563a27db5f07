package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/events"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/validator"
)

func TestNotificationEventService_PublishEvents(t *testing.T) {
	logger := testLogger()
	mockPublisher := events.NewMockEventPublisher(logger)
	v := validator.New()

	service := NewNotificationEventService(mockPublisher, logger, v)
	ctx := context.Background()

	t.Run("NotifyEnrollmentDecision", func(t *testing.T) {
		mockPublisher.ClearEvents()

		entry := models.RosterEntry{
			StudentNumber: "22008452",
			Email:         "22008452@live.mut.ac.za",
			Status:        models.EnrollmentEnrolled,
		}
		if err := service.NotifyEnrollmentDecision(ctx, events.TypeEnrollmentApproved, "CS100", entry); err != nil {
			t.Fatalf("Failed to publish enrollment decision: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.TypeEnrollmentApproved {
			t.Errorf("Expected event type %q, got %q", events.TypeEnrollmentApproved, published[0].Type)
		}

		data, ok := published[0].Data.(map[string]any)
		if !ok {
			t.Fatalf("Expected map payload, got %T", published[0].Data)
		}
		if data["studentNumber"] != "22008452" || data["moduleCode"] != "CS100" {
			t.Errorf("Unexpected payload: %v", data)
		}
	})

	t.Run("NotifyAttendanceCorrected", func(t *testing.T) {
		mockPublisher.ClearEvents()

		record := models.ScanRecord{
			ModuleCode:    "CS100",
			Date:          "2025-03-14",
			StudentNumber: "22008452",
			Email:         "22008452@live.mut.ac.za",
			ScanTime:      time.Now().UTC(),
		}
		if err := service.NotifyAttendanceCorrected(ctx, record); err != nil {
			t.Fatalf("Failed to publish correction: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeAttendanceCorrected {
			t.Fatalf("Expected one %s event, got %+v", events.TypeAttendanceCorrected, published)
		}
	})

	t.Run("SendBulkNotification", func(t *testing.T) {
		mockPublisher.ClearEvents()

		notification := &NotificationRequest{
			Type:     models.NotificationEnrollmentApproved,
			Title:    "Enrollment update",
			Message:  "Your enrollment request was processed",
			Priority: models.PriorityHigh,
		}
		err := service.SendBulkNotification(ctx, []string{"22000001", "22000002", "22000003"}, notification)
		if err != nil {
			t.Fatalf("Failed to send bulk notification: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.TypeBulkNotification {
			t.Errorf("Expected event type %q, got %q", events.TypeBulkNotification, published[0].Type)
		}
	})

	t.Run("Event_Structure_Validation", func(t *testing.T) {
		mockPublisher.ClearEvents()

		notification := &NotificationRequest{
			Type:    models.NotificationAttendanceCorrected,
			Title:   "Attendance corrected",
			Message: "A lecturer corrected your attendance record",
		}
		if err := service.SendBulkNotification(ctx, []string{"22008452"}, notification); err != nil {
			t.Fatalf("Failed to send notification: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}

		event := published[0]
		if event.ID == "" {
			t.Error("Event ID should not be empty")
		}
		if event.Source != events.EventSource {
			t.Errorf("Expected source %q, got %q", events.EventSource, event.Source)
		}
		if event.Version != events.EventVersion {
			t.Errorf("Expected version %q, got %q", events.EventVersion, event.Version)
		}
		if event.Timestamp.IsZero() {
			t.Error("Event timestamp should be set")
		}
	})

	t.Run("empty recipient list is a no-op", func(t *testing.T) {
		mockPublisher.ClearEvents()

		notification := &NotificationRequest{
			Type:    models.NotificationEnrollmentRemoved,
			Title:   "Removed",
			Message: "You were removed from a module",
		}
		if err := service.SendBulkNotification(ctx, nil, notification); err != nil {
			t.Fatalf("Empty recipient list should not fail: %v", err)
		}
		if published := mockPublisher.GetPublishedEvents(); len(published) != 0 {
			t.Errorf("Expected no events, got %d", len(published))
		}
	})

	t.Run("invalid notification is rejected", func(t *testing.T) {
		mockPublisher.ClearEvents()

		err := service.SendBulkNotification(ctx, []string{"22008452"}, &NotificationRequest{})
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			t.Fatalf("Expected validation errors, got %v", err)
		}
	})

	t.Run("publisher failure surfaces to the caller", func(t *testing.T) {
		mockPublisher.ClearEvents()
		mockPublisher.FailWith = errors.New("broker down")
		defer func() { mockPublisher.FailWith = nil }()

		entry := models.RosterEntry{StudentNumber: "22008452"}
		err := service.NotifyEnrollmentDecision(ctx, events.TypeEnrollmentDeclined, "CS100", entry)
		if err == nil {
			t.Fatal("Expected publish error")
		}
	})
}
