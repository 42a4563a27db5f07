package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/events"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/validator"
)

type notificationEventService struct {
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewNotificationEventService(publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) NotificationEventService {
	return &notificationEventService{
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== ENROLLMENT EVENTS =====

func (s *notificationEventService) NotifyEnrollmentDecision(ctx context.Context, eventType string, moduleCode string, entry models.RosterEntry) error {
	event := events.NewEvent(eventType, map[string]any{
		"moduleCode":    moduleCode,
		"studentNumber": entry.StudentNumber,
		"email":         entry.Email,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	s.logger.Info("Enrollment event published",
		"event_type", eventType,
		"event_id", event.ID,
		"module_code", moduleCode,
		"student_number", entry.StudentNumber)
	return nil
}

// ===== ATTENDANCE EVENTS =====

func (s *notificationEventService) NotifyAttendanceCorrected(ctx context.Context, record models.ScanRecord) error {
	event := events.NewEvent(events.TypeAttendanceCorrected, map[string]any{
		"moduleCode":    record.ModuleCode,
		"date":          record.Date,
		"studentNumber": record.StudentNumber,
		"email":         record.Email,
		"scanTime":      record.ScanTime,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish %s: %w", events.TypeAttendanceCorrected, err)
	}

	s.logger.Info("Attendance correction event published",
		"event_id", event.ID,
		"module_code", record.ModuleCode,
		"date", record.Date,
		"student_number", record.StudentNumber)
	return nil
}

// ===== BULK NOTIFICATIONS =====

func (s *notificationEventService) SendBulkNotification(ctx context.Context, studentNumbers []string, notification *NotificationRequest) error {
	if errs := s.validator.ValidateStruct(notification); len(errs) > 0 {
		return errs
	}
	if len(studentNumbers) == 0 {
		return nil
	}

	priority := notification.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}

	event := events.NewEvent(events.TypeBulkNotification, map[string]any{
		"recipients": studentNumbers,
		"type":       notification.Type,
		"title":      notification.Title,
		"message":    notification.Message,
		"priority":   priority,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish %s: %w", events.TypeBulkNotification, err)
	}

	s.logger.Info("Bulk notification published",
		"event_id", event.ID,
		"recipients", len(studentNumbers),
		"type", notification.Type)
	return nil
}
