package models

type NotificationType string

const (
	NotificationEnrollmentApproved  NotificationType = "enrollment_approved"
	NotificationEnrollmentDeclined  NotificationType = "enrollment_declined"
	NotificationEnrollmentRemoved   NotificationType = "enrollment_removed"
	NotificationAttendanceCorrected NotificationType = "attendance_corrected"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)
