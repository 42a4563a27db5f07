package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/config"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/services"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/utils"
)

type HandlerManager struct {
	attendanceHandler *AttendanceHandler
	enrollmentHandler *EnrollmentHandler
	studentHandler    *StudentHandler
	statsHandler      *StatsHandler
	exportHandler     *ExportHandler
	authMiddleware    *CasdoorAuthMiddleware
	serviceManager    services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
) *HandlerManager {
	return &HandlerManager{
		attendanceHandler: NewAttendanceHandler(serviceManager.Attendance(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		studentHandler:    NewStudentHandler(serviceManager.Identity(), logger),
		statsHandler:      NewStatsHandler(serviceManager.Stats(), logger),
		exportHandler:     NewExportHandler(serviceManager.Export(), logger),
		authMiddleware:    NewCasdoorAuthMiddleware(casdoorConfig),
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint, unauthenticated
	router.GET("/health", hm.HealthCheck)

	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Attendance routes
		attendance := v1.Group("/attendance")
		{
			attendance.POST("/scan", hm.attendanceHandler.RecordScan)
			attendance.GET("/non-attended", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.attendanceHandler.GetNonAttended)
			attendance.POST("/retroactive", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.attendanceHandler.MarkRetroactive)
			attendance.GET("/ledger/:module", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.attendanceHandler.GetLedger)
		}

		// Enrollment routes
		enrollment := v1.Group("/enrollment")
		{
			enrollment.POST("/request", hm.enrollmentHandler.RequestEnrollment)
			enrollment.POST("/approve", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.enrollmentHandler.ApproveEnrollment)
			enrollment.POST("/decline", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.enrollmentHandler.DeclineEnrollment)
			enrollment.DELETE("/:module/:student", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.enrollmentHandler.RemoveEnrollment)
			enrollment.GET("/roster/:module", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.enrollmentHandler.GetRoster)
		}

		// Student identity routes
		students := v1.Group("/students")
		{
			students.PUT("/:studentNumber/student-number", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.studentHandler.RenameStudentNumber)
			students.PUT("/:studentNumber/email", hm.studentHandler.UpdateEmail)
		}

		// Stats routes
		stats := v1.Group("/stats")
		{
			stats.GET("/students/:studentNumber/attendance-rate", hm.statsHandler.GetAttendanceRate)
			stats.GET("/modules/:module/summary", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.statsHandler.GetModuleSummary)
		}

		// Report routes
		reports := v1.Group("/reports")
		{
			reports.GET("/modules/:module/attendance.xlsx", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.exportHandler.GetAttendanceReport)
		}
	}
}

// HealthCheck reports service liveness and dependency health.
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "attendify-service",
	})
}
