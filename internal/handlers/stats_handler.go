package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/services"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/utils"
)

type StatsHandler struct {
	BaseHandler
	service services.StatsService
}

func NewStatsHandler(service services.StatsService, logger utils.Logger) *StatsHandler {
	return &StatsHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== STATS ENDPOINTS =====

// GetAttendanceRate returns a student's attendance rate
// @Summary Get student attendance rate
// @Description Derives attended/required across the student's enrolled modules. Rate is null while no sessions have been opened.
// @Tags stats
// @Produce json
// @Param studentNumber path string true "Student number"
// @Success 200 {object} services.AttendanceRateResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /stats/students/{studentNumber}/attendance-rate [get]
func (h *StatsHandler) GetAttendanceRate(c *gin.Context) {
	studentNumber := c.Param("studentNumber")

	h.LogRequest(c, "Computing attendance rate", "student_number", studentNumber)

	rate, err := h.service.ComputeAttendanceRate(c.Request.Context(), studentNumber)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rate)
}

// GetModuleSummary returns one session's turnout summary
// @Summary Get module session summary
// @Tags stats
// @Produce json
// @Param module path string true "Module code"
// @Param date query string true "Session date (YYYY-MM-DD)"
// @Success 200 {object} services.ModuleAttendanceSummary
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /stats/modules/{module}/summary [get]
func (h *StatsHandler) GetModuleSummary(c *gin.Context) {
	moduleCode := c.Param("module")
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "date query parameter is required",
		})
		return
	}

	h.LogRequest(c, "Computing module summary", "module_code", moduleCode, "date", date)

	summary, err := h.service.ModuleSummary(c.Request.Context(), moduleCode, date)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
