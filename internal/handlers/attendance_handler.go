package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/services"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/utils"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/validator"
)

type AttendanceHandler struct {
	BaseHandler
	service services.AttendanceService
}

func NewAttendanceHandler(service services.AttendanceService, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== ATTENDANCE ENDPOINTS =====

// RecordScan records a live attendance scan
// @Summary Record attendance scan
// @Description Records a scan for a module session; repeating the same scan is a no-op
// @Tags attendance
// @Accept json
// @Produce json
// @Param scan body services.RecordAttendanceRequest true "Scan data"
// @Success 201 {object} services.ScanResult
// @Success 200 {object} services.ScanResult "Scan already recorded"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /attendance/scan [post]
func (h *AttendanceHandler) RecordScan(c *gin.Context) {
	var req services.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Recording attendance scan",
		"module_code", req.ModuleCode,
		"date", req.Date,
		"student_number", req.StudentNumber)

	result, err := h.service.RecordAttendance(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyRecorded {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

// GetNonAttended lists enrolled students without a scan for a session
// @Summary Get non-attended students
// @Description Diffs the enrolled roster against the session's scan records
// @Tags attendance
// @Produce json
// @Param module query string true "Module code"
// @Param date query string true "Session date (YYYY-MM-DD)"
// @Success 200 {object} services.NonAttendedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /attendance/non-attended [get]
func (h *AttendanceHandler) GetNonAttended(c *gin.Context) {
	moduleCode := c.Query("module")
	date := c.Query("date")
	if moduleCode == "" || date == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "module and date query parameters are required",
		})
		return
	}

	h.LogRequest(c, "Fetching non-attended students", "module_code", moduleCode, "date", date)

	resp, err := h.service.FetchNonAttended(c.Request.Context(), moduleCode, date)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MarkRetroactive records a late attendance correction
// @Summary Mark retroactive attendance
// @Description Inserts a correction stamped with the current time, under the same dedup contract as a live scan
// @Tags attendance
// @Accept json
// @Produce json
// @Param correction body validator.RetroactiveAttendanceRequest true "Correction data"
// @Success 201 {object} services.ScanResult
// @Success 200 {object} services.ScanResult "Scan already recorded"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /attendance/retroactive [post]
func (h *AttendanceHandler) MarkRetroactive(c *gin.Context) {
	var req validator.RetroactiveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Marking retroactive attendance",
		"module_code", req.ModuleCode,
		"date", req.Date,
		"student_number", req.StudentNumber)

	result, err := h.service.MarkRetroactiveAttendance(c.Request.Context(), req.ModuleCode, req.Date, req.StudentNumber)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyRecorded {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

// GetLedger returns the per-module attendance ledger view
// @Summary Get module ledger
// @Description Returns the date to scan-records view for one module
// @Tags attendance
// @Produce json
// @Param module path string true "Module code"
// @Success 200 {object} models.LedgerEntry
// @Failure 503 {object} ErrorResponse
// @Router /attendance/ledger/{module} [get]
func (h *AttendanceHandler) GetLedger(c *gin.Context) {
	moduleCode := c.Param("module")

	h.LogRequest(c, "Fetching attendance ledger", "module_code", moduleCode)

	entry, err := h.service.Ledger(c.Request.Context(), moduleCode)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}
