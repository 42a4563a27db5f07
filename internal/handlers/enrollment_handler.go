package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/services"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	service services.EnrollmentService
}

func NewEnrollmentHandler(service services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== ENROLLMENT ENDPOINTS =====

// RequestEnrollment submits an enrollment request for a module
// @Summary Request enrollment
// @Description Moves the student to pending in the module roster; duplicate requests are rejected
// @Tags enrollment
// @Accept json
// @Produce json
// @Param request body services.RequestEnrollmentRequest true "Enrollment request"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /enrollment/request [post]
func (h *EnrollmentHandler) RequestEnrollment(c *gin.Context) {
	var req services.RequestEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Requesting enrollment",
		"module_code", req.ModuleCode,
		"student_number", req.StudentNumber)

	if err := h.service.Request(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: "Enrollment requested"})
}

// ApproveEnrollment approves a pending enrollment request
// @Summary Approve enrollment
// @Tags enrollment
// @Accept json
// @Produce json
// @Param decision body services.EnrollmentActionRequest true "Approval target"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /enrollment/approve [post]
func (h *EnrollmentHandler) ApproveEnrollment(c *gin.Context) {
	h.decide(c, "Approving enrollment", h.service.Approve, "Enrollment approved")
}

// DeclineEnrollment declines a pending enrollment request
// @Summary Decline enrollment
// @Tags enrollment
// @Accept json
// @Produce json
// @Param decision body services.EnrollmentActionRequest true "Decline target"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /enrollment/decline [post]
func (h *EnrollmentHandler) DeclineEnrollment(c *gin.Context) {
	h.decide(c, "Declining enrollment", h.service.Decline, "Enrollment declined")
}

func (h *EnrollmentHandler) decide(c *gin.Context, logMsg string, action func(ctx context.Context, moduleCode, studentNumber string) error, okMsg string) {
	var req services.EnrollmentActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, logMsg,
		"module_code", req.ModuleCode,
		"student_number", req.StudentNumber)

	if err := action(c.Request.Context(), req.ModuleCode, req.StudentNumber); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: okMsg})
}

// RemoveEnrollment removes an enrolled student from a module
// @Summary Remove enrolled student
// @Tags enrollment
// @Produce json
// @Param module path string true "Module code"
// @Param student path string true "Student number"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /enrollment/{module}/{student} [delete]
func (h *EnrollmentHandler) RemoveEnrollment(c *gin.Context) {
	moduleCode := c.Param("module")
	studentNumber := c.Param("student")

	h.LogRequest(c, "Removing enrolled student",
		"module_code", moduleCode,
		"student_number", studentNumber)

	if err := h.service.Remove(c.Request.Context(), moduleCode, studentNumber); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Student removed from module"})
}

// GetRoster returns one module's enrollment roster
// @Summary Get module roster
// @Tags enrollment
// @Produce json
// @Param module path string true "Module code"
// @Success 200 {object} services.RosterResponse
// @Failure 404 {object} ErrorResponse
// @Router /enrollment/roster/{module} [get]
func (h *EnrollmentHandler) GetRoster(c *gin.Context) {
	moduleCode := c.Param("module")

	h.LogRequest(c, "Fetching module roster", "module_code", moduleCode)

	roster, err := h.service.Roster(c.Request.Context(), moduleCode)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roster)
}
