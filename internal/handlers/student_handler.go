package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/services"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	identityService services.IdentityService
}

func NewStudentHandler(identityService services.IdentityService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:     NewBaseHandler(logger),
		identityService: identityService,
	}
}

// ===== IDENTITY ENDPOINTS =====

// RenameStudentNumber changes a student's primary key everywhere it appears
// @Summary Rename student number
// @Description Rewrites every reference to the old student number. The report says how far the commit got; on partial failure it carries a resume cursor.
// @Tags students
// @Accept json
// @Produce json
// @Param studentNumber path string true "Current student number"
// @Param request body services.RenameStudentRequest true "New student number"
// @Success 200 {object} services.RenameReport
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Work list exceeds the store batch limit in strict mode"
// @Failure 503 {object} ErrorResponse "Partial commit, response body carries the report"
// @Router /students/{studentNumber}/student-number [put]
func (h *StudentHandler) RenameStudentNumber(c *gin.Context) {
	oldNumber := c.Param("studentNumber")

	var req services.RenameStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Renaming student number",
		"old_student_number", oldNumber,
		"new_student_number", req.NewStudentNumber)

	report, err := h.identityService.RenameStudentNumber(c.Request.Context(), oldNumber, req.NewStudentNumber)
	if err != nil {
		// A partial commit still returns the report so the caller can
		// resume instead of guessing.
		if report != nil && services.IsPersistenceError(err) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "persistence_failure",
				"message": err.Error(),
				"report":  report,
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// UpdateEmail changes a student's email everywhere it is embedded
// @Summary Update student email
// @Tags students
// @Accept json
// @Produce json
// @Param studentNumber path string true "Student number"
// @Param request body services.UpdateEmailRequest true "New email"
// @Success 200 {object} services.RenameReport
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Partial commit, response body carries the report"
// @Router /students/{studentNumber}/email [put]
func (h *StudentHandler) UpdateEmail(c *gin.Context) {
	studentNumber := c.Param("studentNumber")

	var req services.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating student email", "student_number", studentNumber)

	report, err := h.identityService.UpdateEmail(c.Request.Context(), studentNumber, req.NewEmail)
	if err != nil {
		if report != nil && services.IsPersistenceError(err) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "persistence_failure",
				"message": err.Error(),
				"report":  report,
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
