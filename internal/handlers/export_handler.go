package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/services"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	BaseHandler
	service services.ExportService
}

func NewExportHandler(service services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetAttendanceReport streams a module's attendance workbook
// @Summary Export attendance report
// @Description Renders the module ledger and roster into an XLSX workbook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param module path string true "Module code"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /reports/modules/{module}/attendance.xlsx [get]
func (h *ExportHandler) GetAttendanceReport(c *gin.Context) {
	moduleCode := c.Param("module")

	h.LogRequest(c, "Exporting attendance report", "module_code", moduleCode)

	workbook, err := h.service.AttendanceReport(c.Request.Context(), moduleCode)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.xlsx", moduleCode)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, workbook)
}
