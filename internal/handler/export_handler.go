package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"verity/internal/domain"
	"verity/internal/export"
)

// ExportHandler renders audit results as downloadable reports. The service
// keeps no state, so the client posts the audit result back for export.
type ExportHandler struct{}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// Export handles POST /api/v1/reports/export
// @Summary Export an audit report
// @Description Render a previously returned audit result as CSV or XLSX
// @Tags reports
// @Accept json
// @Produce text/csv
// @Param format query string false "Report format: csv or xlsx" default(csv)
// @Param request body domain.AuditResult true "Audit result to export"
// @Success 200 {file} file "Report file"
// @Failure 400 {object} APIResponse "Invalid body or format"
// @Router /reports/export [post]
func (h *ExportHandler) Export(c *gin.Context) {
	var result domain.AuditResult
	if err := c.ShouldBindJSON(&result); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body is not a valid audit result")
		return
	}

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		h.exportCSV(c, &result)
	case "xlsx":
		h.exportExcel(c, &result)
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
	}
}

func (h *ExportHandler) exportCSV(c *gin.Context, result *domain.AuditResult) {
	filename := export.BuildFilename("bill_audit", "csv")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if _, err := c.Writer.Write(export.BOM); err != nil {
		return
	}

	w := export.NewCSVWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteFindings(result.Findings); err != nil {
		return
	}
	if err := w.WriteSummary(&result.Summary); err != nil {
		return
	}
	w.Flush()
}

func (h *ExportHandler) exportExcel(c *gin.Context, result *domain.AuditResult) {
	filename := export.BuildFilename("bill_audit", "xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := export.WriteExcel(c.Writer, result); err != nil {
		RespondError(c, http.StatusInternalServerError, "EXPORT_FAILED", "could not render workbook")
	}
}
