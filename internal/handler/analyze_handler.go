package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"verity/internal/domain"
	"verity/internal/service"
)

// AnalyzeHandler handles bill analysis endpoints.
type AnalyzeHandler struct {
	auditService *service.AuditService
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(auditService *service.AuditService) *AnalyzeHandler {
	return &AnalyzeHandler{auditService: auditService}
}

// analyzeTextRequest is the body for POST /api/v1/analyze/text.
type analyzeTextRequest struct {
	Text          string `json:"text" binding:"required"`
	OCRConfidence *int   `json:"ocr_confidence"`
}

// AnalyzeFile handles POST /api/v1/analyze
// @Summary Analyze a medical bill
// @Description Upload a bill (PDF, JPG, PNG, max 20MB), extract its text, and run the red-flag audit
// @Tags analyze
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Bill document (PDF, JPG, or PNG)"
// @Success 200 {object} APIResponse "Audit result"
// @Failure 400 {object} APIResponse "Missing file or unsupported type"
// @Failure 413 {object} APIResponse "File too large"
// @Failure 422 {object} APIResponse "Document unreadable or unparseable"
// @Failure 429 {object} APIResponse "Extraction providers rate limited"
// @Failure 502 {object} APIResponse "Extraction failed"
// @Router /analyze [post]
func (h *AnalyzeHandler) AnalyzeFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}

	contentType := header.Header.Get("Content-Type")

	result, auditErr, err := h.auditService.AnalyzeFile(c.Request.Context(), fileBytes, contentType)
	if err != nil {
		HandleError(c, err)
		return
	}
	if auditErr != nil {
		RespondAuditError(c, auditErr)
		return
	}

	RespondOK(c, result)
}

// AnalyzeText handles POST /api/v1/analyze/text
// @Summary Analyze already-extracted bill text
// @Description Run the red-flag audit directly on bill text, bypassing OCR. Missing ocr_confidence defaults to 100.
// @Tags analyze
// @Accept json
// @Produce json
// @Param request body analyzeTextRequest true "Bill text and optional OCR confidence"
// @Success 200 {object} APIResponse "Audit result"
// @Failure 400 {object} APIResponse "Missing text"
// @Failure 422 {object} APIResponse "Text unreadable or unparseable"
// @Router /analyze/text [post]
func (h *AnalyzeHandler) AnalyzeText(c *gin.Context) {
	var req analyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "text field is required")
		return
	}

	ocr := 100
	if req.OCRConfidence != nil {
		ocr = *req.OCRConfidence
	}

	result, auditErr, err := h.auditService.AnalyzeText(c.Request.Context(), &domain.BillDocument{
		Text:          req.Text,
		OCRConfidence: ocr,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	if auditErr != nil {
		RespondAuditError(c, auditErr)
		return
	}

	RespondOK(c, result)
}
