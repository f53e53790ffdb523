package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"verity/internal/domain"
	"verity/internal/service"
)

// AppealHandler handles insurance appeal generation.
type AppealHandler struct {
	appealService *service.AppealService
}

// NewAppealHandler creates a new AppealHandler.
func NewAppealHandler(appealService *service.AppealService) *AppealHandler {
	return &AppealHandler{appealService: appealService}
}

// Generate handles POST /api/v1/appeal
// @Summary Generate an insurance appeal
// @Description Build an appeal letter and phone script for a denied claim
// @Tags appeal
// @Accept json
// @Produce json
// @Param request body domain.AppealInput true "Denial details"
// @Success 200 {object} APIResponse "Appeal letter and script"
// @Failure 400 {object} APIResponse "Missing required fields"
// @Router /appeal [post]
func (h *AppealHandler) Generate(c *gin.Context) {
	var in domain.AppealInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}

	content, err := h.appealService.Generate(c.Request.Context(), &in)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, content)
}
