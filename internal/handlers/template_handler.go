package handlers

import (
	"net/http"

	"github.com/coursekit/quiz-service/internal/services"
	"github.com/coursekit/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// TemplateHandler manages prompt templates.
type TemplateHandler struct {
	BaseHandler
	templateService services.TemplateService
}

func NewTemplateHandler(templateService services.TemplateService, logger utils.Logger) *TemplateHandler {
	return &TemplateHandler{
		BaseHandler:     NewBaseHandler(logger),
		templateService: templateService,
	}
}

// Create handles POST /api/v1/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req services.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	template, err := h.templateService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

// GetByID handles GET /api/v1/templates/:templateId
func (h *TemplateHandler) GetByID(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	templateID, ok := requireIDParam(c, "templateId")
	if !ok {
		return
	}

	template, err := h.templateService.GetByID(c.Request.Context(), templateID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// Update handles PUT /api/v1/templates/:templateId
func (h *TemplateHandler) Update(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	templateID, ok := requireIDParam(c, "templateId")
	if !ok {
		return
	}

	var req services.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	template, err := h.templateService.Update(c.Request.Context(), templateID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// Delete handles DELETE /api/v1/templates/:templateId
func (h *TemplateHandler) Delete(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	templateID, ok := requireIDParam(c, "templateId")
	if !ok {
		return
	}

	if err := h.templateService.Delete(c.Request.Context(), templateID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Template deleted"})
}

// List handles GET /api/v1/templates
func (h *TemplateHandler) List(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	limit, offset := parsePagination(c)
	templates, total, err := h.templateService.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: templates, Total: total})
}

// SetDefault handles POST /api/v1/templates/:templateId/default
func (h *TemplateHandler) SetDefault(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	templateID, ok := requireIDParam(c, "templateId")
	if !ok {
		return
	}

	if err := h.templateService.SetDefault(c.Request.Context(), templateID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Default template updated"})
}
