package handlers

import (
	"net/http"

	"github.com/coursekit/quiz-service/internal/services"
	"github.com/coursekit/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// QuestionnaireHandler collects free-form course feedback.
type QuestionnaireHandler struct {
	BaseHandler
	questionnaireService services.QuestionnaireService
}

func NewQuestionnaireHandler(questionnaireService services.QuestionnaireService, logger utils.Logger) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		BaseHandler:          NewBaseHandler(logger),
		questionnaireService: questionnaireService,
	}
}

// Submit handles POST /api/v1/questionnaires
func (h *QuestionnaireHandler) Submit(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req services.SubmitQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	response, err := h.questionnaireService.Submit(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListByCourse handles GET /api/v1/courses/:courseId/questionnaires
func (h *QuestionnaireHandler) ListByCourse(c *gin.Context) {
	courseID, ok := requireIDParam(c, "courseId")
	if !ok {
		return
	}

	limit, offset := parsePagination(c)
	responses, total, err := h.questionnaireService.ListByCourse(c.Request.Context(), courseID, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: responses, Total: total})
}
