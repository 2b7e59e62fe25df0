package handlers

import (
	"net/http"

	"github.com/coursekit/quiz-service/internal/models"
	"github.com/coursekit/quiz-service/internal/repositories"
	"github.com/coursekit/quiz-service/internal/services"
	"github.com/coursekit/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// QuizHandler exposes quiz generation, taking, submission and results.
type QuizHandler struct {
	BaseHandler
	quizService    services.QuizService
	scoringService services.ScoringService
}

func NewQuizHandler(quizService services.QuizService, scoringService services.ScoringService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler:    NewBaseHandler(logger),
		quizService:    quizService,
		scoringService: scoringService,
	}
}

// Generate handles POST /api/v1/quizzes
func (h *QuizHandler) Generate(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req services.GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Generating quiz", "course_id", req.CourseID, "num_questions", req.NumQuestions)

	quiz, err := h.quizService.Generate(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// GetForTaking handles GET /api/v1/quizzes/:quizId
func (h *QuizHandler) GetForTaking(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	quizID, ok := requireIDParam(c, "quizId")
	if !ok {
		return
	}

	quiz, err := h.quizService.GetForTaking(c.Request.Context(), quizID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// Submit handles POST /api/v1/quizzes/:quizId/submit
func (h *QuizHandler) Submit(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	quizID, ok := requireIDParam(c, "quizId")
	if !ok {
		return
	}

	var submission models.Submission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}
	submission.QuizID = quizID

	h.LogRequest(c, "Submitting quiz", "quiz_id", quizID)

	result, err := h.scoringService.Submit(c.Request.Context(), &submission, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetResult handles GET /api/v1/quizzes/:quizId/result
func (h *QuizHandler) GetResult(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	quizID, ok := requireIDParam(c, "quizId")
	if !ok {
		return
	}

	result, err := h.quizService.GetResult(c.Request.Context(), quizID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// List handles GET /api/v1/quizzes
func (h *QuizHandler) List(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	limit, offset := parsePagination(c)
	filters := repositories.QuizResultFilters{
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if courseID := c.Query("course_id"); courseID != "" {
		filters.CourseID = &courseID
	}
	if completed := c.Query("completed"); completed != "" {
		value := completed == "true"
		filters.Completed = &value
	}

	results, total, err := h.quizService.ListResults(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: results, Total: total})
}

// Translate handles POST /api/v1/quizzes/:quizId/translate
func (h *QuizHandler) Translate(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	quizID, ok := requireIDParam(c, "quizId")
	if !ok {
		return
	}

	var req struct {
		TargetLanguage string `json:"target_language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "target_language is required",
		})
		return
	}

	h.LogRequest(c, "Translating quiz", "quiz_id", quizID, "target_language", req.TargetLanguage)

	quiz, err := h.quizService.Translate(c.Request.Context(), quizID, userID, req.TargetLanguage)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}
