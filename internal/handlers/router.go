package handlers

import (
	"net/http"

	"github.com/coursekit/quiz-service/internal/services"
	"github.com/coursekit/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// HandlerManager holds all HTTP handlers.
type HandlerManager struct {
	Quiz          *QuizHandler
	Leaderboard   *LeaderboardHandler
	Template      *TemplateHandler
	Course        *CourseHandler
	Questionnaire *QuestionnaireHandler
}

// NewHandlerManager wires handlers from the service layer.
func NewHandlerManager(
	quizService services.QuizService,
	scoringService services.ScoringService,
	leaderboardService services.LeaderboardService,
	templateService services.TemplateService,
	courseService services.CourseService,
	questionnaireService services.QuestionnaireService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		Quiz:          NewQuizHandler(quizService, scoringService, logger),
		Leaderboard:   NewLeaderboardHandler(leaderboardService, logger),
		Template:      NewTemplateHandler(templateService, logger),
		Course:        NewCourseHandler(courseService, logger),
		Questionnaire: NewQuestionnaireHandler(questionnaireService, logger),
	}
}

// UserContext propagates the caller identity established by the upstream
// gateway into the request context. This service does not authenticate.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

// SetupRoutes registers all API routes on the engine.
func (m *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "quiz-service"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(UserContext())
	{
		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("", m.Quiz.Generate)
			quizzes.GET("", m.Quiz.List)
			quizzes.GET("/:quizId", m.Quiz.GetForTaking)
			quizzes.POST("/:quizId/submit", m.Quiz.Submit)
			quizzes.GET("/:quizId/result", m.Quiz.GetResult)
			quizzes.POST("/:quizId/translate", m.Quiz.Translate)
		}

		courses := v1.Group("/courses")
		{
			courses.POST("", m.Course.Create)
			courses.GET("", m.Course.List)
			courses.GET("/:courseId", m.Course.GetByID)
			courses.PUT("/:courseId", m.Course.Update)
			courses.GET("/:courseId/leaderboard", m.Leaderboard.Get)
			courses.GET("/:courseId/questionnaires", m.Questionnaire.ListByCourse)
		}

		templates := v1.Group("/templates")
		{
			templates.POST("", m.Template.Create)
			templates.GET("", m.Template.List)
			templates.GET("/:templateId", m.Template.GetByID)
			templates.PUT("/:templateId", m.Template.Update)
			templates.DELETE("/:templateId", m.Template.Delete)
			templates.POST("/:templateId/default", m.Template.SetDefault)
		}

		v1.POST("/questionnaires", m.Questionnaire.Submit)
	}
}
