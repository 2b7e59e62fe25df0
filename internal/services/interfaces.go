package services

import (
	"context"

	"github.com/coursekit/quiz-service/internal/models"
	"github.com/coursekit/quiz-service/internal/repositories"
)

// ===== REQUEST / RESPONSE STRUCTS =====

type GenerateQuizRequest struct {
	CourseID       string `json:"course_id" validate:"required"`
	NumQuestions   int    `json:"num_questions" validate:"question_count"`
	TemplateID     string `json:"template_id,omitempty"`
	TargetLanguage string `json:"target_language,omitempty" validate:"language_code"`
}

// QuizResponse is the quiz as handed to the quiz-taking UI: option
// correctness and explanations are withheld until submission.
type QuizResponse struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	CourseID  string             `json:"course_id"`
	Questions []QuestionResponse `json:"questions"`
}

type QuestionResponse struct {
	ID      int              `json:"id"`
	Text    string           `json:"text"`
	Section string           `json:"section,omitempty"`
	Options []OptionResponse `json:"options"`
}

type OptionResponse struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type CreateCourseRequest struct {
	Title       string               `json:"title" validate:"required,min=1,max=200"`
	Description string               `json:"description" validate:"max=1000"`
	Sections    []models.RawSection  `json:"sections" validate:"required,min=1"`
}

type UpdateCourseRequest struct {
	Title       *string              `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string              `json:"description,omitempty" validate:"omitempty,max=1000"`
	Sections    *[]models.RawSection `json:"sections,omitempty"`
}

type CreateTemplateRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Instructions string `json:"instructions" validate:"required,min=10"`
	IsDefault    bool   `json:"is_default"`
}

type UpdateTemplateRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Instructions *string `json:"instructions,omitempty" validate:"omitempty,min=10"`
}

type SubmitQuestionnaireRequest struct {
	CourseID string                 `json:"course_id" validate:"required"`
	Answers  map[string]interface{} `json:"answers" validate:"required"`
}

// ===== SERVICE INTERFACES =====

type QuizService interface {
	Generate(ctx context.Context, req *GenerateQuizRequest, userID string) (*QuizResponse, error)
	GetForTaking(ctx context.Context, quizID, userID string) (*QuizResponse, error)
	GetResult(ctx context.Context, quizID, userID string) (*models.QuizResult, error)
	ListResults(ctx context.Context, filters repositories.QuizResultFilters, userID string) ([]*models.QuizResult, int64, error)
	Translate(ctx context.Context, quizID, userID, targetLanguage string) (*QuizResponse, error)
}

type ScoringService interface {
	Submit(ctx context.Context, submission *models.Submission, userID string) (*models.ScoreResult, error)
}

type LeaderboardService interface {
	Get(ctx context.Context, courseID string, topN int) ([]models.LeaderboardEntry, error)
	Invalidate(ctx context.Context, courseID string) error
}

type TemplateService interface {
	Create(ctx context.Context, req *CreateTemplateRequest, ownerID string) (*models.PromptTemplate, error)
	GetByID(ctx context.Context, id, userID string) (*models.PromptTemplate, error)
	Update(ctx context.Context, id string, req *UpdateTemplateRequest, userID string) (*models.PromptTemplate, error)
	Delete(ctx context.Context, id, userID string) error
	List(ctx context.Context, ownerID string, limit, offset int) ([]*models.PromptTemplate, int64, error)
	SetDefault(ctx context.Context, id, userID string) error
	ResolveForGeneration(ctx context.Context, templateID, userID string) (*models.PromptTemplate, error)
}

type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest, userID string) (*models.Course, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	Update(ctx context.Context, id string, req *UpdateCourseRequest, userID string) (*models.Course, error)
	List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error)
}

type QuestionnaireService interface {
	Submit(ctx context.Context, req *SubmitQuestionnaireRequest, userID string) (*models.QuestionnaireResponse, error)
	ListByCourse(ctx context.Context, courseID string, limit, offset int) ([]*models.QuestionnaireResponse, int64, error)
}

// Translator converts display text to a target language. Implementations must
// be safe for concurrent use; a failed translation falls back to the source
// text instead of failing the caller.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}
