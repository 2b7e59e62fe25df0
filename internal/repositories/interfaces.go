package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/coursekit/quiz-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type QuizResultFilters struct {
	CourseID  *string    `json:"course_id"`
	UserID    *string    `json:"user_id"`
	Completed *bool      `json:"completed"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "created_at", "score", "submitted_at"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

type CourseFilters struct {
	CreatedBy *string `json:"created_by"`
	Title     *string `json:"title"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
}

type TemplateFilters struct {
	OwnerID   *string `json:"owner_id"`
	IsDefault *bool   `json:"is_default"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

type QuizResultRepository interface {
	Create(ctx context.Context, result *models.QuizResult) error
	GetByID(ctx context.Context, id string) (*models.QuizResult, error)
	GetByQuizID(ctx context.Context, quizID string) (*models.QuizResult, error)
	Update(ctx context.Context, result *models.QuizResult) error
	List(ctx context.Context, filters QuizResultFilters) ([]*models.QuizResult, int64, error)
	GetCompletedByCourse(ctx context.Context, courseID string) ([]*models.QuizResult, error)
	GetBestScore(ctx context.Context, courseID, userID string) (int, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
}

type TemplateRepository interface {
	Create(ctx context.Context, template *models.PromptTemplate) error
	GetByID(ctx context.Context, id string) (*models.PromptTemplate, error)
	GetDefault(ctx context.Context, ownerID string) (*models.PromptTemplate, error)
	Update(ctx context.Context, template *models.PromptTemplate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters TemplateFilters) ([]*models.PromptTemplate, int64, error)
	ClearDefaults(ctx context.Context, ownerID string) error
	IncrementUsage(ctx context.Context, id string) error
}

type QuestionnaireRepository interface {
	Create(ctx context.Context, response *models.QuestionnaireResponse) error
	GetByCourse(ctx context.Context, courseID string, limit, offset int) ([]*models.QuestionnaireResponse, int64, error)
}

// Repository aggregates the per-collection repositories behind one
// constructor-injected dependency.
type Repository interface {
	QuizResult() QuizResultRepository
	Course() CourseRepository
	Template() TemplateRepository
	Questionnaire() QuestionnaireRepository
}

// IsNotFoundError reports whether err is the storage layer's missing-record
// error. Services translate it into their own sentinel errors.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
