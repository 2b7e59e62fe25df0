package postgres

import (
	"context"

	"github.com/coursekit/quiz-service/internal/models"
	"github.com/coursekit/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizResultPostgreSQL struct {
	db *gorm.DB
}

func NewQuizResultPostgreSQL(db *gorm.DB) repositories.QuizResultRepository {
	return &QuizResultPostgreSQL{db: db}
}

func (r QuizResultPostgreSQL) Create(ctx context.Context, result *models.QuizResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r QuizResultPostgreSQL) GetByID(ctx context.Context, id string) (*models.QuizResult, error) {
	var result models.QuizResult
	if err := r.db.WithContext(ctx).First(&result, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r QuizResultPostgreSQL) GetByQuizID(ctx context.Context, quizID string) (*models.QuizResult, error) {
	var result models.QuizResult
	if err := r.db.WithContext(ctx).First(&result, "quiz_id = ?", quizID).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r QuizResultPostgreSQL) Update(ctx context.Context, result *models.QuizResult) error {
	return r.db.WithContext(ctx).Save(result).Error
}

func (r QuizResultPostgreSQL) List(ctx context.Context, filters repositories.QuizResultFilters) ([]*models.QuizResult, int64, error) {
	var results []*models.QuizResult
	var total int64

	// apply filter first
	query := r.db.WithContext(ctx).Model(&models.QuizResult{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = r.applyPaginationAndSort(query, filters)

	if err := query.Find(&results).Error; err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

func (r QuizResultPostgreSQL) GetCompletedByCourse(ctx context.Context, courseID string) ([]*models.QuizResult, error) {
	var results []*models.QuizResult
	if err := r.db.WithContext(ctx).
		Where("course_id = ? AND completed = ?", courseID, true).
		Order("submitted_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r QuizResultPostgreSQL) GetBestScore(ctx context.Context, courseID, userID string) (int, error) {
	var best *int
	err := r.db.WithContext(ctx).
		Model(&models.QuizResult{}).
		Where("course_id = ? AND user_id = ? AND completed = ?", courseID, userID, true).
		Select("MAX(score)").
		Scan(&best).Error
	if err != nil {
		return 0, err
	}
	if best == nil {
		return 0, gorm.ErrRecordNotFound
	}
	return *best, nil
}

func (r QuizResultPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuizResultFilters) *gorm.DB {
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Completed != nil {
		query = query.Where("completed = ?", *filters.Completed)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

func (r QuizResultPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.QuizResultFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "score", "submitted_at", "created_at":
	default:
		sortBy = "created_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}
	query = query.Order(sortBy + " " + order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
