package postgres

import (
	"context"

	"github.com/coursekit/quiz-service/internal/models"
	"github.com/coursekit/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionnairePostgreSQL struct {
	db *gorm.DB
}

func NewQuestionnairePostgreSQL(db *gorm.DB) repositories.QuestionnaireRepository {
	return &QuestionnairePostgreSQL{db: db}
}

func (r QuestionnairePostgreSQL) Create(ctx context.Context, response *models.QuestionnaireResponse) error {
	return r.db.WithContext(ctx).Create(response).Error
}

func (r QuestionnairePostgreSQL) GetByCourse(ctx context.Context, courseID string, limit, offset int) ([]*models.QuestionnaireResponse, int64, error) {
	var responses []*models.QuestionnaireResponse
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.QuestionnaireResponse{}).
		Where("course_id = ?", courseID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&responses).Error; err != nil {
		return nil, 0, err
	}

	return responses, total, nil
}
