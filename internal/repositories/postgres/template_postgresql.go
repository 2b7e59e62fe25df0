package postgres

import (
	"context"

	"github.com/coursekit/quiz-service/internal/models"
	"github.com/coursekit/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type TemplatePostgreSQL struct {
	db *gorm.DB
}

func NewTemplatePostgreSQL(db *gorm.DB) repositories.TemplateRepository {
	return &TemplatePostgreSQL{db: db}
}

func (r TemplatePostgreSQL) Create(ctx context.Context, template *models.PromptTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r TemplatePostgreSQL) GetByID(ctx context.Context, id string) (*models.PromptTemplate, error) {
	var template models.PromptTemplate
	if err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r TemplatePostgreSQL) GetDefault(ctx context.Context, ownerID string) (*models.PromptTemplate, error) {
	var template models.PromptTemplate
	if err := r.db.WithContext(ctx).
		First(&template, "owner_id = ? AND is_default = ?", ownerID, true).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r TemplatePostgreSQL) Update(ctx context.Context, template *models.PromptTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

func (r TemplatePostgreSQL) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.PromptTemplate{}, "id = ?", id).Error
}

func (r TemplatePostgreSQL) List(ctx context.Context, filters repositories.TemplateFilters) ([]*models.PromptTemplate, int64, error) {
	var templates []*models.PromptTemplate
	var total int64

	query := r.db.WithContext(ctx).Model(&models.PromptTemplate{})
	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}
	if filters.IsDefault != nil {
		query = query.Where("is_default = ?", *filters.IsDefault)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&templates).Error; err != nil {
		return nil, 0, err
	}

	return templates, total, nil
}

// ClearDefaults is the first phase of the default flip: every template of the
// owner loses its default mark before the new one is set. Concurrent flips
// are last-writer-wins.
func (r TemplatePostgreSQL) ClearDefaults(ctx context.Context, ownerID string) error {
	return r.db.WithContext(ctx).
		Model(&models.PromptTemplate{}).
		Where("owner_id = ? AND is_default = ?", ownerID, true).
		Update("is_default", false).Error
}

func (r TemplatePostgreSQL) IncrementUsage(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.PromptTemplate{}).
		Where("id = ?", id).
		Update("usage_count", gorm.Expr("usage_count + 1")).Error
}
