package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/coursekit/quiz-service/internal/models"
	"github.com/coursekit/quiz-service/internal/repositories"
	"github.com/coursekit/quiz-service/internal/utils"
	"github.com/google/uuid"
)

var placeholderPattern = regexp.MustCompile(`\{[a-zA-Z]+\}`)

var knownPlaceholders = map[string]bool{
	models.PlaceholderNumQuestions:      true,
	models.PlaceholderCourseTitle:       true,
	models.PlaceholderCourseDescription: true,
	models.PlaceholderContent:           true,
}

type templateService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewTemplateService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) TemplateService {
	return &templateService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== CRUD =====

func (s *templateService) Create(ctx context.Context, req *CreateTemplateRequest, ownerID string) (*models.PromptTemplate, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validatePlaceholders(req.Instructions); err != nil {
		return nil, err
	}

	template := &models.PromptTemplate{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Instructions: req.Instructions,
		OwnerID:      ownerID,
	}

	if req.IsDefault {
		// Two-phase flip: clear the current default first, then create the
		// new one marked default. Concurrent flips are last-writer-wins.
		if err := s.repo.Template().ClearDefaults(ctx, ownerID); err != nil {
			return nil, fmt.Errorf("failed to clear default templates: %w", err)
		}
		template.IsDefault = true
	}

	if err := s.repo.Template().Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	s.logger.Info("Prompt template created",
		"template_id", template.ID,
		"owner_id", ownerID,
		"is_default", template.IsDefault)

	return template, nil
}

func (s *templateService) GetByID(ctx context.Context, id, userID string) (*models.PromptTemplate, error) {
	template, err := s.getOwned(ctx, id, userID, "read")
	if err != nil {
		return nil, err
	}
	return template, nil
}

func (s *templateService) Update(ctx context.Context, id string, req *UpdateTemplateRequest, userID string) (*models.PromptTemplate, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	template, err := s.getOwned(ctx, id, userID, "update")
	if err != nil {
		return nil, err
	}
	if template.IsBuiltIn {
		return nil, ErrTemplateNotEditable
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Instructions != nil {
		if err := validatePlaceholders(*req.Instructions); err != nil {
			return nil, err
		}
		template.Instructions = *req.Instructions
	}

	if err := s.repo.Template().Update(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return template, nil
}

func (s *templateService) Delete(ctx context.Context, id, userID string) error {
	template, err := s.getOwned(ctx, id, userID, "delete")
	if err != nil {
		return err
	}
	if template.IsBuiltIn {
		return ErrTemplateNotDeletable
	}

	if err := s.repo.Template().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	s.logger.Info("Prompt template deleted", "template_id", id, "owner_id", userID)
	return nil
}

func (s *templateService) List(ctx context.Context, ownerID string, limit, offset int) ([]*models.PromptTemplate, int64, error) {
	templates, total, err := s.repo.Template().List(ctx, repositories.TemplateFilters{
		OwnerID: &ownerID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, total, nil
}

// ===== DEFAULT HANDLING =====

func (s *templateService) SetDefault(ctx context.Context, id, userID string) error {
	template, err := s.getOwned(ctx, id, userID, "set_default")
	if err != nil {
		return err
	}
	if template.IsDefault {
		return nil
	}

	if err := s.repo.Template().ClearDefaults(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear default templates: %w", err)
	}

	template.IsDefault = true
	if err := s.repo.Template().Update(ctx, template); err != nil {
		return fmt.Errorf("failed to set default template: %w", err)
	}

	s.logger.Info("Default template changed", "template_id", id, "owner_id", userID)
	return nil
}

// ResolveForGeneration picks the template a generation request should use:
// the explicitly named one (ownership checked), otherwise the owner's
// default, otherwise nil for the built-in instruction set.
func (s *templateService) ResolveForGeneration(ctx context.Context, templateID, userID string) (*models.PromptTemplate, error) {
	if templateID != "" {
		return s.getOwned(ctx, templateID, userID, "use")
	}

	template, err := s.repo.Template().GetDefault(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default template: %w", err)
	}
	return template, nil
}

// ===== HELPERS =====

func (s *templateService) getOwned(ctx context.Context, id, userID, action string) (*models.PromptTemplate, error) {
	template, err := s.repo.Template().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if template.OwnerID != userID && !template.IsBuiltIn {
		return nil, NewPermissionError(userID, id, "template", action, "not owned by user")
	}
	return template, nil
}

// validatePlaceholders rejects instructions referencing placeholders the
// composer does not substitute; they would reach the model as literal braces.
func validatePlaceholders(instructions string) error {
	for _, match := range placeholderPattern.FindAllString(instructions, -1) {
		if !knownPlaceholders[match] {
			return fmt.Errorf("%w: %s", ErrTemplateBadPlaceholder, match)
		}
	}
	return nil
}
