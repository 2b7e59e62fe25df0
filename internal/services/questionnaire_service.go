package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/coursekit/quiz-service/internal/models"
	"github.com/coursekit/quiz-service/internal/repositories"
	"github.com/coursekit/quiz-service/internal/utils"
	"github.com/google/uuid"
)

type questionnaireService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewQuestionnaireService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) QuestionnaireService {
	return &questionnaireService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *questionnaireService) Submit(ctx context.Context, req *SubmitQuestionnaireRequest, userID string) (*models.QuestionnaireResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// The course must exist; answers themselves stay opaque.
	if _, err := s.repo.Course().GetByID(ctx, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize answers: %w", err)
	}

	response := &models.QuestionnaireResponse{
		ID:       uuid.NewString(),
		CourseID: req.CourseID,
		UserID:   userID,
		Answers:  answersJSON,
	}

	if err := s.repo.Questionnaire().Create(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to store questionnaire response: %w", err)
	}

	s.logger.Info("Questionnaire response stored",
		"course_id", req.CourseID,
		"user_id", userID)

	return response, nil
}

func (s *questionnaireService) ListByCourse(ctx context.Context, courseID string, limit, offset int) ([]*models.QuestionnaireResponse, int64, error) {
	responses, total, err := s.repo.Questionnaire().GetByCourse(ctx, courseID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list questionnaire responses: %w", err)
	}
	return responses, total, nil
}
