package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/coursekit/quiz-service/internal/events"
	"github.com/coursekit/quiz-service/internal/models"
	"github.com/coursekit/quiz-service/internal/repositories"
	"github.com/coursekit/quiz-service/internal/utils"
	"github.com/google/uuid"
)

type courseService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *utils.Validator
}

func NewCourseService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *utils.Validator) CourseService {
	return &courseService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, userID string) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	sectionsJSON, err := json.Marshal(req.Sections)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize sections: %w", err)
	}

	course := &models.Course{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Sections:    sectionsJSON,
		CreatedBy:   userID,
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	event := events.NewCourseChangedEvent(events.EventCourseCreated, course.ID, course.Title, len(req.Sections), userID)
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish course.created event", "course_id", course.ID, "error", err)
	}

	s.logger.Info("Course created",
		"course_id", course.ID,
		"sections", len(req.Sections),
		"created_by", userID)

	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *UpdateCourseRequest, userID string) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.CreatedBy != userID {
		return nil, NewPermissionError(userID, id, "course", "update", "not created by user")
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	sectionCount := -1
	if req.Sections != nil {
		sectionsJSON, err := json.Marshal(*req.Sections)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize sections: %w", err)
		}
		course.Sections = sectionsJSON
		sectionCount = len(*req.Sections)
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	if sectionCount >= 0 {
		event := events.NewCourseChangedEvent(events.EventCourseUpdated, course.ID, course.Title, sectionCount, userID)
		if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
			s.logger.Warn("failed to publish course.updated event", "course_id", course.ID, "error", err)
		}
	}

	return course, nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, total, nil
}
