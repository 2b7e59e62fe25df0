package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/coursekit/quiz-service/internal/events"
	"github.com/coursekit/quiz-service/internal/models"
	"github.com/coursekit/quiz-service/internal/repositories"
	"github.com/coursekit/quiz-service/internal/utils"
	"github.com/google/uuid"
)

// QuizGenerator produces canonical questions from raw course sections and
// reports whether chunked generation ran. The genai orchestrator is the
// production implementation.
type QuizGenerator interface {
	Generate(
		ctx context.Context,
		rawSections []models.RawSection,
		course models.CourseMeta,
		numQuestions int,
		template *models.PromptTemplate,
		targetLanguage string,
	) ([]models.Question, bool, error)
}

type quizService struct {
	repo       repositories.Repository
	generator  QuizGenerator
	templates  TemplateService
	translator Translator
	publisher  events.EventPublisher
	logger     *slog.Logger
	validator  *utils.Validator
}

func NewQuizService(
	repo repositories.Repository,
	generator QuizGenerator,
	templates TemplateService,
	translator Translator,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) QuizService {
	return &quizService{
		repo:       repo,
		generator:  generator,
		templates:  templates,
		translator: translator,
		publisher:  publisher,
		logger:     logger,
		validator:  validator,
	}
}

// ===== GENERATION =====

func (s *quizService) Generate(ctx context.Context, req *GenerateQuizRequest, userID string) (*QuizResponse, error) {
	s.logger.Info("Generating quiz",
		"course_id", req.CourseID,
		"num_questions", req.NumQuestions,
		"user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	course, err := s.repo.Course().GetByID(ctx, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	template, err := s.templates.ResolveForGeneration(ctx, req.TemplateID, userID)
	if err != nil {
		return nil, err
	}

	var rawSections []models.RawSection
	if len(course.Sections) > 0 {
		if err := json.Unmarshal(course.Sections, &rawSections); err != nil {
			return nil, fmt.Errorf("failed to decode course sections: %w", err)
		}
	}

	questions, chunked, err := s.generator.Generate(ctx, rawSections, course.Meta(), req.NumQuestions, template, req.TargetLanguage)
	if err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		ID:        uuid.NewString(),
		Title:     course.Title,
		CourseID:  course.ID,
		Questions: questions,
		CreatedAt: time.Now(),
	}

	questionsJSON, err := json.Marshal(quiz.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize questions: %w", err)
	}

	record := &models.QuizResult{
		ID:        uuid.NewString(),
		QuizID:    quiz.ID,
		CourseID:  course.ID,
		UserID:    userID,
		Title:     quiz.Title,
		Questions: questionsJSON,
	}
	if err := s.repo.QuizResult().Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist quiz: %w", err)
	}

	templateID := ""
	if template != nil {
		templateID = template.ID
		if err := s.repo.Template().IncrementUsage(ctx, template.ID); err != nil {
			s.logger.Warn("failed to increment template usage",
				"template_id", template.ID,
				"error", err)
		}
	}

	event := events.NewQuizGeneratedEvent(quiz.ID, course.ID, course.Title, userID, len(questions), templateID, chunked)
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		// Event delivery is best effort; the quiz itself is already stored.
		s.logger.Warn("failed to publish quiz.generated event", "quiz_id", quiz.ID, "error", err)
	}

	s.logger.Info("Quiz generated",
		"quiz_id", quiz.ID,
		"course_id", course.ID,
		"questions", len(questions))

	return toQuizResponse(quiz), nil
}

// ===== GET OPERATIONS =====

func (s *quizService) GetForTaking(ctx context.Context, quizID, userID string) (*QuizResponse, error) {
	record, questions, err := s.loadQuiz(ctx, quizID, userID, "take")
	if err != nil {
		return nil, err
	}
	if record.Completed {
		return nil, ErrQuizAlreadySubmitted
	}

	return toQuizResponse(&models.Quiz{
		ID:        record.QuizID,
		Title:     record.Title,
		CourseID:  record.CourseID,
		Questions: questions,
	}), nil
}

func (s *quizService) GetResult(ctx context.Context, quizID, userID string) (*models.QuizResult, error) {
	record, _, err := s.loadQuiz(ctx, quizID, userID, "read")
	if err != nil {
		return nil, err
	}
	if !record.Completed {
		return nil, ErrQuizNotSubmitted
	}
	return record, nil
}

func (s *quizService) ListResults(ctx context.Context, filters repositories.QuizResultFilters, userID string) ([]*models.QuizResult, int64, error) {
	// Users only see their own results.
	filters.UserID = &userID

	results, total, err := s.repo.QuizResult().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quiz results: %w", err)
	}
	return results, total, nil
}

// ===== TRANSLATION =====

// Translate returns the quiz with question and option texts rendered in the
// target language. The stored record is untouched; a failed per-text
// translation keeps the original text.
func (s *quizService) Translate(ctx context.Context, quizID, userID, targetLanguage string) (*QuizResponse, error) {
	record, questions, err := s.loadQuiz(ctx, quizID, userID, "translate")
	if err != nil {
		return nil, err
	}

	translated, err := TranslateQuestions(ctx, s.translator, questions, targetLanguage)
	if err != nil {
		return nil, err
	}

	return toQuizResponse(&models.Quiz{
		ID:        record.QuizID,
		Title:     record.Title,
		CourseID:  record.CourseID,
		Questions: translated,
	}), nil
}

// ===== HELPERS =====

func (s *quizService) loadQuiz(ctx context.Context, quizID, userID, action string) (*models.QuizResult, []models.Question, error) {
	record, err := s.repo.QuizResult().GetByQuizID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrQuizNotFound
		}
		return nil, nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if record.UserID != userID {
		return nil, nil, NewPermissionError(userID, quizID, "quiz", action, "not owned by user")
	}

	var questions []models.Question
	if err := json.Unmarshal(record.Questions, &questions); err != nil {
		return nil, nil, fmt.Errorf("failed to decode stored questions: %w", err)
	}

	return record, questions, nil
}

func toQuizResponse(quiz *models.Quiz) *QuizResponse {
	resp := &QuizResponse{
		ID:        quiz.ID,
		Title:     quiz.Title,
		CourseID:  quiz.CourseID,
		Questions: make([]QuestionResponse, len(quiz.Questions)),
	}
	for i, q := range quiz.Questions {
		options := make([]OptionResponse, len(q.Options))
		for j, opt := range q.Options {
			options[j] = OptionResponse{ID: opt.ID, Text: opt.Text}
		}
		resp.Questions[i] = QuestionResponse{
			ID:      q.ID,
			Text:    q.Text,
			Section: q.SectionLabel,
			Options: options,
		}
	}
	return resp
}
