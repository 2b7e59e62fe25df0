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
)

type scoringService struct {
	repo        repositories.Repository
	leaderboard LeaderboardService
	publisher   events.EventPublisher
	logger      *slog.Logger
	validator   *utils.Validator
}

func NewScoringService(
	repo repositories.Repository,
	leaderboard LeaderboardService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) ScoringService {
	return &scoringService{
		repo:        repo,
		leaderboard: leaderboard,
		publisher:   publisher,
		logger:      logger,
		validator:   validator,
	}
}

// Submit scores one answer sheet against the stored quiz and persists the
// outcome. A quiz accepts exactly one submission; the stored record is the
// full score result, written in one update.
func (s *scoringService) Submit(ctx context.Context, submission *models.Submission, userID string) (*models.ScoreResult, error) {
	s.logger.Info("Scoring quiz submission",
		"quiz_id", submission.QuizID,
		"user_id", userID,
		"answer_count", len(submission.Answers))

	if err := s.validator.Validate(submission); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	record, err := s.repo.QuizResult().GetByQuizID(ctx, submission.QuizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if record.UserID != userID {
		return nil, NewPermissionError(userID, submission.QuizID, "quiz", "submit", "not owned by user")
	}
	if record.Completed {
		return nil, ErrQuizAlreadySubmitted
	}

	var questions []models.Question
	if err := json.Unmarshal(record.Questions, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode stored questions: %w", err)
	}

	result := score(questions, submission.Answers)

	// Best score before this submission, for the high-score advisory.
	previousBest, err := s.repo.QuizResult().GetBestScore(ctx, record.CourseID, userID)
	switch {
	case err == nil:
		result.PreviousBest = previousBest
		result.NewHighScore = result.Percentage > previousBest
	case repositories.IsNotFoundError(err):
		// First completed attempt for this course.
		result.NewHighScore = result.Percentage > 0
	default:
		return nil, fmt.Errorf("failed to get previous best score: %w", err)
	}

	if err := s.persist(ctx, record, submission, result); err != nil {
		return nil, err
	}

	if err := s.leaderboard.Invalidate(ctx, record.CourseID); err != nil {
		s.logger.Warn("failed to invalidate leaderboard cache", "course_id", record.CourseID, "error", err)
	}

	event := events.NewQuizSubmittedEvent(
		record.QuizID, record.CourseID, userID,
		result.Percentage, result.CorrectCount, result.QuestionCount,
		submission.ElapsedSeconds, result.NewHighScore, *record.SubmittedAt)
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish quiz.submitted event", "quiz_id", record.QuizID, "error", err)
	}

	s.logger.Info("Quiz submission scored",
		"quiz_id", record.QuizID,
		"score", result.Percentage,
		"correct", result.CorrectCount,
		"total", result.QuestionCount)

	return result, nil
}

// score computes the result for one answer sheet. The denominator is the
// total question count: unanswered questions and out-of-range option indexes
// count as wrong.
func score(questions []models.Question, answers map[int]int) *models.ScoreResult {
	result := &models.ScoreResult{
		PerQuestion:   make(map[int]models.QuestionFeedback, len(questions)),
		QuestionCount: len(questions),
	}

	for _, q := range questions {
		correctIdx := q.CorrectIndex()
		feedback := models.QuestionFeedback{
			Explanation: q.Explanation(),
		}
		if correctIdx >= 0 {
			feedback.CorrectOptionText = q.Options[correctIdx].Text
		}

		chosenIdx, answered := answers[q.ID]
		if answered && chosenIdx >= 0 && chosenIdx < len(q.Options) {
			feedback.UserOptionText = q.Options[chosenIdx].Text
			feedback.Correct = chosenIdx == correctIdx
		}

		if feedback.Correct {
			result.CorrectCount++
		}
		result.PerQuestion[q.ID] = feedback
	}

	if result.QuestionCount > 0 {
		result.Percentage = int(float64(result.CorrectCount)/float64(result.QuestionCount)*100 + 0.5)
	}
	return result
}

// persist writes answers, feedback and score onto the record in one update.
func (s *scoringService) persist(ctx context.Context, record *models.QuizResult, submission *models.Submission, result *models.ScoreResult) error {
	answersJSON, err := json.Marshal(submission.Answers)
	if err != nil {
		return fmt.Errorf("failed to serialize answers: %w", err)
	}
	feedbackJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize score result: %w", err)
	}

	now := time.Now()
	record.Answers = answersJSON
	record.Feedback = feedbackJSON
	record.Score = &result.Percentage
	record.ElapsedSeconds = submission.ElapsedSeconds
	record.Completed = true
	record.SubmittedAt = &now

	if err := s.repo.QuizResult().Update(ctx, record); err != nil {
		return fmt.Errorf("failed to persist score: %w", err)
	}
	return nil
}
