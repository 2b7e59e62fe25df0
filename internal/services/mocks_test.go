package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coursekit/quiz-service/internal/cache"
	"github.com/coursekit/quiz-service/internal/models"
	"github.com/coursekit/quiz-service/internal/repositories"
	"github.com/coursekit/quiz-service/internal/utils"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testValidator() *utils.Validator {
	return utils.NewValidator()
}

// ===== MOCK REPOSITORIES =====

type MockQuizResultRepository struct {
	mock.Mock
}

func (m *MockQuizResultRepository) Create(ctx context.Context, result *models.QuizResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockQuizResultRepository) GetByID(ctx context.Context, id string) (*models.QuizResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizResult), args.Error(1)
}

func (m *MockQuizResultRepository) GetByQuizID(ctx context.Context, quizID string) (*models.QuizResult, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizResult), args.Error(1)
}

func (m *MockQuizResultRepository) Update(ctx context.Context, result *models.QuizResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockQuizResultRepository) List(ctx context.Context, filters repositories.QuizResultFilters) ([]*models.QuizResult, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.QuizResult), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuizResultRepository) GetCompletedByCourse(ctx context.Context, courseID string) ([]*models.QuizResult, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.QuizResult), args.Error(1)
}

func (m *MockQuizResultRepository) GetBestScore(ctx context.Context, courseID, userID string) (int, error) {
	args := m.Called(ctx, courseID, userID)
	return args.Int(0), args.Error(1)
}

type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCourseRepository) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Course), args.Get(1).(int64), args.Error(2)
}

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Create(ctx context.Context, template *models.PromptTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) GetByID(ctx context.Context, id string) (*models.PromptTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PromptTemplate), args.Error(1)
}

func (m *MockTemplateRepository) GetDefault(ctx context.Context, ownerID string) (*models.PromptTemplate, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PromptTemplate), args.Error(1)
}

func (m *MockTemplateRepository) Update(ctx context.Context, template *models.PromptTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTemplateRepository) List(ctx context.Context, filters repositories.TemplateFilters) ([]*models.PromptTemplate, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.PromptTemplate), args.Get(1).(int64), args.Error(2)
}

func (m *MockTemplateRepository) ClearDefaults(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockTemplateRepository) IncrementUsage(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockQuestionnaireRepository struct {
	mock.Mock
}

func (m *MockQuestionnaireRepository) Create(ctx context.Context, response *models.QuestionnaireResponse) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *MockQuestionnaireRepository) GetByCourse(ctx context.Context, courseID string, limit, offset int) ([]*models.QuestionnaireResponse, int64, error) {
	args := m.Called(ctx, courseID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.QuestionnaireResponse), args.Get(1).(int64), args.Error(2)
}

// mockRepository aggregates the mocks behind the Repository interface.
type mockRepository struct {
	quizResult    *MockQuizResultRepository
	course        *MockCourseRepository
	template      *MockTemplateRepository
	questionnaire *MockQuestionnaireRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		quizResult:    new(MockQuizResultRepository),
		course:        new(MockCourseRepository),
		template:      new(MockTemplateRepository),
		questionnaire: new(MockQuestionnaireRepository),
	}
}

func (m *mockRepository) QuizResult() repositories.QuizResultRepository { return m.quizResult }

func (m *mockRepository) Course() repositories.CourseRepository { return m.course }

func (m *mockRepository) Template() repositories.TemplateRepository { return m.template }

func (m *mockRepository) Questionnaire() repositories.QuestionnaireRepository {
	return m.questionnaire
}

func (m *mockRepository) assertExpectations(t *testing.T) {
	m.quizResult.AssertExpectations(t)
	m.course.AssertExpectations(t)
	m.template.AssertExpectations(t)
	m.questionnaire.AssertExpectations(t)
}

// ===== IN-MEMORY CACHE =====

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
	return nil
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	payload, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// ===== SMALL STUBS =====

// stubLeaderboard records invalidations.
type stubLeaderboard struct {
	invalidated []string
}

func (s *stubLeaderboard) Get(_ context.Context, _ string, _ int) ([]models.LeaderboardEntry, error) {
	return nil, nil
}

func (s *stubLeaderboard) Invalidate(_ context.Context, courseID string) error {
	s.invalidated = append(s.invalidated, courseID)
	return nil
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return payload
}

func fourOptions(correct int) []models.Option {
	options := make([]models.Option, 4)
	texts := []string{"alpha", "beta", "gamma", "delta"}
	for i := range options {
		options[i] = models.Option{ID: i + 1, Text: texts[i]}
	}
	options[correct].IsCorrect = true
	options[correct].Explanation = "because " + texts[correct]
	return options
}
