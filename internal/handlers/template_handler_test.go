package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/coursekit/quiz-service/internal/models"
	"github.com/coursekit/quiz-service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) Create(ctx context.Context, req *services.CreateTemplateRequest, ownerID string) (*models.PromptTemplate, error) {
	args := m.Called(ctx, req, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PromptTemplate), args.Error(1)
}

func (m *MockTemplateService) GetByID(ctx context.Context, id, userID string) (*models.PromptTemplate, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PromptTemplate), args.Error(1)
}

func (m *MockTemplateService) Update(ctx context.Context, id string, req *services.UpdateTemplateRequest, userID string) (*models.PromptTemplate, error) {
	args := m.Called(ctx, id, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PromptTemplate), args.Error(1)
}

func (m *MockTemplateService) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockTemplateService) List(ctx context.Context, ownerID string, limit, offset int) ([]*models.PromptTemplate, int64, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.PromptTemplate), args.Get(1).(int64), args.Error(2)
}

func (m *MockTemplateService) SetDefault(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockTemplateService) ResolveForGeneration(ctx context.Context, templateID, userID string) (*models.PromptTemplate, error) {
	args := m.Called(ctx, templateID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PromptTemplate), args.Error(1)
}

func newTemplateRouter(templateService services.TemplateService) *gin.Engine {
	router := gin.New()
	router.Use(UserContext())
	handler := NewTemplateHandler(templateService, testLogger())
	templates := router.Group("/api/v1/templates")
	templates.POST("", handler.Create)
	templates.GET("", handler.List)
	templates.GET("/:templateId", handler.GetByID)
	templates.PUT("/:templateId", handler.Update)
	templates.DELETE("/:templateId", handler.Delete)
	templates.POST("/:templateId/default", handler.SetDefault)
	return router
}

func TestTemplateHandler_Create(t *testing.T) {
	t.Run("returns the new template", func(t *testing.T) {
		templateService := new(MockTemplateService)
		templateService.On("Create", mock.Anything, mock.AnythingOfType("*services.CreateTemplateRequest"), "owner-1").
			Return(&models.PromptTemplate{ID: "t1", Name: "Exam style", OwnerID: "owner-1"}, nil)
		router := newTemplateRouter(templateService)

		recorder := doJSON(router, http.MethodPost, "/api/v1/templates", "owner-1", gin.H{
			"name":         "Exam style",
			"instructions": "Write {numQuestions} hard questions",
		})

		assert.Equal(t, http.StatusCreated, recorder.Code)
		var template models.PromptTemplate
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &template))
		assert.Equal(t, "t1", template.ID)
	})

	t.Run("bad placeholder maps to 400", func(t *testing.T) {
		templateService := new(MockTemplateService)
		templateService.On("Create", mock.Anything, mock.Anything, "owner-1").
			Return(nil, services.ErrTemplateBadPlaceholder)
		router := newTemplateRouter(templateService)

		recorder := doJSON(router, http.MethodPost, "/api/v1/templates", "owner-1", gin.H{
			"name":         "Broken",
			"instructions": "Uses {unknownThing} markers",
		})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestTemplateHandler_Delete(t *testing.T) {
	t.Run("built-in template maps to 409", func(t *testing.T) {
		templateService := new(MockTemplateService)
		templateService.On("Delete", mock.Anything, "builtin", "owner-1").
			Return(services.ErrTemplateNotDeletable)
		router := newTemplateRouter(templateService)

		recorder := doJSON(router, http.MethodDelete, "/api/v1/templates/builtin", "owner-1", nil)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("missing template maps to 404", func(t *testing.T) {
		templateService := new(MockTemplateService)
		templateService.On("Delete", mock.Anything, "missing", "owner-1").
			Return(services.ErrTemplateNotFound)
		router := newTemplateRouter(templateService)

		recorder := doJSON(router, http.MethodDelete, "/api/v1/templates/missing", "owner-1", nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestTemplateHandler_SetDefault(t *testing.T) {
	templateService := new(MockTemplateService)
	templateService.On("SetDefault", mock.Anything, "t2", "owner-1").Return(nil)
	router := newTemplateRouter(templateService)

	recorder := doJSON(router, http.MethodPost, "/api/v1/templates/t2/default", "owner-1", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	templateService.AssertExpectations(t)
}
