package main

import (
	"log/slog"
	"os"

	"github.com/coursekit/quiz-service/internal/cache"
	"github.com/coursekit/quiz-service/internal/config"
	"github.com/coursekit/quiz-service/internal/events"
	"github.com/coursekit/quiz-service/internal/genai"
	"github.com/coursekit/quiz-service/internal/handlers"
	"github.com/coursekit/quiz-service/internal/repositories/postgres"
	"github.com/coursekit/quiz-service/internal/services"
	"github.com/coursekit/quiz-service/internal/utils"
	"github.com/coursekit/quiz-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.LogError(err, "Failed to connect to redis")
		os.Exit(1)
	}
	defer redisClient.Close()

	cacheService := cache.NewRedisCache(redisClient, slogger)
	repo := postgres.NewRepository(db)
	validator := utils.NewValidator()

	// Generation pipeline.
	client := genai.NewClient(genai.ClientConfig{
		APIKey:    cfg.OpenAIAPIKey,
		Model:     cfg.OpenAIModel,
		MaxTokens: cfg.MaxCompletionTokens,
		Timeout:   cfg.GenerationTimeout,
	}, slogger)
	analyzer := genai.NewContentAnalyzer(slogger)
	formatter := genai.NewPromptFormatter(cfg.MaxPromptLength, slogger)
	composer := genai.NewPromptComposer(formatter, slogger)
	parser := genai.NewResponseParser(slogger)
	orchestrator := genai.NewOrchestrator(analyzer, formatter, composer, client, parser, genai.OrchestratorConfig{
		ChunkThreshold: cfg.ChunkThreshold,
		MaxSections:    cfg.MaxChunkedSections,
	}, slogger)

	// Lifecycle events: Kafka when reachable, mock otherwise so local
	// development works without a broker.
	var publisher events.EventPublisher
	kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.KafkaBrokers,
		TopicName:    cfg.EventsTopic,
		Logger:       slogger,
	})
	if err != nil {
		logger.Warn("Kafka unavailable, using mock event publisher", "error", err)
		publisher = events.NewMockEventPublisher(slogger)
	} else {
		publisher = kafkaPublisher
	}
	defer publisher.Close()

	// Services.
	templateService := services.NewTemplateService(repo, slogger, validator)
	leaderboardService := services.NewLeaderboardService(repo, cacheService, slogger)
	translator := services.NewLLMTranslator(client, slogger)
	quizService := services.NewQuizService(repo, orchestrator, templateService, translator, publisher, slogger, validator)
	scoringService := services.NewScoringService(repo, leaderboardService, publisher, slogger, validator)
	courseService := services.NewCourseService(repo, publisher, slogger, validator)
	questionnaireService := services.NewQuestionnaireService(repo, slogger, validator)

	// HTTP surface.
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	manager := handlers.NewHandlerManager(
		quizService,
		scoringService,
		leaderboardService,
		templateService,
		courseService,
		questionnaireService,
		logger,
	)
	manager.SetupRoutes(router)

	logger.Info("Starting quiz service", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.LogError(err, "Server stopped")
		os.Exit(1)
	}
}
