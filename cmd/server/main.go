package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/interview-minds/internal/config"
	"github.com/fadilmartias/interview-minds/internal/domain/fiber/handler"
	applog "github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/fadilmartias/interview-minds/internal/middleware"
	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/fadilmartias/interview-minds/internal/repository"
	"github.com/fadilmartias/interview-minds/internal/service"
	"github.com/fadilmartias/interview-minds/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()
	envErr := godotenv.Load()

	appConfig := config.LoadAppConfig()
	pipelineConfig := config.LoadPipelineConfig()
	applog.Init(applog.Config{Level: appConfig.LogLevel, Format: appConfig.LogFormat})
	if envErr != nil {
		applog.Info().Msg("no .env file, using process environment")
	}

	bodyLimit := pipelineConfig.MaxVideoBytes
	if pipelineConfig.MaxUploadBytes > bodyLimit {
		bodyLimit = pipelineConfig.MaxUploadBytes
	}

	app := fiber.New(fiber.Config{
		AppName:   appConfig.Name,
		BodyLimit: bodyLimit + 1024*1024,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"success": false, "error": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.OwnerHeader,
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()
	resumeRepo := repository.NewResumeRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)

	llm, embedder, err := newAIProviders(ctx)
	if err != nil {
		applog.Fatal().Err(err).Msg("ai providers")
	}

	ingestion := usecase.NewIngestionUsecase(resumeRepo, &service.PDFExtractor{
		OCRFallback: pipelineConfig.OCRFallback,
		MinChars:    pipelineConfig.MinResumeChars,
	}, embedder, pipelineConfig)
	retrieval := usecase.NewRetrievalUsecase(resumeRepo, embedder)
	interview := usecase.NewInterviewUsecase(llm, retrieval)
	scoring, err := usecase.NewScoringUsecase(llm, resumeRepo, interviewRepo)
	if err != nil {
		applog.Fatal().Err(err).Msg("scoring usecase")
	}
	history := usecase.NewHistoryUsecase(interviewRepo, newVideoStorage(ctx))

	api := app.Group("/api", middleware.RequireOwner())
	handler.NewResumeHandler(ingestion, pipelineConfig.MaxUploadBytes).RegisterRoutes(api)
	handler.NewChatHandler(interview, newSessionLocker(ctx)).RegisterRoutes(api)
	handler.NewInterviewHandler(scoring, history, pipelineConfig.MaxVideoBytes).RegisterRoutes(api)

	applog.Info().Str("port", appConfig.Port).Str("embedding", embedder.Name()).Msg("server running")
	if err := app.Listen(appConfig.Port); err != nil {
		applog.Fatal().Err(err).Msg("server stopped")
	}
}

// newAIProviders picks the chat/scoring backend and the embedding backend.
// Gemini is shared when it serves both.
func newAIProviders(ctx context.Context) (service.LLMServiceInterface, service.EmbeddingProvider, error) {
	aiConfig := config.LoadAIConfig()

	var gemini *service.GeminiService
	loadGemini := func() (*service.GeminiService, error) {
		if gemini != nil {
			return gemini, nil
		}
		g, err := service.NewGeminiService(ctx)
		gemini = g
		return g, err
	}

	var llm service.LLMServiceInterface
	switch aiConfig.LLMProvider {
	case config.ProviderGemini:
		g, err := loadGemini()
		if err != nil {
			return nil, nil, err
		}
		llm = g
	case config.ProviderOpenRouter:
		o, err := service.NewOpenRouterService()
		if err != nil {
			return nil, nil, err
		}
		llm = o
	default:
		return nil, nil, fmt.Errorf("unknown LLM_PROVIDER %q", aiConfig.LLMProvider)
	}

	var embedder service.EmbeddingProvider
	switch aiConfig.EmbeddingProvider {
	case config.ProviderGemini:
		g, err := loadGemini()
		if err != nil {
			return nil, nil, err
		}
		embedder = g
	case config.ProviderOllama:
		embedder = service.NewOllamaService(aiConfig.OllamaURL, aiConfig.OllamaEmbedModel, aiConfig.EmbeddingTimeout)
	default:
		return nil, nil, fmt.Errorf("unknown EMBEDDING_PROVIDER %q", aiConfig.EmbeddingProvider)
	}
	return llm, embedder, nil
}

// newSessionLocker returns nil when Redis is not configured or unreachable;
// chat turns are then not serialized server-side.
func newSessionLocker(ctx context.Context) service.SessionLocker {
	redisConfig := config.LoadRedisConfig()
	if !redisConfig.Enabled() {
		applog.Warn().Msg("REDIS_ADDR not set, chat single-flight disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		applog.Error().Err(err).Msg("redis unreachable, chat single-flight disabled")
		_ = client.Close()
		return nil
	}
	return service.NewRedisSessionLock(client, redisConfig.LockTTL)
}

// newVideoStorage returns nil when MinIO is not configured; video uploads
// then answer 503.
func newVideoStorage(ctx context.Context) service.VideoStorage {
	minioConfig := config.LoadMinioConfig()
	if !minioConfig.Enabled() {
		applog.Warn().Msg("MinIO not configured, video uploads disabled")
		return nil
	}
	storage, err := service.NewMinioVideoStorage(ctx, minioConfig)
	if err != nil {
		applog.Error().Err(err).Msg("minio unavailable, video uploads disabled")
		return nil
	}
	return storage
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
		dbConfig.TimeZone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		applog.Fatal().Err(err).Msg("could not connect to database")
	}
	pgDB, err := db.DB()
	if err != nil {
		applog.Fatal().Err(err).Msg("could not get database instance")
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	for _, ext := range []string{"vector", `"uuid-ossp"`} {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS " + ext).Error; err != nil {
			applog.Fatal().Err(err).Str("extension", ext).Msg("create extension failed")
		}
	}
	if err := db.AutoMigrate(&model.Resume{}, &model.ResumeChunk{}, &model.Interview{}); err != nil {
		applog.Fatal().Err(err).Msg("migration failed")
	}
	return db
}
