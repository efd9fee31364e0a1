package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-coaching-backend/config"
	_ "go-coaching-backend/docs" // Important for Swagger
	v1 "go-coaching-backend/internal/delivery/http/v1"
	"go-coaching-backend/internal/repository/postgres"
	"go-coaching-backend/internal/usecase"
	"go-coaching-backend/pkg/auth"
	"go-coaching-backend/pkg/database"
	"go-coaching-backend/pkg/llm"
	"go-coaching-backend/pkg/logger"
	"go-coaching-backend/pkg/redis"
	"go-coaching-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// @title           Agent Coaching Backend API
// @version         1.0
// @description     Backend for the real estate agent coaching platform using Clean Architecture.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting coaching backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (rate limiting; falls back to in-memory when absent)
	if err := redis.Initialize(redis.Config{
		URL:      cfg.UpstashRedisURL,
		Password: cfg.UpstashRedisPassword,
	}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	profileRepo := postgres.NewProfileRepository(dbPool)
	onboardingRepo := postgres.NewOnboardingRepository(dbPool)
	goalRepo := postgres.NewGoalRepository(dbPool)
	planRepo := postgres.NewPlanRepository(dbPool)
	convRepo := postgres.NewConversationRepository(dbPool)
	entityRepo := postgres.NewEntityRepository(dbPool)
	contextRepo := postgres.NewContextRepository(dbPool)

	// 6. Setup LLM Gateway Client
	llmClient := llm.NewClient(cfg)
	if !llmClient.IsConfigured() {
		logger.Log.Warn("LLM gateway not fully configured - agent chat will be unavailable")
	}

	// 7. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)

	authUC := usecase.NewAuthUsecase(profileRepo, onboardingRepo, validate)
	onboardingUC := usecase.NewOnboardingUsecase(onboardingRepo, profileRepo, validate)
	goalUC := usecase.NewGoalUsecase(goalRepo, validate)
	plannerUC := usecase.NewPlannerUsecase(planRepo, goalRepo, validate)
	contextUC := usecase.NewContextUsecase(profileRepo, onboardingRepo, goalRepo, planRepo, contextRepo)
	entityUC := usecase.NewEntityUsecase(entityRepo, validate)
	chatUC := usecase.NewChatUsecase(llmClient, convRepo, profileRepo, goalRepo, contextRepo, validate)
	importerUC := usecase.NewImporterUsecase(entityRepo, validate, cfg.ImportBatchSize)
	healthUC := usecase.NewHealthUsecase(dbPool)

	// 8. Setup Auth Provider (JWKS)
	// Assuming Supabase URL is like https://xyz.supabase.co
	jwksURL := cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json"
	jwksProvider := auth.NewProvider(jwksURL)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:       authUC,
		OnboardingUC: onboardingUC,
		ContextUC:    contextUC,
		GoalUC:       goalUC,
		PlannerUC:    plannerUC,
		EntityUC:     entityUC,
		ChatUC:       chatUC,
		ImporterUC:   importerUC,
		HealthUC:     healthUC,
		JWKSProvider: jwksProvider,
		Config:       cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
