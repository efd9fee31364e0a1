package v1

import (
	"net/http"
	"time"

	"go-coaching-backend/config"
	"go-coaching-backend/internal/delivery/http/middleware"
	"go-coaching-backend/internal/delivery/http/response"
	"go-coaching-backend/internal/domain"
	"go-coaching-backend/internal/usecase"
	"go-coaching-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC       domain.AuthUsecase
	OnboardingUC domain.OnboardingUsecase
	ContextUC    domain.ContextUsecase
	GoalUC       domain.GoalUsecase
	PlannerUC    domain.PlannerUsecase
	EntityUC     domain.EntityUsecase
	ChatUC       domain.ChatUsecase
	ImporterUC   domain.ImporterUsecase
	HealthUC     usecase.HealthUsecase
	JWKSProvider *auth.Provider
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.GlobalRateLimitMiddleware(
		deps.Config.RateLimitGlobalThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		status := deps.HealthUC.Check(c.Request.Context())
		code := http.StatusOK
		if status["status"] != "ok" {
			code = http.StatusServiceUnavailable
		}
		response.Success(c, code, "Health check", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Chat turns burn LLM gateway credits; they get a stricter per-user
	// budget shared across personas.
	chatLimiter := middleware.RateLimitMiddleware(middleware.ChatRateLimitConfig(
		deps.Config.RateLimitChatThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, deps.Config, deps.AuthUC))
	{
		NewAuthHandler(protected, deps.AuthUC, deps.OnboardingUC)
		NewOnboardingHandler(protected, deps.OnboardingUC)
		NewContextHandler(protected, deps.ContextUC)
		NewGoalHandler(protected, deps.GoalUC)
		NewPlannerHandler(protected, deps.PlannerUC)
		NewEntityHandler(protected, deps.EntityUC)
		NewChatHandler(protected, deps.ChatUC, chatLimiter)
		NewImportHandler(protected, deps.ImporterUC)
	}

	return r
}
