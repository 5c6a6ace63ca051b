package v1

import (
	"go-workspace-portal/config"
	"go-workspace-portal/internal/delivery/http/middleware"
	"go-workspace-portal/internal/delivery/http/response"
	"go-workspace-portal/internal/domain"
	"go-workspace-portal/internal/routing"
	"go-workspace-portal/pkg/auth"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	WorkspaceUC   domain.WorkspaceUsecase
	OnboardingUC  domain.OnboardingUsecase
	AdminUC       domain.AdminUsecase
	ProfileLoader domain.ProfileLoader
	Resolver      *auth.Resolver
	Engine        *routing.Engine
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))

	// Portal navigation gate: every non-API path goes through the
	// session -> profile -> policy chain and is allowed or redirected.
	r.Use(middleware.Gate(deps.Resolver, deps.ProfileLoader, deps.Engine, deps.Config.LoginPath))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Auth endpoints carry a stricter limit
	authLimited := v1.Group("")
	authLimited.Use(middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig(deps.Config.RateLimitLoginThreshold, window)))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.RequireAuth(deps.Resolver, deps.ProfileLoader, deps.AuthUC))
	{
		NewAuthHandler(authLimited, protected, deps.AuthUC, deps.WorkspaceUC, deps.Config)
		NewWorkspaceHandler(protected, deps.WorkspaceUC)
		NewOnboardingHandler(protected, deps.OnboardingUC)
		NewAdminHandler(protected, deps.AdminUC)
	}

	return r
}
