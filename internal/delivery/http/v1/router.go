package v1

import (
	"time"

	"skillijob-backend/config"
	"skillijob-backend/internal/delivery/http/middleware"
	"skillijob-backend/internal/domain"
	"skillijob-backend/internal/usecase"
	"skillijob-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	DirectoryUC   usecase.DirectoryUsecase
	CVUC          domain.CVUsecase
	NewsletterUC  domain.NewsletterUsecase
	CheckoutUC    domain.CheckoutUsecase
	LegalUC       domain.LegalUsecase
	ContentUC     domain.ContentUsecase
	ContactUC     domain.ContactUsecase
	HealthUC      usecase.HealthUsecase
	UploadLimiter *security.UploadLimiter
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()

	// CORS must be first so preflight requests short-circuit.
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		Production:  cfg.IsProduction(),
		FrontendURL: cfg.FrontendURL,
	}))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
	r.Use(middleware.CSRFMiddleware(cfg.IsProduction()))

	v1 := r.Group("/v1")

	NewHealthHandler(v1, deps.HealthUC)
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public content and directory
	NewContentHandler(v1, deps.LegalUC, deps.ContentUC)

	// Public forms
	forms := v1.Group("", middleware.RateLimitMiddleware(middleware.FormRateLimitConfig()))
	NewContactHandler(forms, deps.ContactUC)
	NewNewsletterHandler(forms, deps.NewsletterUC)
	NewCVHandler(v1, deps.CVUC, deps.UploadLimiter, cfg.CVMaxBytes)

	protected := v1.Group("", middleware.AuthMiddleware(deps.AuthUC))
	company := protected.Group("", middleware.RequireUserType(domain.UserTypeCompany))

	authPublic := v1.Group("", middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(cfg.RateLimitLoginThreshold, window)))
	NewAuthHandler(authPublic, protected, deps.AuthUC, cfg.IsProduction())

	NewCandidateHandler(v1, company, deps.DirectoryUC)
	NewCheckoutHandler(v1, protected, deps.CheckoutUC)

	return r
}
