package v1

import (
	"net/http"
	"time"

	"go-talent-pipeline/config"
	"go-talent-pipeline/internal/delivery/http/middleware"
	"go-talent-pipeline/internal/domain"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterDeps bundles everything the HTTP layer needs
type RouterDeps struct {
	Config         *config.Config
	ApplicationUC  domain.ApplicationUsecase
	ScoringUC      domain.ScoringUsecase
	NotificationUC domain.NotificationUsecase
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	router.Use(middleware.CORSMiddleware(deps.Config.FrontendURL))
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RateLimit(middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))
	router.Use(middleware.ActorResolver(deps.Config))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	bulkLimiter := middleware.RateLimit(middleware.BulkRateLimitConfig(deps.Config.RateLimitBulkThreshold, window))

	apiV1 := router.Group("/v1")
	{
		NewApplicationHandler(apiV1, deps.ApplicationUC, bulkLimiter)
		NewScoringHandler(apiV1, deps.ScoringUC)
		NewNotificationHandler(apiV1, deps.NotificationUC)
	}

	return router
}
