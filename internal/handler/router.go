package handler

import (
	"github.com/SergeiKhy/alias-shortener/internal/middleware"
	"github.com/SergeiKhy/alias-shortener/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(
	aliasService service.AliasService,
	baseURL string,
	logger *zap.Logger,
) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	aliasHandler := NewAliasHandler(aliasService, baseURL, logger)

	// API v.1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", aliasHandler.HealthCheck)
		v1.POST("/aliases", aliasHandler.CreateAlias)
		v1.GET("/aliases/:alias", aliasHandler.GetAlias)
	}

	// Редирект (корневой путь)
	router.GET("/redirect/:alias", aliasHandler.Redirect)
	router.GET("/:alias", aliasHandler.Redirect)
	router.NoRoute(aliasHandler.NotFound)

	return router
}
