package http

import (
	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/search", handler.Search)
		v1.GET("/search", handler.SearchQuery)

		countries := v1.Group("/countries")
		{
			countries.GET("", handler.ListCountries)
			countries.GET("/:code", handler.GetCountry)
		}

		sources := v1.Group("/sources")
		{
			sources.GET("", handler.ListSources)
			sources.GET("/:id/search", handler.SearchSource)
		}
	}

	return router
}
