package main

import (
	"github.com/gin-gonic/gin"

	"media-gallery-backend/internal/shared/middleware"
	"media-gallery-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.OptionalIdentity(c.Config.JWT.Secret),
	)

	router.MaxMultipartMemory = 32 << 20 // larger files spill to disk

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupMediaRoutes(v1, c)
	}

	return router
}

func setupMediaRoutes(v1 *gin.RouterGroup, c *container.Container) {
	media := v1.Group("/media")
	{
		media.POST("", c.MediaHandler.Upload)
		media.GET("", c.MediaHandler.List)
		media.GET("/:slug", c.MediaHandler.GetBySlug)

		// Id-addressed routes live under /id/ so they never shadow slugs.
		media.GET("/id/:id", c.MediaHandler.GetByID)
		media.PUT("/id/:id", c.MediaHandler.Update)
		media.DELETE("/id/:id", c.MediaHandler.Delete)
		media.GET("/id/:id/stream", c.MediaHandler.Stream)
		media.GET("/id/:id/thumbnail", c.MediaHandler.Thumbnail)
	}
}
