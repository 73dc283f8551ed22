package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/waycover/waycover/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no prefix)
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		// Network endpoints (public read access)
		api.GET("/paths", handler.ListPaths)
		api.GET("/paths/:id", handler.GetPath)
		api.GET("/stats", handler.GetStatistics)
		api.GET("/areas", handler.ListAreas)
		api.GET("/path-types", handler.ListPathTypes)

		// Ride endpoints (public read access)
		api.GET("/rides", handler.ListRides)
		api.GET("/rides/:id", handler.GetRide)

		// Mutations (require authentication)
		api.POST("/rides", middleware.Auth(authCfg), handler.AddRide)
		api.POST("/rides/batch", middleware.Auth(authCfg), handler.AddRides)
		api.DELETE("/rides/:id", middleware.Auth(authCfg), handler.DeleteRide)
		api.POST("/network", middleware.Auth(authCfg), handler.ImportNetwork)
	}
}
