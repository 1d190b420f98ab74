package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-acquirer/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1", middleware.Auth(authCfg))
	{
		v1.POST("/acquisitions", handler.Acquire)
		v1.POST("/acquisitions/schedule", handler.ScheduleAcquisition)
		v1.GET("/acquisitions/schedule/:id", handler.GetSchedule)
		v1.DELETE("/acquisitions/schedule/:id", handler.CancelSchedule)

		v1.GET("/patterns", handler.ListPatterns)
		v1.GET("/patterns/:venue", handler.GetPattern)

		v1.GET("/transfers", handler.ListTransfers)
		v1.GET("/transfers/:id", handler.GetTransfer)
		v1.POST("/transfers/:id/transitions", handler.TransitionTransfer)

		v1.POST("/watches", handler.CreateWatch)
		v1.GET("/watches/:id", handler.GetWatch)
	}

	// Identity administration is restricted to API keys
	admin := router.Group("/api/v1/identities", middleware.APIKeyAuth(authCfg))
	{
		admin.POST("", handler.CreateIdentity)
		admin.POST("/reset", handler.ResetIdentityUsage)
		admin.DELETE("/:id", handler.DeactivateIdentity)
	}
}
