package routes

import (
	"servana/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes registers the availability-resolution endpoint.
func RegisterAvailabilityRoutes(r *gin.Engine, h *HandlerBundle) {
	availability := r.Group("/api/availability", middleware.CustomerAuthMiddleware())
	{
		availability.POST("/resolve", h.Availability.Resolve)
	}
}
