package routes

import (
	"servana/handlers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HandlerBundle collects the handlers the router needs.
type HandlerBundle struct {
	Availability *handlers.AvailabilityHandler
	Booking      *handlers.BookingHandler
	Flow         *handlers.FlowHandler
	Sync         *handlers.SyncHandler
}

// RegisterRoutes wires every endpoint of the engine.
func RegisterRoutes(r *gin.Engine, h *HandlerBundle) {
	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterAvailabilityRoutes(r, h)
	RegisterBookingRoutes(r, h)
}
