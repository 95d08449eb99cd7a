package routes

import (
	"servana/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking lifecycle
// and the booking-flow session.
func RegisterBookingRoutes(r *gin.Engine, h *HandlerBundle) {
	auth := middleware.CustomerAuthMiddleware()

	bookings := r.Group("/api/bookings", auth)
	{
		bookings.GET("", h.Booking.ListBookings)
		bookings.GET("/guest", h.Booking.ListGuestBookings)
		bookings.GET("/live", h.Sync.LiveBookings)
		bookings.GET("/:bookingID", h.Booking.GetBooking)
		bookings.GET("/:bookingID/cancellation-quote", h.Booking.QuoteCancellation)
		bookings.POST("/:bookingID/cancel", h.Booking.CancelBooking)
		bookings.POST("/:bookingID/reschedule", h.Booking.RescheduleBooking)
	}

	flow := r.Group("/api/booking/flow", auth)
	{
		flow.POST("", h.Flow.StartFlow)                                // Phase 1: pick a business
		flow.PUT("/:sessionID/delivery-choice", h.Flow.SetDeliveryChoice) // Phase 2: capture delivery
		flow.PUT("/:sessionID/location", h.Flow.SetLocation)
		flow.PUT("/:sessionID/address", h.Flow.SetAddress)
		flow.GET("/:sessionID/delivery", h.Flow.ResolveDelivery) // Phase 3: the confirmation gate
		flow.DELETE("/:sessionID", h.Flow.AbandonFlow)
	}

	r.GET("/api/addresses", auth, h.Flow.SavedAddresses)
}
