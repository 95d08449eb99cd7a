package handlers

import (
	"net/http"

	"servana/middleware"
	"servana/models"
	"servana/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle: reads, cancellation with
// the refund policy, and rescheduling.
type BookingHandler struct {
	Svc    booking.Service
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.Service, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

func principalOrAbort(c *gin.Context) (models.Principal, bool) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
	}
	return principal, ok
}

// ListBookings returns the caller's bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	bookings, err := h.Svc.ListBookings(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListGuestBookings returns bookings made before the caller had an
// account, matched by guest email.
func (h *BookingHandler) ListGuestBookings(c *gin.Context) {
	if _, ok := principalOrAbort(c); !ok {
		return
	}

	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	bookings, err := h.Svc.ListGuestBookings(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetBooking returns one booking owned by the caller.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	b, err := h.Svc.GetBooking(c.Request.Context(), principal, c.Param("bookingID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// QuoteCancellation previews the fee/refund split without mutating the
// booking, so the customer sees the policy outcome before confirming.
func (h *BookingHandler) QuoteCancellation(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	quote, err := h.Svc.QuoteCancellation(c.Request.Context(), principal, c.Param("bookingID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// CancelBooking applies the cancellation policy and records the
// cancellation. Repeating the call on an already-cancelled booking is a
// no-op.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
	}

	bookingID := c.Param("bookingID")
	b, quote, err := h.Svc.Cancel(c.Request.Context(), principal, bookingID, input.Reason)
	if err != nil {
		h.Logger.Warn("cancellation failed", zap.String("bookingID", bookingID), zap.Error(err))
		respondError(c, err)
		return
	}

	response := gin.H{"booking": b}
	if quote != nil {
		response["quote"] = quote
	}
	c.JSON(http.StatusOK, response)
}

// RescheduleBooking moves the appointment and resets it to pending.
func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req booking.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	bookingID := c.Param("bookingID")
	b, err := h.Svc.Reschedule(c.Request.Context(), principal, bookingID, req)
	if err != nil {
		h.Logger.Warn("reschedule failed", zap.String("bookingID", bookingID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}
