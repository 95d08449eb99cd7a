package handlers

import (
	"net/http"

	"servana/models"
	"servana/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FlowHandler exposes the booking-flow session: delivery choice, location
// and address capture, and the final delivery resolution gate.
type FlowHandler struct {
	Flow   booking.FlowService
	Logger *zap.Logger
}

func NewFlowHandler(flow booking.FlowService, logger *zap.Logger) *FlowHandler {
	return &FlowHandler{Flow: flow, Logger: logger}
}

// StartFlow opens a booking flow for a business picked from an
// availability result.
func (h *FlowHandler) StartFlow(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req booking.StartFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Flow.StartFlow(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SetDeliveryChoice records the business-site vs customer-site pick.
func (h *FlowHandler) SetDeliveryChoice(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var input struct {
		Choice models.DeliveryChoice `json:"choice"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Flow.SetDeliveryChoice(c.Request.Context(), principal, c.Param("sessionID"), input.Choice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SetLocation picks a business location for business-site delivery.
func (h *FlowHandler) SetLocation(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var input struct {
		LocationID string `json:"location_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Flow.SetLocation(c.Request.Context(), principal, c.Param("sessionID"), input.LocationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SetAddress captures the customer's service address for mobile delivery.
func (h *FlowHandler) SetAddress(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var addr models.Address
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Flow.SetAddress(c.Request.Context(), principal, c.Param("sessionID"), addr)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// ResolveDelivery validates the captured state into a complete delivery
// selection; a failure here blocks confirmation.
func (h *FlowHandler) ResolveDelivery(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	selection, err := h.Flow.ResolveDelivery(c.Request.Context(), principal, c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"delivery": selection})
}

// AbandonFlow discards the session.
func (h *FlowHandler) AbandonFlow(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	if err := h.Flow.AbandonFlow(c.Request.Context(), principal, c.Param("sessionID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking session cancelled"})
}

// SavedAddresses lists the customer's addresses with the prefill default.
func (h *FlowHandler) SavedAddresses(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	book, err := h.Flow.SavedAddresses(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}
