package handlers

import (
	"net/http"

	"servana/middleware"
	"servana/services/availability"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler exposes availability resolution.
type AvailabilityHandler struct {
	Svc    availability.Service
	Logger *zap.Logger
}

func NewAvailabilityHandler(svc availability.Service, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc, Logger: logger}
}

// Resolve matches a requested service, date and time to eligible
// businesses. A missing or inactive service yields an empty result with
// service_found=false, not an error.
func (h *AvailabilityHandler) Resolve(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	var req availability.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Svc.Resolve(c.Request.Context(), principal, req)
	if err != nil {
		h.Logger.Warn("availability resolution failed",
			zap.String("serviceID", req.ServiceID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
