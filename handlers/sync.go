package handlers

import (
	"io"
	"net/http"

	"servana/database/repository"
	"servana/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SyncHandler streams live booking status updates to the client over SSE,
// so a status change pushed by a business reaches the customer without a
// full reload.
type SyncHandler struct {
	Feed   *redis.Client
	Repo   repository.BookingRepository
	Logger *zap.Logger
}

func NewSyncHandler(feed *redis.Client, repo repository.BookingRepository, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{Feed: feed, Repo: repo, Logger: logger}
}

// LiveBookings opens a per-connection synchronizer: it sends the current
// collection as a snapshot event, then one booking event per merged delta.
func (h *SyncHandler) LiveBookings(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	synchronizer := sync.NewSynchronizer(h.Feed, h.Repo, principal)
	if err := synchronizer.Start(c.Request.Context()); err != nil {
		h.Logger.Warn("live booking stream failed to start",
			zap.String("principalID", principal.ID), zap.Error(err))
		respondError(c, err)
		return
	}
	defer synchronizer.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	c.SSEvent("snapshot", synchronizer.Snapshot())
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case b, open := <-synchronizer.Updates():
			if !open {
				return false
			}
			c.SSEvent("booking", b)
			return true
		}
	})
}
