package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultEventsLimit = 50

// NewHealthHandler reports service liveness, including event store reachability.
func NewHealthHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Events.Ping(c.Request.Context()); err != nil {
			deps.Logger.ErrorContext(c.Request.Context(), "Health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// NewEventsHandler returns the most recent observability events.
func NewEventsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultEventsLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 500 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 500"})
				return
			}
			limit = parsed
		}

		events, err := deps.Events.RecentEvents(c.Request.Context(), limit)
		if err != nil {
			deps.Logger.ErrorContext(c.Request.Context(), "Failed to list events", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}
