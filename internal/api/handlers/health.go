package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BreakerStates reports circuit breaker states by upstream name.
type BreakerStates interface {
	States() map[string]string
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	breakers BreakerStates
	cache    Pinger
}

// NewHealthHandler accepts a nil cache when caching is disabled.
func NewHealthHandler(breakers BreakerStates, cache Pinger) *HealthHandler {
	return &HealthHandler{
		breakers: breakers,
		cache:    cache,
	}
}

// GetHealth always returns 200 while the server is running; upstream and cache
// state is informational.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"service": "fpl-helper",
		"time":    time.Now().UTC(),
	}
	if h.breakers != nil {
		body["breakers"] = h.breakers.States()
	}

	cache := "disabled"
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		cache = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			cache = "unavailable"
		}
	}
	body["cache"] = cache

	c.JSON(http.StatusOK, body)
}
