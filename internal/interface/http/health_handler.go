package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const serviceVersion = "1.0.0"

type HealthHandler struct {
	Service string
}

func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{Service: service}
}

// Check reports liveness. It does not touch dependencies.
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "UP",
		"timestamp": time.Now().UTC(),
		"service":   h.Service,
		"version":   serviceVersion,
	})
}
