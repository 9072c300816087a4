package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DebugModule exposes the Prometheus scrape endpoint.
type DebugModule struct {
	Metrics http.Handler
	Limiter gin.HandlerFunc
}

func NewDebugModule(metrics http.Handler, limiter gin.HandlerFunc) *DebugModule {
	return &DebugModule{Metrics: metrics, Limiter: limiter}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	handlers := []gin.HandlerFunc{gin.WrapH(m.Metrics)}
	if m.Limiter != nil {
		handlers = append([]gin.HandlerFunc{m.Limiter}, handlers...)
	}
	rg.GET("/metrics", handlers...)
}
