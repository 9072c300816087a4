package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-management-service/internal/interface/http"
)

// UserModule wires the user HTTP handlers into routes under /users.
// Static segments (search, stats, filter) are registered before /:id.
type UserModule struct {
	Handler *handlers.UserHandler
	// Limiter guards every user route; nil disables it.
	Limiter gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, limiter gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Limiter: limiter}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	if m.Limiter != nil {
		users.Use(m.Limiter)
	}
	h := m.Handler

	users.POST("", h.Create)
	users.GET("", h.List)
	users.GET("/search", h.Search)
	users.GET("/stats", h.Stats)

	filter := users.Group("/filter")
	{
		filter.GET("", h.FilterByRoleAndStatus)
		filter.GET("/role/:role", h.FilterByRole)
		filter.GET("/status/:status", h.FilterByStatus)
		filter.GET("/city/:city", h.FilterByCity)
		filter.GET("/country/:country", h.FilterByCountry)
	}

	users.GET("/:id", h.Get)
	users.PUT("/:id", h.Update)
	users.PATCH("/:id/status", h.ChangeStatus)
	users.POST("/:id/avatar", h.UploadAvatar)
	users.DELETE("/:id", h.Delete)
}
