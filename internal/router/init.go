package router

import (
	"time"

	"github.com/gin-gonic/gin"

	appuser "github.com/oksasatya/user-management-service/internal/application"
	"github.com/oksasatya/user-management-service/internal/container"
	repouser "github.com/oksasatya/user-management-service/internal/domain/repository"
	"github.com/oksasatya/user-management-service/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/user-management-service/internal/infrastructure/postgres"
	"github.com/oksasatya/user-management-service/internal/infrastructure/storage"
	handlers "github.com/oksasatya/user-management-service/internal/interface/http"
	"github.com/oksasatya/user-management-service/internal/interface/middleware"
	"github.com/oksasatya/user-management-service/internal/router/modules"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *appuser.Service
	Handler *handlers.UserHandler
}

func buildUserRepo() repouser.UserRepository {
	if container.GetConfig().UseMemoryStore() || container.GetPGPool() == nil {
		return memory.NewUserRepository()
	}
	return pginfra.NewUserRepository(container.GetPGPool())
}

func buildUserDeps() UserModuleDeps {
	repo := buildUserRepo()

	var events appuser.EventPublisher
	if p := container.GetEventPublisher(); p != nil {
		events = p
	}
	var avatars appuser.AvatarStore
	if gcs := container.GetGCS(); gcs != nil && container.GetConfig().GCSBucket != "" {
		avatars = storage.NewAvatarStore(gcs, container.GetConfig().GCSBucket)
	}

	service := appuser.NewService(repo, events, avatars, container.GetLogger())
	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

func rateLimiter() gin.HandlerFunc {
	perMinute := container.GetConfig().RateLimitPerMinute
	return middleware.RateLimit(container.GetRedis(), perMinute, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	limiter := rateLimiter()

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(container.GetConfig().AppName)))
	r.Add(modules.NewUserModule(userDeps.Handler, limiter))
	if container.GetConfig().MetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetMetrics().Handler(), limiter))
	}
}
