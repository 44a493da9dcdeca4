// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/files-manager/internal/config"
	"github.com/iliyamo/files-manager/internal/handler"
	"github.com/iliyamo/files-manager/internal/middleware"
)

// Handlers groups the endpoint implementations.
type Handlers struct {
	App   *handler.AppHandler
	Users *handler.UserHandler
	Auth  *handler.AuthHandler
	Files *handler.FileHandler
}

// Options configures the shared middleware.  A nil Redis disables rate
// limiting and response caching.
type Options struct {
	Auth      middleware.Authenticator
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Log       *zap.Logger
}

// Register mounts every route on e.
func Register(e *echo.Echo, h Handlers, o Options) {
	requireToken := middleware.TokenAuth(o.Auth)
	limit := middleware.NewTokenBucket(o.RateLimit, o.Redis, o.Log)

	e.GET("/healthz", handler.Health)
	e.GET("/status", h.App.Status)
	e.GET("/stats", h.App.Stats, middleware.NewResponseCache(o.Cache, o.Redis, o.Log))

	e.POST("/users", h.Users.Signup, limit)
	e.GET("/users/me", h.Users.Me, requireToken)
	e.GET("/connect", h.Auth.Connect, limit)
	e.GET("/disconnect", h.Auth.Disconnect, requireToken)

	files := e.Group("/files")
	files.GET("/:id/data", h.Files.Data, middleware.OptionalTokenAuth(o.Auth))
	files.POST("", h.Files.Upload, requireToken)
	files.GET("", h.Files.Index, requireToken)
	files.GET("/:id", h.Files.Show, requireToken)
	files.PUT("/:id/publish", h.Files.Publish, requireToken)
	files.PUT("/:id/unpublish", h.Files.Unpublish, requireToken)
}
