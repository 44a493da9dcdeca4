package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/files-manager/internal/repository"
)

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Alive(ctx context.Context) bool
}

// AppHandler serves the service status endpoints.
type AppHandler struct {
	Cache Pinger
	Users repository.UserStore
	Files repository.FileStore
	Log   *zap.Logger
}

// Status reports backend reachability: {"redis": bool, "db": bool}.
func (h *AppHandler) Status(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	return c.JSON(http.StatusOK, echo.Map{
		"redis": h.Cache != nil && h.Cache.Alive(ctx),
		"db":    h.Files.Ping(ctx) == nil,
	})
}

// Stats returns the number of users and file nodes.
func (h *AppHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.Count(ctx)
	if err != nil {
		return internalError(c, h.Log, "count users", err)
	}
	files, err := h.Files.Count(ctx)
	if err != nil {
		return internalError(c, h.Log, "count files", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users, "files": files})
}

func internalError(c echo.Context, log *zap.Logger, op string, err error) error {
	if log != nil {
		log.Error(op, zap.Error(err), zap.String("path", c.Path()))
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func errorJSON(c echo.Context, status int, err error) error {
	return c.JSON(status, echo.Map{"error": err.Error()})
}
