package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/files-manager/internal/middleware"
	"github.com/iliyamo/files-manager/internal/service"
)

// AuthHandler opens and closes sessions.
type AuthHandler struct {
	Users *service.UserService
	Log   *zap.Logger
}

// Connect handles GET /connect with HTTP Basic credentials and returns a
// fresh session token.
func (h *AuthHandler) Connect(c echo.Context) error {
	email, password, ok := c.Request().BasicAuth()
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	token, err := h.Users.Connect(ctx, email, password)
	if errors.Is(err, service.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}
	if err != nil {
		return internalError(c, h.Log, "connect", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// Disconnect handles GET /disconnect: the token that authenticated the
// request is revoked.
func (h *AuthHandler) Disconnect(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Disconnect(ctx, middleware.Token(c)); err != nil {
		return internalError(c, h.Log, "disconnect", err)
	}
	return c.NoContent(http.StatusNoContent)
}
