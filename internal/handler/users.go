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
	"github.com/iliyamo/files-manager/internal/utils"
)

// UserHandler serves account endpoints.
type UserHandler struct {
	Users *service.UserService
	Log   *zap.Logger
}

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResp struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Signup handles POST /users.
func (h *UserHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Signup(ctx, req.Email, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, userResp{ID: u.ID, Email: u.Email})
	case errors.Is(err, service.ErrMissingEmail),
		errors.Is(err, service.ErrMissingPassword),
		errors.Is(err, service.ErrAlreadyExist):
		return errorJSON(c, http.StatusBadRequest, err)
	case errors.Is(err, utils.ErrPasswordTooLong):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password too long"})
	default:
		return internalError(c, h.Log, "signup", err)
	}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}
	return c.JSON(http.StatusOK, userResp{ID: u.ID, Email: u.Email})
}
