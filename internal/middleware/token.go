package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/files-manager/internal/model"
)

// HeaderToken carries the session token on authenticated requests.
const HeaderToken = "X-Token"

const (
	ctxUser  = "user"
	ctxToken = "token"
)

// Authenticator resolves a session token to a live user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// TokenAuth rejects requests without a valid X-Token with 401.
func TokenAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !authenticate(c, auth) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
			}
			return next(c)
		}
	}
}

// OptionalTokenAuth resolves X-Token when present and otherwise lets the
// request through anonymously.  An invalid token is treated as no token.
func OptionalTokenAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authenticate(c, auth)
			return next(c)
		}
	}
}

func authenticate(c echo.Context, auth Authenticator) bool {
	token := c.Request().Header.Get(HeaderToken)
	if token == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := auth.Authenticate(ctx, token)
	if err != nil {
		return false
	}
	c.Set(ctxUser, u)
	c.Set(ctxToken, token)
	return true
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(ctxUser).(*model.User)
	return u
}

// UserID returns the authenticated user's id, or "" for anonymous requests.
func UserID(c echo.Context) string {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return ""
}

// Token returns the session token that authenticated the request.
func Token(c echo.Context) string {
	s, _ := c.Get(ctxToken).(string)
	return s
}
