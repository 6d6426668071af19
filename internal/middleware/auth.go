package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/joblink-iscim/backend/internal/models"
	"github.com/joblink-iscim/backend/internal/service"
)

const (
	userContextKey  = "auth_user"
	tokenContextKey = "auth_token"
)

type SessionAuth struct {
	Svc *service.AuthService
}

func NewSessionAuth(svc *service.AuthService) *SessionAuth {
	return &SessionAuth{Svc: svc}
}

// RequireAuth resolves the bearer token to an account on every request.
// The account's active flag is checked here, per request, so deactivation
// cuts outstanding tokens off immediately.
func (m *SessionAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		plain := bearerToken(c.Request())
		if plain == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
		}

		user, err := m.Svc.CurrentUser(c.Request().Context(), plain)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
		}

		c.Set(userContextKey, user)
		c.Set(tokenContextKey, plain)
		return next(c)
	}
}

func (m *SessionAuth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden.")
		}
		return next(c)
	}
}

func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(userContextKey).(*models.User); ok {
		return u
	}
	return nil
}

func CurrentToken(c echo.Context) string {
	if t, ok := c.Get(tokenContextKey).(string); ok {
		return t
	}
	return ""
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}
