package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/joblink-iscim/backend/internal/logging"
	"github.com/joblink-iscim/backend/internal/middleware"
	"github.com/joblink-iscim/backend/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Name           string  `json:"name"`
		Email          string  `json:"email"`
		Password       string  `json:"password"`
		Course         *string `json:"course"`
		GraduationYear *int    `json:"graduation_year"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Register(ctx, service.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Course:         req.Course,
		GraduationYear: req.GraduationYear,
	})
	if err != nil {
		return translateError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user":  res.User,
		"token": res.Token,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return translateError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":  res.User,
		"token": res.Token,
	})
}

func (h *AuthHTTP) Social(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_social")

	var req struct {
		Provider  string `json:"provider"`
		Assertion string `json:"assertion"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("social_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.SocialLogin(ctx, req.Provider, req.Assertion)
	if err != nil {
		return translateError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":  res.User,
		"token": res.Token,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if err := h.Svc.Logout(ctx, middleware.CurrentToken(c)); err != nil {
		l.Error("logout_failed", "error", err)
		return translateError(err)
	}

	l.Info("logout_successful")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Logged out",
	})
}
