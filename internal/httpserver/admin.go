package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/joblink-iscim/backend/internal/service"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	role := c.QueryParam("role")
	var active *bool
	switch c.QueryParam("status") {
	case "active":
		v := true
		active = &v
	case "inactive":
		v := false
		active = &v
	}

	users, err := h.Svc.ListUsers(ctx, role, active)
	if err != nil {
		return translateError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

func (h *AdminHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req struct {
		Role       *string `json:"role"`
		IsActive   *bool   `json:"is_active"`
		AdminNotes *string `json:"admin_notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateUser(ctx, uint(id), service.UserPatch{
		Role:       req.Role,
		IsActive:   req.IsActive,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		return translateError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHTTP) Stats(c echo.Context) error {
	counts, err := h.Svc.Counts(c.Request().Context())
	if err != nil {
		return translateError(err)
	}
	return c.JSON(http.StatusOK, counts)
}
