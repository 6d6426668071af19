package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/joblink-iscim/backend/internal/middleware"
	"github.com/joblink-iscim/backend/internal/service"
)

type ProfileHTTP struct {
	Svc *service.ProfileService
}

func (h *ProfileHTTP) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

func (h *ProfileHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name           *string `json:"name"`
		Course         *string `json:"course"`
		GraduationYear *int    `json:"graduation_year"`
		Phone          *string `json:"phone"`
		Bio            *string `json:"bio"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Update(ctx, middleware.CurrentUser(c), service.ProfileUpdate{
		Name:           req.Name,
		Course:         req.Course,
		GraduationYear: req.GraduationYear,
		Phone:          req.Phone,
		Bio:            req.Bio,
	})
	if err != nil {
		return translateError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *ProfileHTTP) UpdateEmploymentStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		EmploymentStatus string `json:"employment_status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateEmploymentStatus(ctx, middleware.CurrentUser(c), req.EmploymentStatus)
	if err != nil {
		return translateError(err)
	}
	return c.JSON(http.StatusOK, user)
}
