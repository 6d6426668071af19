package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/joblink-iscim/backend/internal/middleware"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	ProfileHandler *ProfileHTTP
	AdminHandler   *AdminHTTP
	AuthMW         *middleware.SessionAuth
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/social", d.AuthHandler.Social)
	auth.POST("/logout", d.AuthHandler.Logout, d.AuthMW.RequireAuth)

	private := api.Group("", d.AuthMW.RequireAuth)
	private.GET("/user", d.ProfileHandler.Me)
	private.PUT("/user", d.ProfileHandler.Update)
	private.PUT("/user/status", d.ProfileHandler.UpdateEmploymentStatus)

	admin := private.Group("/admin", d.AuthMW.RequireAdmin)
	admin.GET("/users", d.AdminHandler.ListUsers)
	admin.PATCH("/users/:id", d.AdminHandler.UpdateUser)
	admin.GET("/stats", d.AdminHandler.Stats)
}
