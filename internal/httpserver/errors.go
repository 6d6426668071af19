package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/joblink-iscim/backend/internal/service"
)

// translateError maps service failures to HTTP responses. Storage errors
// never reach the client in raw form.
func translateError(err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, echo.Map{
			"message": "The given data was invalid.",
			"errors":  ve.Fields,
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, echo.Map{
			"message": "Invalid credentials",
		})
	case errors.Is(err, service.ErrAccountDeactivated):
		return echo.NewHTTPError(http.StatusForbidden, echo.Map{
			"message": "Your account has been deactivated. Contact an administrator.",
		})
	case errors.Is(err, service.ErrProviderAssertion):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, echo.Map{
			"message": "The social login assertion could not be verified.",
		})
	case errors.Is(err, service.ErrLastAdmin):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, echo.Map{
			"message": "Cannot demote or deactivate the last active administrator.",
		})
	case errors.Is(err, service.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{
			"message": "Unauthenticated.",
		})
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, echo.Map{
			"message": "Not found.",
		})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{
			"message": "Internal error.",
		})
	}
}
