package authmw

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin answers 401 without a session and 403 for a non-admin one.
func RequireAdmin(s Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !s.IsAuthenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please login first")
			}
			if !s.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
			}
			setUserContext(c, s.User())
			return next(c)
		}
	}
}
