package authmw

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireSession rejects the request with 401 unless a user is signed in.
func RequireSession(s Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !s.IsAuthenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please login first")
			}
			setUserContext(c, s.User())
			return next(c)
		}
	}
}
