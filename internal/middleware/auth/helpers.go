package authmw

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/models"
)

const (
	CtxUserID  = "userID"
	CtxIsAdmin = "isAdmin"
)

// Session is the part of the auth store the guards read.
type Session interface {
	IsAuthenticated() bool
	IsAdmin() bool
	User() *models.User
}

func setUserContext(c echo.Context, u *models.User) {
	if u == nil {
		return
	}
	c.Set(CtxUserID, u.ID)
	c.Set(CtxIsAdmin, bool(u.IsAdmin))

	ctx, _ := logging.With(c.Request().Context(), "user_id", u.ID)
	c.SetRequest(c.Request().WithContext(ctx))
}
