package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/navigation"
)

type NavHTTP struct {
	Nav *navigation.Store
}

type navView struct {
	Path     string              `json:"path"`
	Location navigation.Location `json:"location"`
}

// Resolve follows a browser location change (initial load, back button).
func (h *NavHTTP) Resolve(c echo.Context) error {
	loc := h.Nav.Sync(c.QueryParam("path"))
	return respond(c, http.StatusOK, navView{Path: loc.Path(), Location: loc})
}

type navigateRequest struct {
	Page      string `json:"page"`
	ProductID int64  `json:"product_id"`
}

func (h *NavHTTP) Navigate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "nav.navigate")

	var req navigateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bind_error", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON")
	}
	page, err := navigation.ParsePage(req.Page)
	if err != nil {
		return fail(c, "navigate_error", err)
	}
	path, err := h.Nav.Navigate(page, req.ProductID)
	if err != nil {
		return fail(c, "navigate_error", err)
	}
	return respond(c, http.StatusOK, navView{Path: path, Location: h.Nav.Current()})
}
