package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/preferences"
)

type PrefsHTTP struct {
	Prefs *preferences.Store
}

func (h *PrefsHTTP) Get(c echo.Context) error {
	return respond(c, http.StatusOK, h.Prefs.Snapshot())
}

func (h *PrefsHTTP) ToggleTheme(c echo.Context) error {
	return respond(c, http.StatusOK, h.Prefs.ToggleTheme(c.Request().Context()))
}

type languageRequest struct {
	Language string `json:"language"`
}

func (h *PrefsHTTP) SetLanguage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "preferences.language")

	var req languageRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bind_error", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON")
	}
	lang, err := preferences.ParseLanguage(req.Language)
	if err != nil {
		return fail(c, "set_language_error", err)
	}
	snap, err := h.Prefs.SetLanguage(ctx, lang)
	if err != nil {
		return fail(c, "set_language_error", err)
	}
	return respond(c, http.StatusOK, snap)
}
