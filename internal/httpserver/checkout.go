package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/neotech_storefront/internal/checkout"
	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/metrics"
	"github.com/Skotchmaster/neotech_storefront/internal/payment"
)

type CheckoutHTTP struct {
	Flow    *checkout.Flow
	Metrics *metrics.Metrics
}

func (h *CheckoutHTTP) Get(c echo.Context) error {
	return respond(c, http.StatusOK, h.Flow.Snapshot())
}

func (h *CheckoutHTTP) SetFields(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.fields")

	var f checkout.Fields
	if err := c.Bind(&f); err != nil {
		l.Warn("bind_error", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON")
	}
	snap, err := h.Flow.SetFields(ctx, f)
	if err != nil {
		return fail(c, "set_fields_error", err)
	}
	return respond(c, http.StatusOK, snap)
}

func (h *CheckoutHTTP) LoadDefaults(c echo.Context) error {
	snap, err := h.Flow.LoadDefaults(c.Request().Context())
	if err != nil {
		return fail(c, "load_defaults_error", err)
	}
	return respond(c, http.StatusOK, snap)
}

func (h *CheckoutHTTP) Prepare(c echo.Context) error {
	if _, err := h.Flow.Prepare(c.Request().Context()); err != nil {
		h.Metrics.CheckoutOutcome("rejected")
		return fail(c, "prepare_checkout_error", err)
	}
	return respond(c, http.StatusOK, h.Flow.Snapshot())
}

func (h *CheckoutHTTP) Submit(c echo.Context) error {
	_, err := h.Flow.Submit(c.Request().Context())
	switch {
	case err == nil:
		h.Metrics.CheckoutOutcome(string(checkout.StateCompleted))
	case errors.Is(err, payment.ErrDeclined) || errors.Is(err, checkout.ErrPayment):
		h.Metrics.CheckoutOutcome("payment_failed")
	case errors.Is(err, checkout.ErrInFlight) || errors.Is(err, checkout.ErrNotPrepared):
		h.Metrics.CheckoutOutcome("rejected")
	default:
		h.Metrics.CheckoutOutcome(string(checkout.StateFailed))
	}
	if err != nil {
		return fail(c, "submit_checkout_error", err)
	}
	return respond(c, http.StatusCreated, h.Flow.Snapshot())
}

func (h *CheckoutHTTP) Reset(c echo.Context) error {
	snap, err := h.Flow.Reset(c.Request().Context())
	if err != nil {
		return fail(c, "reset_checkout_error", err)
	}
	return respond(c, http.StatusOK, snap)
}
