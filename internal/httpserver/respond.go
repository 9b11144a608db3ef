package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/neotech_storefront/internal/account"
	"github.com/Skotchmaster/neotech_storefront/internal/analytics"
	"github.com/Skotchmaster/neotech_storefront/internal/apiclient"
	"github.com/Skotchmaster/neotech_storefront/internal/asyncop"
	"github.com/Skotchmaster/neotech_storefront/internal/auth"
	"github.com/Skotchmaster/neotech_storefront/internal/cart"
	"github.com/Skotchmaster/neotech_storefront/internal/catalog"
	"github.com/Skotchmaster/neotech_storefront/internal/checkout"
	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/metrics"
	"github.com/Skotchmaster/neotech_storefront/internal/navigation"
	"github.com/Skotchmaster/neotech_storefront/internal/notify"
	"github.com/Skotchmaster/neotech_storefront/internal/orders"
	"github.com/Skotchmaster/neotech_storefront/internal/payment"
	"github.com/Skotchmaster/neotech_storefront/internal/preferences"
	"github.com/Skotchmaster/neotech_storefront/internal/validators"
)

type envelope struct {
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Signals []notify.Signal   `json:"signals"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{
		Data:    data,
		Signals: notify.FromContext(c.Request().Context()).Signals(),
	})
}

// fail writes the error response for err and logs it under event.
func fail(c echo.Context, event string, err error) error {
	ctx := c.Request().Context()
	status := statusFor(err)

	l := logging.FromContext(ctx)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "error", err)
	} else {
		l.Warn(event, "status", status, "error", err)
	}

	signals := notify.FromContext(ctx).Signals()
	body := envelope{Error: messageFor(err), Signals: signals}
	if body.Error == "" && len(signals) > 0 {
		body.Error = signals[len(signals)-1].Message
	}
	if body.Error == "" {
		body.Error = http.StatusText(status)
	}
	if fe, ok := validators.AsFieldErrors(err); ok {
		body.Fields = fe.Map()
	}
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		body.Fields = make(map[string]string, len(verr.Result.Violated))
		for _, f := range verr.Result.Violated {
			body.Fields[f] = verr.Result.Message
		}
	}
	return c.JSON(status, body)
}

func statusFor(err error) int {
	var apiErr *apiclient.Error
	switch {
	case errors.Is(err, validators.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, navigation.ErrUnknownPage),
		errors.Is(err, navigation.ErrMissingProductID),
		errors.Is(err, preferences.ErrUnknownLanguage):
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrStockLimit),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrNotPrepared),
		errors.Is(err, asyncop.ErrInFlight):
		return http.StatusConflict
	case errors.Is(err, auth.ErrNotAuthenticated),
		errors.Is(err, account.ErrNotAuthenticated),
		errors.Is(err, catalog.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, catalog.ErrForbidden),
		errors.Is(err, orders.ErrForbidden),
		errors.Is(err, analytics.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, payment.ErrDeclined), errors.Is(err, checkout.ErrPayment):
		return http.StatusPaymentRequired
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	case errors.Is(err, apiclient.ErrTransport), errors.Is(err, apiclient.ErrDecode):
		return http.StatusBadGateway
	case errors.Is(err, auth.ErrLoginFailed):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// messageFor is the text shown to the user, or "" when err carries none and
// the raised signals should speak for it.
func messageFor(err error) string {
	if fe, ok := validators.AsFieldErrors(err); ok {
		return fe.First()
	}
	var (
		loginErr  *auth.LoginError
		submitErr *checkout.SubmitError
		verr      *checkout.ValidationError
		accErr    *account.Error
		catErr    *catalog.Error
		ordErr    *orders.Error
	)
	switch {
	case errors.As(err, &loginErr):
		return loginErr.Message
	case errors.As(err, &submitErr):
		return submitErr.Message
	case errors.As(err, &verr):
		return verr.Result.Message
	case errors.As(err, &accErr):
		return accErr.Message
	case errors.As(err, &catErr):
		return catErr.Message
	case errors.As(err, &ordErr):
		return ordErr.Message
	}
	return apiclient.UserMessage(err, "")
}

// resultOf labels an operation outcome for metrics.
func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case statusFor(err) < http.StatusInternalServerError:
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}

// HTTPErrorHandler renders echo errors (guards, routing, binding) with the
// same body as handler errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	}
	body := envelope{
		Error:   msg,
		Signals: notify.FromContext(c.Request().Context()).Signals(),
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
