package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/neotech_storefront/internal/account"
	"github.com/Skotchmaster/neotech_storefront/internal/asyncop"
	"github.com/Skotchmaster/neotech_storefront/internal/auth"
	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/metrics"
	"github.com/Skotchmaster/neotech_storefront/internal/models"
	"github.com/Skotchmaster/neotech_storefront/internal/validators"
)

type SessionHTTP struct {
	Auth    *auth.Store
	Account *account.Service
	Metrics *metrics.Metrics
}

type sessionView struct {
	Authenticated bool          `json:"authenticated"`
	IsAdmin       bool          `json:"is_admin"`
	User          *models.User  `json:"user,omitempty"`
	LoginState    asyncop.State `json:"login_state"`
}

func (h *SessionHTTP) view() sessionView {
	return sessionView{
		Authenticated: h.Auth.IsAuthenticated(),
		IsAdmin:       h.Auth.IsAdmin(),
		User:          h.Auth.User(),
		LoginState:    h.Auth.LoginState(),
	}
}

func (h *SessionHTTP) Get(c echo.Context) error {
	return respond(c, http.StatusOK, h.view())
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email_simple"`
	Password string `json:"password" validate:"required"`
}

var (
	requestValidator = validators.New()

	loginMessages = validators.Messages{
		"email.required":     "Email is required",
		"email.email_simple": "Please enter a valid email address",
		"password.required":  "Password is required",
	}
)

func (h *SessionHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bind_error", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON")
	}
	if err := validators.Check(requestValidator, req, loginMessages); err != nil {
		h.Metrics.AuthOp("login", metrics.ResultRejected)
		return fail(c, "login_invalid", err)
	}

	if _, err := h.Auth.Login(ctx, req.Email, req.Password); err != nil {
		h.Metrics.AuthOp("login", resultOf(err))
		return fail(c, "login_error", err)
	}
	h.Metrics.AuthOp("login", metrics.ResultOK)
	return respond(c, http.StatusOK, h.view())
}

func (h *SessionHTTP) Logout(c echo.Context) error {
	h.Auth.Logout(c.Request().Context())
	h.Metrics.AuthOp("logout", metrics.ResultOK)
	return respond(c, http.StatusOK, h.view())
}

func (h *SessionHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.signup")

	var form account.SignupForm
	if err := c.Bind(&form); err != nil {
		l.Warn("bind_error", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON")
	}
	err := h.Account.Signup(ctx, form)
	h.Metrics.AuthOp("signup", resultOf(err))
	if err != nil {
		return fail(c, "signup_error", err)
	}
	return respond(c, http.StatusCreated, nil)
}

func (h *SessionHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.profile")

	var form account.ProfileForm
	if err := c.Bind(&form); err != nil {
		l.Warn("bind_error", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON")
	}
	u, err := h.Account.UpdateProfile(ctx, form)
	h.Metrics.AuthOp("update_profile", resultOf(err))
	if err != nil {
		return fail(c, "update_profile_error", err)
	}
	return respond(c, http.StatusOK, u)
}

func (h *SessionHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.password")

	var form account.PasswordForm
	if err := c.Bind(&form); err != nil {
		l.Warn("bind_error", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON")
	}
	err := h.Account.ChangePassword(ctx, form)
	h.Metrics.AuthOp("change_password", resultOf(err))
	if err != nil {
		return fail(c, "change_password_error", err)
	}
	return respond(c, http.StatusOK, nil)
}
