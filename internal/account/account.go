// Package account handles signup and the signed-in user's profile and
// password changes.
package account

import (
	"context"
	"errors"

	"github.com/Skotchmaster/neotech_storefront/internal/apiclient"
	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/models"
	"github.com/Skotchmaster/neotech_storefront/internal/notify"
	"github.com/Skotchmaster/neotech_storefront/internal/validators"
)

const (
	msgSignupOK        = "Account created successfully! Redirecting to login..."
	msgSignupFailed    = "Failed to signup"
	msgEmailTaken      = "This email is already registered"
	msgProfileOK       = "Profile updated successfully!"
	msgProfileFailed   = "Failed to update profile"
	msgPasswordOK      = "Password changed successfully!"
	msgPasswordFailed  = "Failed to change password"
	msgSessionRequired = "Please log in to continue"
)

var (
	ErrValidation       = validators.ErrValidation
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrRejected         = errors.New("request rejected")
)

// Error carries the message shown for a failed backend call.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error { return []error{ErrRejected, e.Err} }

type Backend interface {
	Signup(ctx context.Context, req apiclient.SignupRequest) error
	CheckEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, token string, req apiclient.ProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, token string, req apiclient.ChangePasswordRequest) error
}

type Session interface {
	Token() string
	User() *models.User
	UpdateUser(ctx context.Context, patch models.UserPatch) (*models.User, error)
}

type Service struct {
	api     Backend
	session Session
}

func NewService(api Backend, session Session) *Service {
	return &Service{api: api, session: session}
}

// Signup validates the form, refuses an email the backend already knows and
// creates the account. A failed email check does not block signup.
func (s *Service) Signup(ctx context.Context, form SignupForm) error {
	l := logging.FromContext(ctx).With("service", "account", "op", "signup")

	if err := ValidateSignup(form); err != nil {
		return err
	}

	exists, err := s.api.CheckEmail(ctx, form.Email)
	switch {
	case err != nil:
		l.Warn("check_email_error", "error", err)
	case exists:
		return validators.FieldErrors{{Field: "email", Tag: "unique", Message: msgEmailTaken}}
	}

	if err := s.api.Signup(ctx, form.request()); err != nil {
		msg := apiclient.UserMessage(err, msgSignupFailed)
		notify.Error(ctx, msg)
		l.Warn("signup_rejected", "error", err)
		return &Error{Message: msg, Err: err}
	}

	notify.Success(ctx, msgSignupOK)
	l.Info("signup_success")
	return nil
}

// UpdateProfile sends the profile to the backend and merges the profile it
// returns into the session.
func (s *Service) UpdateProfile(ctx context.Context, form ProfileForm) (*models.User, error) {
	l := logging.FromContext(ctx).With("service", "account", "op", "update_profile")

	token := s.session.Token()
	if token == "" || s.session.User() == nil {
		notify.Error(ctx, msgSessionRequired)
		return nil, ErrNotAuthenticated
	}
	if err := validators.Check(formValidator, form, profileMessages); err != nil {
		return nil, err
	}
	form.Phone = FormatPhone(form.Phone)

	returned, err := s.api.UpdateProfile(ctx, token, form.request())
	if err != nil {
		msg := apiclient.UserMessage(err, msgProfileFailed)
		notify.Error(ctx, msg)
		l.Warn("update_profile_rejected", "error", err)
		return nil, &Error{Message: msg, Err: err}
	}

	user := s.session.User()
	if returned != nil {
		if user, err = s.session.UpdateUser(ctx, models.PatchFromUser(*returned)); err != nil {
			return nil, err
		}
	}

	notify.Success(ctx, msgProfileOK)
	l.Info("update_profile_success", "user_id", user.ID)
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, form PasswordForm) error {
	l := logging.FromContext(ctx).With("service", "account", "op", "change_password")

	token := s.session.Token()
	if token == "" {
		notify.Error(ctx, msgSessionRequired)
		return ErrNotAuthenticated
	}
	if err := validators.Check(formValidator, form, passwordMessages); err != nil {
		return err
	}

	if err := s.api.ChangePassword(ctx, token, form.request()); err != nil {
		msg := apiclient.UserMessage(err, msgPasswordFailed)
		notify.Error(ctx, msg)
		l.Warn("change_password_rejected", "error", err)
		return &Error{Message: msg, Err: err}
	}

	notify.Success(ctx, msgPasswordOK)
	l.Info("change_password_success")
	return nil
}
