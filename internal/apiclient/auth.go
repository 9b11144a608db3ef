package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Skotchmaster/neotech_storefront/internal/models"
)

type LoginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, call{
		name:   "login",
		method: http.MethodPost,
		path:   "/api/login",
		body:   map[string]string{"email": email, "password": password},
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.User != nil {
		if err := c.check(out.User); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, call{
		name:   "logout",
		method: http.MethodPost,
		path:   "/api/logout",
		token:  token,
	}, nil)
}

type SignupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.do(ctx, call{
		name:   "signup",
		method: http.MethodPost,
		path:   "/api/signup",
		body:   req,
	}, nil)
}

func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	err := c.do(ctx, call{
		name:   "check_email",
		method: http.MethodGet,
		path:   "/api/check-email?email=" + url.QueryEscape(email),
	}, &out)
	return out.Exists, err
}

type ProfileRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// UpdateProfile returns the stored profile when the backend echoes it back.
func (c *Client) UpdateProfile(ctx context.Context, token string, req ProfileRequest) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	err := c.do(ctx, call{
		name:   "update_profile",
		method: http.MethodPut,
		path:   "/api/update-profile",
		token:  token,
		body:   req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

func (c *Client) ChangePassword(ctx context.Context, token string, req ChangePasswordRequest) error {
	return c.do(ctx, call{
		name:   "change_password",
		method: http.MethodPost,
		path:   "/api/change-password",
		token:  token,
		body:   req,
	}, nil)
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	var out []models.User
	err := c.do(ctx, call{
		name:   "list_users",
		method: http.MethodGet,
		path:   "/api/users",
		token:  token,
	}, &out)
	return out, err
}
