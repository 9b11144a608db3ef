package account

import (
	"strings"

	"github.com/Skotchmaster/neotech_storefront/internal/apiclient"
	"github.com/Skotchmaster/neotech_storefront/internal/validators"
)

var formValidator = validators.New()

type SignupForm struct {
	FullName        string `json:"fullName"        validate:"required,min=2,letters_spaces"`
	Email           string `json:"email"           validate:"required,email_simple"`
	Password        string `json:"password"        validate:"required,min=8,has_lower,has_upper,has_digit"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Phone           string `json:"phone"           validate:"omitempty,phone_chars,eg_mobile_len,eg_mobile_prefix"`
	Address         string `json:"address"         validate:"omitempty,min=5"`
	City            string `json:"city"            validate:"omitempty,min=2"`
	PostalCode      string `json:"postalCode"      validate:"omitempty,postal_code"`
	Country         string `json:"country"         validate:"omitempty,min=2"`
}

func (f SignupForm) request() apiclient.SignupRequest {
	return apiclient.SignupRequest{
		Name:       f.FullName,
		Email:      f.Email,
		Password:   f.Password,
		Phone:      f.Phone,
		Address:    f.Address,
		City:       f.City,
		PostalCode: f.PostalCode,
		Country:    f.Country,
	}
}

const (
	msgEgPrefix = "Invalid Egyptian mobile number prefix (use 10, 11, 12, or 15). Example: +20 11 12345678"
	msgEgLength = "Egyptian phone number must be 10 digits total (2 prefix + 8 digits). Example: +20 11 12345678"
)

var signupMessages = validators.Messages{
	"fullName.required":        "Full name is required",
	"fullName.min":             "Full name must be at least 2 characters",
	"fullName.letters_spaces":  "Full name can only contain letters and spaces",
	"email.required":           "Email is required",
	"email.email_simple":       "Please enter a valid email address",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 8 characters",
	"password.has_lower":       "Password must contain at least one lowercase letter",
	"password.has_upper":       "Password must contain at least one uppercase letter",
	"password.has_digit":       "Password must contain at least one number",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword.eqfield":  "Passwords do not match",
	"phone.phone_chars":        "Please enter a valid phone number",
	"phone.eg_mobile_len":      msgEgLength,
	"phone.eg_mobile_prefix":   msgEgPrefix,
	"address":                  "Address must be at least 5 characters",
	"city":                     "City must be at least 2 characters",
	"postalCode":               "Please enter a valid postal code",
	"country":                  "Country must be at least 2 characters",
}

// ValidateSignup returns validators.FieldErrors with one message per failing
// field, or nil.
func ValidateSignup(f SignupForm) error {
	return validators.Check(formValidator, f, signupMessages)
}

type ProfileForm struct {
	Name       string `json:"name"`
	Email      string `json:"email"      validate:"required,email_simple"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (f ProfileForm) request() apiclient.ProfileRequest {
	return apiclient.ProfileRequest(f)
}

var profileMessages = validators.Messages{
	"email.required":     "Email is required",
	"email.email_simple": "Please enter a valid email address",
}

type PasswordForm struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

func (f PasswordForm) request() apiclient.ChangePasswordRequest {
	return apiclient.ChangePasswordRequest{
		CurrentPassword:         f.CurrentPassword,
		NewPassword:             f.NewPassword,
		NewPasswordConfirmation: f.ConfirmPassword,
	}
}

var passwordMessages = validators.Messages{
	"currentPassword": "Current password is required",
	"newPassword":     "Password must be at least 8 characters",
	"confirmPassword": "Passwords do not match",
}

// FormatPhone renders an Egyptian mobile number as "+20 XX XXXXXXXX". A
// leading country code or trunk zero is dropped and digits past the tenth
// are ignored. Input without digits formats to "".
func FormatPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case len(digits) >= 12 && strings.HasPrefix(digits, "20"):
		digits = digits[2:]
	case len(digits) == 11 && digits[0] == '0':
		digits = digits[1:]
	}
	if len(digits) > 10 {
		digits = digits[:10]
	}
	switch {
	case digits == "":
		return ""
	case len(digits) <= 2:
		return "+20 " + digits
	default:
		return "+20 " + digits[:2] + " " + digits[2:]
	}
}
