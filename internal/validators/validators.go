// Package validators wraps go-playground/validator with the storefront's
// custom form rules and turns its errors into ordered, user-facing messages.
package validators

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrValidation = errors.New("validation failed")

var (
	lettersSpacesRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailRe         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneCharsRe    = regexp.MustCompile(`^[\d\s+\-()]+$`)
	postalCodeRe    = regexp.MustCompile(`^[\d\s\-\w]+$`)
)

var egMobilePrefixes = []string{"10", "11", "12", "15"}

// New returns a validator that names fields by their json tag and knows the
// storefront rules: letters_spaces, email_simple, has_lower, has_upper,
// has_digit, phone_chars, eg_mobile_len, eg_mobile_prefix, postal_code and
// not_blank. Decimal fields validate as float64.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	rules := map[string]validator.Func{
		"letters_spaces":   matches(lettersSpacesRe),
		"email_simple":     matches(emailRe),
		"phone_chars":      matches(phoneCharsRe),
		"postal_code":      matches(postalCodeRe),
		"has_lower":        hasRune(unicode.IsLower),
		"has_upper":        hasRune(unicode.IsUpper),
		"has_digit":        hasRune(unicode.IsDigit),
		"eg_mobile_len":    egMobileLen,
		"eg_mobile_prefix": egMobilePrefix,
		"not_blank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s: %v", tag, err))
		}
	}
	return v
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func hasRune(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), pred) >= 0
	}
}

func phoneDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// Egyptian mobiles are 10 digits, or 12 with the 20 country code. Other
// 12 digit numbers are let through.
func egMobileLen(fl validator.FieldLevel) bool {
	n := len(phoneDigits(fl.Field().String()))
	return n == 0 || n == 10 || n == 12
}

func egMobilePrefix(fl validator.FieldLevel) bool {
	d := phoneDigits(fl.Field().String())
	switch {
	case len(d) == 12 && strings.HasPrefix(d, "20"):
		d = d[2:]
	case len(d) == 10:
	default:
		return true
	}
	for _, p := range egMobilePrefixes {
		if strings.HasPrefix(d, p) {
			return true
		}
	}
	return false
}

type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"-"`
	Message string `json:"message"`
}

// FieldErrors keeps the declaration order of the struct fields.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e FieldErrors) Is(target error) bool { return target == ErrValidation }

func (e FieldErrors) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Message
}

func (e FieldErrors) Fields() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Field)
	}
	return out
}

func (e FieldErrors) Map() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.Field] = fe.Message
	}
	return out
}

// Messages maps "field.tag" or "field" to the text shown for a failure.
type Messages map[string]string

func (m Messages) lookup(fe validator.FieldError) string {
	if msg, ok := m[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := m[fe.Field()]; ok {
		return msg
	}
	return defaultMessage(fe)
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "not_blank":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or greater", fe.Param())
	case "email", "email_simple":
		return "must be a valid email"
	}
	return "is invalid"
}

// Check validates s and returns FieldErrors, or nil when s is valid.
func Check(v *validator.Validate, s any, msgs Messages) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	out := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: msgs.lookup(fe)})
	}
	return out
}

// AsFieldErrors extracts FieldErrors from err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
