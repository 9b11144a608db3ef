package validators

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string          `json:"name"     validate:"required,min=2,letters_spaces"`
	Phone    string          `json:"phone"    validate:"omitempty,phone_chars,eg_mobile_len,eg_mobile_prefix"`
	Password string          `json:"password" validate:"required,min=8,has_lower,has_upper,has_digit"`
	Price    decimal.Decimal `json:"price"    validate:"gt=0"`
	Postal   string          `json:"postal"   validate:"omitempty,postal_code"`
}

func valid() sample {
	return sample{Name: "Ana Maria", Password: "Secret123", Price: decimal.RequireFromString("9.99")}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	v := New()

	tests := []struct {
		name    string
		mutate  func(s *sample)
		wantTag string
	}{
		{name: "valid", mutate: func(*sample) {}},
		{name: "name digits", mutate: func(s *sample) { s.Name = "Ana1" }, wantTag: "letters_spaces"},
		{name: "name short", mutate: func(s *sample) { s.Name = "A" }, wantTag: "min"},
		{name: "password no upper", mutate: func(s *sample) { s.Password = "secret123" }, wantTag: "has_upper"},
		{name: "password no digit", mutate: func(s *sample) { s.Password = "SecretPass" }, wantTag: "has_digit"},
		{name: "price zero", mutate: func(s *sample) { s.Price = decimal.Zero }, wantTag: "gt"},
		{name: "phone letters", mutate: func(s *sample) { s.Phone = "01x" }, wantTag: "phone_chars"},
		{name: "phone length", mutate: func(s *sample) { s.Phone = "0111234" }, wantTag: "eg_mobile_len"},
		{name: "phone prefix", mutate: func(s *sample) { s.Phone = "1912345678" }, wantTag: "eg_mobile_prefix"},
		{name: "phone with country code", mutate: func(s *sample) { s.Phone = "+20 11 12345678" }},
		{name: "phone local", mutate: func(s *sample) { s.Phone = "1512345678" }},
		{name: "phone other twelve digits", mutate: func(s *sample) { s.Phone = "441234567890" }},
		{name: "postal bad", mutate: func(s *sample) { s.Postal = "12#4" }, wantTag: "postal_code"},
		{name: "postal ok", mutate: func(s *sample) { s.Postal = "SW1A 1AA" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := valid()
			tt.mutate(&s)
			err := Check(v, s, nil)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			fe, ok := AsFieldErrors(err)
			require.True(t, ok)
			require.Len(t, fe, 1)
			assert.Equal(t, tt.wantTag, fe[0].Tag)
		})
	}
}

func TestCheck_MessagesAndOrder(t *testing.T) {
	t.Parallel()

	err := Check(New(), sample{}, Messages{
		"name.required": "Full name is required",
		"password":      "Password is required",
	})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)

	assert.Equal(t, []string{"name", "password", "price"}, fe.Fields())
	assert.Equal(t, "Full name is required", fe.First())
	assert.Equal(t, map[string]string{
		"name":     "Full name is required",
		"password": "Password is required",
		"price":    "must be greater than 0",
	}, fe.Map())
}
