package checkout

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/neotech_storefront/internal/enums"
	"github.com/Skotchmaster/neotech_storefront/internal/models"
	"github.com/Skotchmaster/neotech_storefront/internal/validators"
)

const (
	msgInvalidEmail = "Please enter a valid email address"
	msgEmptyCart    = "Your cart is empty"
)

var (
	ErrValidation = validators.ErrValidation
	ErrEmptyCart  = errors.New("cart is empty")
)

// Fields are the contact and shipping details collected at checkout.
type Fields struct {
	FullName   string `json:"fullName"   validate:"required"`
	Email      string `json:"email"      validate:"required,contains=@"`
	Phone      string `json:"phone"      validate:"required"`
	Address    string `json:"address"    validate:"required"`
	City       string `json:"city"       validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country"    validate:"required"`
}

// LoadDefaults fills the fields from a profile. Profile fields that are
// empty stay blank.
func LoadDefaults(u *models.User) Fields {
	if u == nil {
		return Fields{}
	}
	return Fields{
		FullName:   u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Address:    u.Address,
		City:       u.City,
		PostalCode: u.PostalCode,
		Country:    u.Country,
	}
}

func (f Fields) userInfo() models.UserInfo {
	return models.UserInfo(f)
}

type Result struct {
	Valid    bool     `json:"valid"`
	Message  string   `json:"message,omitempty"`
	Violated []string `json:"violated,omitempty"`
}

// ValidationError reports a Result that did not pass.
type ValidationError struct {
	Result Result
}

func (e *ValidationError) Error() string { return e.Result.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

var fieldValidator = validators.New()

// Validate lists every blank required field in one message. The email is
// only checked once nothing is missing.
func Validate(f Fields) Result {
	err := validators.Check(fieldValidator, f, nil)
	if err == nil {
		return Result{Valid: true}
	}
	fe, _ := validators.AsFieldErrors(err)

	var missing, invalid []string
	for _, e := range fe {
		if e.Tag == "required" {
			missing = append(missing, e.Field)
		} else {
			invalid = append(invalid, e.Field)
		}
	}
	if len(missing) > 0 {
		return Result{
			Message:  "Please fill in all required fields: " + strings.Join(missing, ", "),
			Violated: missing,
		}
	}
	return Result{Message: msgInvalidEmail, Violated: invalid}
}

// BuildOrderDraft snapshots the cart into an order body. Prices are the
// effective prices captured in the cart; line totals and the order total are
// rounded to cents.
func BuildOrderDraft(items []models.CartLineItem, f Fields, now time.Time) (models.OrderDraft, error) {
	if len(items) == 0 {
		return models.OrderDraft{}, ErrEmptyCart
	}

	out := make([]models.OrderItem, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		line := it.LineTotal()
		total = total.Add(line)
		out = append(out, models.OrderItem{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.CurrentPrice,
			Quantity: it.Quantity,
			Total:    models.NewMoney(line),
		})
	}

	return models.OrderDraft{
		UserInfo:      f.userInfo(),
		Items:         out,
		TotalAmount:   models.NewMoney(total),
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
		CreatedAt:     models.Timestamp{Time: now.UTC()},
	}, nil
}
