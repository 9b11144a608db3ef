// Package payment confirms the charge for an order before it is submitted.
// Only a development stub exists; no real provider is integrated.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/neotech_storefront/internal/logging"
)

const CurrencyUSD = "USD"

var (
	ErrDeclined      = errors.New("payment declined")
	ErrInvalidCharge = errors.New("invalid charge")
)

type Charge struct {
	Reference string
	Amount    decimal.Decimal
	Currency  string
	Email     string
}

type Receipt struct {
	Reference   string          `json:"reference"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	ConfirmedAt time.Time       `json:"confirmed_at"`
}

type Gateway interface {
	Confirm(ctx context.Context, c Charge) (*Receipt, error)
}

// Stub approves every valid charge, or declines all of them when Decline is set.
type Stub struct {
	Decline bool
	Now     func() time.Time
}

func NewStub(decline bool) *Stub {
	return &Stub{Decline: decline, Now: time.Now}
}

func (s *Stub) Confirm(ctx context.Context, c Charge) (*Receipt, error) {
	l := logging.FromContext(ctx).With("gateway", "stub")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount %s", ErrInvalidCharge, c.Amount.StringFixed(2))
	}
	currency := c.Currency
	if currency == "" {
		currency = CurrencyUSD
	}
	if s.Decline {
		l.Info("payment_declined", "reference", c.Reference, "amount", c.Amount.StringFixed(2))
		return nil, ErrDeclined
	}

	ref := c.Reference
	if ref == "" {
		ref = uuid.NewString()
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	l.Info("payment_confirmed", "reference", ref, "amount", c.Amount.StringFixed(2), "currency", currency)
	return &Receipt{
		Reference:   ref,
		Amount:      c.Amount.Round(2),
		Currency:    currency,
		ConfirmedAt: now().UTC(),
	}, nil
}
