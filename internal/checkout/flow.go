// Package checkout collects contact and shipping details, turns the cart into
// an order draft and submits it once the payment step confirms.
package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/neotech_storefront/internal/apiclient"
	"github.com/Skotchmaster/neotech_storefront/internal/asyncop"
	"github.com/Skotchmaster/neotech_storefront/internal/enums"
	"github.com/Skotchmaster/neotech_storefront/internal/events"
	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/models"
	"github.com/Skotchmaster/neotech_storefront/internal/notify"
	"github.com/Skotchmaster/neotech_storefront/internal/payment"
)

const (
	msgOrderPlaced   = "Order placed successfully!"
	msgOrderFailed   = "Failed to place order"
	msgPaymentFailed = "Payment was not completed"
)

var (
	ErrInFlight    = asyncop.ErrInFlight
	ErrNotPrepared = errors.New("checkout has no prepared order")
	ErrPayment     = errors.New("payment not confirmed")
)

type State string

const (
	StateCollecting      State = "collecting"
	StateValidated       State = "validated"
	StateAwaitingPayment State = "awaiting_payment"
	StateSubmitting      State = "submitting"
	StateCompleted       State = "completed"
	StateFailed          State = "failed"
)

type Cart interface {
	Items() []models.CartLineItem
	ClearCart(ctx context.Context)
}

type Session interface {
	Token() string
	User() *models.User
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, token string, draft models.OrderDraft) (*models.Order, error)
}

type Snapshot struct {
	State     State              `json:"state"`
	AttemptID string             `json:"attempt_id,omitempty"`
	Fields    Fields             `json:"fields"`
	Draft     *models.OrderDraft `json:"draft,omitempty"`
	Receipt   *payment.Receipt   `json:"receipt,omitempty"`
	Order     *models.Order      `json:"order,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// Flow runs one checkout attempt at a time: Collecting, Validated,
// AwaitingPayment, Submitting, then Completed or Failed. A failed attempt
// goes back to Collecting with its fields intact.
type Flow struct {
	cart    Cart
	session Session
	orders  OrderCreator
	gateway payment.Gateway
	pub     events.Publisher
	now     func() time.Time

	mu        sync.Mutex
	state     State
	attemptID string
	fields    Fields
	draft     *models.OrderDraft
	receipt   *payment.Receipt
	order     *models.Order
	lastErr   string

	submit asyncop.Op
}

func NewFlow(cart Cart, session Session, orders OrderCreator, gateway payment.Gateway, pub events.Publisher) *Flow {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Flow{
		cart:    cart,
		session: session,
		orders:  orders,
		gateway: gateway,
		pub:     pub,
		now:     time.Now,
		state:   StateCollecting,
	}
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Flow) snapshotLocked() Snapshot {
	s := Snapshot{
		State:     f.state,
		AttemptID: f.attemptID,
		Fields:    f.fields,
		Error:     f.lastErr,
	}
	if f.draft != nil {
		d := *f.draft
		d.Items = append([]models.OrderItem(nil), f.draft.Items...)
		s.Draft = &d
	}
	if f.receipt != nil {
		r := *f.receipt
		s.Receipt = &r
	}
	if f.order != nil {
		o := *f.order
		s.Order = &o
	}
	return s
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SetFields replaces the collected fields. Editing drops any prepared draft
// and returns the flow to Collecting.
func (f *Flow) SetFields(ctx context.Context, fields Fields) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting {
		return f.snapshotLocked(), ErrInFlight
	}
	f.fields = fields
	f.restartLocked()
	logging.FromContext(ctx).Debug("checkout_fields_set")
	return f.snapshotLocked(), nil
}

// LoadDefaults pre-fills the fields from the signed-in profile. Without a
// session the fields are left as they are.
func (f *Flow) LoadDefaults(ctx context.Context) (Snapshot, error) {
	u := f.session.User()
	if u == nil {
		return f.Snapshot(), nil
	}
	return f.SetFields(ctx, LoadDefaults(u))
}

// Reset returns to Collecting and keeps the fields.
func (f *Flow) Reset(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting {
		return f.snapshotLocked(), ErrInFlight
	}
	f.restartLocked()
	f.submit.Reset()
	return f.snapshotLocked(), nil
}

func (f *Flow) restartLocked() {
	f.state = StateCollecting
	f.attemptID = ""
	f.draft = nil
	f.receipt = nil
	f.order = nil
	f.lastErr = ""
}

// Prepare validates the fields and snapshots the cart into a draft, which
// leaves the flow waiting for payment.
func (f *Flow) Prepare(ctx context.Context) (*models.OrderDraft, error) {
	l := logging.FromContext(ctx).With("flow", "checkout", "op", "prepare")

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting {
		return nil, ErrInFlight
	}
	f.restartLocked()

	res := Validate(f.fields)
	if !res.Valid {
		f.lastErr = res.Message
		notify.Error(ctx, res.Message)
		l.Info("checkout_invalid_fields", "violated", res.Violated)
		return nil, &ValidationError{Result: res}
	}
	f.state = StateValidated

	draft, err := BuildOrderDraft(f.cart.Items(), f.fields, f.now())
	if err != nil {
		f.state = StateCollecting
		f.lastErr = msgEmptyCart
		notify.Warning(ctx, msgEmptyCart)
		l.Info("checkout_empty_cart")
		return nil, err
	}

	f.attemptID = uuid.NewString()
	f.draft = &draft
	f.state = StateAwaitingPayment
	l.Info("checkout_prepared", "attempt_id", f.attemptID, "items", len(draft.Items), "total", draft.TotalAmount.String())

	out := draft
	return &out, nil
}

// Submit confirms payment for the prepared draft and posts it as a paid
// order. A rejected order leaves the cart untouched. There is no retry; the
// caller resubmits after Prepare.
func (f *Flow) Submit(ctx context.Context) (*models.Order, error) {
	l := logging.FromContext(ctx).With("flow", "checkout", "op", "submit")

	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return nil, ErrInFlight
	}
	if f.state != StateAwaitingPayment || f.draft == nil {
		f.mu.Unlock()
		return nil, ErrNotPrepared
	}
	if err := f.submit.Begin(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.state = StateSubmitting
	attemptID := f.attemptID
	draft := *f.draft
	f.mu.Unlock()

	l = l.With("attempt_id", attemptID)

	receipt, err := f.gateway.Confirm(ctx, payment.Charge{
		Reference: attemptID,
		Amount:    draft.TotalAmount.Decimal,
		Currency:  payment.CurrencyUSD,
		Email:     draft.UserInfo.Email,
	})
	if err != nil {
		l.Warn("checkout_payment_error", "error", err)
		return nil, f.fail(ctx, attemptID, msgPaymentFailed, errors.Join(ErrPayment, err))
	}

	draft.PaymentStatus = enums.PaymentStatusPaid
	order, err := f.orders.CreateOrder(ctx, f.session.Token(), draft)
	if err != nil {
		l.Warn("checkout_order_rejected", "error", err)
		return nil, f.fail(ctx, attemptID, apiclient.UserMessage(err, msgOrderFailed), err)
	}

	f.cart.ClearCart(ctx)

	f.mu.Lock()
	f.state = StateCompleted
	f.draft = &draft
	f.receipt = receipt
	f.order = order
	f.lastErr = ""
	f.mu.Unlock()
	f.submit.Finish(nil)

	notify.Success(ctx, msgOrderPlaced)
	l.Info("checkout_completed", "order_id", order.ID, "total", draft.TotalAmount.String())
	f.pub.Publish(ctx, events.New(events.OrderPlaced, map[string]any{
		"attempt_id": attemptID,
		"order_id":   order.ID,
		"total":      draft.TotalAmount.String(),
		"items":      len(draft.Items),
	}))
	return order, nil
}

func (f *Flow) fail(ctx context.Context, attemptID, msg string, err error) error {
	f.mu.Lock()
	f.state = StateFailed
	f.lastErr = msg
	f.mu.Unlock()
	f.submit.Finish(err)

	notify.Error(ctx, msg)
	f.pub.Publish(ctx, events.New(events.OrderFailed, map[string]any{
		"attempt_id": attemptID,
		"reason":     msg,
	}))
	return &SubmitError{Message: msg, Err: err}
}

// SubmitError carries the message shown for a failed submission.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string { return e.Message }

func (e *SubmitError) Unwrap() error { return e.Err }

// SubmitState reports the progress of the current or last submission.
func (f *Flow) SubmitState() asyncop.State { return f.submit.State() }
