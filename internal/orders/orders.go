// Package orders is the admin view of placed orders.
package orders

import (
	"context"
	"errors"
	"sort"

	"github.com/Skotchmaster/neotech_storefront/internal/apiclient"
	"github.com/Skotchmaster/neotech_storefront/internal/enums"
	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/models"
	"github.com/Skotchmaster/neotech_storefront/internal/notify"
	"github.com/Skotchmaster/neotech_storefront/internal/util"
	"github.com/Skotchmaster/neotech_storefront/internal/validators"
)

var (
	ErrForbidden = errors.New("admin session required")
	ErrRejected  = errors.New("request rejected")
)

type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error { return []error{ErrRejected, e.Err} }

type Backend interface {
	ListOrders(ctx context.Context, token string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, token string, id int64, status enums.OrderStatus) error
	DeleteOrder(ctx context.Context, token string, id int64) error
}

type Session interface {
	Token() string
	IsAdmin() bool
}

type Query struct {
	Page   int
	Size   int
	Status string
}

type Page struct {
	Items []models.Order `json:"items"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Total int            `json:"total"`
}

type Service struct {
	api     Backend
	session Session
}

func NewService(api Backend, session Session) *Service {
	return &Service{api: api, session: session}
}

func (s *Service) token() (string, error) {
	if !s.session.IsAdmin() {
		return "", ErrForbidden
	}
	return s.session.Token(), nil
}

func (s *Service) rejected(ctx context.Context, event string, err error, fallback string) error {
	msg := apiclient.UserMessage(err, fallback)
	notify.Error(ctx, msg)
	logging.FromContext(ctx).Warn(event, "error", err)
	return &Error{Message: msg, Err: err}
}

// All returns every order, newest first.
func (s *Service) All(ctx context.Context) ([]models.Order, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	all, err := s.api.ListOrders(ctx, token)
	if err != nil {
		return nil, s.rejected(ctx, "list_orders_error", err, "Failed to fetch orders")
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt.Time)
	})
	return all, nil
}

// List pages through the orders locally; the backend has no paging.
func (s *Service) List(ctx context.Context, q Query) (*Page, error) {
	var status enums.OrderStatus
	if q.Status != "" {
		st, err := enums.ParseOrderStatus(q.Status)
		if err != nil {
			return nil, validators.FieldErrors{{Field: "status", Tag: "oneof", Message: err.Error()}}
		}
		status = st
	}

	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if status != "" {
		filtered := all[:0]
		for _, o := range all {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		all = filtered
	}

	_, size := util.Calculate(q.Page, q.Size)
	from, to := util.Window(len(all), q.Page, q.Size)
	page := q.Page
	if page < 1 {
		page = 1
	}
	return &Page{
		Items: append([]models.Order{}, all[from:to]...),
		Page:  page,
		Size:  size,
		Total: len(all),
	}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, raw string) (enums.OrderStatus, error) {
	token, err := s.token()
	if err != nil {
		return "", err
	}
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return "", validators.FieldErrors{{Field: "status", Tag: "oneof", Message: err.Error()}}
	}
	if err := s.api.UpdateOrderStatus(ctx, token, id, status); err != nil {
		return "", s.rejected(ctx, "update_order_error", err, "Failed to update order status")
	}
	logging.FromContext(ctx).Info("order_status_updated", "order_id", id, "status", status.String())
	return status, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	if err := s.api.DeleteOrder(ctx, token, id); err != nil {
		return s.rejected(ctx, "delete_order_error", err, "Failed to delete order")
	}
	notify.Success(ctx, "Order completed and deleted successfully!")
	return nil
}
