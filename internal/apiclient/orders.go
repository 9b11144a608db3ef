package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/neotech_storefront/internal/enums"
	"github.com/Skotchmaster/neotech_storefront/internal/models"
)

func (c *Client) CreateOrder(ctx context.Context, token string, draft models.OrderDraft) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, call{
		name:   "create_order",
		method: http.MethodPost,
		path:   "/api/orders",
		token:  token,
		body:   draft,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context, token string) ([]models.Order, error) {
	var out []models.Order
	err := c.do(ctx, call{
		name:   "list_orders",
		method: http.MethodGet,
		path:   "/api/orders",
		token:  token,
	}, &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token string, id int64, status enums.OrderStatus) error {
	return c.do(ctx, call{
		name:   "update_order",
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/orders/%d", id),
		token:  token,
		body:   map[string]string{"status": status.String()},
	}, nil)
}

func (c *Client) DeleteOrder(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{
		name:   "delete_order",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/orders/%d", id),
		token:  token,
	}, nil)
}
