package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/neotech_storefront/internal/cart"
	"github.com/Skotchmaster/neotech_storefront/internal/catalog"
	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/metrics"
)

type CartHTTP struct {
	Cart    *cart.Store
	Catalog *catalog.Service
	Metrics *metrics.Metrics
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	return respond(c, http.StatusOK, h.Cart.Summary())
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// AddToCart takes a fresh product snapshot from the catalog so the stock
// check runs against current stock.
func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	req := addItemRequest{Quantity: 1}
	if err := c.Bind(&req); err != nil {
		l.Warn("bind_error", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON")
	}
	if req.ProductID <= 0 {
		h.Metrics.CartOp("add", metrics.ResultRejected)
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}

	p, err := h.Catalog.Product(ctx, req.ProductID)
	if err != nil {
		h.Metrics.CartOp("add", resultOf(err))
		return fail(c, "add_to_cart_error", err)
	}
	if err := h.Cart.AddToCart(ctx, *p, req.Quantity); err != nil {
		h.Metrics.CartOp("add", resultOf(err))
		return fail(c, "add_to_cart_error", err)
	}
	h.Metrics.CartOp("add", metrics.ResultOK)
	return respond(c, http.StatusOK, h.Cart.Summary())
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bind_error", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON")
	}
	if req.Quantity == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity is required")
	}
	if err := h.Cart.UpdateQuantity(ctx, id, *req.Quantity); err != nil {
		h.Metrics.CartOp("update", resultOf(err))
		return fail(c, "update_quantity_error", err)
	}
	h.Metrics.CartOp("update", metrics.ResultOK)
	return respond(c, http.StatusOK, h.Cart.Summary())
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	// Removing a line that is not in the cart is a no-op.
	h.Cart.RemoveFromCart(c.Request().Context(), id)
	h.Metrics.CartOp("remove", metrics.ResultOK)
	return respond(c, http.StatusOK, h.Cart.Summary())
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	h.Cart.ClearCart(c.Request().Context())
	h.Metrics.CartOp("clear", metrics.ResultOK)
	return respond(c, http.StatusOK, h.Cart.Summary())
}
