package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/neotech_storefront/internal/analytics"
	"github.com/Skotchmaster/neotech_storefront/internal/catalog"
	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/orders"
)

type AdminHTTP struct {
	Catalog   *catalog.Service
	Orders    *orders.Service
	Analytics *analytics.Service
}

func (h *AdminHTTP) bindProduct(c echo.Context, handler string) (catalog.ProductForm, error) {
	var form catalog.ProductForm
	if err := c.Bind(&form); err != nil {
		logging.FromContext(c.Request().Context()).With("handler", handler).Warn("bind_error", "error", err)
		return form, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON")
	}
	return form, nil
}

func (h *AdminHTTP) CreateProduct(c echo.Context) error {
	form, err := h.bindProduct(c, "admin.products.create")
	if err != nil {
		return err
	}
	p, err := h.Catalog.CreateProduct(c.Request().Context(), form)
	if err != nil {
		return fail(c, "create_product_error", err)
	}
	return respond(c, http.StatusCreated, p)
}

func (h *AdminHTTP) UpdateProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	form, err := h.bindProduct(c, "admin.products.update")
	if err != nil {
		return err
	}
	p, err := h.Catalog.UpdateProduct(c.Request().Context(), id, form)
	if err != nil {
		return fail(c, "update_product_error", err)
	}
	return respond(c, http.StatusOK, p)
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return fail(c, "delete_product_error", err)
	}
	return respond(c, http.StatusOK, nil)
}

func (h *AdminHTTP) ToggleProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	active, err := h.Catalog.ToggleActive(c.Request().Context(), id)
	if err != nil {
		return fail(c, "toggle_product_error", err)
	}
	return respond(c, http.StatusOK, map[string]any{"id": id, "is_active": active})
}

func (h *AdminHTTP) ListOrders(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	res, err := h.Orders.List(c.Request().Context(), orders.Query{
		Page:   page,
		Size:   size,
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return fail(c, "list_orders_error", err)
	}
	return respond(c, http.StatusOK, res)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders.status")

	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bind_error", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON")
	}
	st, err := h.Orders.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return fail(c, "update_order_status_error", err)
	}
	return respond(c, http.StatusOK, map[string]any{"id": id, "status": st})
}

func (h *AdminHTTP) DeleteOrder(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Orders.Delete(c.Request().Context(), id); err != nil {
		return fail(c, "delete_order_error", err)
	}
	return respond(c, http.StatusOK, nil)
}

func (h *AdminHTTP) AnalyticsDashboard(c echo.Context) error {
	d, err := h.Analytics.Dashboard(c.Request().Context())
	if err != nil {
		return fail(c, "analytics_error", err)
	}
	return respond(c, http.StatusOK, d)
}
