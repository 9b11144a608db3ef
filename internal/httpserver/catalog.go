package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/neotech_storefront/internal/catalog"
	"github.com/Skotchmaster/neotech_storefront/internal/logging"
)

type CatalogHTTP struct {
	Catalog *catalog.Service
}

func (h *CatalogHTTP) List(c echo.Context) error {
	products, err := h.Catalog.Products(c.Request().Context())
	if err != nil {
		return fail(c, "list_products_error", err)
	}
	return respond(c, http.StatusOK, products)
}

func (h *CatalogHTTP) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := h.Catalog.Product(c.Request().Context(), id)
	if err != nil {
		return fail(c, "get_product_error", err)
	}
	return respond(c, http.StatusOK, p)
}

func (h *CatalogHTTP) Comments(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	comments, err := h.Catalog.Comments(c.Request().Context(), id)
	if err != nil {
		return fail(c, "list_comments_error", err)
	}
	return respond(c, http.StatusOK, comments)
}

type commentRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

func (h *CatalogHTTP) AddComment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comments.add")

	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bind_error", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON")
	}
	comment, err := h.Catalog.AddComment(ctx, id, req.Comment, req.Rating)
	if err != nil {
		return fail(c, "add_comment_error", err)
	}
	return respond(c, http.StatusCreated, comment)
}

func (h *CatalogHTTP) DeleteComment(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteComment(c.Request().Context(), id); err != nil {
		return fail(c, "delete_comment_error", err)
	}
	return respond(c, http.StatusOK, nil)
}
