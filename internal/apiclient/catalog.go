package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/neotech_storefront/internal/models"
)

func (c *Client) ListProducts(ctx context.Context, token string) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, call{
		name:   "list_products",
		method: http.MethodGet,
		path:   "/api/products",
		token:  token,
	}, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := c.check(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, call{
		name:   "get_product",
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/products/%d", id),
	}, &out); err != nil {
		return nil, err
	}
	if err := c.check(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProductInput is the admin create/update body.
type ProductInput struct {
	Name             string           `json:"name"              validate:"required"`
	ShortDescription string           `json:"short_description" validate:"required"`
	LongDescription  string           `json:"long_description"  validate:"required"`
	Price            decimal.Decimal  `json:"price"`
	SalePrice        *decimal.Decimal `json:"sale_price"`
	Stock            int              `json:"stock"             validate:"gte=0"`
	MainImage        string           `json:"main_image"        validate:"required"`
	AdditionalImages []string         `json:"additional_images"`
	IsActive         *bool            `json:"is_active,omitempty"`
}

func (c *Client) CreateProduct(ctx context.Context, token string, in ProductInput) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, call{
		name:   "create_product",
		method: http.MethodPost,
		path:   "/api/products",
		token:  token,
		body:   in,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, token string, id int64, in any) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, call{
		name:   "update_product",
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/products/%d", id),
		token:  token,
		body:   in,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{
		name:   "delete_product",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/products/%d", id),
		token:  token,
	}, nil)
}

func (c *Client) ListComments(ctx context.Context, productID int64) ([]models.Comment, error) {
	var out []models.Comment
	err := c.do(ctx, call{
		name:   "list_comments",
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/products/%d/comments", productID),
	}, &out)
	return out, err
}

type CommentInput struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

func (c *Client) AddComment(ctx context.Context, token string, productID int64, in CommentInput) (*models.Comment, error) {
	var out models.Comment
	if err := c.do(ctx, call{
		name:   "add_comment",
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/products/%d/comments", productID),
		token:  token,
		body:   in,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{
		name:   "delete_comment",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/comments/%d", id),
		token:  token,
	}, nil)
}
