// Package catalog serves products and their reviews, and the admin product
// management screens.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/neotech_storefront/internal/apiclient"
	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/models"
	"github.com/Skotchmaster/neotech_storefront/internal/notify"
	"github.com/Skotchmaster/neotech_storefront/internal/validators"
)

const (
	msgFetchProducts   = "Failed to fetch products"
	msgLoadComments    = "Failed to load comments"
	msgLoginToComment  = "Please login to add a comment"
	msgEmptyComment    = "Please enter a comment"
	msgBadRating       = "Rating must be between 1 and 5"
	msgCommentAdded    = "Comment added successfully!"
	msgCommentFailed   = "Failed to add comment"
	msgCommentDeleted  = "Comment deleted successfully!"
	msgCommentDelError = "Failed to delete comment"
)

var (
	ErrValidation       = validators.ErrValidation
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("admin session required")
	ErrRejected         = errors.New("request rejected")
)

// Error carries the message shown for a failed backend call.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error { return []error{ErrRejected, e.Err} }

type Backend interface {
	ListProducts(ctx context.Context, token string) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, token string, in apiclient.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, token string, id int64, in any) (*models.Product, error)
	DeleteProduct(ctx context.Context, token string, id int64) error
	ListComments(ctx context.Context, productID int64) ([]models.Comment, error)
	AddComment(ctx context.Context, token string, productID int64, in apiclient.CommentInput) (*models.Comment, error)
	DeleteComment(ctx context.Context, token string, id int64) error
}

type Session interface {
	Token() string
	IsAuthenticated() bool
	IsAdmin() bool
}

type Service struct {
	api     Backend
	session Session
}

func NewService(api Backend, session Session) *Service {
	return &Service{api: api, session: session}
}

func (s *Service) rejected(ctx context.Context, event string, err error, fallback string) error {
	msg := apiclient.UserMessage(err, fallback)
	notify.Error(ctx, msg)
	logging.FromContext(ctx).Warn(event, "error", err)
	return &Error{Message: msg, Err: err}
}

// Products lists the catalog. An admin session also sees inactive products.
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	products, err := s.api.ListProducts(ctx, s.session.Token())
	if err != nil {
		return nil, s.rejected(ctx, "list_products_error", err, msgFetchProducts)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Product returns the snapshot used for the product page and for adding to
// the cart.
func (s *Service) Product(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.api.GetProduct(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Warn("get_product_error", "product_id", id, "error", err)
		return nil, err
	}
	return p, nil
}

func (s *Service) Comments(ctx context.Context, productID int64) ([]models.Comment, error) {
	comments, err := s.api.ListComments(ctx, productID)
	if err != nil {
		return nil, s.rejected(ctx, "list_comments_error", err, msgLoadComments)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

func (s *Service) AddComment(ctx context.Context, productID int64, text string, rating int) (*models.Comment, error) {
	if !s.session.IsAuthenticated() {
		notify.Error(ctx, msgLoginToComment)
		return nil, ErrNotAuthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		notify.Error(ctx, msgEmptyComment)
		return nil, validators.FieldErrors{{Field: "comment", Tag: "not_blank", Message: msgEmptyComment}}
	}
	if rating < 1 || rating > 5 {
		notify.Error(ctx, msgBadRating)
		return nil, validators.FieldErrors{{Field: "rating", Tag: "range", Message: msgBadRating}}
	}

	c, err := s.api.AddComment(ctx, s.session.Token(), productID, apiclient.CommentInput{Comment: text, Rating: rating})
	if err != nil {
		return nil, s.rejected(ctx, "add_comment_error", err, msgCommentFailed)
	}
	notify.Success(ctx, msgCommentAdded)
	return c, nil
}

func (s *Service) DeleteComment(ctx context.Context, id int64) error {
	if !s.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if err := s.api.DeleteComment(ctx, s.session.Token(), id); err != nil {
		return s.rejected(ctx, "delete_comment_error", err, msgCommentDelError)
	}
	notify.Success(ctx, msgCommentDeleted)
	return nil
}

func (s *Service) requireAdmin() (string, error) {
	if !s.session.IsAdmin() {
		return "", ErrForbidden
	}
	return s.session.Token(), nil
}

func (s *Service) CreateProduct(ctx context.Context, form ProductForm) (*models.Product, error) {
	token, err := s.requireAdmin()
	if err != nil {
		return nil, err
	}
	if err := ValidateProduct(form); err != nil {
		return nil, err
	}
	p, err := s.api.CreateProduct(ctx, token, form.input())
	if err != nil {
		return nil, s.rejected(ctx, "create_product_error", err, "Failed to create product")
	}
	notify.Success(ctx, "Product created successfully!")
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, form ProductForm) (*models.Product, error) {
	token, err := s.requireAdmin()
	if err != nil {
		return nil, err
	}
	if err := ValidateProduct(form); err != nil {
		return nil, err
	}
	p, err := s.api.UpdateProduct(ctx, token, id, form.input())
	if err != nil {
		return nil, s.rejected(ctx, "update_product_error", err, "Failed to update product")
	}
	notify.Success(ctx, "Product updated successfully!")
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	token, err := s.requireAdmin()
	if err != nil {
		return err
	}
	if err := s.api.DeleteProduct(ctx, token, id); err != nil {
		return s.rejected(ctx, "delete_product_error", err, "Failed to delete product")
	}
	notify.Success(ctx, "Product deleted successfully!")
	return nil
}

// ToggleActive flips the product's is_active flag and returns the new value.
func (s *Service) ToggleActive(ctx context.Context, id int64) (bool, error) {
	token, err := s.requireAdmin()
	if err != nil {
		return false, err
	}
	current, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return false, s.rejected(ctx, "toggle_product_error", err, "Failed to update product status")
	}

	next := !bool(current.IsActive)
	if _, err := s.api.UpdateProduct(ctx, token, id, map[string]bool{"is_active": next}); err != nil {
		return false, s.rejected(ctx, "toggle_product_error", err, "Failed to update product status")
	}

	verb := "deactivated"
	if next {
		verb = "activated"
	}
	notify.Success(ctx, fmt.Sprintf("Product %s successfully!", verb))
	return next, nil
}
