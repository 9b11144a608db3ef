package catalog

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/neotech_storefront/internal/apiclient"
	"github.com/Skotchmaster/neotech_storefront/internal/models"
	"github.com/Skotchmaster/neotech_storefront/internal/notify"
	"github.com/Skotchmaster/neotech_storefront/internal/validators"
)

type fakeSession struct {
	token string
	admin bool
}

func (s fakeSession) Token() string         { return s.token }
func (s fakeSession) IsAuthenticated() bool { return s.token != "" }
func (s fakeSession) IsAdmin() bool         { return s.admin }

type fakeBackend struct {
	products   map[int64]*models.Product
	err        error
	comments   []apiclient.CommentInput
	updates    []any
	created    []apiclient.ProductInput
	deleted    []int64
	listTokens []string
}

func newBackend() *fakeBackend {
	return &fakeBackend{products: map[int64]*models.Product{
		1: {ID: 1, Name: "Mouse", Price: decimal.NewFromInt(20), Stock: 3, IsActive: true},
	}}
}

func (f *fakeBackend) ListProducts(_ context.Context, token string) ([]models.Product, error) {
	f.listTokens = append(f.listTokens, token)
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeBackend) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, &apiclient.Error{Status: http.StatusNotFound, Message: "Product not found"}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeBackend) CreateProduct(_ context.Context, _ string, in apiclient.ProductInput) (*models.Product, error) {
	f.created = append(f.created, in)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Product{ID: 2, Name: in.Name, Price: in.Price, Stock: in.Stock}, nil
}

func (f *fakeBackend) UpdateProduct(_ context.Context, _ string, id int64, in any) (*models.Product, error) {
	f.updates = append(f.updates, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.products[id], nil
}

func (f *fakeBackend) DeleteProduct(_ context.Context, _ string, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeBackend) ListComments(context.Context, int64) ([]models.Comment, error) {
	return nil, f.err
}

func (f *fakeBackend) AddComment(_ context.Context, _ string, _ int64, in apiclient.CommentInput) (*models.Comment, error) {
	f.comments = append(f.comments, in)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Comment{ID: 9, Comment: in.Comment, Rating: in.Rating}, nil
}

func (f *fakeBackend) DeleteComment(context.Context, string, int64) error { return f.err }

func withSignals() (context.Context, *notify.Collector) {
	c := notify.NewCollector()
	return notify.IntoContext(context.Background(), c), c
}

func TestProducts(t *testing.T) {
	t.Parallel()

	api := newBackend()
	s := NewService(api, fakeSession{token: "adm", admin: true})
	ps, err := s.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, ps, 1)
	assert.Equal(t, []string{"adm"}, api.listTokens)

	comments, err := s.Comments(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, comments)

	api.err = apiclient.ErrTransport
	ctx, sig := withSignals()
	_, err = s.Products(ctx)
	assert.EqualError(t, err, "Failed to fetch products")
	assert.Equal(t, "Failed to fetch products", sig.Signals()[0].Message)

	_, err = s.Product(ctx, 99)
	assert.True(t, apiclient.IsStatus(err, http.StatusNotFound))
}

func TestAddComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		session fakeSession
		text    string
		rating  int
		apiErr  error
		wantErr error
		wantMsg string
	}{
		{name: "ok", session: fakeSession{token: "t"}, text: "  Great mouse ", rating: 5, wantMsg: "Comment added successfully!"},
		{name: "anonymous", text: "x", rating: 5, wantErr: ErrNotAuthenticated, wantMsg: "Please login to add a comment"},
		{name: "blank", session: fakeSession{token: "t"}, text: "   ", rating: 5, wantErr: ErrValidation, wantMsg: "Please enter a comment"},
		{name: "rating", session: fakeSession{token: "t"}, text: "ok", rating: 6, wantErr: ErrValidation, wantMsg: "Rating must be between 1 and 5"},
		{
			name: "backend", session: fakeSession{token: "t"}, text: "ok", rating: 4,
			apiErr: &apiclient.Error{Status: http.StatusOK, Message: "Already reviewed"}, wantErr: ErrRejected, wantMsg: "Already reviewed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, sig := withSignals()
			api := newBackend()
			api.err = tt.apiErr
			c, err := NewService(api, tt.session).AddComment(ctx, 1, tt.text, tt.rating)

			require.Len(t, sig.Signals(), 1)
			assert.Equal(t, tt.wantMsg, sig.Signals()[0].Message)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Great mouse", c.Comment)
			assert.Equal(t, []apiclient.CommentInput{{Comment: "Great mouse", Rating: 5}}, api.comments)
		})
	}
}

func TestDeleteComment(t *testing.T) {
	t.Parallel()

	ctx, sig := withSignals()
	api := newBackend()
	s := NewService(api, fakeSession{token: "t"})
	require.NoError(t, s.DeleteComment(ctx, 9))
	assert.Equal(t, "Comment deleted successfully!", sig.Signals()[0].Message)

	api.err = &apiclient.Error{Status: http.StatusForbidden}
	assert.EqualError(t, s.DeleteComment(ctx, 9), "Failed to delete comment")

	assert.ErrorIs(t, NewService(api, fakeSession{}).DeleteComment(ctx, 9), ErrNotAuthenticated)
}

func intPtr(v int) *int { return &v }

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func goodForm() ProductForm {
	return ProductForm{
		Name:             "Keyboard",
		ShortDescription: "Mechanical",
		LongDescription:  "Hot swappable mechanical keyboard",
		Price:            decimal.RequireFromString("99.90"),
		SalePrice:        decPtr("79.90"),
		Stock:            intPtr(0),
		MainImage:        "kb.png",
	}
}

func TestValidateProduct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(f *ProductForm)
		want   map[string]string
	}{
		{name: "valid", mutate: func(*ProductForm) {}},
		{name: "blank name", mutate: func(f *ProductForm) { f.Name = "  " }, want: map[string]string{"name": "Product name is required"}},
		{name: "zero price", mutate: func(f *ProductForm) { f.Price, f.SalePrice = decimal.Zero, nil }, want: map[string]string{"price": "Price must be greater than 0"}},
		{name: "sale not below price", mutate: func(f *ProductForm) { f.SalePrice = decPtr("99.90") }, want: map[string]string{"sale_price": "Sale price must be less than regular price"}},
		{name: "missing stock", mutate: func(f *ProductForm) { f.Stock = nil }, want: map[string]string{"stock": "Stock must be 0 or greater"}},
		{name: "negative stock", mutate: func(f *ProductForm) { f.Stock = intPtr(-1) }, want: map[string]string{"stock": "Stock must be 0 or greater"}},
		{name: "no image", mutate: func(f *ProductForm) { f.MainImage = "" }, want: map[string]string{"main_image": "Main image is required"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := goodForm()
			tt.mutate(&f)
			err := ValidateProduct(f)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			fe, ok := validators.AsFieldErrors(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, fe.Map())
		})
	}
}

func TestAdminProducts(t *testing.T) {
	t.Parallel()

	ctx, sig := withSignals()
	api := newBackend()
	s := NewService(api, fakeSession{token: "adm", admin: true})

	p, err := s.CreateProduct(ctx, goodForm())
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.ID)
	require.Len(t, api.created, 1)
	assert.Equal(t, 0, api.created[0].Stock)

	_, err = s.UpdateProduct(ctx, 1, goodForm())
	require.NoError(t, err)

	active, err := s.ToggleActive(ctx, 1)
	require.NoError(t, err)
	assert.False(t, active)
	assert.Equal(t, map[string]bool{"is_active": false}, api.updates[len(api.updates)-1])

	require.NoError(t, s.DeleteProduct(ctx, 1))
	assert.Equal(t, []int64{1}, api.deleted)

	var msgs []string
	for _, sg := range sig.Signals() {
		msgs = append(msgs, sg.Message)
	}
	assert.Equal(t, []string{
		"Product created successfully!",
		"Product updated successfully!",
		"Product deactivated successfully!",
		"Product deleted successfully!",
	}, msgs)

	_, err = s.ToggleActive(ctx, 42)
	assert.ErrorIs(t, err, ErrRejected)

	customer := NewService(api, fakeSession{token: "t"})
	_, err = customer.CreateProduct(ctx, goodForm())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, customer.DeleteProduct(ctx, 1), ErrForbidden)
}
