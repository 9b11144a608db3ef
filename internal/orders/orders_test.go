package orders

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/neotech_storefront/internal/apiclient"
	"github.com/Skotchmaster/neotech_storefront/internal/enums"
	"github.com/Skotchmaster/neotech_storefront/internal/models"
	"github.com/Skotchmaster/neotech_storefront/internal/validators"
)

type fakeSession struct{ admin bool }

func (fakeSession) Token() string   { return "adm" }
func (s fakeSession) IsAdmin() bool { return s.admin }

type fakeBackend struct {
	orders  []models.Order
	err     error
	updated map[int64]enums.OrderStatus
	deleted []int64
}

func (f *fakeBackend) ListOrders(context.Context, string) ([]models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Order(nil), f.orders...), nil
}

func (f *fakeBackend) UpdateOrderStatus(_ context.Context, _ string, id int64, st enums.OrderStatus) error {
	if f.err != nil {
		return f.err
	}
	if f.updated == nil {
		f.updated = map[int64]enums.OrderStatus{}
	}
	f.updated[id] = st
	return nil
}

func (f *fakeBackend) DeleteOrder(_ context.Context, _ string, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func order(id int64, status enums.OrderStatus, day int) models.Order {
	o := models.Order{ID: id}
	o.Status = status
	o.CreatedAt = models.Timestamp{Time: time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)}
	return o
}

func seeded() *fakeBackend {
	api := &fakeBackend{}
	for i := 1; i <= 12; i++ {
		st := enums.OrderStatusPending
		if i%3 == 0 {
			st = enums.OrderStatusShipped
		}
		api.orders = append(api.orders, order(int64(i), st, i))
	}
	return api
}

func ids(os []models.Order) []int64 {
	out := make([]int64, 0, len(os))
	for _, o := range os {
		out = append(out, o.ID)
	}
	return out
}

func TestList(t *testing.T) {
	t.Parallel()

	s := NewService(seeded(), fakeSession{admin: true})
	ctx := context.Background()

	p, err := s.List(ctx, Query{Page: 1, Size: 5})
	require.NoError(t, err)
	assert.Equal(t, 12, p.Total)
	assert.Equal(t, []int64{12, 11, 10, 9, 8}, ids(p.Items))

	p, err = s.List(ctx, Query{Page: 3, Size: 5})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(p.Items))

	p, err = s.List(ctx, Query{Page: 9, Size: 5})
	require.NoError(t, err)
	assert.Empty(t, p.Items)

	p, err = s.List(ctx, Query{Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 10, p.Size)
	assert.Equal(t, []int64{12, 9, 6, 3}, ids(p.Items))

	_, err = s.List(ctx, Query{Status: "lost"})
	assert.ErrorIs(t, err, validators.ErrValidation)
}

func TestList_Failures(t *testing.T) {
	t.Parallel()

	_, err := NewService(seeded(), fakeSession{}).List(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrForbidden)

	api := &fakeBackend{err: apiclient.ErrTransport}
	_, err = NewService(api, fakeSession{admin: true}).List(context.Background(), Query{})
	assert.EqualError(t, err, "Failed to fetch orders")
	assert.ErrorIs(t, err, apiclient.ErrTransport)
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	api := seeded()
	s := NewService(api, fakeSession{admin: true})

	st, err := s.UpdateStatus(context.Background(), 4, "delivered")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, st)
	assert.Equal(t, enums.OrderStatusDelivered, api.updated[4])

	_, err = s.UpdateStatus(context.Background(), 4, "teleported")
	assert.ErrorIs(t, err, validators.ErrValidation)

	api.err = &apiclient.Error{Status: http.StatusNotFound, Message: "Order not found"}
	_, err = s.UpdateStatus(context.Background(), 99, "shipped")
	assert.EqualError(t, err, "Order not found")
}

func TestDelete(t *testing.T) {
	t.Parallel()

	api := seeded()
	s := NewService(api, fakeSession{admin: true})
	require.NoError(t, s.Delete(context.Background(), 3))
	assert.Equal(t, []int64{3}, api.deleted)

	api.err = &apiclient.Error{Status: http.StatusInternalServerError}
	assert.EqualError(t, s.Delete(context.Background(), 3), "Failed to delete order")
}
