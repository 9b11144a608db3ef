// Package analytics computes the admin dashboard figures from the backend's
// products, orders and users.
package analytics

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/models"
)

const (
	DefaultMonths = 6
	TopProducts   = 5
)

var ErrForbidden = errors.New("admin session required")

type Backend interface {
	ListProducts(ctx context.Context, token string) ([]models.Product, error)
	ListOrders(ctx context.Context, token string) ([]models.Order, error)
	ListUsers(ctx context.Context, token string) ([]models.User, error)
}

type Session interface {
	Token() string
	IsAdmin() bool
}

type MonthlySales struct {
	Month string       `json:"month"`
	Sales models.Money `json:"sales"`
}

type ProductSales struct {
	ID      int64        `json:"id"`
	Name    string       `json:"name"`
	Units   int          `json:"units"`
	Revenue models.Money `json:"revenue"`
}

type Stats struct {
	TotalRevenue         models.Money `json:"total_revenue"`
	TotalUsers           int          `json:"total_users"`
	TotalProducts        int          `json:"total_products"`
	TotalOrders          int          `json:"total_orders"`
	TodayOrders          int          `json:"today_orders"`
	MonthOrdersChangePct float64      `json:"month_orders_change_pct"`
}

type Dashboard struct {
	Monthly     []MonthlySales `json:"monthly"`
	TopProducts []ProductSales `json:"top_products"`
	Stats       Stats          `json:"stats"`
}

type Service struct {
	api     Backend
	session Session
	now     func() time.Time
	months  int
}

func NewService(api Backend, session Session) *Service {
	return &Service{api: api, session: session, now: time.Now, months: DefaultMonths}
}

// Dashboard fetches the three collections concurrently. Any failed fetch
// fails the whole dashboard.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if !s.session.IsAdmin() {
		return nil, ErrForbidden
	}
	token := s.session.Token()

	var (
		products []models.Product
		orders   []models.Order
		users    []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.api.ListProducts(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		orders, err = s.api.ListOrders(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.api.ListUsers(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		logging.FromContext(ctx).Warn("analytics_fetch_error", "error", err)
		return nil, err
	}

	return &Dashboard{
		Monthly:     MonthlyTotals(orders, s.months),
		TopProducts: TopSellers(products, orders, TopProducts),
		Stats:       Summarize(products, orders, users, s.now()),
	}, nil
}

// MonthlyTotals sums order totals by calendar month for January through the
// given number of months, across all years.
func MonthlyTotals(orders []models.Order, months int) []MonthlySales {
	if months < 1 || months > 12 {
		months = DefaultMonths
	}
	sums := make([]decimal.Decimal, months)
	for _, o := range orders {
		if o.CreatedAt.IsZero() {
			continue
		}
		m := int(o.CreatedAt.Month()) - 1
		if m < months {
			sums[m] = sums[m].Add(o.TotalAmount.Decimal)
		}
	}

	out := make([]MonthlySales, 0, months)
	for i, sum := range sums {
		out = append(out, MonthlySales{
			Month: time.Month(i + 1).String()[:3],
			Sales: models.NewMoney(sum),
		})
	}
	return out
}

// TopSellers ranks catalog products by units sold. Order lines for products
// no longer in the catalog are ignored.
func TopSellers(products []models.Product, orders []models.Order, n int) []ProductSales {
	byID := make(map[int64]*ProductSales, len(products))
	ranked := make([]*ProductSales, 0, len(products))
	for _, p := range products {
		if _, dup := byID[p.ID]; dup {
			continue
		}
		ps := &ProductSales{ID: p.ID, Name: p.Name}
		byID[p.ID] = ps
		ranked = append(ranked, ps)
	}

	revenue := make(map[int64]decimal.Decimal, len(products))
	for _, o := range orders {
		for _, it := range o.Items {
			ps, ok := byID[it.ID]
			if !ok {
				continue
			}
			qty := it.Quantity
			if qty <= 0 {
				qty = 1
			}
			ps.Units += qty
			revenue[it.ID] = revenue[it.ID].Add(it.Price.Mul(decimal.NewFromInt(int64(qty))))
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Units > ranked[j].Units })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]ProductSales, 0, len(ranked))
	for _, ps := range ranked {
		ps.Revenue = models.NewMoney(revenue[ps.ID])
		out = append(out, *ps)
	}
	return out
}

func Summarize(products []models.Product, orders []models.Order, users []models.User, now time.Time) Stats {
	st := Stats{
		TotalUsers:    len(users),
		TotalProducts: len(products),
		TotalOrders:   len(orders),
	}

	total := decimal.Zero
	y, m, d := now.Date()
	prev := now.AddDate(0, 0, -now.Day()+1).AddDate(0, -1, 0)
	var thisMonth, lastMonth int
	for _, o := range orders {
		total = total.Add(o.TotalAmount.Decimal)
		if o.CreatedAt.IsZero() {
			continue
		}
		at := o.CreatedAt.In(now.Location())
		oy, om, od := at.Date()
		if oy == y && om == m {
			thisMonth++
			if od == d {
				st.TodayOrders++
			}
		}
		if oy == prev.Year() && om == prev.Month() {
			lastMonth++
		}
	}
	st.TotalRevenue = models.NewMoney(total)
	if lastMonth > 0 {
		pct := decimal.NewFromInt(int64(thisMonth - lastMonth)).
			Div(decimal.NewFromInt(int64(lastMonth))).
			Mul(decimal.NewFromInt(100)).
			Round(1)
		st.MonthOrdersChangePct = pct.InexactFloat64()
	}
	return st
}
