// Package cart holds the shopping cart for one client profile and keeps it
// persisted under the "cart" storage key.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/neotech_storefront/internal/events"
	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/models"
	"github.com/Skotchmaster/neotech_storefront/internal/notify"
	"github.com/Skotchmaster/neotech_storefront/internal/storage"
)

var (
	ErrInvalidProduct  = errors.New("invalid product data")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrStockLimit      = errors.New("stock limit exceeded")
)

type Listener func(items []models.CartLineItem)

// Store is safe for concurrent use. Every mutation runs to completion under
// one lock, and the line items always satisfy 1 <= quantity <= stock.
type Store struct {
	mu    sync.Mutex
	items []models.CartLineItem
	kv    storage.KV
	pub   events.Publisher

	subMu   sync.Mutex
	subs    map[int]Listener
	nextSub int
}

func New(ctx context.Context, kv storage.KV, pub events.Publisher) *Store {
	if pub == nil {
		pub = events.Nop{}
	}
	s := &Store{kv: kv, pub: pub, subs: make(map[int]Listener)}
	s.items = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []models.CartLineItem {
	l := logging.FromContext(ctx).With("store", "cart")

	raw, ok, err := s.kv.Get(ctx, storage.KeyCart)
	if err != nil {
		l.Error("cart_load_error", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var saved []models.CartLineItem
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		l.Warn("cart_corrupt", "error", err)
		if err := s.kv.Delete(ctx, storage.KeyCart); err != nil {
			l.Error("cart_remove_error", "error", err)
		}
		return nil
	}

	seen := make(map[int64]bool, len(saved))
	items := make([]models.CartLineItem, 0, len(saved))
	for _, it := range saved {
		if it.ID <= 0 || it.Quantity < 1 || it.Stock < 0 || it.Quantity > it.Stock || seen[it.ID] {
			l.Warn("cart_line_dropped", "product_id", it.ID, "quantity", it.Quantity, "stock", it.Stock)
			continue
		}
		seen[it.ID] = true
		items = append(items, it)
	}
	return items
}

// persist must be called with s.mu held. The write outlives a cancelled
// request so storage never falls behind memory.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.itemsLocked())
	if err != nil {
		logging.FromContext(ctx).Error("cart_encode_error", "error", err)
		return
	}
	if err := s.kv.Set(context.WithoutCancel(ctx), storage.KeyCart, string(data)); err != nil {
		logging.FromContext(ctx).Error("cart_persist_error", "error", err)
	}
}

func (s *Store) itemsLocked() []models.CartLineItem {
	out := make([]models.CartLineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) indexLocked(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func stockMessage(stock int, name string) string {
	return fmt.Sprintf("Cannot add more than %d items of %s", stock, name)
}

// AddToCart merges quantity into an existing line or appends a new one,
// checked against the stock in the product snapshot.
func (s *Store) AddToCart(ctx context.Context, p models.Product, quantity int) error {
	if p.ID <= 0 || p.Stock < 0 {
		notify.Error(ctx, "Invalid product data")
		return fmt.Errorf("product %d: %w", p.ID, ErrInvalidProduct)
	}
	if quantity < 1 {
		notify.Error(ctx, "Quantity must be at least 1")
		return fmt.Errorf("quantity %d: %w", quantity, ErrInvalidQuantity)
	}

	s.mu.Lock()
	var msg string
	if i := s.indexLocked(p.ID); i >= 0 {
		newQty := s.items[i].Quantity + quantity
		if newQty > p.Stock {
			s.mu.Unlock()
			notify.Warning(ctx, stockMessage(p.Stock, p.Name))
			return fmt.Errorf("product %d wants %d of %d: %w", p.ID, newQty, p.Stock, ErrStockLimit)
		}
		s.items[i].Quantity = newQty
		s.items[i].Stock = p.Stock
		msg = fmt.Sprintf("Updated %s quantity in cart", p.Name)
	} else {
		if quantity > p.Stock {
			s.mu.Unlock()
			notify.Warning(ctx, stockMessage(p.Stock, p.Name))
			return fmt.Errorf("product %d wants %d of %d: %w", p.ID, quantity, p.Stock, ErrStockLimit)
		}
		s.items = append(s.items, models.LineItemFromProduct(p, quantity))
		msg = fmt.Sprintf("%s added to cart", p.Name)
	}
	snapshot := s.commitLocked(ctx)
	s.mu.Unlock()

	notify.Success(ctx, msg)
	s.changed(ctx, snapshot)
	return nil
}

// RemoveFromCart reports whether a line was removed. Unknown ids are a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, id int64) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	name := s.items[i].Name
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	snapshot := s.commitLocked(ctx)
	s.mu.Unlock()

	notify.Success(ctx, fmt.Sprintf("%s removed from cart", name))
	s.changed(ctx, snapshot)
	return true
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line; more
// than the stock captured on the line is rejected.
func (s *Store) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	if quantity <= 0 {
		s.RemoveFromCart(ctx, id)
		return nil
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	if quantity > s.items[i].Stock {
		item := s.items[i]
		s.mu.Unlock()
		notify.Warning(ctx, stockMessage(item.Stock, item.Name))
		return fmt.Errorf("product %d wants %d of %d: %w", id, quantity, item.Stock, ErrStockLimit)
	}
	s.items[i].Quantity = quantity
	snapshot := s.commitLocked(ctx)
	s.mu.Unlock()

	s.changed(ctx, snapshot)
	return nil
}

func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	snapshot := s.commitLocked(ctx)
	s.mu.Unlock()

	notify.Success(ctx, "Cart cleared")
	s.changed(ctx, snapshot)
}

func (s *Store) commitLocked(ctx context.Context) []models.CartLineItem {
	s.persist(ctx)
	return s.itemsLocked()
}

func (s *Store) Items() []models.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsLocked()
}

// Total is the sum of current price times quantity.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.items)
}

func (s *Store) ItemsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return count(s.items)
}

// Summary is a consistent view of the lines and their totals.
type Summary struct {
	Items []models.CartLineItem `json:"items"`
	Total models.Money          `json:"total"`
	Count int                   `json:"count"`
}

func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Items: s.itemsLocked(),
		Total: models.NewMoney(total(s.items)),
		Count: count(s.items),
	}
}

func (s *Store) IsInCart(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id) >= 0
}

func total(items []models.CartLineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// Subscribe registers fn for every change. The returned func unregisters it.
func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) changed(ctx context.Context, snapshot []models.CartLineItem) {
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(append([]models.CartLineItem(nil), snapshot...))
	}

	s.pub.Publish(ctx, events.New(events.CartUpdated, map[string]any{
		"items":       len(snapshot),
		"items_count": count(snapshot),
		"total":       models.NewMoney(total(snapshot)),
	}))
}

func count(items []models.CartLineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
