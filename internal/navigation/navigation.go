// Package navigation maps URL paths to storefront pages and back.
package navigation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

type Page string

const (
	PageHome    Page = "home"
	PageLogin   Page = "login"
	PageSignup  Page = "signup"
	PageAdmin   Page = "admin"
	PageProduct Page = "product"
)

var (
	ErrUnknownPage      = errors.New("unknown page")
	ErrMissingProductID = errors.New("product page needs a product id")
)

func ParsePage(v string) (Page, error) {
	switch p := Page(v); p {
	case PageHome, PageLogin, PageSignup, PageAdmin, PageProduct:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, v)
}

type Location struct {
	Page      Page  `json:"page"`
	ProductID int64 `json:"product_id,omitempty"`
}

// Parse resolves a path. Anything unrecognised is home, including a product
// path whose id is not a positive integer.
func Parse(path string) Location {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")

	switch path {
	case "/login":
		return Location{Page: PageLogin}
	case "/signup":
		return Location{Page: PageSignup}
	case "/admin":
		return Location{Page: PageAdmin}
	}

	if rest, ok := strings.CutPrefix(path, "/product/"); ok && !strings.Contains(rest, "/") {
		if id, err := strconv.ParseInt(rest, 10, 64); err == nil && id > 0 {
			return Location{Page: PageProduct, ProductID: id}
		}
	}
	return Location{Page: PageHome}
}

func (l Location) Path() string {
	switch l.Page {
	case PageLogin:
		return "/login"
	case PageSignup:
		return "/signup"
	case PageAdmin:
		return "/admin"
	case PageProduct:
		if l.ProductID > 0 {
			return "/product/" + strconv.FormatInt(l.ProductID, 10)
		}
		return "/product"
	default:
		return "/"
	}
}

type Listener func(loc Location)

type Store struct {
	mu      sync.Mutex
	current Location
	subs    map[int]Listener
	nextID  int
}

func NewStore(initialPath string) *Store {
	return &Store{current: Parse(initialPath), subs: make(map[int]Listener)}
}

func (s *Store) Current() Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Navigate moves to page and returns the path to push onto history.
func (s *Store) Navigate(page Page, productID int64) (string, error) {
	if _, err := ParsePage(string(page)); err != nil {
		return "", err
	}
	if page == PageProduct && productID <= 0 {
		return "", ErrMissingProductID
	}
	loc := Location{Page: page}
	if page == PageProduct {
		loc.ProductID = productID
	}
	s.set(loc)
	return loc.Path(), nil
}

// Sync follows a path change that did not come from Navigate, such as the
// initial load or the back button.
func (s *Store) Sync(path string) Location {
	loc := Parse(path)
	s.set(loc)
	return loc
}

func (s *Store) set(loc Location) {
	s.mu.Lock()
	s.current = loc
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(loc)
	}
}

func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
