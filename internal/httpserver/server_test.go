package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/neotech_storefront/internal/account"
	"github.com/Skotchmaster/neotech_storefront/internal/analytics"
	"github.com/Skotchmaster/neotech_storefront/internal/apiclient"
	"github.com/Skotchmaster/neotech_storefront/internal/auth"
	"github.com/Skotchmaster/neotech_storefront/internal/cart"
	"github.com/Skotchmaster/neotech_storefront/internal/catalog"
	"github.com/Skotchmaster/neotech_storefront/internal/checkout"
	"github.com/Skotchmaster/neotech_storefront/internal/events"
	"github.com/Skotchmaster/neotech_storefront/internal/metrics"
	loggingmw "github.com/Skotchmaster/neotech_storefront/internal/middleware/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/navigation"
	"github.com/Skotchmaster/neotech_storefront/internal/orders"
	"github.com/Skotchmaster/neotech_storefront/internal/payment"
	"github.com/Skotchmaster/neotech_storefront/internal/preferences"
	"github.com/Skotchmaster/neotech_storefront/internal/storage"
)

const mouse = `{"id":1,"name":"Mouse","price":"20.00","sale_price":null,"current_price":"20.00","has_sale":false,"stock":5,"is_active":true}`

// fakeBackend answers the handful of REST endpoints the flows below touch.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	// handle registers "METHOD /path" patterns in a way the Go 1.21 ServeMux understands.
	handle := func(pattern string, h http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method && !(method == http.MethodGet && r.Method == http.MethodHead) {
				w.Header().Set("Allow", method)
				http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
				return
			}
			h(w, r)
		})
	}
	handle("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		switch body["email"] {
		case "user@neotech.test":
			io.WriteString(w, `{"success":true,"token":"tok-user","user":{"id":2,"name":"Sara Ali","email":"user@neotech.test","phone":"+20 11 12345678","address":"1 Nile St","city":"Cairo","postal_code":"11511","country":"Egypt","is_admin":false}}`)
		case "admin@neotech.test":
			io.WriteString(w, `{"success":true,"token":"tok-admin","user":{"id":1,"name":"Admin","email":"admin@neotech.test","is_admin":1}}`)
		default:
			w.WriteHeader(http.StatusUnprocessableEntity)
			io.WriteString(w, `{"message":"The given data was invalid.","errors":{"password":["Invalid credentials"]}}`)
		}
	})
	handle("POST /api/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handle("GET /api/products/1", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, mouse)
	})
	handle("GET /api/products/404", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"Product not found"}`)
	})
	handle("GET /api/products", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"data":[`+mouse+`]}`)
	})
	handle("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Unauthenticated."}`)
			return
		}
		assert.Equal(t, "Bearer tok-user", r.Header.Get("Authorization"))
		var draft map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, "paid", draft["payment_status"])
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":77,"status":"pending","payment_status":"paid","total_amount":40,"items":[]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type testEnv struct {
	e    *echo.Echo
	cart *cart.Store
	auth *auth.Store
	pub  *events.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	backend := fakeBackend(t)
	m := metrics.New(prometheus.NewRegistry())
	api := apiclient.NewClient(backend.URL, 5*time.Second, apiclient.WithObserver(m))
	kv := storage.NewMemory()
	pub := &events.Recorder{}

	authStore := auth.New(kv, api, pub)
	authStore.Bootstrap(ctx)
	cartStore := cart.New(ctx, kv, pub)
	prefs := preferences.New(ctx, kv)

	e := echo.New()
	e.Use(loggingmw.RequestLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))))
	Register(e, &Deps{
		Cart:      cartStore,
		Auth:      authStore,
		Checkout:  checkout.NewFlow(cartStore, authStore, api, payment.NewStub(false), pub),
		Nav:       navigation.NewStore("/"),
		Prefs:     prefs,
		Account:   account.NewService(api, authStore),
		Catalog:   catalog.NewService(api, authStore),
		Orders:    orders.NewService(api, authStore),
		Analytics: analytics.NewService(api, authStore),
		Metrics:   m,
	})
	return &testEnv{e: e, cart: cartStore, auth: authStore, pub: pub}
}

type response struct {
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
	Signals []struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"signals"`
}

func (env *testEnv) do(t *testing.T, method, path string, body any) (int, response) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	var resp response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec.Code, resp
}

func (env *testEnv) login(t *testing.T, email string) {
	t.Helper()
	code, resp := env.do(t, http.MethodPost, "/api/session/login", map[string]string{"email": email, "password": "Secret123"})
	require.Equal(t, http.StatusOK, code, resp.Error)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = env.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestCartEndpoints(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, code, resp.Error)
	var sum cart.Summary
	require.NoError(t, json.Unmarshal(resp.Data, &sum))
	assert.Equal(t, 2, sum.Count)
	assert.Equal(t, "40.00", sum.Total.String())
	require.Len(t, resp.Signals, 1)
	assert.Equal(t, "Mouse added to cart", resp.Signals[0].Message)

	code, resp = env.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": 1, "quantity": 4})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Cannot add more than 5 items of Mouse", resp.Error)
	require.Len(t, resp.Signals, 1)
	assert.Equal(t, "warning", resp.Signals[0].Level)
	assert.Equal(t, 2, env.cart.ItemsCount())

	code, resp = env.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": 404})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Product not found", resp.Error)

	code, _ = env.do(t, http.MethodPut, "/api/cart/items/1", map[string]any{"quantity": 5})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 5, env.cart.ItemsCount())

	code, resp = env.do(t, http.MethodPut, "/api/cart/items/1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "quantity is required", resp.Error)
	assert.Equal(t, 5, env.cart.ItemsCount())

	code, resp = env.do(t, http.MethodDelete, "/api/cart/items/9", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &sum))
	assert.Equal(t, 5, sum.Count)
	assert.Len(t, sum.Items, 1)

	code, _ = env.do(t, http.MethodDelete, "/api/cart", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Zero(t, env.cart.ItemsCount())
}

func TestLoginRejected(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodPost, "/api/session/login", map[string]string{"email": "who@neotech.test", "password": "nope"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Invalid credentials", resp.Error)
	assert.False(t, env.auth.IsAuthenticated())

	code, resp = env.do(t, http.MethodPost, "/api/session/login", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Please enter a valid email address", resp.Fields["email"])
	assert.Equal(t, "Password is required", resp.Fields["password"])
}

func TestCheckoutEndpoints(t *testing.T) {
	env := newTestEnv(t)

	env.login(t, "user@neotech.test")

	code, resp := env.do(t, http.MethodPost, "/api/checkout/prepare", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, resp.Error, "Please fill in all required fields")
	assert.Contains(t, resp.Fields, "fullName")

	code, _ = env.do(t, http.MethodPost, "/api/checkout/defaults", nil)
	require.Equal(t, http.StatusOK, code)

	code, resp = env.do(t, http.MethodPost, "/api/checkout/prepare", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Your cart is empty", resp.Error)

	code, _ = env.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, code)

	code, resp = env.do(t, http.MethodPost, "/api/checkout/submit", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, resp = env.do(t, http.MethodPost, "/api/checkout/prepare", nil)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var snap checkout.Snapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	assert.Equal(t, checkout.StateAwaitingPayment, snap.State)
	assert.NotEmpty(t, snap.AttemptID)

	code, resp = env.do(t, http.MethodPost, "/api/checkout/submit", nil)
	require.Equal(t, http.StatusCreated, code, resp.Error)
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	assert.Equal(t, checkout.StateCompleted, snap.State)
	require.NotNil(t, snap.Order)
	assert.EqualValues(t, 77, snap.Order.ID)
	require.NotEmpty(t, resp.Signals)
	assert.Equal(t, "Order placed successfully!", resp.Signals[len(resp.Signals)-1].Message)
	assert.Zero(t, env.cart.ItemsCount())
	assert.Contains(t, env.pub.Types(), events.OrderPlaced)
}

func TestGuestCheckout(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, code)

	code, resp := env.do(t, http.MethodPut, "/api/checkout/fields", checkout.Fields{
		FullName:   "Guest Buyer",
		Email:      "guest@neotech.test",
		Phone:      "+20 11 12345678",
		Address:    "5 Tahrir Sq",
		City:       "Cairo",
		PostalCode: "11511",
		Country:    "Egypt",
	})
	require.Equal(t, http.StatusOK, code, resp.Error)

	code, resp = env.do(t, http.MethodPost, "/api/checkout/prepare", nil)
	require.Equal(t, http.StatusOK, code, resp.Error)
	var snap checkout.Snapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	assert.Equal(t, checkout.StateAwaitingPayment, snap.State)

	code, resp = env.do(t, http.MethodPost, "/api/checkout/submit", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, 2, env.cart.ItemsCount())

	code, resp = env.do(t, http.MethodGet, "/api/checkout", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	assert.Equal(t, checkout.StateFailed, snap.State)
	assert.Contains(t, env.pub.Types(), events.OrderFailed)
}

func TestAdminGuard(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, http.MethodGet, "/api/admin/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	env.login(t, "user@neotech.test")
	code, resp := env.do(t, http.MethodGet, "/api/admin/analytics", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.NotEmpty(t, resp.Error)
	assert.NotNil(t, resp.Signals)
}

func TestNavigationAndPreferences(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodPost, "/api/nav", map[string]any{"page": "product"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = env.do(t, http.MethodPost, "/api/nav", map[string]any{"page": "product", "product_id": 3})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"path":"/product/3","location":{"page":"product","product_id":3}}`, string(resp.Data))

	code, resp = env.do(t, http.MethodGet, "/api/nav/resolve?path=/login/", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"path":"/login","location":{"page":"login"}}`, string(resp.Data))

	code, resp = env.do(t, http.MethodPost, "/api/preferences/theme/toggle", nil)
	require.Equal(t, http.StatusOK, code)
	var snap preferences.Snapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	assert.Equal(t, preferences.ThemeLight, snap.Theme)

	code, _ = env.do(t, http.MethodPut, "/api/preferences/language", map[string]string{"language": "fr"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = env.do(t, http.MethodPut, "/api/preferences/language", map[string]string{"language": "ar"})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	assert.True(t, snap.RTL)
}

func TestProductsList(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, code)
	var products []map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Mouse", products[0]["name"])
}
