package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/neotech_storefront/internal/account"
	"github.com/Skotchmaster/neotech_storefront/internal/analytics"
	"github.com/Skotchmaster/neotech_storefront/internal/auth"
	"github.com/Skotchmaster/neotech_storefront/internal/cart"
	"github.com/Skotchmaster/neotech_storefront/internal/catalog"
	"github.com/Skotchmaster/neotech_storefront/internal/checkout"
	"github.com/Skotchmaster/neotech_storefront/internal/metrics"
	authmw "github.com/Skotchmaster/neotech_storefront/internal/middleware/auth"
	"github.com/Skotchmaster/neotech_storefront/internal/navigation"
	"github.com/Skotchmaster/neotech_storefront/internal/orders"
	"github.com/Skotchmaster/neotech_storefront/internal/preferences"
)

type Deps struct {
	Cart      *cart.Store
	Auth      *auth.Store
	Checkout  *checkout.Flow
	Nav       *navigation.Store
	Prefs     *preferences.Store
	Account   *account.Service
	Catalog   *catalog.Service
	Orders    *orders.Service
	Analytics *analytics.Service
	Metrics   *metrics.Metrics
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = HTTPErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		select {
		case <-d.Auth.Ready():
			return c.NoContent(http.StatusOK)
		default:
			return c.NoContent(http.StatusServiceUnavailable)
		}
	})
	e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))

	sess := &SessionHTTP{Auth: d.Auth, Account: d.Account, Metrics: d.Metrics}
	carts := &CartHTTP{Cart: d.Cart, Catalog: d.Catalog, Metrics: d.Metrics}
	co := &CheckoutHTTP{Flow: d.Checkout, Metrics: d.Metrics}
	nav := &NavHTTP{Nav: d.Nav}
	prefs := &PrefsHTTP{Prefs: d.Prefs}
	cat := &CatalogHTTP{Catalog: d.Catalog}
	adm := &AdminHTTP{Catalog: d.Catalog, Orders: d.Orders, Analytics: d.Analytics}

	requireSession := authmw.RequireSession(d.Auth)

	api := e.Group("/api")

	s := api.Group("/session")
	s.GET("", sess.Get)
	s.POST("/login", sess.Login)
	s.POST("/logout", sess.Logout)
	s.POST("/signup", sess.Signup)
	s.PUT("/profile", sess.UpdateProfile, requireSession)
	s.POST("/password", sess.ChangePassword, requireSession)

	ct := api.Group("/cart")
	ct.GET("", carts.GetCart)
	ct.DELETE("", carts.ClearCart)
	ct.POST("/items", carts.AddToCart)
	ct.PUT("/items/:id", carts.UpdateQuantity)
	ct.DELETE("/items/:id", carts.RemoveFromCart)

	ch := api.Group("/checkout")
	ch.GET("", co.Get)
	ch.PUT("/fields", co.SetFields)
	ch.POST("/defaults", co.LoadDefaults)
	ch.POST("/prepare", co.Prepare)
	ch.POST("/submit", co.Submit)
	ch.POST("/reset", co.Reset)

	api.GET("/nav/resolve", nav.Resolve)
	api.POST("/nav", nav.Navigate)

	p := api.Group("/preferences")
	p.GET("", prefs.Get)
	p.POST("/theme/toggle", prefs.ToggleTheme)
	p.PUT("/language", prefs.SetLanguage)

	api.GET("/products", cat.List)
	api.GET("/products/:id", cat.Get)
	api.GET("/products/:id/comments", cat.Comments)
	api.POST("/products/:id/comments", cat.AddComment, requireSession)
	api.DELETE("/comments/:id", cat.DeleteComment, requireSession)

	admin := api.Group("/admin")
	admin.Use(authmw.RequireAdmin(d.Auth))

	admin.POST("/products", adm.CreateProduct)
	admin.PUT("/products/:id", adm.UpdateProduct)
	admin.DELETE("/products/:id", adm.DeleteProduct)
	admin.POST("/products/:id/toggle", adm.ToggleProduct)
	admin.GET("/orders", adm.ListOrders)
	admin.PUT("/orders/:id", adm.UpdateOrderStatus)
	admin.DELETE("/orders/:id", adm.DeleteOrder)
	admin.GET("/analytics", adm.AnalyticsDashboard)
}
