package authmw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/neotech_storefront/internal/models"
)

type fakeSession struct {
	user *models.User
}

func (s fakeSession) IsAuthenticated() bool { return s.user != nil }
func (s fakeSession) IsAdmin() bool         { return s.user != nil && bool(s.user.IsAdmin) }
func (s fakeSession) User() *models.User    { return s.user }

func serve(mw echo.MiddlewareFunc) (*httptest.ResponseRecorder, map[string]any) {
	e := echo.New()
	seen := map[string]any{}
	e.GET("/", func(c echo.Context) error {
		seen[CtxUserID] = c.Get(CtxUserID)
		seen[CtxIsAdmin] = c.Get(CtxIsAdmin)
		return c.NoContent(http.StatusNoContent)
	}, mw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec, seen
}

func TestRequireSession(t *testing.T) {
	t.Parallel()

	rec, _ := serve(RequireSession(fakeSession{}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, c := serve(RequireSession(fakeSession{user: &models.User{ID: 7}}))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.EqualValues(t, 7, c[CtxUserID])
	assert.Equal(t, false, c[CtxIsAdmin])
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	rec, _ := serve(RequireAdmin(fakeSession{}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(RequireAdmin(fakeSession{user: &models.User{ID: 2}}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, c := serve(RequireAdmin(fakeSession{user: &models.User{ID: 1, IsAdmin: true}}))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, true, c[CtxIsAdmin])
}
