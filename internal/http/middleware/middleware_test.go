package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-gallery/internal/auth"
	"photo-gallery/internal/gallery"
)

func run(t *testing.T, req *http.Request, mw echo.MiddlewareFunc) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	require.NoError(t, err)
	return c, rec
}

func TestRequestIDAssignsUUID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, rec := run(t, req, RequestID())

	id := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestIDKeepsSuppliedID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "proxy-supplied")
	_, rec := run(t, req, RequestID())

	assert.Equal(t, "proxy-supplied", rec.Header().Get(echo.HeaderXRequestID))
}

func TestPrefDefaultsToLightTheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, _ := run(t, req, Pref())

	assert.Equal(t, gallery.ThemeLight, auth.GetPref(c).Theme)
}

func TestPrefReadsThemeCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.ThemeCookie, Value: gallery.ThemeDark})
	c, _ := run(t, req, Pref())

	assert.Equal(t, gallery.ThemeDark, auth.GetPref(c).Theme)
}

func TestPrefRejectsUnknownTheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.ThemeCookie, Value: "neon"})
	c, _ := run(t, req, Pref())

	assert.Equal(t, gallery.ThemeLight, auth.GetPref(c).Theme)
}
