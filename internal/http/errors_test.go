package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-gallery/internal/auth"
	"photo-gallery/internal/config"
	"photo-gallery/internal/gallery"
	apperrors "photo-gallery/pkg/errors"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           8080,
		BucketID:       "bucket-1",
		ClientID:       "client-1",
		CaptchaSiteKey: "site-key",
		JWTSecret:      "0123456789abcdef0123456789abcdef",
	}
}

func newRenderedContext(t *testing.T, method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	renderer, err := NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withSession(c echo.Context, actor *gallery.Actor) {
	c.Set(auth.ContextKeySession, &auth.Session{Token: "bearer-token", Actor: actor})
}

func editorActor() *gallery.Actor {
	return &gallery.Actor{
		ID: "user-1",
		Permissions: []gallery.Permission{
			gallery.PermDirsCreate,
			gallery.PermDirsEdit,
			gallery.PermDirsDelete,
			gallery.PermDirsView,
			gallery.PermFilesCreate,
			gallery.PermFilesDelete,
			gallery.PermFilesView,
		},
	}
}

func TestNormalizeErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		title  string
	}{
		{"validation", apperrors.Validation("bad input"), http.StatusBadRequest, "Validation Error"},
		{"bad request", apperrors.BadRequest("bad request"), http.StatusBadRequest, "Bad Request"},
		{"forbidden", apperrors.Forbidden("no access"), http.StatusForbidden, "Forbidden"},
		{"login failed", apperrors.LoginFailed("nope"), http.StatusUnauthorized, "Unauthorized"},
		{"login required", apperrors.LoginRequired("login"), http.StatusUnauthorized, "Unauthorized"},
		{"no auth cookie", apperrors.NoAuthCookie(), http.StatusUnauthorized, "Unauthorized"},
		{"invalid captcha", apperrors.InvalidCaptcha("Invalid captcha."), http.StatusBadRequest, "Invalid Captcha"},
		{"captcha response", apperrors.CaptchaResponse("upstream down"), http.StatusInternalServerError, "Captcha Error"},
		{"album not found", apperrors.AlbumNotFound(), http.StatusNotFound, "Not Found"},
		{"photo not found", apperrors.PhotoNotFound(), http.StatusNotFound, "Not Found"},
		{"stale token", apperrors.StaleToken(), http.StatusBadRequest, "Bad Request"},
		{"json parse", apperrors.JSONParse("parse failed"), http.StatusInternalServerError, "Internal Server Error"},
		{"service", apperrors.Service("down"), http.StatusInternalServerError, "Internal Server Error"},
		{"unknown", io.ErrUnexpectedEOF, http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := NormalizeError(tc.err)
			assert.Equal(t, tc.status, info.StatusCode)
			assert.Equal(t, tc.title, info.Title)
		})
	}
}

func TestNormalizeErrorUsesAppErrorMessage(t *testing.T) {
	info := NormalizeError(apperrors.Forbidden("You do not have permission to delete albums."))
	assert.Equal(t, "You do not have permission to delete albums.", info.Message)

	// Stale tokens get a fixed message regardless of the wrapped text.
	info = NormalizeError(apperrors.StaleToken())
	assert.Equal(t, "Stale form data. Refresh the page and try again", info.Message)
}

func TestRenderErrorFullPageRedirectsToLogin(t *testing.T) {
	h := NewErrorHandler(testConfig(), zerolog.Nop())

	for _, err := range []error{apperrors.LoginRequired("login"), apperrors.NoAuthCookie()} {
		c, rec := newRenderedContext(t, http.MethodGet, "/", nil)

		require.NoError(t, h.RenderError(c, err, true))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, auth.LoginPath, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestRenderErrorFullPage(t *testing.T) {
	h := NewErrorHandler(testConfig(), zerolog.Nop())
	c, rec := newRenderedContext(t, http.MethodGet, "/", nil)

	require.NoError(t, h.RenderError(c, apperrors.AlbumNotFound(), true))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, rec.Body.String(), "Album not found")
}

func TestRenderErrorFragment(t *testing.T) {
	h := NewErrorHandler(testConfig(), zerolog.Nop())
	c, rec := newRenderedContext(t, http.MethodGet, "/", nil)

	require.NoError(t, h.RenderError(c, apperrors.Forbidden("No access."), false))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, rec.Body.String(), "No access.")
}

func TestRenderErrorMessageFragment(t *testing.T) {
	h := NewErrorHandler(testConfig(), zerolog.Nop())
	c, rec := newRenderedContext(t, http.MethodPost, "/upload", nil)

	require.NoError(t, h.RenderErrorMessage(c, apperrors.StaleToken()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Stale form data")
}

func TestHTTPErrorHandlerNotFound(t *testing.T) {
	h := NewErrorHandler(testConfig(), zerolog.Nop())
	c, rec := newRenderedContext(t, http.MethodGet, "/nope", nil)

	h.HTTPErrorHandler(echo.NewHTTPError(http.StatusNotFound), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestHTTPErrorHandlerClientError(t *testing.T) {
	h := NewErrorHandler(testConfig(), zerolog.Nop())
	c, rec := newRenderedContext(t, http.MethodPost, "/albums/new", nil)
	c.Request().Header.Set(auth.HXRequestHeader, "true")

	h.HTTPErrorHandler(echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large"), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "request body too large"))
}
