package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"photo-gallery/internal/auth"
	"photo-gallery/internal/config"
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/upstream"
	apperrors "photo-gallery/pkg/errors"
)

const (
	authCookieMaxAge = 7 * 24 * time.Hour

	recaptchaScript = "https://www.google.com/recaptcha/api.js?onload=onloadCallbackRecaptcha&render=explicit"
)

// AuthClient is the part of the identity service the login flow needs.
type AuthClient interface {
	Authenticate(ctx context.Context, payload upstream.AuthPayload) (*upstream.AuthResponse, error)
}

// CaptchaValidator verifies the captcha widget response.
type CaptchaValidator interface {
	Validate(ctx context.Context, response string) error
}

// LoginHandler owns the session boundary: it exchanges credentials for a
// bearer token and sets or clears the auth cookie. The token itself is
// never stored server-side.
type LoginHandler struct {
	cfg      *config.Config
	identity AuthClient
	captcha  CaptchaValidator
	log      zerolog.Logger
}

func NewLoginHandler(cfg *config.Config, identity AuthClient, captcha CaptchaValidator, log zerolog.Logger) *LoginHandler {
	return &LoginHandler{
		cfg:      cfg,
		identity: identity,
		captcha:  captcha,
		log:      log,
	}
}

type loginPageData struct {
	T            PageData
	CaptchaKey   string
	ErrorMessage string
}

type loginFormData struct {
	CaptchaKey   string
	ErrorMessage string
}

// LoginPage renders the login form with caching disabled.
func (h *LoginHandler) LoginPage(c echo.Context) error {
	t := NewPageData(h.cfg, nil, auth.GetPref(c))
	t.Title = "Login"
	t.AsyncScripts = []string{recaptchaScript}

	setNoStore(c)
	return c.Render(http.StatusOK, "pages/login", loginPageData{
		T:          t,
		CaptchaKey: h.cfg.CaptchaSiteKey,
	})
}

// Login validates the submission, verifies the captcha, exchanges the
// credentials upstream and sets the auth cookie. Success triggers a client
// redirect to the home page; failures re-render the form inline.
func (h *LoginHandler) Login(c echo.Context) error {
	var form gallery.LoginForm
	if err := c.Bind(&form); err != nil {
		return h.renderForm(c, apperrors.Validation("Invalid username or password."))
	}

	if form.Username == "" || form.Password == "" {
		return h.renderForm(c, apperrors.Validation("Invalid username or password."))
	}
	if form.CaptchaResponse == "" {
		return h.renderForm(c, apperrors.Validation("Click the I'm not a robot checkbox."))
	}

	if err := h.captcha.Validate(c.Request().Context(), form.CaptchaResponse); err != nil {
		return h.renderForm(c, err)
	}

	resp, err := h.identity.Authenticate(c.Request().Context(), upstream.AuthPayload{
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		h.log.Warn().Str("username", form.Username).Err(err).Msg("login failed")
		return h.renderForm(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.AuthTokenCookie,
		Value:    resp.Token,
		Path:     "/",
		MaxAge:   int(authCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SSL,
	})

	c.Response().Header().Set("HX-Redirect", "/")
	return c.Render(http.StatusOK, "widgets/login_form", loginFormData{
		CaptchaKey: h.cfg.CaptchaSiteKey,
	})
}

// Logout clears the auth cookie. The bearer token stays valid upstream
// until it expires; the browser just forgets it.
func (h *LoginHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     auth.AuthTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SSL,
	})

	c.Response().Header().Set("HX-Redirect", auth.LoginPath)
	return c.NoContent(http.StatusOK)
}

func (h *LoginHandler) renderForm(c echo.Context, err error) error {
	info := NormalizeError(err)
	return c.Render(info.StatusCode, "widgets/login_form", loginFormData{
		CaptchaKey:   h.cfg.CaptchaSiteKey,
		ErrorMessage: info.Message,
	})
}

func setNoStore(c echo.Context) {
	h := c.Response().Header()
	h.Set("Surrogate-Control", "no-store")
	h.Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
