package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"photo-gallery/internal/auth"
	"photo-gallery/internal/config"
	"photo-gallery/internal/gallery"
)

const (
	themeCookieMaxAge = 365 * 24 * time.Hour

	// Client-side events fired after a theme switch so open widgets can
	// restyle themselves without a reload.
	LightThemeSetEvent = "LightThemeSetEvent"
	DarkThemeSetEvent  = "DarkThemeSetEvent"
)

// PrefHandler persists display preferences in cookies; nothing is stored
// server-side.
type PrefHandler struct {
	cfg *config.Config
}

func NewPrefHandler(cfg *config.Config) *PrefHandler {
	return &PrefHandler{cfg: cfg}
}

type setThemeData struct {
	Theme string
}

func (h *PrefHandler) SetLightTheme(c echo.Context) error {
	return h.setTheme(c, gallery.ThemeLight, LightThemeSetEvent)
}

func (h *PrefHandler) SetDarkTheme(c echo.Context) error {
	return h.setTheme(c, gallery.ThemeDark, DarkThemeSetEvent)
}

func (h *PrefHandler) setTheme(c echo.Context, theme, event string) error {
	c.SetCookie(&http.Cookie{
		Name:     auth.ThemeCookie,
		Value:    theme,
		Path:     "/",
		MaxAge:   int(themeCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SSL,
	})

	c.Response().Header().Set("HX-Trigger", event)
	return c.Render(http.StatusOK, "widgets/set_theme", setThemeData{Theme: theme})
}
