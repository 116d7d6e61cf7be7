package middleware

import (
	"github.com/labstack/echo/v4"

	"photo-gallery/internal/auth"
	"photo-gallery/internal/gallery"
)

// Pref extracts UI preferences from cookies into the request context.
// Unknown theme values fall back to the default.
func Pref() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			pref := gallery.DefaultPref()

			if cookie, err := c.Cookie(auth.ThemeCookie); err == nil {
				if cookie.Value == gallery.ThemeDark || cookie.Value == gallery.ThemeLight {
					pref.Theme = cookie.Value
				}
			}

			c.Set(auth.ContextKeyPref, pref)
			return next(c)
		}
	}
}
