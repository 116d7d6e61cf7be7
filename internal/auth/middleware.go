package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"photo-gallery/internal/gallery"
	apperrors "photo-gallery/pkg/errors"
)

// AuthzClient resolves a bearer credential into an Actor.
type AuthzClient interface {
	Authz(ctx context.Context, token string) (*gallery.Actor, error)
}

// ErrorRenderer converts a taxonomy error into a full error page or an
// inline fragment, based on the rendering-mode signal.
type ErrorRenderer interface {
	RenderError(c echo.Context, err error, fullPage bool) error
}

// Middleware is the session authenticator: it exchanges the auth cookie
// for an Actor on every request. Nothing is cached between requests.
type Middleware struct {
	identity AuthzClient
	errors   ErrorRenderer
	log      zerolog.Logger
}

func NewMiddleware(identity AuthzClient, errors ErrorRenderer, log zerolog.Logger) *Middleware {
	return &Middleware{
		identity: identity,
		errors:   errors,
		log:      log,
	}
}

// RequireSession terminates the chain unless the request carries a
// credential the identity service accepts. An absent or rejected
// credential redirects full navigations to the login page and renders an
// inline fragment for partial requests; any other upstream failure is a
// transient service error.
func (m *Middleware) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			fullPage := IsFullPage(c)

			cookie, err := c.Cookie(AuthTokenCookie)
			if err != nil || cookie.Value == "" {
				if fullPage {
					return c.Redirect(http.StatusFound, LoginPath)
				}
				return m.errors.RenderError(c, apperrors.NoAuthCookie(), fullPage)
			}

			actor, err := m.identity.Authz(c.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, apperrors.ErrLoginRequired) {
					if fullPage {
						return c.Redirect(http.StatusFound, LoginPath)
					}
					return m.errors.RenderError(c, err, fullPage)
				}
				m.log.Warn().
					Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
					Err(err).
					Msg("session resolution failed")
				return m.errors.RenderError(c, err, fullPage)
			}

			c.Set(ContextKeySession, &Session{Token: cookie.Value, Actor: actor})
			return next(c)
		}
	}
}
