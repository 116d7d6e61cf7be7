package auth

import (
	"github.com/labstack/echo/v4"

	"photo-gallery/internal/gallery"
	apperrors "photo-gallery/pkg/errors"
)

// Session pairs the resolved Actor with the raw bearer credential it was
// derived from. Built once per request by the session middleware and
// immutable for the request's lifetime.
type Session struct {
	Token string
	Actor *gallery.Actor
}

// GetSession returns the request's session. Handlers behind RequireSession
// can rely on it being present.
func GetSession(c echo.Context) (*Session, error) {
	raw := c.Get(ContextKeySession)
	if raw == nil {
		return nil, apperrors.LoginRequired(msgSessionRequired)
	}
	session, ok := raw.(*Session)
	if !ok || session == nil {
		return nil, apperrors.LoginRequired(msgSessionRequired)
	}
	return session, nil
}

// GetActor returns the request's actor when a session exists, else nil.
// Used by the error renderer to decide whether page chrome shows the
// signed-in state.
func GetActor(c echo.Context) *gallery.Actor {
	session, err := GetSession(c)
	if err != nil {
		return nil
	}
	return session.Actor
}

// GetAlbum returns the album loaded by the album guard.
func GetAlbum(c echo.Context) (*gallery.Album, error) {
	album, ok := c.Get(ContextKeyAlbum).(*gallery.Album)
	if !ok || album == nil {
		return nil, apperrors.AlbumNotFound()
	}
	return album, nil
}

// GetPhoto returns the photo loaded by the photo guard.
func GetPhoto(c echo.Context) (*gallery.Photo, error) {
	photo, ok := c.Get(ContextKeyPhoto).(*gallery.Photo)
	if !ok || photo == nil {
		return nil, apperrors.PhotoNotFound()
	}
	return photo, nil
}

// GetPref returns the UI preferences extracted by the pref middleware.
func GetPref(c echo.Context) gallery.Pref {
	pref, ok := c.Get(ContextKeyPref).(gallery.Pref)
	if !ok {
		return gallery.DefaultPref()
	}
	return pref
}

// IsFullPage reports whether the request is a top-level navigation rather
// than a partial update. This is the rendering-mode signal used by every
// guard and the error renderer.
func IsFullPage(c echo.Context) bool {
	return c.Request().Header.Get(HXRequestHeader) == ""
}
