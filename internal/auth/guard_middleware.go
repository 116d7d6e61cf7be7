package auth

import (
	"context"

	"github.com/labstack/echo/v4"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/rbac"
	apperrors "photo-gallery/pkg/errors"
)

// StorageClient is the subset of the storage service the guards need.
type StorageClient interface {
	GetAlbum(ctx context.Context, token, bucketID, albumID string) (*gallery.Album, error)
	GetPhoto(ctx context.Context, token, bucketID, albumID, photoID string) (*gallery.Photo, error)
}

// GuardMiddleware authorizes and loads resource entities before handlers
// run. Guards compose top-down: the listing guard covers every album
// route, the album guard covers everything under one album, and the photo
// guard assumes the album guard already ran.
type GuardMiddleware struct {
	storage  StorageClient
	errors   ErrorRenderer
	bucketID string
}

func NewGuardMiddleware(storage StorageClient, errors ErrorRenderer, bucketID string) *GuardMiddleware {
	return &GuardMiddleware{
		storage:  storage,
		errors:   errors,
		bucketID: bucketID,
	}
}

// AlbumListing gates all album routes on album read access. It loads
// nothing; it only keeps actors without any album visibility out of the
// whole route class.
func (g *GuardMiddleware) AlbumListing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			fullPage := IsFullPage(c)
			session, err := GetSession(c)
			if err != nil {
				return g.errors.RenderError(c, err, fullPage)
			}

			if err := rbac.Enforce(session.Actor, rbac.ResourceAlbum, rbac.ActionRead); err != nil {
				return g.errors.RenderError(c, err, fullPage)
			}
			return next(c)
		}
	}
}

// Album checks photo read access for the album's contents, fetches the
// album by its path id and attaches it to the request. Runs after
// AlbumListing on nested routes, so album-class failures surface first.
func (g *GuardMiddleware) Album() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			fullPage := IsFullPage(c)
			session, err := GetSession(c)
			if err != nil {
				return g.errors.RenderError(c, err, fullPage)
			}

			if err := rbac.Enforce(session.Actor, rbac.ResourcePhoto, rbac.ActionRead); err != nil {
				return g.errors.RenderError(c, err, fullPage)
			}

			albumID := c.Param(paramAlbumID)
			if albumID == "" {
				return g.errors.RenderError(c, apperrors.BadRequest(msgAlbumIDRequired), fullPage)
			}

			album, err := g.storage.GetAlbum(c.Request().Context(), session.Token, g.bucketID, albumID)
			if err != nil {
				return g.errors.RenderError(c, err, fullPage)
			}

			c.Set(ContextKeyAlbum, album)
			return next(c)
		}
	}
}

// Photo fetches the photo by its path id and attaches it to the request.
// It assumes the album guard already loaded the parent album.
func (g *GuardMiddleware) Photo() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			fullPage := IsFullPage(c)
			session, err := GetSession(c)
			if err != nil {
				return g.errors.RenderError(c, err, fullPage)
			}

			if err := rbac.Enforce(session.Actor, rbac.ResourcePhoto, rbac.ActionRead); err != nil {
				return g.errors.RenderError(c, err, fullPage)
			}

			album, err := GetAlbum(c)
			if err != nil {
				return g.errors.RenderError(c, err, fullPage)
			}

			photoID := c.Param(paramPhotoID)
			if photoID == "" {
				return g.errors.RenderError(c, apperrors.BadRequest(msgPhotoIDRequired), fullPage)
			}

			photo, err := g.storage.GetPhoto(c.Request().Context(), session.Token, g.bucketID, album.ID, photoID)
			if err != nil {
				return g.errors.RenderError(c, err, fullPage)
			}

			c.Set(ContextKeyPhoto, photo)
			return next(c)
		}
	}
}
