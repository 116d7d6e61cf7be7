package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"photo-gallery/internal/gallery"
	apperrors "photo-gallery/pkg/errors"
)

const (
	defaultAlbumsPerPage = 10
	defaultPhotosPerPage = 50
)

// Storage is the client for the upstream object/album service. Every call
// carries the actor's bearer token; the client itself never holds
// credentials or caches entities.
type Storage struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewStorage(baseURL string, timeout time.Duration, log zerolog.Logger) *Storage {
	return &Storage{
		baseURL: baseURL,
		http:    newHTTPClient(timeout),
		log:     log,
	}
}

func (c *Storage) dirsURL(bucketID string) string {
	return fmt.Sprintf("%s/v1/buckets/%s/dirs", c.baseURL, bucketID)
}

func (c *Storage) dirURL(bucketID, albumID string) string {
	return fmt.Sprintf("%s/v1/buckets/%s/dirs/%s", c.baseURL, bucketID, albumID)
}

func (c *Storage) filesURL(bucketID, albumID string) string {
	return fmt.Sprintf("%s/v1/buckets/%s/dirs/%s/files", c.baseURL, bucketID, albumID)
}

func (c *Storage) fileURL(bucketID, albumID, photoID string) string {
	return fmt.Sprintf("%s/v1/buckets/%s/dirs/%s/files/%s", c.baseURL, bucketID, albumID, photoID)
}

func (c *Storage) ListAlbums(ctx context.Context, token, bucketID string, params gallery.ListAlbumsParams) (*gallery.Paginated[gallery.Album], error) {
	page := params.Page
	if page == 0 {
		page = 1
	}
	perPage := params.PerPage
	if perPage == 0 {
		perPage = defaultAlbumsPerPage
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	if params.Keyword != "" {
		query.Set("keyword", params.Keyword)
	}

	req, err := newRequest(ctx, http.MethodGet, c.dirsURL(bucketID)+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Service("Unable to list albums. Try again later.")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var listing gallery.Paginated[gallery.Album]
		if err := decodeJSON(resp, &listing, "Unable to parse albums."); err != nil {
			c.log.Error().Err(err).Msg("failed to decode album listing")
			return nil, err
		}
		return &listing, nil
	case http.StatusUnauthorized:
		resp.Body.Close()
		return nil, apperrors.LoginRequired("Login first")
	case http.StatusForbidden:
		resp.Body.Close()
		return nil, apperrors.Forbidden("You have no permissions to view albums")
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, apperrors.AlbumNotFound()
	default:
		resp.Body.Close()
		return nil, apperrors.Service("Unable to list albums. Try again later.")
	}
}

func (c *Storage) CreateAlbum(ctx context.Context, token, bucketID string, album gallery.NewAlbum) (*gallery.Album, error) {
	body, err := json.Marshal(album)
	if err != nil {
		return nil, apperrors.Service("Unable to create album. Try again later.")
	}

	req, err := newRequest(ctx, http.MethodPost, c.dirsURL(bucketID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set(headerContentType, contentTypeJSON)
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Service("Unable to create album. Try again later.")
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		var created gallery.Album
		if err := decodeJSON(resp, &created, "Unable to parse album information."); err != nil {
			c.log.Error().Err(err).Msg("failed to decode created album")
			return nil, err
		}
		return &created, nil
	case http.StatusBadRequest:
		return nil, validationOrBadRequest(resp)
	case http.StatusUnauthorized:
		resp.Body.Close()
		return nil, apperrors.LoginRequired("Login first")
	case http.StatusForbidden:
		resp.Body.Close()
		return nil, apperrors.Forbidden("You have no permission to create new albums.")
	default:
		resp.Body.Close()
		return nil, apperrors.Service("Unable to create album. Try again later.")
	}
}

func (c *Storage) GetAlbum(ctx context.Context, token, bucketID, albumID string) (*gallery.Album, error) {
	req, err := newRequest(ctx, http.MethodGet, c.dirURL(bucketID, albumID), nil)
	if err != nil {
		return nil, err
	}
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Service("Unable to get album. Try again later.")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var album gallery.Album
		if err := decodeJSON(resp, &album, "Unable to parse album."); err != nil {
			c.log.Error().Err(err).Msg("failed to decode album")
			return nil, err
		}
		return &album, nil
	case http.StatusUnauthorized:
		resp.Body.Close()
		return nil, apperrors.LoginRequired("Login first")
	case http.StatusForbidden:
		resp.Body.Close()
		return nil, apperrors.Forbidden("You have no permission to read this album.")
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, apperrors.AlbumNotFound()
	default:
		resp.Body.Close()
		return nil, apperrors.Service("Unable to get album. Try again later.")
	}
}

func (c *Storage) UpdateAlbum(ctx context.Context, token, bucketID, albumID string, update gallery.UpdateAlbum) (*gallery.Album, error) {
	body, err := json.Marshal(update)
	if err != nil {
		return nil, apperrors.Service("Unable to update album. Try again later.")
	}

	req, err := newRequest(ctx, http.MethodPatch, c.dirURL(bucketID, albumID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set(headerContentType, contentTypeJSON)
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Service("Unable to update album. Try again later.")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var album gallery.Album
		if err := decodeJSON(resp, &album, "Unable to parse album information."); err != nil {
			c.log.Error().Err(err).Msg("failed to decode updated album")
			return nil, err
		}
		return &album, nil
	case http.StatusBadRequest:
		return nil, validationOrBadRequest(resp)
	case http.StatusUnauthorized:
		resp.Body.Close()
		return nil, apperrors.LoginRequired("Login first")
	case http.StatusForbidden:
		resp.Body.Close()
		return nil, apperrors.Forbidden("You have no permission to update this album.")
	default:
		resp.Body.Close()
		return nil, apperrors.Service("Unable to update album. Try again later.")
	}
}

func (c *Storage) DeleteAlbum(ctx context.Context, token, bucketID, albumID string) error {
	req, err := newRequest(ctx, http.MethodDelete, c.dirURL(bucketID, albumID), nil)
	if err != nil {
		return err
	}
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Service("Unable to delete album. Try again later.")
	}

	switch resp.StatusCode {
	case http.StatusNoContent:
		resp.Body.Close()
		return nil
	case http.StatusBadRequest:
		return validationOrBadRequest(resp)
	case http.StatusUnauthorized:
		resp.Body.Close()
		return apperrors.LoginRequired("Login first")
	case http.StatusForbidden:
		resp.Body.Close()
		return apperrors.Forbidden("You have no permission to delete this album.")
	default:
		resp.Body.Close()
		return apperrors.Service("Unable to delete album. Try again later.")
	}
}

// ListPhotos fetches one page of an album's files and projects it into
// photos. Entries lacking a complete rendition set are dropped from the
// projection without failing the listing.
func (c *Storage) ListPhotos(ctx context.Context, token, bucketID, albumID string, params gallery.ListPhotosParams) (*gallery.Paginated[gallery.Photo], error) {
	page := params.Page
	if page == 0 {
		page = 1
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(defaultPhotosPerPage))

	req, err := newRequest(ctx, http.MethodGet, c.filesURL(bucketID, albumID)+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Service("Unable to list photos. Try again later.")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var listing gallery.Paginated[gallery.FileObject]
		if err := decodeJSON(resp, &listing, "Unable to parse photos."); err != nil {
			c.log.Error().Err(err).Msg("failed to decode photo listing")
			return nil, err
		}
		return &gallery.Paginated[gallery.Photo]{
			Meta: listing.Meta,
			Data: gallery.ProjectPhotos(listing.Data),
		}, nil
	case http.StatusUnauthorized:
		resp.Body.Close()
		return nil, apperrors.LoginRequired("Login first")
	case http.StatusForbidden:
		resp.Body.Close()
		return nil, apperrors.Forbidden("You have no permissions to view photos")
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, apperrors.AlbumNotFound()
	default:
		resp.Body.Close()
		return nil, apperrors.Service("Unable to list photos. Try again later.")
	}
}

// UploadPhoto forwards a raw request body upstream, preserving the
// caller's content type.
func (c *Storage) UploadPhoto(ctx context.Context, token, bucketID, albumID, contentType string, body []byte) (*gallery.Photo, error) {
	if contentType == "" {
		return nil, apperrors.BadRequest("Content-Type header is required.")
	}

	req, err := newRequest(ctx, http.MethodPost, c.filesURL(bucketID, albumID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set(headerContentType, contentType)
	req.Header.Set(headerContentLength, strconv.Itoa(len(body)))
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Service("Unable to upload photo. Try again later.")
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		var file gallery.FileObject
		if err := decodeJSON(resp, &file, "Unable to parse photo information."); err != nil {
			c.log.Error().Err(err).Msg("failed to decode uploaded file")
			return nil, err
		}
		photo, err := gallery.PhotoFromFile(file)
		if err != nil {
			return nil, apperrors.Service(err.Error())
		}
		return &photo, nil
	case http.StatusBadRequest:
		return nil, validationOrBadRequest(resp)
	case http.StatusUnauthorized:
		resp.Body.Close()
		return nil, apperrors.LoginRequired("Login first")
	case http.StatusForbidden:
		resp.Body.Close()
		return nil, apperrors.Forbidden("You have no permission to upload photos.")
	default:
		resp.Body.Close()
		return nil, apperrors.Service("Unable to upload photo. Try again later.")
	}
}

func (c *Storage) GetPhoto(ctx context.Context, token, bucketID, albumID, photoID string) (*gallery.Photo, error) {
	req, err := newRequest(ctx, http.MethodGet, c.fileURL(bucketID, albumID, photoID), nil)
	if err != nil {
		return nil, err
	}
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Service("Unable to get photo. Try again later.")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var file gallery.FileObject
		if err := decodeJSON(resp, &file, "Unable to parse photo."); err != nil {
			c.log.Error().Err(err).Msg("failed to decode photo")
			return nil, err
		}
		photo, err := gallery.PhotoFromFile(file)
		if err != nil {
			return nil, apperrors.PhotoNotFound()
		}
		return &photo, nil
	case http.StatusUnauthorized:
		resp.Body.Close()
		return nil, apperrors.LoginRequired("Login first")
	case http.StatusForbidden:
		resp.Body.Close()
		return nil, apperrors.Forbidden("You have no permission to read this photo.")
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, apperrors.PhotoNotFound()
	default:
		resp.Body.Close()
		return nil, apperrors.Service("Unable to get photo. Try again later.")
	}
}

func (c *Storage) DeletePhoto(ctx context.Context, token, bucketID, albumID, photoID string) error {
	req, err := newRequest(ctx, http.MethodDelete, c.fileURL(bucketID, albumID, photoID), nil)
	if err != nil {
		return err
	}
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Service("Unable to delete photo. Try again later.")
	}

	switch resp.StatusCode {
	case http.StatusNoContent:
		resp.Body.Close()
		return nil
	case http.StatusBadRequest:
		return validationOrBadRequest(resp)
	case http.StatusUnauthorized:
		resp.Body.Close()
		return apperrors.LoginRequired("Login first")
	case http.StatusForbidden:
		resp.Body.Close()
		return apperrors.Forbidden("You have no permission to delete this photo.")
	default:
		resp.Body.Close()
		return apperrors.Service("Unable to delete photo. Try again later.")
	}
}
