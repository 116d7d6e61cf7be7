package http

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-gallery/internal/auth"
	"photo-gallery/internal/gallery"
	apperrors "photo-gallery/pkg/errors"
)

type stubPhotoService struct {
	listing  *gallery.Paginated[gallery.Photo]
	uploaded *gallery.Photo

	listErr   error
	uploadErr error
	deleteErr error

	listCalls   int
	uploadCalls int
	deleteCalls int

	uploadedContentType string
	uploadedBody        []byte
	deletedPhotoID      string
}

func (s *stubPhotoService) ListPhotos(_ context.Context, _, _, _ string, _ gallery.ListPhotosParams) (*gallery.Paginated[gallery.Photo], error) {
	s.listCalls++
	return s.listing, s.listErr
}

func (s *stubPhotoService) UploadPhoto(_ context.Context, _, _, _, contentType string, body []byte) (*gallery.Photo, error) {
	s.uploadCalls++
	s.uploadedContentType = contentType
	s.uploadedBody = body
	return s.uploaded, s.uploadErr
}

func (s *stubPhotoService) DeletePhoto(_ context.Context, _, _, _, photoID string) error {
	s.deleteCalls++
	s.deletedPhotoID = photoID
	return s.deleteErr
}

func testPhoto(id string) gallery.Photo {
	v := gallery.PhotoVersion{URL: "https://cdn/" + id + ".jpg", Dimension: gallery.ImgDimension{Width: 100, Height: 80}}
	return gallery.Photo{ID: id, Name: id + ".jpg", Orig: v, Preview: v, Thumb: v}
}

func newPhotoHandler(t *testing.T, storage *stubPhotoService) (*PhotoHandler, *auth.CSRFService) {
	t.Helper()
	cfg := testConfig()
	csrf := auth.NewCSRFService(cfg.JWTSecret)
	errors := NewErrorHandler(cfg, zerolog.Nop())
	return NewPhotoHandler(cfg, storage, csrf, errors, zerolog.Nop()), csrf
}

func TestPhotoGridRendersItemsAndSentinel(t *testing.T) {
	album := gallery.Album{ID: "album-1", Label: "Trip"}
	storage := &stubPhotoService{listing: &gallery.Paginated[gallery.Photo]{
		Meta: gallery.PageMeta{Page: 1, PerPage: 50, Total: 60, TotalPages: 2},
		Data: []gallery.Photo{testPhoto("photo-1"), testPhoto("photo-2")},
	}}
	h, _ := newPhotoHandler(t, storage)

	c, rec := newRenderedContext(t, http.MethodGet, "/albums/album-1/photo-grid", nil)
	withSession(c, editorActor())
	c.Set(auth.ContextKeyAlbum, &album)

	require.NoError(t, h.PhotoGrid(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "photo-1")
	assert.Contains(t, rec.Body.String(), "photo-2")
	assert.Contains(t, rec.Body.String(), "photo-grid?page=2")
}

func TestPhotoGridLastPageHasNoSentinel(t *testing.T) {
	album := gallery.Album{ID: "album-1"}
	storage := &stubPhotoService{listing: &gallery.Paginated[gallery.Photo]{
		Meta: gallery.PageMeta{Page: 2, PerPage: 50, Total: 60, TotalPages: 2},
		Data: []gallery.Photo{testPhoto("photo-3")},
	}}
	h, _ := newPhotoHandler(t, storage)

	c, rec := newRenderedContext(t, http.MethodGet, "/albums/album-1/photo-grid?page=2", nil)
	withSession(c, editorActor())
	c.Set(auth.ContextKeyAlbum, &album)

	require.NoError(t, h.PhotoGrid(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "grid-sentinel")
}

func TestUploadWithValidToken(t *testing.T) {
	album := gallery.Album{ID: "album-1"}
	uploaded := testPhoto("photo-9")
	storage := &stubPhotoService{uploaded: &uploaded}
	h, csrf := newPhotoHandler(t, storage)

	token, err := csrf.Issue(album.ID)
	require.NoError(t, err)

	payload := []byte("jpeg-bytes")
	c, rec := newRenderedContext(t, http.MethodPost, "/albums/album-1/upload?token="+url.QueryEscape(token), bytes.NewReader(payload))
	c.Request().Header.Set(echo.HeaderContentType, "image/jpeg")
	withSession(c, editorActor())
	c.Set(auth.ContextKeyAlbum, &album)

	require.NoError(t, h.Upload(c))

	assert.Equal(t, 1, storage.uploadCalls)
	assert.Equal(t, "image/jpeg", storage.uploadedContentType)
	assert.Equal(t, payload, storage.uploadedBody)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "photo-9")

	next := rec.Header().Get(NextTokenHeader)
	require.NotEmpty(t, next)
	assert.NoError(t, csrf.Verify(next, album.ID))
}

func TestUploadRejectsForeignAlbumToken(t *testing.T) {
	album := gallery.Album{ID: "album-1"}
	storage := &stubPhotoService{}
	h, csrf := newPhotoHandler(t, storage)

	token, err := csrf.Issue("album-2")
	require.NoError(t, err)

	c, rec := newRenderedContext(t, http.MethodPost, "/albums/album-1/upload?token="+url.QueryEscape(token), bytes.NewReader([]byte("jpeg-bytes")))
	c.Request().Header.Set(echo.HeaderContentType, "image/jpeg")
	withSession(c, editorActor())
	c.Set(auth.ContextKeyAlbum, &album)

	require.NoError(t, h.Upload(c))

	assert.Zero(t, storage.uploadCalls)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Stale form data")
	assert.Empty(t, rec.Header().Get(NextTokenHeader))
}

func TestUploadRequiresToken(t *testing.T) {
	album := gallery.Album{ID: "album-1"}
	storage := &stubPhotoService{}
	h, _ := newPhotoHandler(t, storage)

	c, rec := newRenderedContext(t, http.MethodPost, "/albums/album-1/upload", bytes.NewReader([]byte("jpeg-bytes")))
	c.Request().Header.Set(echo.HeaderContentType, "image/jpeg")
	withSession(c, editorActor())
	c.Set(auth.ContextKeyAlbum, &album)

	require.NoError(t, h.Upload(c))

	assert.Zero(t, storage.uploadCalls)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadEnforcesCreatePermission(t *testing.T) {
	album := gallery.Album{ID: "album-1"}
	storage := &stubPhotoService{}
	h, csrf := newPhotoHandler(t, storage)

	token, err := csrf.Issue(album.ID)
	require.NoError(t, err)

	viewer := &gallery.Actor{ID: "user-2", Permissions: []gallery.Permission{gallery.PermFilesView}}
	c, rec := newRenderedContext(t, http.MethodPost, "/albums/album-1/upload?token="+url.QueryEscape(token), bytes.NewReader([]byte("x")))
	c.Request().Header.Set(echo.HeaderContentType, "image/jpeg")
	withSession(c, viewer)
	c.Set(auth.ContextKeyAlbum, &album)

	require.NoError(t, h.Upload(c))

	assert.Zero(t, storage.uploadCalls)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You do not have permission to upload photos.")
}

func TestConfirmDeleteRendersScopedForm(t *testing.T) {
	album := gallery.Album{ID: "album-1"}
	photo := testPhoto("photo-1")
	h, csrf := newPhotoHandler(t, &stubPhotoService{})

	c, rec := newRenderedContext(t, http.MethodGet, "/albums/album-1/photos/photo-1/delete", nil)
	withSession(c, editorActor())
	c.Set(auth.ContextKeyAlbum, &album)
	c.Set(auth.ContextKeyPhoto, &photo)

	require.NoError(t, h.ConfirmDelete(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Delete this photo?")

	// The embedded token verifies for this photo and nothing else.
	body := rec.Body.String()
	start := strings.Index(body, `name="token" value="`)
	require.GreaterOrEqual(t, start, 0)
	rest := body[start+len(`name="token" value="`):]
	token := rest[:strings.Index(rest, `"`)]
	assert.NoError(t, csrf.Verify(token, photo.ID))
	assert.Error(t, csrf.Verify(token, album.ID))
}

func TestExecDeleteWithMatchingToken(t *testing.T) {
	album := gallery.Album{ID: "album-1"}
	photo := testPhoto("photo-1")
	storage := &stubPhotoService{}
	h, csrf := newPhotoHandler(t, storage)

	token, err := csrf.Issue(photo.ID)
	require.NoError(t, err)

	form := url.Values{"token": {token}}
	c, rec := newRenderedContext(t, http.MethodPost, "/albums/album-1/photos/photo-1/delete", formBody(form))
	withSession(c, editorActor())
	c.Set(auth.ContextKeyAlbum, &album)
	c.Set(auth.ContextKeyPhoto, &photo)

	require.NoError(t, h.ExecDelete(c))

	assert.Equal(t, 1, storage.deleteCalls)
	assert.Equal(t, "photo-1", storage.deletedPhotoID)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, PhotoDeletedEvent, rec.Header().Get("HX-Trigger"))
}

func TestExecDeleteWithAlbumScopedToken(t *testing.T) {
	album := gallery.Album{ID: "album-1"}
	photo := testPhoto("photo-1")
	storage := &stubPhotoService{}
	h, csrf := newPhotoHandler(t, storage)

	// The album's own token must not delete a photo inside it.
	token, err := csrf.Issue(album.ID)
	require.NoError(t, err)

	form := url.Values{"token": {token}}
	c, rec := newRenderedContext(t, http.MethodPost, "/albums/album-1/photos/photo-1/delete", formBody(form))
	withSession(c, editorActor())
	c.Set(auth.ContextKeyAlbum, &album)
	c.Set(auth.ContextKeyPhoto, &photo)

	require.NoError(t, h.ExecDelete(c))

	assert.Zero(t, storage.deleteCalls)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Stale form data")
	assert.Empty(t, rec.Header().Get("HX-Trigger"))
}

func TestExecDeleteUpstreamFailureKeepsForm(t *testing.T) {
	album := gallery.Album{ID: "album-1"}
	photo := testPhoto("photo-1")
	storage := &stubPhotoService{deleteErr: apperrors.Service("Unable to delete photo. Try again later.")}
	h, csrf := newPhotoHandler(t, storage)

	token, err := csrf.Issue(photo.ID)
	require.NoError(t, err)

	form := url.Values{"token": {token}}
	c, rec := newRenderedContext(t, http.MethodPost, "/albums/album-1/photos/photo-1/delete", formBody(form))
	withSession(c, editorActor())
	c.Set(auth.ContextKeyAlbum, &album)
	c.Set(auth.ContextKeyPhoto, &photo)

	require.NoError(t, h.ExecDelete(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unable to delete photo. Try again later.")
	assert.Empty(t, rec.Header().Get("HX-Trigger"))
}
