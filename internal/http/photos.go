package http

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"photo-gallery/internal/auth"
	"photo-gallery/internal/config"
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/rbac"
	apperrors "photo-gallery/pkg/errors"
)

// NextTokenHeader carries the token for the next upload in a batch, so
// the client never reuses a consumed one.
const NextTokenHeader = "X-Next-Token"

// PhotoDeletedEvent is the client-side event fired after a successful
// deletion so the grid removes the item.
const PhotoDeletedEvent = "PhotoDeletedEvent"

// PhotoService is the slice of the storage client the photo handlers use.
type PhotoService interface {
	ListPhotos(ctx context.Context, token, bucketID, albumID string, params gallery.ListPhotosParams) (*gallery.Paginated[gallery.Photo], error)
	UploadPhoto(ctx context.Context, token, bucketID, albumID, contentType string, body []byte) (*gallery.Photo, error)
	DeletePhoto(ctx context.Context, token, bucketID, albumID, photoID string) error
}

type PhotoHandler struct {
	cfg     *config.Config
	storage PhotoService
	csrf    *auth.CSRFService
	errors  *ErrorHandler
	log     zerolog.Logger
}

func NewPhotoHandler(cfg *config.Config, storage PhotoService, csrf *auth.CSRFService, errors *ErrorHandler, log zerolog.Logger) *PhotoHandler {
	return &PhotoHandler{
		cfg:     cfg,
		storage: storage,
		csrf:    csrf,
		errors:  errors,
		log:     log,
	}
}

type photosPageData struct {
	T         PageData
	Album     gallery.Album
	CanUpload bool
	CanEdit   bool
	CanDelete bool
}

type photoGridData struct {
	Album    gallery.Album
	Items    []photoGridItemData
	NextPage int
}

type photoGridItemData struct {
	Album gallery.Album
	Photo gallery.Photo
}

type uploadPageData struct {
	T     PageData
	Album gallery.Album
	Token string
}

type preDeletePhotoData struct {
	Album gallery.Album
	Photo gallery.Photo
}

type confirmDeletePhotoData struct {
	Album        gallery.Album
	Photo        gallery.Photo
	Payload      gallery.DeletePhotoForm
	ErrorMessage string
}

// PhotosPage renders the album's photo page shell; the grid loads as a
// fragment and paginates itself.
func (h *PhotoHandler) PhotosPage(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderError(c, err, true)
	}
	album, err := auth.GetAlbum(c)
	if err != nil {
		return h.errors.RenderError(c, err, true)
	}

	t := NewPageData(h.cfg, session.Actor, auth.GetPref(c))
	t.Title = "Photos - " + album.Label
	t.Styles = []string{h.cfg.Assets.GalleryCSS}
	t.Scripts = []string{h.cfg.Assets.GalleryJS}

	setNoStore(c)
	return c.Render(http.StatusOK, "pages/photos", photosPageData{
		T:         t,
		Album:     *album,
		CanUpload: rbac.IsAuthorized(session.Actor, rbac.ResourcePhoto, rbac.ActionCreate),
		CanEdit:   rbac.IsAuthorized(session.Actor, rbac.ResourceAlbum, rbac.ActionUpdate),
		CanDelete: rbac.IsAuthorized(session.Actor, rbac.ResourceAlbum, rbac.ActionDelete),
	})
}

// PhotoGrid renders one page of the photo grid. The last item of a page
// carries the trigger that loads the next one.
func (h *PhotoHandler) PhotoGrid(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}
	album, err := auth.GetAlbum(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}

	var params gallery.ListPhotosParams
	if err := c.Bind(&params); err != nil {
		params = gallery.ListPhotosParams{}
	}

	listing, err := h.storage.ListPhotos(c.Request().Context(), session.Token, h.cfg.BucketID, album.ID, params)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}

	data := photoGridData{
		Album: *album,
		Items: make([]photoGridItemData, 0, len(listing.Data)),
	}
	for _, photo := range listing.Data {
		data.Items = append(data.Items, photoGridItemData{Album: *album, Photo: photo})
	}
	if listing.Meta.TotalPages > listing.Meta.Page {
		data.NextPage = listing.Meta.Page + 1
	}
	return c.Render(http.StatusOK, "widgets/photo_grid", data)
}

// UploadPage renders the uploader with a token scoped to this album. The
// client spends one token per file and takes the replacement from the
// response header.
func (h *PhotoHandler) UploadPage(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderError(c, err, true)
	}
	album, err := auth.GetAlbum(c)
	if err != nil {
		return h.errors.RenderError(c, err, true)
	}

	if err := rbac.Enforce(session.Actor, rbac.ResourcePhoto, rbac.ActionCreate); err != nil {
		return h.errors.RenderError(c, err, true)
	}

	token, err := h.csrf.Issue(album.ID)
	if err != nil {
		return h.errors.RenderError(c, apperrors.Internal("Failed to initialize upload page."), true)
	}

	t := NewPageData(h.cfg, session.Actor, auth.GetPref(c))
	t.Title = "Photos - " + album.Label + " - Upload Photos"
	t.Scripts = []string{h.cfg.Assets.UploadJS}

	return c.Render(http.StatusOK, "pages/upload", uploadPageData{
		T:     t,
		Album: *album,
		Token: token,
	})
}

// Upload accepts one raw photo body per request. The scoped token rides
// the query string since the body is the file itself; a fresh token for
// the next upload is returned in a header alongside the rendered grid
// item.
func (h *PhotoHandler) Upload(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderErrorMessage(c, err)
	}
	album, err := auth.GetAlbum(c)
	if err != nil {
		return h.errors.RenderErrorMessage(c, err)
	}

	if err := rbac.Enforce(session.Actor, rbac.ResourcePhoto, rbac.ActionCreate); err != nil {
		return h.errors.RenderErrorMessage(c, err)
	}

	token := c.QueryParam("token")
	if token == "" {
		return h.errors.RenderErrorMessage(c, apperrors.StaleToken())
	}
	if err := h.csrf.Verify(token, album.ID); err != nil {
		return h.errors.RenderErrorMessage(c, err)
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return h.errors.RenderErrorMessage(c, apperrors.BadRequest("Unable to read uploaded file."))
	}

	photo, err := h.storage.UploadPhoto(
		c.Request().Context(),
		session.Token,
		h.cfg.BucketID,
		album.ID,
		c.Request().Header.Get(echo.HeaderContentType),
		body,
	)
	if err != nil {
		return h.errors.RenderErrorMessage(c, err)
	}

	nextToken, err := h.csrf.Issue(album.ID)
	if err != nil {
		return h.errors.RenderErrorMessage(c, apperrors.Internal("Failed to issue upload token."))
	}

	h.log.Info().
		Str("album_id", album.ID).
		Str("photo_id", photo.ID).
		Int("size", len(body)).
		Msg("photo uploaded")

	c.Response().Header().Set(NextTokenHeader, nextToken)
	return c.Render(http.StatusCreated, "widgets/photo_grid_item", photoGridItemData{
		Album: *album,
		Photo: *photo,
	})
}

// PreDeleteControls renders the delete button overlay for one photo.
func (h *PhotoHandler) PreDeleteControls(c echo.Context) error {
	album, err := auth.GetAlbum(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}
	photo, err := auth.GetPhoto(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}

	return c.Render(http.StatusOK, "widgets/pre_delete_photo_form", preDeletePhotoData{
		Album: *album,
		Photo: *photo,
	})
}

// ConfirmDelete renders the confirmation form with a token scoped to
// this photo.
func (h *PhotoHandler) ConfirmDelete(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}
	album, err := auth.GetAlbum(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}
	photo, err := auth.GetPhoto(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}

	if err := rbac.Enforce(session.Actor, rbac.ResourcePhoto, rbac.ActionDelete); err != nil {
		return h.errors.RenderError(c, err, false)
	}

	token, err := h.csrf.Issue(photo.ID)
	if err != nil {
		return h.errors.RenderError(c, apperrors.Internal("Failed to initialize delete photo form."), true)
	}

	return c.Render(http.StatusOK, "widgets/confirm_delete_photo_form", confirmDeletePhotoData{
		Album:   *album,
		Photo:   *photo,
		Payload: gallery.DeletePhotoForm{Token: token},
	})
}

// ExecDelete verifies the token against this photo's id, deletes it
// upstream and fires the removal event. Failures re-render the
// confirmation form with a fresh token.
func (h *PhotoHandler) ExecDelete(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}
	album, err := auth.GetAlbum(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}
	photo, err := auth.GetPhoto(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}

	if err := rbac.Enforce(session.Actor, rbac.ResourcePhoto, rbac.ActionDelete); err != nil {
		return h.errors.RenderError(c, err, false)
	}

	nextToken, err := h.csrf.Issue(photo.ID)
	if err != nil {
		return h.errors.RenderError(c, apperrors.Internal("Failed to initialize delete photo form."), true)
	}

	data := confirmDeletePhotoData{
		Album:   *album,
		Photo:   *photo,
		Payload: gallery.DeletePhotoForm{Token: nextToken},
	}

	var form gallery.DeletePhotoForm
	if err := c.Bind(&form); err != nil {
		data.ErrorMessage = "Invalid form data. Refresh the page and try again."
		return c.Render(http.StatusBadRequest, "widgets/confirm_delete_photo_form", data)
	}

	if err := h.csrf.Verify(form.Token, photo.ID); err != nil {
		info := NormalizeError(err)
		data.ErrorMessage = info.Message
		return c.Render(info.StatusCode, "widgets/confirm_delete_photo_form", data)
	}

	if err := h.storage.DeletePhoto(c.Request().Context(), session.Token, h.cfg.BucketID, album.ID, photo.ID); err != nil {
		info := NormalizeError(err)
		data.ErrorMessage = info.Message
		return c.Render(info.StatusCode, "widgets/confirm_delete_photo_form", data)
	}

	h.log.Info().
		Str("album_id", album.ID).
		Str("photo_id", photo.ID).
		Msg("photo deleted")

	c.Response().Header().Set("HX-Trigger", PhotoDeletedEvent)
	return c.NoContent(http.StatusNoContent)
}
