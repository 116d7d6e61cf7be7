package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"photo-gallery/internal/auth"
	"photo-gallery/internal/config"
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/rbac"
	apperrors "photo-gallery/pkg/errors"
)

// SubjectNewAlbum is the literal action tag bound to album-creation
// tokens. Mutations on existing resources use the resource id instead.
const SubjectNewAlbum = "new_album"

// AlbumService is the slice of the storage client the album handlers use.
type AlbumService interface {
	ListAlbums(ctx context.Context, token, bucketID string, params gallery.ListAlbumsParams) (*gallery.Paginated[gallery.Album], error)
	CreateAlbum(ctx context.Context, token, bucketID string, album gallery.NewAlbum) (*gallery.Album, error)
	UpdateAlbum(ctx context.Context, token, bucketID, albumID string, update gallery.UpdateAlbum) (*gallery.Album, error)
	DeleteAlbum(ctx context.Context, token, bucketID, albumID string) error
}

type AlbumHandler struct {
	cfg     *config.Config
	storage AlbumService
	csrf    *auth.CSRFService
	errors  *ErrorHandler
	log     zerolog.Logger
}

func NewAlbumHandler(cfg *config.Config, storage AlbumService, csrf *auth.CSRFService, errors *ErrorHandler, log zerolog.Logger) *AlbumHandler {
	return &AlbumHandler{
		cfg:     cfg,
		storage: storage,
		csrf:    csrf,
		errors:  errors,
		log:     log,
	}
}

type indexPageData struct {
	T           PageData
	QueryParams string
}

type albumListingData struct {
	ErrorMessage string
	Albums       []gallery.Album
	Pagination   *gallery.PaginationLinks
	CanCreate    bool
}

type newAlbumPageData struct {
	T            PageData
	Action       string
	Payload      gallery.NewAlbumForm
	ErrorMessage string
}

type albumFormData struct {
	Action       string
	Payload      gallery.NewAlbumForm
	ErrorMessage string
}

type editAlbumFormData struct {
	Album        gallery.Album
	Payload      gallery.UpdateAlbumForm
	ErrorMessage string
	Updated      bool
}

type editAlbumControlsData struct {
	Album     gallery.Album
	Updated   bool
	CanEdit   bool
	CanDelete bool
}

type deleteAlbumFormData struct {
	Album        gallery.Album
	Payload      gallery.DeleteAlbumForm
	ErrorMessage string
}

// IndexPage renders the home page shell; the album listing itself loads
// as a fragment.
func (h *AlbumHandler) IndexPage(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderError(c, err, true)
	}

	if err := rbac.Enforce(session.Actor, rbac.ResourceAlbum, rbac.ActionRead); err != nil {
		return h.errors.RenderError(c, err, true)
	}

	t := NewPageData(h.cfg, session.Actor, auth.GetPref(c))
	t.Title = "Home"

	var params gallery.ListAlbumsParams
	_ = c.Bind(&params)

	setNoStore(c)
	return c.Render(http.StatusOK, "pages/index", indexPageData{
		T:           t,
		QueryParams: params.QueryString(),
	})
}

// Listing renders the paginated album listing fragment.
func (h *AlbumHandler) Listing(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderError(c, err, auth.IsFullPage(c))
	}

	data := albumListingData{
		CanCreate: rbac.IsAuthorized(session.Actor, rbac.ResourceAlbum, rbac.ActionCreate),
	}

	var params gallery.ListAlbumsParams
	if err := c.Bind(&params); err != nil {
		params = gallery.ListAlbumsParams{}
	}

	listing, err := h.storage.ListAlbums(c.Request().Context(), session.Token, h.cfg.BucketID, params)
	if err != nil {
		info := NormalizeError(err)
		data.ErrorMessage = info.Message
		return c.Render(info.StatusCode, "widgets/albums", data)
	}

	extraQuery := ""
	if params.Keyword != "" {
		extraQuery = "&keyword=" + url.QueryEscape(params.Keyword)
	}

	data.Albums = listing.Data
	links := gallery.NewPaginationLinks(listing.Meta, "/albums/listing", extraQuery)
	data.Pagination = &links
	return c.Render(http.StatusOK, "widgets/albums", data)
}

// NewAlbumPage renders the creation form with a token scoped to the
// new-album action.
func (h *AlbumHandler) NewAlbumPage(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderError(c, err, true)
	}

	if err := rbac.Enforce(session.Actor, rbac.ResourceAlbum, rbac.ActionCreate); err != nil {
		return h.errors.RenderError(c, err, true)
	}

	token, err := h.csrf.Issue(SubjectNewAlbum)
	if err != nil {
		return h.errors.RenderError(c, apperrors.Internal("Failed to initialize new album form."), true)
	}

	t := NewPageData(h.cfg, session.Actor, auth.GetPref(c))
	t.Title = "Create New Album"

	return c.Render(http.StatusOK, "pages/new_album", newAlbumPageData{
		T:       t,
		Action:  "/albums/new",
		Payload: gallery.NewAlbumForm{Token: token},
	})
}

// CreateAlbum verifies the scoped token against the new-album tag before
// calling upstream, then redirects into the created album.
func (h *AlbumHandler) CreateAlbum(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}

	if err := rbac.Enforce(session.Actor, rbac.ResourceAlbum, rbac.ActionCreate); err != nil {
		return h.errors.RenderError(c, err, false)
	}

	nextToken, err := h.csrf.Issue(SubjectNewAlbum)
	if err != nil {
		return h.errors.RenderError(c, apperrors.Internal("Failed to initialize new album form."), true)
	}

	data := albumFormData{
		Action:  "/albums/new",
		Payload: gallery.NewAlbumForm{Token: nextToken},
	}

	var form gallery.NewAlbumForm
	if err := c.Bind(&form); err != nil {
		data.ErrorMessage = "Invalid form data. Refresh the page and try again."
		return c.Render(http.StatusBadRequest, "widgets/new_album_form", data)
	}
	data.Payload.Name = form.Name
	data.Payload.Label = form.Label

	if err := h.csrf.Verify(form.Token, SubjectNewAlbum); err != nil {
		info := NormalizeError(err)
		data.ErrorMessage = info.Message
		return c.Render(info.StatusCode, "widgets/new_album_form", data)
	}

	album, err := h.storage.CreateAlbum(c.Request().Context(), session.Token, h.cfg.BucketID, gallery.NewAlbum{
		Name:  form.Name,
		Label: form.Label,
	})
	if err != nil {
		info := NormalizeError(err)
		data.ErrorMessage = info.Message
		return c.Render(info.StatusCode, "widgets/new_album_form", data)
	}

	c.Response().Header().Set("HX-Redirect", "/albums/"+album.ID)
	return c.NoContent(http.StatusOK)
}

// EditControls re-renders the edit and delete album controls.
func (h *AlbumHandler) EditControls(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}
	album, err := auth.GetAlbum(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}

	return c.Render(http.StatusOK, "widgets/edit_album_controls", editAlbumControlsData{
		Album:     *album,
		CanEdit:   rbac.IsAuthorized(session.Actor, rbac.ResourceAlbum, rbac.ActionUpdate),
		CanDelete: rbac.IsAuthorized(session.Actor, rbac.ResourceAlbum, rbac.ActionDelete),
	})
}

// EditForm renders the label edit form with a token scoped to this album.
func (h *AlbumHandler) EditForm(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}
	album, err := auth.GetAlbum(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}

	if err := rbac.Enforce(session.Actor, rbac.ResourceAlbum, rbac.ActionUpdate); err != nil {
		return h.errors.RenderError(c, err, false)
	}

	token, err := h.csrf.Issue(album.ID)
	if err != nil {
		return h.errors.RenderError(c, apperrors.Internal("Failed to initialize edit album form."), true)
	}

	return c.Render(http.StatusOK, "widgets/edit_album_form", editAlbumFormData{
		Album:   *album,
		Payload: gallery.UpdateAlbumForm{Label: album.Label, Token: token},
	})
}

// UpdateAlbum verifies the token against this album's id, updates the
// label upstream and re-renders the controls on success.
func (h *AlbumHandler) UpdateAlbum(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}
	album, err := auth.GetAlbum(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}

	if err := rbac.Enforce(session.Actor, rbac.ResourceAlbum, rbac.ActionUpdate); err != nil {
		return h.errors.RenderError(c, err, false)
	}

	nextToken, err := h.csrf.Issue(album.ID)
	if err != nil {
		return h.errors.RenderError(c, apperrors.Internal("Failed to initialize edit album form."), true)
	}

	data := editAlbumFormData{
		Album:   *album,
		Payload: gallery.UpdateAlbumForm{Token: nextToken},
	}

	var form gallery.UpdateAlbumForm
	if err := c.Bind(&form); err != nil {
		data.ErrorMessage = "Invalid form data."
		return c.Render(http.StatusBadRequest, "widgets/edit_album_form", data)
	}
	data.Payload.Label = form.Label

	if err := h.csrf.Verify(form.Token, album.ID); err != nil {
		info := NormalizeError(err)
		data.ErrorMessage = info.Message
		return c.Render(info.StatusCode, "widgets/edit_album_form", data)
	}

	updated, err := h.storage.UpdateAlbum(c.Request().Context(), session.Token, h.cfg.BucketID, album.ID, gallery.UpdateAlbum{
		Label: form.Label,
	})
	if err != nil {
		info := NormalizeError(err)
		data.ErrorMessage = info.Message
		return c.Render(info.StatusCode, "widgets/edit_album_form", data)
	}

	return c.Render(http.StatusOK, "widgets/edit_album_controls", editAlbumControlsData{
		Album:     *updated,
		Updated:   true,
		CanEdit:   rbac.IsAuthorized(session.Actor, rbac.ResourceAlbum, rbac.ActionUpdate),
		CanDelete: rbac.IsAuthorized(session.Actor, rbac.ResourceAlbum, rbac.ActionDelete),
	})
}

// DeleteAlbum renders the confirmation form on GET and executes the
// deletion on POST. Both paths mint a fresh token; the POST path verifies
// the submitted token against this album's id before any upstream call.
func (h *AlbumHandler) DeleteAlbum(c echo.Context) error {
	session, err := auth.GetSession(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}
	album, err := auth.GetAlbum(c)
	if err != nil {
		return h.errors.RenderError(c, err, false)
	}

	if err := rbac.Enforce(session.Actor, rbac.ResourceAlbum, rbac.ActionDelete); err != nil {
		return h.errors.RenderError(c, err, false)
	}

	token, err := h.csrf.Issue(album.ID)
	if err != nil {
		return h.errors.RenderError(c, apperrors.Internal("Failed to initialize delete album form."), true)
	}

	data := deleteAlbumFormData{
		Album:   *album,
		Payload: gallery.DeleteAlbumForm{Token: token},
	}

	if c.Request().Method != http.MethodPost {
		return c.Render(http.StatusOK, "widgets/delete_album_form", data)
	}

	var form gallery.DeleteAlbumForm
	if err := c.Bind(&form); err != nil {
		data.ErrorMessage = "Invalid form data. Refresh the page and try again."
		return c.Render(http.StatusBadRequest, "widgets/delete_album_form", data)
	}

	if err := h.csrf.Verify(form.Token, album.ID); err != nil {
		info := NormalizeError(err)
		data.ErrorMessage = info.Message
		return c.Render(info.StatusCode, "widgets/delete_album_form", data)
	}

	if err := h.storage.DeleteAlbum(c.Request().Context(), session.Token, h.cfg.BucketID, album.ID); err != nil {
		info := NormalizeError(err)
		data.ErrorMessage = info.Message
		return c.Render(info.StatusCode, "widgets/delete_album_form", data)
	}

	h.log.Info().Str("album_id", album.ID).Msg("album deleted")

	data.Payload.Token = ""
	c.Response().Header().Set("HX-Redirect", "/")
	return c.Render(http.StatusOK, "widgets/delete_album_form", data)
}
