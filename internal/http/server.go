package http

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"photo-gallery/internal/auth"
	"photo-gallery/internal/config"
	custommw "photo-gallery/internal/http/middleware"
	"photo-gallery/internal/upstream"
)

// Upload bodies are raw file payloads; anything larger is rejected before
// the handler runs.
const uploadBodyLimit = "8M"

// Server composes the full request pipeline: request id and preference
// middleware on every route, the session authenticator in front of all
// private routes, and the resource guards nested per route class.
type Server struct {
	cfg  *config.Config
	echo *echo.Echo
	log  zerolog.Logger
}

func NewServer(
	cfg *config.Config,
	identity *upstream.Identity,
	storage *upstream.Storage,
	captcha *upstream.Captcha,
	log zerolog.Logger,
) (*Server, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	errors := NewErrorHandler(cfg, log)
	csrf := auth.NewCSRFService(cfg.JWTSecret)

	sessions := auth.NewMiddleware(identity, errors, log)
	guards := auth.NewGuardMiddleware(storage, errors, cfg.BucketID)

	login := NewLoginHandler(cfg, identity, captcha, log)
	albums := NewAlbumHandler(cfg, storage, csrf, errors, log)
	photos := NewPhotoHandler(cfg, storage, csrf, errors, log)
	prefs := NewPrefHandler(cfg)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = errors.HTTPErrorHandler

	e.Use(echomw.Recover())
	e.Use(custommw.RequestID())
	e.Use(custommw.Pref())

	e.GET(auth.LoginPath, login.LoginPage)
	e.POST(auth.LoginPath, login.Login)
	e.POST("/logout", login.Logout)

	e.POST("/prefs/theme/light", prefs.SetLightTheme)
	e.POST("/prefs/theme/dark", prefs.SetDarkTheme)

	private := e.Group("", sessions.RequireSession())
	private.GET("/", albums.IndexPage)

	albumRoutes := private.Group("/albums", guards.AlbumListing())
	albumRoutes.GET("/listing", albums.Listing)
	albumRoutes.GET("/new", albums.NewAlbumPage)
	albumRoutes.POST("/new", albums.CreateAlbum)

	albumRoute := albumRoutes.Group("/:album_id", guards.Album())
	albumRoute.GET("", photos.PhotosPage)
	albumRoute.GET("/edit-controls", albums.EditControls)
	albumRoute.GET("/edit", albums.EditForm)
	albumRoute.POST("/edit", albums.UpdateAlbum)
	albumRoute.GET("/delete", albums.DeleteAlbum)
	albumRoute.POST("/delete", albums.DeleteAlbum)
	albumRoute.GET("/photo-grid", photos.PhotoGrid)
	albumRoute.GET("/upload", photos.UploadPage)
	albumRoute.POST("/upload", photos.Upload, echomw.BodyLimit(uploadBodyLimit))

	photoRoute := albumRoute.Group("/photos/:photo_id", guards.Photo())
	photoRoute.GET("/delete-controls", photos.PreDeleteControls)
	photoRoute.GET("/delete", photos.ConfirmDelete)
	photoRoute.POST("/delete", photos.ExecDelete)

	e.Static("/assets", filepath.Join(cfg.FrontendDir, "assets"))
	e.File("/favicon.ico", filepath.Join(cfg.FrontendDir, "favicon.ico"))
	e.File("/manifest.json", filepath.Join(cfg.FrontendDir, "manifest.json"))

	return &Server{cfg: cfg, echo: e, log: log}, nil
}

// Start blocks serving requests until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.log.Info().Str("addr", addr).Msg("server listening")

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
