package http

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"photo-gallery/internal/config"
	"photo-gallery/internal/gallery"
)

//go:embed templates
var templatesFS embed.FS

// Renderer plugs the embedded template set into echo. Every template
// declares its own name ("pages/..." or "widgets/...") so pages and
// widgets can share file names without colliding.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/pages/*.html", "templates/widgets/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// PageData is the chrome shared by all full pages: title, resolved asset
// bundles, per-page script/style additions, and the signed-in actor when
// one exists.
type PageData struct {
	Title        string
	Assets       config.AssetManifest
	Styles       []string
	Scripts      []string
	AsyncScripts []string
	Actor        *gallery.Actor
	Theme        string
}

func NewPageData(cfg *config.Config, actor *gallery.Actor, pref gallery.Pref) PageData {
	return PageData{
		Assets: cfg.Assets,
		Actor:  actor,
		Theme:  pref.Theme,
	}
}
