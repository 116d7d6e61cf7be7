package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"photo-gallery/internal/auth"
	"photo-gallery/internal/config"
	apperrors "photo-gallery/pkg/errors"
)

// ErrorInfo is the renderable form of a taxonomy error.
type ErrorInfo struct {
	StatusCode  int
	Title       string
	Message     string
	Description string
}

// NormalizeError maps every taxonomy kind to its status code, title and
// user-facing text. The mapping is the single place domain errors become
// HTTP; call sites never pick status codes themselves.
func NormalizeError(err error) ErrorInfo {
	msg := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return ErrorInfo{http.StatusBadRequest, "Validation Error", msg, msg}
	case errors.Is(err, apperrors.ErrBadRequest):
		return ErrorInfo{http.StatusBadRequest, "Bad Request", msg, msg}
	case errors.Is(err, apperrors.ErrForbidden):
		return ErrorInfo{http.StatusForbidden, "Forbidden", msg, msg}
	case errors.Is(err, apperrors.ErrLoginFailed):
		return ErrorInfo{http.StatusUnauthorized, "Unauthorized", msg, msg}
	case errors.Is(err, apperrors.ErrInvalidCaptcha):
		return ErrorInfo{http.StatusBadRequest, "Invalid Captcha", msg, msg}
	case errors.Is(err, apperrors.ErrCaptchaResponse):
		return ErrorInfo{http.StatusInternalServerError, "Captcha Error", msg, msg}
	case errors.Is(err, apperrors.ErrLoginRequired):
		return ErrorInfo{http.StatusUnauthorized, "Unauthorized", msg, msg}
	case errors.Is(err, apperrors.ErrAlbumNotFound):
		return ErrorInfo{http.StatusNotFound, "Not Found", "Album not found", "The album you are looking for does not exist"}
	case errors.Is(err, apperrors.ErrPhotoNotFound):
		return ErrorInfo{http.StatusNotFound, "Not Found", "Photo not found", "The photo you are looking for does not exist"}
	case errors.Is(err, apperrors.ErrNoAuthCookie):
		return ErrorInfo{http.StatusUnauthorized, "Unauthorized", "Login to continue", "You need to login to view this page"}
	case errors.Is(err, apperrors.ErrStaleToken):
		return ErrorInfo{
			http.StatusBadRequest,
			"Bad Request",
			"Stale form data. Refresh the page and try again",
			"The form data you are using is out of date. Refresh the page and try again.",
		}
	case errors.Is(err, apperrors.ErrJSONParse):
		return ErrorInfo{http.StatusInternalServerError, "Internal Server Error", msg, msg}
	case errors.Is(err, apperrors.ErrService):
		return ErrorInfo{http.StatusInternalServerError, "Internal Server Error", msg, msg}
	default:
		return ErrorInfo{http.StatusInternalServerError, "Internal Server Error", msg, msg}
	}
}

type errorPageData struct {
	T     PageData
	Error ErrorInfo
}

type errorWidgetData struct {
	Error ErrorInfo
}

type errorMessageData struct {
	Message string
}

// ErrorHandler renders normalized errors. It implements auth.ErrorRenderer
// so the middleware pipeline and handlers short-circuit through one place.
type ErrorHandler struct {
	cfg *config.Config
	log zerolog.Logger
}

func NewErrorHandler(cfg *config.Config, log zerolog.Logger) *ErrorHandler {
	return &ErrorHandler{cfg: cfg, log: log}
}

// RenderError renders a full error page on top-level navigations and a
// small inline fragment on partial updates. Authentication failures on
// full navigations redirect to the login page instead.
func (h *ErrorHandler) RenderError(c echo.Context, err error, fullPage bool) error {
	info := NormalizeError(err)

	if info.StatusCode >= http.StatusInternalServerError {
		h.log.Error().
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Int("status", info.StatusCode).
			Err(err).
			Msg("request failed")
	}

	if fullPage {
		if errors.Is(err, apperrors.ErrLoginRequired) || errors.Is(err, apperrors.ErrNoAuthCookie) {
			return c.Redirect(http.StatusFound, auth.LoginPath)
		}
		t := NewPageData(h.cfg, auth.GetActor(c), auth.GetPref(c))
		t.Title = info.Title
		return c.Render(info.StatusCode, "pages/error", errorPageData{T: t, Error: info})
	}

	return c.Render(info.StatusCode, "widgets/error", errorWidgetData{Error: info})
}

// RenderErrorMessage renders the bare message fragment used inside small
// form controls.
func (h *ErrorHandler) RenderErrorMessage(c echo.Context, err error) error {
	info := NormalizeError(err)
	return c.Render(info.StatusCode, "widgets/error_message", errorMessageData{Message: info.Message})
}

// NotFoundPage renders the full 404 page used by the route fallback.
func (h *ErrorHandler) NotFoundPage(c echo.Context) error {
	t := NewPageData(h.cfg, auth.GetActor(c), auth.GetPref(c))
	t.Title = "Not Found"
	return c.Render(http.StatusNotFound, "pages/error", errorPageData{
		T: t,
		Error: ErrorInfo{
			StatusCode:  http.StatusNotFound,
			Title:       "Not Found",
			Message:     "Page not found",
			Description: "The page you are looking for cannot be found.",
		},
	})
}

// HTTPErrorHandler adapts echo's internal errors (unmatched routes, bad
// form bodies) into the same rendering pipeline.
func (h *ErrorHandler) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code == http.StatusNotFound {
			if renderErr := h.NotFoundPage(c); renderErr != nil {
				h.log.Error().Err(renderErr).Msg("failed to render not found page")
			}
			return
		}
		if httpErr.Code < http.StatusInternalServerError {
			msg, _ := httpErr.Message.(string)
			if msg == "" {
				msg = http.StatusText(httpErr.Code)
			}
			err = apperrors.BadRequest(msg)
		}
	}

	if renderErr := h.RenderError(c, err, auth.IsFullPage(c)); renderErr != nil {
		h.log.Error().Err(renderErr).Msg("failed to render error")
	}
}
