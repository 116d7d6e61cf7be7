package errors

import (
	"errors"
)

// Domain errors - Sentinel errors for use with errors.Is(). The taxonomy is
// closed and flat: every failure the pipeline produces wraps exactly one of
// these kinds.
var (
	ErrInternal        = errors.New("internal error")
	ErrValidation      = errors.New("validation error")
	ErrBadRequest      = errors.New("bad request")
	ErrForbidden       = errors.New("forbidden")
	ErrLoginFailed     = errors.New("login failed")
	ErrInvalidCaptcha  = errors.New("invalid captcha")
	ErrCaptchaResponse = errors.New("captcha response error")
	ErrLoginRequired   = errors.New("login required")
	ErrAlbumNotFound   = errors.New("album not found")
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrNoAuthCookie    = errors.New("no auth cookie")
	ErrStaleToken      = errors.New("stale csrf token")
	ErrJSONParse       = errors.New("json parse error")
	ErrService         = errors.New("service error")
)

// AppError tags a user-facing message with one of the sentinel kinds.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func Internal(msg string) *AppError {
	return &AppError{Code: "INTERNAL", Message: msg, Err: ErrInternal}
}

func Validation(msg string) *AppError {
	return &AppError{Code: "VALIDATION", Message: msg, Err: ErrValidation}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: msg, Err: ErrBadRequest}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Err: ErrForbidden}
}

func LoginFailed(msg string) *AppError {
	return &AppError{Code: "LOGIN_FAILED", Message: msg, Err: ErrLoginFailed}
}

func InvalidCaptcha(msg string) *AppError {
	return &AppError{Code: "INVALID_CAPTCHA", Message: msg, Err: ErrInvalidCaptcha}
}

func CaptchaResponse(msg string) *AppError {
	return &AppError{Code: "CAPTCHA_RESPONSE", Message: msg, Err: ErrCaptchaResponse}
}

func LoginRequired(msg string) *AppError {
	return &AppError{Code: "LOGIN_REQUIRED", Message: msg, Err: ErrLoginRequired}
}

func AlbumNotFound() *AppError {
	return &AppError{Code: "ALBUM_NOT_FOUND", Message: "Album not found", Err: ErrAlbumNotFound}
}

func PhotoNotFound() *AppError {
	return &AppError{Code: "PHOTO_NOT_FOUND", Message: "Photo not found", Err: ErrPhotoNotFound}
}

func NoAuthCookie() *AppError {
	return &AppError{Code: "NO_AUTH_COOKIE", Message: "Login to continue", Err: ErrNoAuthCookie}
}

func StaleToken() *AppError {
	return &AppError{Code: "STALE_TOKEN", Message: "Stale form data. Refresh the page and try again", Err: ErrStaleToken}
}

func JSONParse(msg string) *AppError {
	return &AppError{Code: "JSON_PARSE", Message: msg, Err: ErrJSONParse}
}

func Service(msg string) *AppError {
	return &AppError{Code: "SERVICE", Message: msg, Err: ErrService}
}
