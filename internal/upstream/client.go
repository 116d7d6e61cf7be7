package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "photo-gallery/pkg/errors"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerContentLength = "Content-Length"

	contentTypeJSON = "application/json"
	bearerPrefix    = "Bearer "
)

// ErrorResponse is the structured error body the storage service returns
// on handled failures.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, apperrors.Internal("Failed to build upstream request.")
	}
	return req, nil
}

func setBearer(req *http.Request, token string) {
	req.Header.Set(headerAuthorization, bearerPrefix+token)
}

func decodeJSON(resp *http.Response, dest any, parseMsg string) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return apperrors.JSONParse(parseMsg)
	}
	return nil
}

// parseResponseError extracts the message out of a 400 response: either the
// structured JSON body or a plain-text default http error.
func parseResponseError(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	contentType := resp.Header.Get(headerContentType)
	switch {
	case strings.HasPrefix(contentType, contentTypeJSON):
		var body ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", apperrors.Service("Unable to parse JSON service error response")
		}
		return body.Message, nil
	case strings.HasPrefix(contentType, "text/plain"):
		text, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", apperrors.Service("Unable to parse text service error response")
		}
		return string(text), nil
	default:
		return "", apperrors.Service("Unable to parse service error response")
	}
}

// validationOrBadRequest converts a 400 response into a ValidationError
// carrying the upstream message when structured, else a generic BadRequest.
func validationOrBadRequest(resp *http.Response) error {
	msg, err := parseResponseError(resp)
	if err != nil {
		return apperrors.BadRequest("Bad Request.")
	}
	return apperrors.Validation(msg)
}
