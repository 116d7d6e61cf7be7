package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"photo-gallery/internal/gallery"
	apperrors "photo-gallery/pkg/errors"
)

// Identity is the client for the upstream identity service. It exchanges
// credentials for bearer tokens and bearer tokens for Actors; it holds no
// state of its own.
type Identity struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewIdentity(baseURL string, timeout time.Duration, log zerolog.Logger) *Identity {
	return &Identity{
		baseURL: baseURL,
		http:    newHTTPClient(timeout),
		log:     log,
	}
}

type AuthPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  gallery.User `json:"user"`
}

// Authenticate performs the login exchange. 400 and 401 both surface as
// LoginFailed so the form cannot be used to probe for valid usernames.
func (c *Identity) Authenticate(ctx context.Context, payload AuthPayload) (*AuthResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Service("Unable to process login information. Try again later.")
	}

	req, err := newRequest(ctx, http.MethodPost, c.baseURL+"/v1/auth/token", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set(headerContentType, contentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Service("Unable to process login information. Try again later.")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var auth AuthResponse
		if err := decodeJSON(resp, &auth, "Unable to parse user information. Try again later."); err != nil {
			c.log.Error().Err(err).Msg("failed to decode auth response")
			return nil, err
		}
		return &auth, nil
	case http.StatusBadRequest, http.StatusUnauthorized:
		resp.Body.Close()
		return nil, apperrors.LoginFailed("Invalid username or password")
	default:
		resp.Body.Close()
		return nil, apperrors.Service("Unable to process login information. Try again later.")
	}
}

// Authz resolves a bearer credential into an Actor. An explicit 401 means
// the session is gone (LoginRequired); anything else unexpected is a
// transient service failure.
func (c *Identity) Authz(ctx context.Context, token string) (*gallery.Actor, error) {
	req, err := newRequest(ctx, http.MethodGet, c.baseURL+"/v1/user/authz", nil)
	if err != nil {
		return nil, err
	}
	setBearer(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Service("Unable to process auth information. Try again later.")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var actor gallery.Actor
		if err := decodeJSON(resp, &actor, "Unable to process auth information. Try again later."); err != nil {
			c.log.Error().Err(err).Msg("failed to decode actor")
			return nil, err
		}
		return &actor, nil
	case http.StatusUnauthorized:
		resp.Body.Close()
		return nil, apperrors.LoginRequired("Login to continue.")
	default:
		resp.Body.Close()
		return nil, apperrors.Service("Unable to process auth information. Try again later.")
	}
}
