package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "photo-gallery/pkg/errors"
)

const captchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Captcha validates reCAPTCHA responses against the siteverify endpoint.
type Captcha struct {
	verifyURL string
	secret    string
	http      *http.Client
}

func NewCaptcha(secret string, timeout time.Duration) *Captcha {
	return &Captcha{
		verifyURL: captchaVerifyURL,
		secret:    secret,
		http:      newHTTPClient(timeout),
	}
}

type captchaResponse struct {
	Success bool `json:"success"`
}

// Validate checks the widget response. A failed verification is
// client-correctable (InvalidCaptcha); anything else is transient.
func (c *Captcha) Validate(ctx context.Context, response string) error {
	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", response)

	req, err := newRequest(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set(headerContentType, "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.CaptchaResponse("Unable to validate captcha. Try again later.")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return apperrors.CaptchaResponse("Unable to validate captcha. Try again later.")
	}

	var result captchaResponse
	if err := decodeJSON(resp, &result, "Unable to validate captcha. Try again later."); err != nil {
		return err
	}
	if !result.Success {
		return apperrors.InvalidCaptcha("Invalid captcha.")
	}
	return nil
}
