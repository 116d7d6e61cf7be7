package gallery

import (
	"fmt"
	"net/url"
)

// ListAlbumsParams are the query parameters accepted by the album listing.
// Zero values mean "not supplied".
type ListAlbumsParams struct {
	Keyword string `query:"keyword"`
	Page    int    `query:"page"`
	PerPage int    `query:"per_page"`
}

// QueryString renders the parameters back into a query fragment for
// pagination links. Empty when nothing was supplied.
func (p ListAlbumsParams) QueryString() string {
	if p.Keyword == "" && p.Page == 0 && p.PerPage == 0 {
		return ""
	}
	page := p.Page
	if page == 0 {
		page = 1
	}
	perPage := p.PerPage
	if perPage == 0 {
		perPage = 10
	}
	return fmt.Sprintf("page=%d&per_page=%d&keyword=%s", page, perPage, url.QueryEscape(p.Keyword))
}

type ListPhotosParams struct {
	Page int `query:"page"`
}

// LoginForm is the login submission, including the captcha response field
// as posted by the widget.
type LoginForm struct {
	Username        string `form:"username"`
	Password        string `form:"password"`
	CaptchaResponse string `form:"g-recaptcha-response"`
}
