package auth

const (
	ContextKeySession = "session"
	ContextKeyAlbum   = "album"
	ContextKeyPhoto   = "photo"
	ContextKeyPref    = "pref"

	// AuthTokenCookie holds the raw bearer credential for the upstream
	// services. HTTP-only; Secure when the server runs behind TLS.
	AuthTokenCookie = "auth_token"
	ThemeCookie     = "theme"

	// HXRequestHeader marks a partial-update request. Its absence means a
	// full page navigation.
	HXRequestHeader = "HX-Request"

	LoginPath = "/login"

	paramAlbumID = "album_id"
	paramPhotoID = "photo_id"
)

const (
	msgSessionRequired = "Login to continue."
	msgAlbumIDRequired = "album_id is required"
	msgPhotoIDRequired = "photo_id is required"
)
